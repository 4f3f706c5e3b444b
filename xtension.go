package fits

import (
	"strconv"
	"strings"
)

// HduKind identifies which of the four HDU shapes a header describes.
type HduKind int

const (
	HduPrimary HduKind = iota
	HduImageExtension
	HduAsciiTable
	HduBinTable
)

func (k HduKind) String() string {
	switch k {
	case HduPrimary:
		return "PRIMARY"
	case HduImageExtension:
		return "IMAGE"
	case HduAsciiTable:
		return "TABLE"
	case HduBinTable:
		return "BINTABLE"
	default:
		return "UNKNOWN"
	}
}

// ElementType tags the concrete Go type a BITPIX/TFORM code decodes to.
type ElementType int

const (
	ElemU8 ElementType = iota
	ElemI16
	ElemI32
	ElemI64
	ElemF32
	ElemF64
)

func (t ElementType) byteSize() int64 {
	switch t {
	case ElemU8:
		return 1
	case ElemI16:
		return 2
	case ElemI32, ElemF32:
		return 4
	case ElemI64, ElemF64:
		return 8
	default:
		return 0
	}
}

// bitpixElementType maps a BITPIX value to its element type, per the six
// codes the standard defines: 8, 16, 32, 64, -32, -64.
func bitpixElementType(bitpix int64) (ElementType, error) {
	switch bitpix {
	case 8:
		return ElemU8, nil
	case 16:
		return ElemI16, nil
	case 32:
		return ElemI32, nil
	case 64:
		return ElemI64, nil
	case -32:
		return ElemF32, nil
	case -64:
		return ElemF64, nil
	default:
		return 0, &MalformedHeaderError{Reason: "unsupported BITPIX value " + strconv.FormatInt(bitpix, 10)}
	}
}

// ImageDescriptor is the typed mandatory-card view of a Primary HDU or an
// IMAGE extension: BITPIX, the NAXISn run, and the scale/blank keywords
// the caller needs to turn raw samples into physical values.
type ImageDescriptor struct {
	Kind     HduKind
	Bitpix   int64
	ElemType ElementType
	Naxis    []int64 // Naxis[0] == NAXIS1 (fastest-varying axis)
	Pcount   int64
	Gcount   int64
	Bscale   float64
	Bzero    float64
	HasBlank bool
	Blank    int64

	// ImageDescriptor carries no tile-compression fields: ZIMAGE/Zn
	// keywords belong to a BINTABLE header, and tile.go reads them into a
	// TileCompressedDescriptor instead.
}

// ElementCount returns the number of pixels described by Naxis, or 0 if
// NAXIS is 0 (a header with no data unit).
func (d *ImageDescriptor) ElementCount() int64 {
	if len(d.Naxis) == 0 {
		return 0
	}
	n := int64(1)
	for _, a := range d.Naxis {
		n *= a
	}
	return n
}

// DataBytes returns the exact, unpadded data-unit length in bytes, per
// the standard formula nbytes = |BITPIX|/8 * GCOUNT * (PCOUNT + product(NAXISn)).
func (d *ImageDescriptor) DataBytes() int64 {
	if len(d.Naxis) == 0 {
		return 0
	}
	gcount := d.Gcount
	if gcount == 0 {
		gcount = 1
	}
	return d.ElemType.byteSize() * gcount * (d.Pcount + d.ElementCount())
}

// PaddedDataBytes rounds DataBytes up to the next block boundary.
func (d *ImageDescriptor) PaddedDataBytes() int64 {
	return padToBlock(d.DataBytes())
}

// IsBlank reports whether an integer-typed sample equals the BLANK
// sentinel; floating-point images signal invalid samples with NaN
// instead and IsBlank always returns false for them.
func (d *ImageDescriptor) IsBlank(raw int64) bool {
	return d.HasBlank && raw == d.Blank
}

func padToBlock(n int64) int64 {
	if n%blockSize == 0 {
		return n
	}
	return n + (blockSize - n%blockSize)
}

// FieldDescriptor is one TFORMn-described column of a binary table.
type FieldDescriptor struct {
	Index    int // 1-based column number
	Name     string
	Tform    string
	Repeat   int64
	TypeCode byte // one of LXBIJKAEDCMPQ
	IsVLA    bool
	VLAWide  bool // 'Q' (64-bit descriptor) vs 'P' (32-bit)
	HeapCode byte // element type code of the VLA's heap payload
	Tscal    float64
	Tzero    float64
	HasNull  bool
	Tnull    int64
}

// BinTableDescriptor is the typed mandatory-card view of a BINTABLE HDU.
type BinTableDescriptor struct {
	Naxis1 int64 // bytes per row
	Naxis2 int64 // number of rows
	Pcount int64 // heap size in bytes
	Gcount int64
	Theap  int64 // byte offset of the heap from the start of the data unit
	Fields []FieldDescriptor
}

func (d *BinTableDescriptor) DataBytes() int64 {
	gcount := d.Gcount
	if gcount == 0 {
		gcount = 1
	}
	return gcount * (d.Naxis1*d.Naxis2 + d.Pcount)
}

func (d *BinTableDescriptor) PaddedDataBytes() int64 { return padToBlock(d.DataBytes()) }

// HeapStart returns THEAP if present and non-zero, else the standard
// default of NAXIS1*NAXIS2 (the heap immediately follows the row table).
func (d *BinTableDescriptor) HeapStart() int64 {
	if d.Theap != 0 {
		return d.Theap
	}
	return d.Naxis1 * d.Naxis2
}

// AsciiFieldDescriptor is one TFORMn/TBCOLn-described column of an ASCII
// table; no value interpretation is performed (raw bytes only).
type AsciiFieldDescriptor struct {
	Index int
	Name  string
	Tbcol int64 // 1-based starting column
	Tform string
	Width int64
}

// AsciiTableDescriptor is the typed mandatory-card view of a TABLE HDU.
type AsciiTableDescriptor struct {
	Naxis1 int64
	Naxis2 int64
	Fields []AsciiFieldDescriptor
}

func (d *AsciiTableDescriptor) DataBytes() int64       { return d.Naxis1 * d.Naxis2 }
func (d *AsciiTableDescriptor) PaddedDataBytes() int64 { return padToBlock(d.DataBytes()) }

// classify inspects a fully assembled header and builds the typed
// descriptor for its HDU kind, enforcing mandatory-card presence and
// ordering. isPrimary distinguishes the first HDU (SIMPLE) from every
// later one (XTENSION).
func classify(h *Header, isPrimary bool) (HduKind, interface{}, error) {
	if isPrimary {
		if err := h.requireOrder([]string{"SIMPLE", "BITPIX", "NAXIS"}); err != nil {
			return 0, nil, err
		}
		desc, err := classifyImage(h, HduPrimary)
		return HduPrimary, desc, err
	}

	xt, ok := h.Get("XTENSION")
	if !ok || xt.ValueKind != ValueString {
		return 0, nil, &MalformedHeaderError{Reason: "extension header missing XTENSION"}
	}
	switch strings.TrimSpace(xt.Str) {
	case "IMAGE":
		if err := h.requireOrder([]string{"XTENSION", "BITPIX", "NAXIS"}); err != nil {
			return 0, nil, err
		}
		desc, err := classifyImage(h, HduImageExtension)
		return HduImageExtension, desc, err
	case "TABLE":
		if err := h.requireOrder([]string{"XTENSION", "BITPIX", "NAXIS", "TFIELDS"}); err != nil {
			return 0, nil, err
		}
		desc, err := classifyAsciiTable(h)
		return HduAsciiTable, desc, err
	case "BINTABLE":
		if err := h.requireOrder([]string{"XTENSION", "BITPIX", "NAXIS", "TFIELDS"}); err != nil {
			return 0, nil, err
		}
		desc, err := classifyBinTable(h)
		return HduBinTable, desc, err
	default:
		return 0, nil, &UnsupportedFeatureError{Feature: "XTENSION kind " + xt.Str}
	}
}

func classifyImage(h *Header, kind HduKind) (*ImageDescriptor, error) {
	bitpix := h.Int("BITPIX", 0)
	elem, err := bitpixElementType(bitpix)
	if err != nil {
		return nil, err
	}
	naxis := h.Int("NAXIS", 0)
	if naxis < 0 {
		return nil, &MalformedHeaderError{Reason: "negative NAXIS"}
	}
	axes := make([]int64, naxis)
	for i := int64(1); i <= naxis; i++ {
		kw := "NAXIS" + strconv.FormatInt(i, 10)
		c, ok := h.Get(kw)
		if !ok || c.ValueKind != ValueInteger || c.Int < 0 {
			return nil, &MalformedHeaderError{Reason: "missing or invalid " + kw}
		}
		axes[i-1] = c.Int
	}
	d := &ImageDescriptor{
		Kind:     kind,
		Bitpix:   bitpix,
		ElemType: elem,
		Naxis:    axes,
		Pcount:   h.Int("PCOUNT", 0),
		Gcount:   h.Int("GCOUNT", 1),
		Bscale:   h.Float("BSCALE", 1.0),
		Bzero:    h.Float("BZERO", 0.0),
	}
	if c, ok := h.Get("BLANK"); ok && c.ValueKind == ValueInteger {
		d.HasBlank = true
		d.Blank = c.Int
	}
	return d, nil
}

func classifyBinTable(h *Header) (*BinTableDescriptor, error) {
	d := &BinTableDescriptor{
		Naxis1: h.Int("NAXIS1", 0),
		Naxis2: h.Int("NAXIS2", 0),
		Pcount: h.Int("PCOUNT", 0),
		Gcount: h.Int("GCOUNT", 1),
		Theap:  h.Int("THEAP", 0),
	}
	tfields := h.Int("TFIELDS", 0)
	d.Fields = make([]FieldDescriptor, 0, tfields)
	for i := int64(1); i <= tfields; i++ {
		idx := strconv.FormatInt(i, 10)
		tform := h.Str("TFORM" + idx)
		if tform == "" {
			return nil, &MalformedHeaderError{Reason: "missing TFORM" + idx}
		}
		fd, err := parseBinTform(tform)
		if err != nil {
			return nil, err
		}
		fd.Index = int(i)
		fd.Name = h.Str("TTYPE" + idx)
		fd.Tscal = h.Float("TSCAL"+idx, 1.0)
		fd.Tzero = h.Float("TZERO"+idx, 0.0)
		if c, ok := h.Get("TNULL" + idx); ok && c.ValueKind == ValueInteger {
			fd.HasNull = true
			fd.Tnull = c.Int
		}
		d.Fields = append(d.Fields, *fd)
	}
	return d, nil
}

// parseBinTform parses an rTTa-shaped binary-table TFORM: an optional
// repeat count r, a one-letter type code, and (for 'A' strings and
// 'P'/'Q' variable-length descriptors) an optional trailing payload type.
func parseBinTform(tform string) (*FieldDescriptor, error) {
	tform = strings.TrimSpace(tform)
	i := 0
	for i < len(tform) && tform[i] >= '0' && tform[i] <= '9' {
		i++
	}
	repeat := int64(1)
	if i > 0 {
		n, err := strconv.ParseInt(tform[:i], 10, 64)
		if err != nil {
			return nil, &MalformedHeaderError{Reason: "invalid TFORM repeat count in " + tform}
		}
		repeat = n
	}
	if i >= len(tform) {
		return nil, &MalformedHeaderError{Reason: "missing TFORM type code in " + tform}
	}
	code := tform[i]
	fd := &FieldDescriptor{Tform: tform, Repeat: repeat, TypeCode: code}
	switch code {
	case 'L', 'X', 'B', 'I', 'J', 'K', 'A', 'E', 'D', 'C', 'M':
		return fd, nil
	case 'P', 'Q':
		fd.IsVLA = true
		fd.VLAWide = code == 'Q'
		if i+1 < len(tform) {
			fd.HeapCode = tform[i+1]
		}
		return fd, nil
	default:
		return nil, &UnsupportedFeatureError{Feature: "TFORM type code " + string(code)}
	}
}

func classifyAsciiTable(h *Header) (*AsciiTableDescriptor, error) {
	d := &AsciiTableDescriptor{
		Naxis1: h.Int("NAXIS1", 0),
		Naxis2: h.Int("NAXIS2", 0),
	}
	tfields := h.Int("TFIELDS", 0)
	d.Fields = make([]AsciiFieldDescriptor, 0, tfields)
	for i := int64(1); i <= tfields; i++ {
		idx := strconv.FormatInt(i, 10)
		tbcol := h.Int("TBCOL"+idx, 0)
		tform := h.Str("TFORM" + idx)
		width := asciiFieldWidth(tform)
		d.Fields = append(d.Fields, AsciiFieldDescriptor{
			Index: int(i),
			Name:  h.Str("TTYPE" + idx),
			Tbcol: tbcol,
			Tform: tform,
			Width: width,
		})
	}
	return d, nil
}

// asciiFieldWidth extracts the field width w from an Aw/Iw/Fw.d/Ew.d/Dw.d
// ASCII-table TFORM code, for byte-slicing a row; no numeric parsing of
// the cell contents is performed (spec Non-goal).
func asciiFieldWidth(tform string) int64 {
	tform = strings.TrimSpace(tform)
	if tform == "" {
		return 0
	}
	i := 1
	for i < len(tform) && tform[i] != '.' {
		i++
	}
	w, err := strconv.ParseInt(tform[1:i], 10, 64)
	if err != nil {
		return 0
	}
	return w
}
