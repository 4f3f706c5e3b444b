package fits

import (
	"io"
	"strings"

	"github.com/aperturefits/gofits/internal/endian"
)

// VLADescriptor is an unresolved P/Q variable-length-array pointer: a
// count of heap elements and their byte offset from the heap's start.
// ResolveVLA turns this into decoded Samples.
type VLADescriptor struct {
	Count    int64
	Offset   int64
	HeapCode byte
}

// FieldValue is one decoded binary-table cell. Exactly one of Samples,
// Bits, Str, Complex, or VLA is populated, selected by the owning
// FieldDescriptor's TypeCode.
type FieldValue struct {
	Field   *FieldDescriptor
	Samples []Sample
	Bits    []bool    // 'L' logical array or 'X' bit array
	Str     string    // 'A'
	Complex [][2]float64 // 'C' (widened from float32) or 'M'
	VLA     *VLADescriptor
}

// codeElementType maps a binary-table TFORM type code (fixed field or
// P/Q heap payload code) to its decoded element type and byte width.
func codeElementType(code byte) (ElementType, int64, error) {
	switch code {
	case 'B':
		return ElemU8, 1, nil
	case 'I':
		return ElemI16, 2, nil
	case 'J':
		return ElemI32, 4, nil
	case 'K':
		return ElemI64, 8, nil
	case 'E':
		return ElemF32, 4, nil
	case 'D':
		return ElemF64, 8, nil
	default:
		return 0, 0, &UnsupportedFeatureError{Feature: "binary table element type code " + string(code)}
	}
}

func fieldByteWidth(fd *FieldDescriptor) int64 {
	switch fd.TypeCode {
	case 'L', 'A', 'B':
		return fd.Repeat
	case 'X':
		return (fd.Repeat + 7) / 8
	case 'I':
		return fd.Repeat * 2
	case 'J', 'E':
		return fd.Repeat * 4
	case 'K', 'D':
		return fd.Repeat * 8
	case 'C':
		return fd.Repeat * 8
	case 'M':
		return fd.Repeat * 16
	case 'P':
		return fd.Repeat * 8
	case 'Q':
		return fd.Repeat * 16
	default:
		return 0
	}
}

// RowReader pulls one binary-table row at a time from the data unit,
// decoding each column per its FieldDescriptor. It mirrors the teacher's
// accessorBin/loadTable closures, generalized to stream rows instead of
// buffering the whole NAXIS1*NAXIS2-byte block up front.
type RowReader struct {
	desc     *BinTableDescriptor
	r        io.Reader
	seeker   io.ReadSeeker
	base     int64 // absolute offset of the data unit's first byte
	rowIdx   int64
	rowBuf   []byte
	heapBuf  []byte // non-nil when the heap was buffered wholesale (non-seekable source)
}

func newRowReader(desc *BinTableDescriptor, r io.Reader, seeker io.ReadSeeker, base int64, heapBuf []byte) *RowReader {
	return &RowReader{
		desc:    desc,
		r:       r,
		seeker:  seeker,
		base:    base,
		rowBuf:  make([]byte, desc.Naxis1),
		heapBuf: heapBuf,
	}
}

// Next decodes the next row, or returns io.EOF once NAXIS2 rows have
// been read.
func (rr *RowReader) Next() ([]FieldValue, error) {
	if rr.rowIdx >= rr.desc.Naxis2 {
		return nil, io.EOF
	}
	if _, err := io.ReadFull(rr.r, rr.rowBuf); err != nil {
		return nil, &IoError{Offset: rr.base + rr.rowIdx*rr.desc.Naxis1, Err: err}
	}
	row, err := decodeRow(rr.desc.Fields, rr.rowBuf)
	if err != nil {
		return nil, err
	}
	rr.rowIdx++
	return row, nil
}

func decodeRow(fields []FieldDescriptor, row []byte) ([]FieldValue, error) {
	out := make([]FieldValue, len(fields))
	pos := int64(0)
	for i := range fields {
		fd := &fields[i]
		w := fieldByteWidth(fd)
		if pos+w > int64(len(row)) {
			return nil, &MalformedCardError{Reason: "binary table row shorter than TFORM layout implies"}
		}
		cell := row[pos : pos+w]
		fv, err := decodeField(fd, cell)
		if err != nil {
			return nil, err
		}
		out[i] = fv
		pos += w
	}
	return out, nil
}

func decodeField(fd *FieldDescriptor, cell []byte) (FieldValue, error) {
	fv := FieldValue{Field: fd}
	switch fd.TypeCode {
	case 'L':
		fv.Bits = make([]bool, fd.Repeat)
		for i := int64(0); i < fd.Repeat; i++ {
			fv.Bits[i] = cell[i] == 'T'
		}
	case 'X':
		fv.Bits = make([]bool, fd.Repeat)
		for i := int64(0); i < fd.Repeat; i++ {
			byteIdx := i / 8
			bit := 7 - uint(i%8)
			fv.Bits[i] = (cell[byteIdx]>>bit)&1 == 1
		}
	case 'A':
		fv.Str = strings.TrimRight(string(cell), " ")
	case 'B', 'I', 'J', 'K', 'E', 'D':
		elem, size, err := codeElementType(fd.TypeCode)
		if err != nil {
			return fv, err
		}
		fv.Samples = make([]Sample, fd.Repeat)
		for i := int64(0); i < fd.Repeat; i++ {
			fv.Samples[i] = decodeSample(cell[i*size:i*size+size], elem)
		}
	case 'C':
		fv.Complex = make([][2]float64, fd.Repeat)
		for i := int64(0); i < fd.Repeat; i++ {
			re := endian.F32(cell[i*8 : i*8+4])
			im := endian.F32(cell[i*8+4 : i*8+8])
			fv.Complex[i] = [2]float64{float64(re), float64(im)}
		}
	case 'M':
		fv.Complex = make([][2]float64, fd.Repeat)
		for i := int64(0); i < fd.Repeat; i++ {
			re := endian.F64(cell[i*16 : i*16+8])
			im := endian.F64(cell[i*16+8 : i*16+16])
			fv.Complex[i] = [2]float64{re, im}
		}
	case 'P', 'Q':
		if fd.Repeat != 1 {
			return fv, &UnsupportedFeatureError{Feature: "array of VLA descriptors in one cell"}
		}
		var count, offset int64
		if fd.VLAWide {
			count = endian.I64(cell[0:8])
			offset = endian.I64(cell[8:16])
		} else {
			count = int64(endian.I32(cell[0:4]))
			offset = int64(endian.I32(cell[4:8]))
		}
		fv.VLA = &VLADescriptor{Count: count, Offset: offset, HeapCode: fd.HeapCode}
	default:
		return fv, &UnsupportedFeatureError{Feature: "binary table TFORM code " + string(fd.TypeCode)}
	}
	return fv, nil
}

// ResolveVLA reads and decodes the heap payload a VLA descriptor points
// to. When the data source is seekable, it seeks directly to the heap
// offset; otherwise it reads from the wholesale-buffered heap captured
// at HDU open (spec.md §4.6/§4.9's documented memory tradeoff for
// non-seekable sources).
func (rr *RowReader) ResolveVLA(fv FieldValue) ([]Sample, error) {
	if fv.VLA == nil {
		return nil, &OutOfRangeError{Reason: "field has no VLA descriptor"}
	}
	elem, size, err := codeElementType(fv.VLA.HeapCode)
	if err != nil {
		return nil, err
	}
	need := fv.VLA.Count * size
	heapStart := rr.desc.HeapStart()

	var data []byte
	if rr.heapBuf != nil {
		// rr.heapBuf is already sliced to start at the heap (see
		// stream.go's Rows()), so the descriptor's offset applies
		// directly without adding heapStart again.
		start := fv.VLA.Offset
		if start < 0 || start+need > int64(len(rr.heapBuf)) {
			return nil, &OutOfRangeError{Reason: "VLA descriptor points outside buffered heap"}
		}
		data = rr.heapBuf[start : start+need]
	} else if rr.seeker != nil {
		if fv.VLA.Offset < 0 || heapStart+fv.VLA.Offset+need > rr.desc.DataBytes() {
			return nil, &OutOfRangeError{Reason: "VLA descriptor points outside the heap"}
		}
		off := rr.base + heapStart + fv.VLA.Offset
		// Restore the source position afterwards so the next row read
		// continues from the row table.
		resume, err := rr.seeker.Seek(0, io.SeekCurrent)
		if err != nil {
			return nil, &IoError{Offset: off, Err: err}
		}
		if _, err := rr.seeker.Seek(off, io.SeekStart); err != nil {
			return nil, &IoError{Offset: off, Err: err}
		}
		data = make([]byte, need)
		if _, err := io.ReadFull(rr.seeker, data); err != nil {
			return nil, &IoError{Offset: off, Err: err}
		}
		if _, err := rr.seeker.Seek(resume, io.SeekStart); err != nil {
			return nil, &IoError{Offset: resume, Err: err}
		}
	} else {
		return nil, &UnsupportedFeatureError{Feature: "VLA resolution on a non-seekable, non-buffered source"}
	}

	out := make([]Sample, fv.VLA.Count)
	for i := int64(0); i < fv.VLA.Count; i++ {
		out[i] = decodeSample(data[i*size:i*size+size], elem)
	}
	return out, nil
}
