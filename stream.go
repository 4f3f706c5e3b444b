package fits

import (
	"bytes"
	"io"
)

// HduStream drives the card/header/data pipeline across successive
// HDUs, one at a time: Next() assembles the next header, classifies it,
// and hands back a handle whose data the caller may read or skip before
// calling Next() again. This is the pull-based replacement for the
// teacher's Open, which eagerly read every HDU's data into memory
// before returning.
type HduStream struct {
	br        *blockReader
	seeker    io.ReadSeeker
	warnings  chan<- Warning
	started   bool
	current   *HduHandle
}

// Open begins streaming HDUs from r. If r also implements io.Seeker,
// random-access image reads and direct heap seeks for variable-length
// array columns are available; otherwise those features fall back to
// the documented buffer-wholesale strategy (see RowReader.ResolveVLA)
// or report UnsupportedFeatureError.
func Open(r io.Reader) *HduStream {
	s := &HduStream{br: newBlockReader(r)}
	if sk, ok := r.(io.ReadSeeker); ok {
		s.seeker = sk
	}
	return s
}

// SetWarnings registers a channel non-fatal conditions are reported on.
// It must be called before the first call to Next.
func (s *HduStream) SetWarnings(ch chan<- Warning) { s.warnings = ch }

// Next advances to the next HDU, first skipping any data the caller of
// the previous handle left unread. It returns io.EOF once the source is
// exhausted at a clean block boundary.
func (s *HduStream) Next() (*HduHandle, error) {
	if s.current != nil {
		remaining := s.current.dataStart + s.current.paddedDataLen - s.br.offset
		if err := s.br.skip(remaining); err != nil {
			return nil, err
		}
	}
	isPrimary := !s.started
	s.started = true

	header, err := readHeader(s.br, s.warnings)
	if err != nil {
		if err == io.EOF && s.current != nil {
			return nil, io.EOF
		}
		return nil, err
	}
	kind, desc, err := classify(header, isPrimary)
	if err != nil {
		return nil, err
	}

	h := &HduHandle{
		stream:    s,
		Header:    header,
		kind:      kind,
		desc:      desc,
		dataStart: s.br.offset,
	}
	h.paddedDataLen = h.paddedDataBytes()
	s.current = h
	return h, nil
}

// HduHandle is one HDU's header plus a typed view onto its (not yet
// necessarily read) data unit.
type HduHandle struct {
	stream        *HduStream
	Header        *Header
	kind          HduKind
	desc          interface{}
	dataStart     int64
	paddedDataLen int64
}

func (h *HduHandle) Kind() HduKind { return h.kind }

// Image returns the HDU's image descriptor, if this is a Primary or
// IMAGE-extension HDU.
func (h *HduHandle) Image() (*ImageDescriptor, bool) {
	d, ok := h.desc.(*ImageDescriptor)
	return d, ok
}

// BinTable returns the HDU's binary-table descriptor, if this is a
// BINTABLE HDU.
func (h *HduHandle) BinTable() (*BinTableDescriptor, bool) {
	d, ok := h.desc.(*BinTableDescriptor)
	return d, ok
}

// AsciiTable returns the HDU's ASCII-table descriptor, if this is a
// TABLE HDU.
func (h *HduHandle) AsciiTable() (*AsciiTableDescriptor, bool) {
	d, ok := h.desc.(*AsciiTableDescriptor)
	return d, ok
}

// IsTileCompressed reports whether this BINTABLE carries the tiled-
// image compression convention (ZIMAGE=T).
func (h *HduHandle) IsTileCompressed() bool {
	_, ok := h.BinTable()
	return ok && h.Header.Bool("ZIMAGE", false)
}

func (h *HduHandle) paddedDataBytes() int64 {
	switch d := h.desc.(type) {
	case *ImageDescriptor:
		return d.PaddedDataBytes()
	case *BinTableDescriptor:
		return d.PaddedDataBytes()
	case *AsciiTableDescriptor:
		return d.PaddedDataBytes()
	default:
		return 0
	}
}

// ImageData returns a pull-based reader over this HDU's image data.
func (h *HduHandle) ImageData() (*ImageData, error) {
	desc, ok := h.Image()
	if !ok {
		return nil, &UnsupportedFeatureError{Feature: "ImageData on a non-image HDU"}
	}
	return newImageData(desc, h.stream.br, h.stream.seeker, h.dataStart), nil
}

// Rows returns a pull-based reader over this HDU's binary-table rows.
// On a non-seekable source the whole data unit (row table and heap) is
// buffered up front so that VLA columns can still be resolved; on a
// seekable source only rows are read sequentially and the heap is
// seeked into on demand.
func (h *HduHandle) Rows() (*RowReader, error) {
	desc, ok := h.BinTable()
	if !ok {
		return nil, &UnsupportedFeatureError{Feature: "Rows on a non-binary-table HDU"}
	}
	if h.stream.seeker != nil {
		return newRowReader(desc, h.stream.br, h.stream.seeker, h.dataStart, nil), nil
	}
	buf := make([]byte, desc.DataBytes())
	if _, err := io.ReadFull(h.stream.br, buf); err != nil {
		return nil, &IoError{Offset: h.dataStart, Err: err}
	}
	rowsLen := desc.Naxis1 * desc.Naxis2
	heapStart := desc.HeapStart()
	if heapStart > int64(len(buf)) {
		heapStart = int64(len(buf))
	}
	return newRowReader(desc, bytes.NewReader(buf[:rowsLen]), nil, h.dataStart, buf[heapStart:]), nil
}

// TileImage returns a pull-based reader over a tile-compressed BINTABLE's
// decoded tiles.
func (h *HduHandle) TileImage() (*TileImage, error) {
	bt, ok := h.BinTable()
	if !ok || !h.IsTileCompressed() {
		return nil, &UnsupportedFeatureError{Feature: "TileImage on a non-tile-compressed HDU"}
	}
	td, err := classifyTileCompressed(h.Header, bt)
	if err != nil {
		return nil, err
	}
	rr, err := h.Rows()
	if err != nil {
		return nil, err
	}
	return newTileImage(td, rr), nil
}

// AsciiRows returns a pull-based reader over this HDU's ASCII-table rows.
func (h *HduHandle) AsciiRows() (*AsciiRowReader, error) {
	desc, ok := h.AsciiTable()
	if !ok {
		return nil, &UnsupportedFeatureError{Feature: "AsciiRows on a non-ASCII-table HDU"}
	}
	return newAsciiRowReader(desc, h.stream.br, h.dataStart), nil
}
