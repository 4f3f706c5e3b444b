package fits

import "io"

// AsciiRowReader pulls one ASCII-table row at a time, exposing only raw
// bytes — no TFORM-driven numeric/string interpretation, per the
// explicit Non-goal that ASCII-table field values are the caller's
// concern. Next returns the full row; FieldBytes slices out one
// column's raw columns using TBCOL/width, still uninterpreted.
type AsciiRowReader struct {
	desc   *AsciiTableDescriptor
	r      io.Reader
	base   int64
	rowIdx int64
	rowBuf []byte
}

func newAsciiRowReader(desc *AsciiTableDescriptor, r io.Reader, base int64) *AsciiRowReader {
	return &AsciiRowReader{desc: desc, r: r, base: base, rowBuf: make([]byte, desc.Naxis1)}
}

// Next returns the next row's raw NAXIS1 bytes, or io.EOF after NAXIS2
// rows. The returned slice is reused by the next call to Next.
func (rr *AsciiRowReader) Next() ([]byte, error) {
	if rr.rowIdx >= rr.desc.Naxis2 {
		return nil, io.EOF
	}
	if _, err := io.ReadFull(rr.r, rr.rowBuf); err != nil {
		return nil, &IoError{Offset: rr.base + rr.rowIdx*rr.desc.Naxis1, Err: err}
	}
	rr.rowIdx++
	return rr.rowBuf, nil
}

// FieldBytes slices out field i's raw bytes (1-based TBCOL) from a row
// returned by Next.
func FieldBytes(desc *AsciiTableDescriptor, row []byte, i int) ([]byte, error) {
	if i < 1 || i > len(desc.Fields) {
		return nil, &OutOfRangeError{Reason: "ascii table field index out of range"}
	}
	fd := desc.Fields[i-1]
	start := fd.Tbcol - 1
	end := start + fd.Width
	if start < 0 || end > int64(len(row)) {
		return nil, &OutOfRangeError{Reason: "TBCOL/width out of row bounds"}
	}
	return row[start:end], nil
}
