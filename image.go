package fits

import (
	"io"

	"github.com/aperturefits/gofits/internal/endian"
)

// Sample is one decoded pixel or field value. Exactly one of its typed
// fields is meaningful, selected by Type; this tagged-union shape avoids
// boxing every value in an interface{} the way a generic decoder would,
// since the concrete type is only known at runtime from BITPIX/TFORM.
type Sample struct {
	Type ElementType
	U8   uint8
	I16  int16
	I32  int32
	I64  int64
	F32  float32
	F64  float64
}

// Float64 widens whatever field Type selects to a float64, so callers
// applying BSCALE/BZERO don't need their own six-way switch.
func (s Sample) Float64() float64 {
	switch s.Type {
	case ElemU8:
		return float64(s.U8)
	case ElemI16:
		return float64(s.I16)
	case ElemI32:
		return float64(s.I32)
	case ElemI64:
		return float64(s.I64)
	case ElemF32:
		return float64(s.F32)
	case ElemF64:
		return s.F64
	default:
		return 0
	}
}

// Int64 widens an integer-typed sample to int64, for BLANK comparison.
// It returns (0, false) for a floating-point sample.
func (s Sample) Int64() (int64, bool) {
	switch s.Type {
	case ElemU8:
		return int64(s.U8), true
	case ElemI16:
		return int64(s.I16), true
	case ElemI32:
		return int64(s.I32), true
	case ElemI64:
		return s.I64, true
	default:
		return 0, false
	}
}

func decodeSample(b []byte, t ElementType) Sample {
	switch t {
	case ElemU8:
		return Sample{Type: t, U8: endian.U8(b)}
	case ElemI16:
		return Sample{Type: t, I16: endian.I16(b)}
	case ElemI32:
		return Sample{Type: t, I32: endian.I32(b)}
	case ElemI64:
		return Sample{Type: t, I64: endian.I64(b)}
	case ElemF32:
		return Sample{Type: t, F32: endian.F32(b)}
	case ElemF64:
		return Sample{Type: t, F64: endian.F64(b)}
	default:
		return Sample{}
	}
}

// ImageData is a pull-based view over a Primary or IMAGE-extension data
// unit: Next() advances sequentially and consumes only what the caller
// asks for, while At(k) does a one-off random-access read when the
// underlying source is seekable. Neither materializes the whole image.
type ImageData struct {
	desc     *ImageDescriptor
	r        io.Reader
	seeker   io.ReadSeeker
	base     int64 // absolute byte offset of the data unit's first element
	elemSize int64
	total    int64 // total element count (desc.ElementCount() * Gcount)
	pos      int64
	scratch  [8]byte
}

func newImageData(desc *ImageDescriptor, r io.Reader, seeker io.ReadSeeker, base int64) *ImageData {
	gcount := desc.Gcount
	if gcount == 0 {
		gcount = 1
	}
	return &ImageData{
		desc:     desc,
		r:        r,
		seeker:   seeker,
		base:     base,
		elemSize: desc.ElemType.byteSize(),
		total:    desc.ElementCount() * gcount,
	}
}

// Len returns the total number of samples in the image.
func (im *ImageData) Len() int64 { return im.total }

// Next returns the next sample in row-major (NAXIS1-fastest) order,
// or io.EOF once every sample has been read.
func (im *ImageData) Next() (Sample, error) {
	if im.pos >= im.total {
		return Sample{}, io.EOF
	}
	buf := im.scratch[:im.elemSize]
	if _, err := io.ReadFull(im.r, buf); err != nil {
		return Sample{}, &IoError{Offset: im.base + im.pos*im.elemSize, Err: err}
	}
	s := decodeSample(buf, im.desc.ElemType)
	im.pos++
	return s, nil
}

// At performs a random-access read of sample index k, requiring the
// underlying source to be seekable.
func (im *ImageData) At(k int64) (Sample, error) {
	if im.seeker == nil {
		return Sample{}, &UnsupportedFeatureError{Feature: "random access on a non-seekable source"}
	}
	if k < 0 || k >= im.total {
		return Sample{}, &OutOfRangeError{Reason: "image sample index out of range"}
	}
	off := im.base + k*im.elemSize
	// Remember the source position so sequential reads resume where
	// they left off after this one-off read.
	resume, err := im.seeker.Seek(0, io.SeekCurrent)
	if err != nil {
		return Sample{}, &IoError{Offset: off, Err: err}
	}
	if _, err := im.seeker.Seek(off, io.SeekStart); err != nil {
		return Sample{}, &IoError{Offset: off, Err: err}
	}
	buf := im.scratch[:im.elemSize]
	if _, err := io.ReadFull(im.seeker, buf); err != nil {
		return Sample{}, &IoError{Offset: off, Err: err}
	}
	s := decodeSample(buf, im.desc.ElemType)
	if _, err := im.seeker.Seek(resume, io.SeekStart); err != nil {
		return Sample{}, &IoError{Offset: resume, Err: err}
	}
	return s, nil
}
