// Package endian decodes the big-endian scalar element types FITS data
// units are always written in (§4.5/§4.6 of the BITPIX and TFORM type
// tables), shared between the image reader and the binary-table field
// decoder so neither hand-rolls its own byte-order arithmetic.
package endian

import (
	"encoding/binary"
	"math"
)

func U8(b []byte) uint8 { return b[0] }

func I16(b []byte) int16 { return int16(binary.BigEndian.Uint16(b)) }

func I32(b []byte) int32 { return int32(binary.BigEndian.Uint32(b)) }

func I64(b []byte) int64 { return int64(binary.BigEndian.Uint64(b)) }

func F32(b []byte) float32 { return math.Float32frombits(binary.BigEndian.Uint32(b)) }

func F64(b []byte) float64 { return math.Float64frombits(binary.BigEndian.Uint64(b)) }

func PutI16(b []byte, v int16) { binary.BigEndian.PutUint16(b, uint16(v)) }

func PutI32(b []byte, v int32) { binary.BigEndian.PutUint32(b, uint32(v)) }

func PutI64(b []byte, v int64) { binary.BigEndian.PutUint64(b, uint64(v)) }

func PutF32(b []byte, v float32) { binary.BigEndian.PutUint32(b, math.Float32bits(v)) }

func PutF64(b []byte, v float64) { binary.BigEndian.PutUint64(b, math.Float64bits(v)) }
