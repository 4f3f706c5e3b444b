package fits

import (
	"math/bits"

	"github.com/aperturefits/gofits/internal/bitio"
)

// riceFSBits computes the width of the Rice block's k field: ceil(log2(8
// * bytepix)), i.e. 3/4/5 bits for bytepix 1/2/4.
func riceFSBits(bytepix int) int {
	return bits.Len(uint(8*bytepix - 1))
}

// riceDecode reconstructs count integer pixel values from a RICE_1
// (Golomb-Rice) compressed tile payload. bytepix is the pixel width in
// bytes (ZVAL2, default 4) and blocksize is the number of pixels coded
// per k-field (ZVAL1, default 32).
//
// Layout: the first pixel is stored raw (bytepix*8 bits, two's
// complement). Each following block of blocksize pixels begins with a
// fsbits-wide k field; k == the all-ones escape value means the block's
// deltas are stored raw instead of Rice-coded. Otherwise each delta is a
// unary quotient (a run of 1 bits terminated by 0) followed by a k-bit
// remainder, and the delta itself is the zigzag-decoded signed value
// added to the running reference pixel.
func riceDecode(payload []byte, count int64, blocksize, bytepix int) ([]int64, error) {
	if count <= 0 {
		return nil, nil
	}
	fsbits := riceFSBits(bytepix)
	fsmax := uint64(1)<<uint(fsbits) - 1

	br := bitio.NewReader(payload)
	out := make([]int64, count)

	ref, err := br.Bits(bytepix * 8)
	if err != nil {
		return nil, &DecompressionError{Reason: "rice stream truncated reading initial pixel", Err: err}
	}
	out[0] = signExtend(ref, bytepix*8)

	idx := int64(1)
	for idx < count {
		blockLen := int64(blocksize)
		if idx+blockLen > count {
			blockLen = count - idx
		}
		k, err := br.Bits(fsbits)
		if err != nil {
			return nil, &DecompressionError{Reason: "rice stream truncated reading block k field", Err: err}
		}
		if k == fsmax {
			for i := int64(0); i < blockLen; i++ {
				raw, err := br.Bits(bytepix * 8)
				if err != nil {
					return nil, &DecompressionError{Reason: "rice stream truncated reading escaped block", Err: err}
				}
				out[idx] = out[idx-1] + zigzagDecode(raw)
				idx++
			}
			continue
		}
		for i := int64(0); i < blockLen; i++ {
			q, err := br.Unary()
			if err != nil {
				return nil, &DecompressionError{Reason: "rice stream truncated reading unary quotient", Err: err}
			}
			var r uint64
			if k > 0 {
				r, err = br.Bits(int(k))
				if err != nil {
					return nil, &DecompressionError{Reason: "rice stream truncated reading remainder", Err: err}
				}
			}
			delta := uint64(q)<<uint(k) | r
			out[idx] = out[idx-1] + zigzagDecode(delta)
			idx++
		}
	}
	return out, nil
}

// zigzagDecode maps a Rice-coded non-negative integer back to its
// signed delta: even values are non-negative deltas halved, odd values
// are negative deltas.
func zigzagDecode(u uint64) int64 {
	if u&1 == 0 {
		return int64(u >> 1)
	}
	return -int64((u + 1) >> 1)
}

func signExtend(v uint64, bits int) int64 {
	shift := uint(64 - bits)
	return int64(v<<shift) >> shift
}
