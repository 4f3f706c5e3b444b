package fits

import "math"

// Dither constants and recurrence copied verbatim from the tiled-image
// compression convention's reference algorithm (see DESIGN.md) rather
// than re-derived: a linear congruential generator seeded per-tile from
// ZDITHER0 and the tile's row index, producing the same dither sequence
// any FITS-compliant decompressor must reproduce to undo
// SUBTRACTIVE_DITHER_1/2 quantization.
const (
	ditherA       = 16807.0
	ditherM       = 2147483647.0
	ditherNRandom = 10000

	// ditherBlankSentinel is the raw quantized value SUBTRACTIVE_DITHER_2
	// reserves to mean "this pixel is blank", independent of any declared
	// BLANK/ZBLANK keyword.
	ditherBlankSentinel = -2147483647
)

var ditherTable = buildDitherTable()

func buildDitherTable() [ditherNRandom]float64 {
	var t [ditherNRandom]float64
	seed := 1.0
	for i := 0; i < ditherNRandom; i++ {
		seed = ditherA * seed
		seed -= ditherM * float64(int64(seed/ditherM))
		t[i] = seed / ditherM
	}
	return t
}

// ditherCursor walks the dither table across every pixel of one tile, in
// pixel order, regardless of which reconstruction branch each pixel
// takes. A tile's cursor is seeded once from ZDITHER0 and the tile's
// 0-based row index; every subsequent pixel in the tile advances it by
// one, including BLANK and SUBTRACTIVE_DITHER_2 sentinel pixels.
type ditherCursor struct {
	i1 int64
}

// newDitherCursor seeds a cursor for one tile: i0 = (seed) mod N_RANDOM
// picks the tile's entry into the table, and floor(table[i0] * 500)
// becomes the tile's starting position within it.
func newDitherCursor(seed int64) *ditherCursor {
	i0 := seed % ditherNRandom
	if i0 < 0 {
		i0 += ditherNRandom
	}
	i1 := int64(ditherTable[i0] * 500)
	return &ditherCursor{i1: i1}
}

// next returns the current dither offset and advances the cursor by one
// pixel.
func (c *ditherCursor) next() float64 {
	v := ditherTable[c.i1]
	c.i1 = (c.i1 + 1) % ditherNRandom
	return v
}

// Quantiz identifies which (if any) dequantization must be undone when
// turning a tile-compressed integer sample back into a physical value.
type Quantiz int

const (
	QuantizNone Quantiz = iota
	QuantizSubtractiveDither1
	QuantizSubtractiveDither2
)

func parseQuantiz(s string) Quantiz {
	switch s {
	case "SUBTRACTIVE_DITHER_1":
		return QuantizSubtractiveDither1
	case "SUBTRACTIVE_DITHER_2":
		return QuantizSubtractiveDither2
	default:
		return QuantizNone
	}
}

// dequantizeTile reconstructs a whole tile's physical-valued pixels from
// its raw quantized samples, BSCALE/BZERO, and (for the two subtractive
// dither variants) one dither cursor shared across every pixel of the
// tile. seed is ZDITHER0 + the tile's 0-based row index.
//
// A raw sample equal to the declared BLANK reconstructs to a quiet NaN
// (caller checks with math.IsNaN). Under SUBTRACTIVE_DITHER_2, the
// reserved sentinel -2147483647 reconstructs to 0.0 regardless of any
// declared BLANK, but still advances the cursor like any other pixel.
func dequantizeTile(raw []int64, hasBlank bool, blank int64, bscale, bzero float64, q Quantiz, seed int64) []float64 {
	out := make([]float64, len(raw))
	if q == QuantizNone {
		for i, v := range raw {
			if hasBlank && v == blank {
				out[i] = math.NaN()
				continue
			}
			out[i] = bzero + bscale*float64(v)
		}
		return out
	}
	cur := newDitherCursor(seed)
	for i, v := range raw {
		rv := cur.next()
		switch {
		case q == QuantizSubtractiveDither2 && v == ditherBlankSentinel:
			out[i] = 0.0
		case hasBlank && v == blank:
			out[i] = math.NaN()
		default:
			out[i] = (float64(v)-rv+0.5)*bscale + bzero
		}
	}
	return out
}
