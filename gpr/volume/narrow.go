package volume

import "math"

// Narrow converts f to int16 by truncating toward zero and wrapping on
// overflow. Non-finite values map to 0.
func Narrow(f float64) int16 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	t := math.Trunc(f)
	if t >= -9.2e18 && t <= 9.2e18 {
		return int16(int64(t))
	}
	// Beyond int64: reduce modulo 2^16 first.
	m := math.Mod(t, 65536)
	return int16(int64(m))
}

// Saturate rounds f half-to-even and clamps it into the int16 range.
// Non-finite values map to 0.
func Saturate(f float64) int16 {
	if math.IsNaN(f) {
		return 0
	}
	r := math.RoundToEven(f)
	if r > math.MaxInt16 {
		return math.MaxInt16
	}
	if r < math.MinInt16 {
		return math.MinInt16
	}
	return int16(r)
}

// NarrowAll narrows src into a new volume shaped like like.
func NarrowAll(like Volume, src []float64) Volume {
	out := Like(like)
	for i, f := range src {
		out.Data[i] = Narrow(f)
	}
	return out
}

// Floats returns v's samples as float64.
func Floats(v Volume) []float64 {
	out := make([]float64, len(v.Data))
	for i, s := range v.Data {
		out[i] = float64(s)
	}
	return out
}

// AllFinite reports whether every value in xs is finite.
func AllFinite(xs []float64) bool {
	for _, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
