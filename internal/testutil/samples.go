package testutil

import (
	"math"
	"math/rand"
)

// RandomSamples generates n signed 16-bit samples in [-amplitude, amplitude]
// with a fixed seed for reproducibility.
func RandomSamples(seed int64, amplitude int, n int) []int16 {
	if amplitude < 0 {
		amplitude = -amplitude
	}
	if amplitude > math.MaxInt16 {
		amplitude = math.MaxInt16
	}
	out := make([]int16, n)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = int16(rng.Intn(2*amplitude+1) - amplitude)
	}
	return out
}

// Ramp returns n samples start, start+step, ... wrapped to int16.
func Ramp(start, step, n int) []int16 {
	out := make([]int16, n)
	for i := range out {
		out[i] = int16(start + i*step)
	}
	return out
}

// Constant returns n copies of value.
func Constant(value int16, n int) []int16 {
	out := make([]int16, n)
	for i := range out {
		out[i] = value
	}
	return out
}

// GroundProfile returns a depth profile of length depth with a negative lobe
// at negIdx and a positive lobe at posIdx, the shape a ground reflection
// leaves in a channel's mean trace. Lobes are triangular with the given
// half-width and peak magnitude.
func GroundProfile(depth, negIdx, posIdx, halfWidth int, peak float64) []float64 {
	out := make([]float64, depth)
	if halfWidth < 1 {
		halfWidth = 1
	}
	for i := range out {
		if dn := abs(i - negIdx); dn < halfWidth {
			out[i] -= peak * float64(halfWidth-dn) / float64(halfWidth)
		}
		if dp := abs(i - posIdx); dp < halfWidth {
			out[i] += peak * float64(halfWidth-dp) / float64(halfWidth)
		}
	}
	return out
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
