package filter

import (
	"math"

	"github.com/cwbudde/algo-gpr/gpr"
	"github.com/cwbudde/algo-gpr/gpr/volume"
	"github.com/cwbudde/algo-gpr/internal/conv"
)

// LasParams configures local adaptive smoothing.
type LasParams struct {
	Ratio          float64
	SigmaNumber    float64
	SigmaConstants float64
}

// DefaultLasParams returns the documented las defaults.
func DefaultLasParams() LasParams {
	return LasParams{Ratio: 0.98, SigmaNumber: 50, SigmaConstants: 0.16}
}

// ResolveLas reads las parameters from p.
func ResolveLas(p Params) (LasParams, []gpr.Event) {
	r := newResolver(KindLas, p)
	d := DefaultLasParams()
	taps := func(v float64) bool { return math.Round(v) >= 1 && v <= math.MaxInt32 }
	return LasParams{
		Ratio:          r.num(KeyLasRatio, d.Ratio, nil, ""),
		SigmaNumber:    r.num(KeySigmaNumber, d.SigmaNumber, taps, "must round to a positive tap count"),
		SigmaConstants: r.num(KeySigmaConstants, d.SigmaConstants, positive, "must be positive"),
	}, r.events
}

// KernelSize is the number of Gaussian taps.
func (p LasParams) KernelSize() int {
	return int(math.Round(p.SigmaNumber))
}

// Sigma is the Gaussian standard deviation in traces.
func (p LasParams) Sigma() float64 {
	return p.SigmaNumber * p.SigmaConstants
}

// GaussianKernel returns n normalised Gaussian taps centred at (n-1)/2.
// A non-positive sigma is derived from n as ((n-1)/2 - 1)*0.3 + 0.8.
func GaussianKernel(n int, sigma float64) []float64 {
	if n <= 0 {
		return nil
	}
	if sigma <= 0 {
		sigma = ((float64(n)-1)*0.5-1)*0.3 + 0.8
	}

	k := make([]float64, n)
	mid := float64(n-1) / 2
	scale := -0.5 / (sigma * sigma)
	sum := 0.0
	for i := range k {
		x := float64(i) - mid
		k[i] = math.Exp(scale * x * x)
		sum += k[i]
	}
	for i := range k {
		k[i] /= sum
	}
	return k
}

// Las subtracts a nonlinearly scaled local mean from every sample. The local
// mean m is a Gaussian-weighted average along distance (reflect-101 borders),
// saturated to 16 bits and offset by 0.001; the output is
//
//	x - m / (m*m)^((1.0001-Ratio)/2)
func Las(v volume.Volume, p LasParams, opts ...Option) (volume.Volume, error) {
	if v.Traces == 0 {
		return v.Clone(), nil
	}
	cfg := applyOptions(opts...)
	n := p.KernelSize()
	kernel := GaussianKernel(n, p.Sigma())
	exponent := (1.0001 - p.Ratio) / 2

	return perChannel(v, cfg, func(c int, src, dst []int16) error {
		corr, err := conv.NewCorrelator(kernel, n/2, conv.BorderReflect101)
		if err != nil {
			return err
		}

		x := make([]float64, v.Traces)
		for d := 0; d < v.Depth; d++ {
			row := src[d*v.Traces : (d+1)*v.Traces]
			toFloats(x, row)
			mean, err := corr.Process(x)
			if err != nil {
				return err
			}
			out := dst[d*v.Traces : (d+1)*v.Traces]
			for t, xt := range x {
				m := float64(volume.Saturate(mean[t])) + 0.001
				y := xt - m/math.Pow(m*m, exponent)
				if math.IsNaN(y) || math.IsInf(y, 0) {
					return degenerate(KindLas, c)
				}
				out[t] = volume.Narrow(y)
			}
		}
		return nil
	})
}
