package filter

import (
	"github.com/cwbudde/algo-gpr/gpr"
	"github.com/cwbudde/algo-gpr/gpr/volume"
	"github.com/cwbudde/algo-gpr/internal/conv"
)

// DifferentialParams sets the moving-average window of a differential.
type DifferentialParams struct {
	Window int
}

// DefaultDifferentialParams returns a window of one sample.
func DefaultDifferentialParams() DifferentialParams { return DifferentialParams{Window: 1} }

// ResolveYDifferential reads y_differential parameters from p.
func ResolveYDifferential(p Params) (DifferentialParams, []gpr.Event) {
	return resolveDifferential(KindYDifferential, p)
}

// ResolveZDifferential reads z_differential parameters from p.
func ResolveZDifferential(p Params) (DifferentialParams, []gpr.Event) {
	return resolveDifferential(KindZDifferential, p)
}

func resolveDifferential(kind Kind, p Params) (DifferentialParams, []gpr.Event) {
	r := newResolver(kind, p)
	return DifferentialParams{Window: r.count(KeyWindow, DefaultDifferentialParams().Window)}, r.events
}

// YDifferential differentiates along distance.
func YDifferential(v volume.Volume, p DifferentialParams, opts ...Option) (volume.Volume, error) {
	cfg := applyOptions(opts...)
	return perChannel(v, cfg, func(_ int, src, dst []int16) error {
		x := make([]float64, v.Traces)
		for d := 0; d < v.Depth; d++ {
			toFloats(x, src[d*v.Traces:(d+1)*v.Traces])
			y, err := Differentiate(x, p.Window)
			if err != nil {
				return err
			}
			out := dst[d*v.Traces : (d+1)*v.Traces]
			for t, f := range y {
				out[t] = volume.Narrow(f)
			}
		}
		return nil
	})
}

// ZDifferential differentiates along depth.
func ZDifferential(v volume.Volume, p DifferentialParams, opts ...Option) (volume.Volume, error) {
	cfg := applyOptions(opts...)
	return perChannel(v, cfg, func(_ int, src, dst []int16) error {
		x := make([]float64, v.Depth)
		for t := 0; t < v.Traces; t++ {
			for d := range x {
				x[d] = float64(src[d*v.Traces+t])
			}
			y, err := Differentiate(x, p.Window)
			if err != nil {
				return err
			}
			for d, f := range y {
				dst[d*v.Traces+t] = volume.Narrow(f)
			}
		}
		return nil
	})
}

// Differentiate returns the windowed forward difference of x: the centred
// zero-padded moving average of x[1:] minus that of x[:len(x)-1]. The last
// element is 0. The window is clamped to len(x)-1; inputs shorter than two
// samples yield zeros.
func Differentiate(x []float64, window int) ([]float64, error) {
	out := make([]float64, len(x))
	if len(x) < 2 {
		return out, nil
	}
	if window > len(x)-1 {
		window = len(x) - 1
	}
	if window < 1 {
		window = 1
	}

	kernel := make([]float64, window)
	for i := range kernel {
		kernel[i] = 1 / float64(window)
	}

	ahead, err := conv.ConvolveMode(x[1:], kernel, conv.ModeSame)
	if err != nil {
		return nil, err
	}
	behind, err := conv.ConvolveMode(x[:len(x)-1], kernel, conv.ModeSame)
	if err != nil {
		return nil, err
	}
	for i := range ahead {
		out[i] = ahead[i] - behind[i]
	}
	return out, nil
}
