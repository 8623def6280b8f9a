package filter

import (
	"fmt"

	"github.com/cwbudde/algo-gpr/gpr"
	"github.com/cwbudde/algo-gpr/gpr/volume"
	"github.com/cwbudde/algo-gpr/internal/workers"
)

// Func is the table form of a filter: it resolves raw parameters, reporting
// substitutions as events, and applies the filter.
type Func func(v volume.Volume, p Params, opts ...Option) (volume.Volume, []gpr.Event, error)

// Lookup returns the table form of a pure filter kind. align_signal and
// ch_bias depend on chain state and are not served here.
func Lookup(kind Kind) (Func, bool) {
	switch kind {
	case KindGain:
		return bind(ResolveGain, Gain), true
	case KindRange:
		return bind(ResolveRange, Range), true
	case KindLas:
		return bind(ResolveLas, Las), true
	case KindEdge:
		return bind(ResolveEdge, Edge), true
	case KindAverage:
		return bind(ResolveAverage, Average), true
	case KindYDifferential:
		return bind(ResolveYDifferential, YDifferential), true
	case KindZDifferential:
		return bind(ResolveZDifferential, ZDifferential), true
	case KindSignSmoother:
		return bind(ResolveSignSmoother, SignSmoother), true
	case KindKalman:
		return bind(ResolveKalman, Kalman), true
	case KindBackground:
		return bind(ResolveBackground, Background), true
	default:
		return nil, false
	}
}

func bind[P any](
	resolve func(Params) (P, []gpr.Event),
	apply func(volume.Volume, P, ...Option) (volume.Volume, error),
) Func {
	return func(v volume.Volume, p Params, opts ...Option) (volume.Volume, []gpr.Event, error) {
		typed, events := resolve(p)
		out, err := apply(v, typed, opts...)
		return out, events, err
	}
}

// perChannel builds a new volume by running fn over every channel in
// parallel. fn writes only dst, the output block of channel c.
func perChannel(v volume.Volume, cfg Config, fn func(c int, src, dst []int16) error) (volume.Volume, error) {
	out := volume.Like(v)
	err := workers.ForEach(v.Channels, cfg.Workers, func(c int) error {
		return fn(c, v.ChannelData(c), out.ChannelData(c))
	})
	if err != nil {
		return volume.Volume{}, err
	}
	return out, nil
}

func degenerate(kind Kind, c int) error {
	return fmt.Errorf("%w: %s produced non-finite values in channel %d", gpr.ErrNumericDegeneracy, kind, c)
}

func toFloats(dst []float64, src []int16) {
	for i, s := range src {
		dst[i] = float64(s)
	}
}

func ones(n int) []float64 {
	k := make([]float64, n)
	for i := range k {
		k[i] = 1
	}
	return k
}
