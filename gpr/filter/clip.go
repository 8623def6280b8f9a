package filter

import (
	"github.com/cwbudde/algo-gpr/gpr"
	"github.com/cwbudde/algo-gpr/gpr/volume"
)

// RangeParams bounds the clip filter.
type RangeParams struct {
	Value float64
}

// DefaultRangeParams returns the documented range default.
func DefaultRangeParams() RangeParams { return RangeParams{Value: 5000} }

// ResolveRange reads range parameters from p.
func ResolveRange(p Params) (RangeParams, []gpr.Event) {
	r := newResolver(KindRange, p)
	return RangeParams{
		Value: r.num(KeyRangeValue, DefaultRangeParams().Value, nonNegative, "must not be negative"),
	}, r.events
}

// Range clips every sample to [-Value, Value].
func Range(v volume.Volume, p RangeParams, opts ...Option) (volume.Volume, error) {
	cfg := applyOptions(opts...)
	hi, lo := p.Value, -p.Value
	return perChannel(v, cfg, func(_ int, src, dst []int16) error {
		for i, s := range src {
			f := float64(s)
			switch {
			case f > hi:
				dst[i] = volume.Narrow(hi)
			case f < lo:
				dst[i] = volume.Narrow(lo)
			default:
				dst[i] = s
			}
		}
		return nil
	})
}

// EdgeParams sets the edge threshold.
type EdgeParams struct {
	Range float64
}

// DefaultEdgeParams returns the documented edge default.
func DefaultEdgeParams() EdgeParams { return EdgeParams{Range: 1000} }

// ResolveEdge reads edge parameters from p.
func ResolveEdge(p Params) (EdgeParams, []gpr.Event) {
	r := newResolver(KindEdge, p)
	return EdgeParams{
		Range: r.num(KeyEdgeRange, DefaultEdgeParams().Range, nonNegative, "must not be negative"),
	}, r.events
}

// Edge zeroes samples whose magnitude is below Range.
func Edge(v volume.Volume, p EdgeParams, opts ...Option) (volume.Volume, error) {
	cfg := applyOptions(opts...)
	return perChannel(v, cfg, func(_ int, src, dst []int16) error {
		for i, s := range src {
			f := float64(s)
			if f < 0 {
				f = -f
			}
			if f >= p.Range {
				dst[i] = s
			}
		}
		return nil
	})
}
