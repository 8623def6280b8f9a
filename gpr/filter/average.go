package filter

import (
	"github.com/cwbudde/algo-gpr/gpr"
	"github.com/cwbudde/algo-gpr/gpr/volume"
	"github.com/cwbudde/algo-gpr/internal/conv"
)

// AverageParams sizes the box kernel.
type AverageParams struct {
	Depth int
	Dist  int
}

// DefaultAverageParams returns the documented 3x3 box.
func DefaultAverageParams() AverageParams { return AverageParams{Depth: 3, Dist: 3} }

// ResolveAverage reads average parameters from p.
func ResolveAverage(p Params) (AverageParams, []gpr.Event) {
	r := newResolver(KindAverage, p)
	d := DefaultAverageParams()
	return AverageParams{
		Depth: r.count(KeyDepth, d.Depth),
		Dist:  r.count(KeyDist, d.Dist),
	}, r.events
}

// Average applies a normalised Depth x Dist box blur to each channel plane.
// The kernel is anchored at (Depth/2, Dist/2), borders reflect without
// repeating the edge sample, and results are rounded and saturated.
func Average(v volume.Volume, p AverageParams, opts ...Option) (volume.Volume, error) {
	if v.Traces == 0 {
		return v.Clone(), nil
	}
	cfg := applyOptions(opts...)
	norm := float64(p.Depth * p.Dist)

	return perChannel(v, cfg, func(c int, src, dst []int16) error {
		rows, err := conv.NewCorrelator(ones(p.Dist), p.Dist/2, conv.BorderReflect101)
		if err != nil {
			return err
		}
		cols, err := conv.NewCorrelator(ones(p.Depth), p.Depth/2, conv.BorderReflect101)
		if err != nil {
			return err
		}

		sums := make([]float64, len(src))
		x := make([]float64, v.Traces)
		for d := 0; d < v.Depth; d++ {
			toFloats(x, src[d*v.Traces:(d+1)*v.Traces])
			s, err := rows.Process(x)
			if err != nil {
				return err
			}
			copy(sums[d*v.Traces:], s)
		}

		col := make([]float64, v.Depth)
		for t := 0; t < v.Traces; t++ {
			for d := range col {
				col[d] = sums[d*v.Traces+t]
			}
			s, err := cols.Process(col)
			if err != nil {
				return err
			}
			for d, f := range s {
				dst[d*v.Traces+t] = volume.Saturate(f / norm)
			}
		}
		return nil
	})
}
