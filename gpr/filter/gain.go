package filter

import (
	"math"

	"github.com/cwbudde/algo-gpr/gpr"
	"github.com/cwbudde/algo-gpr/gpr/volume"
	vecmath "github.com/cwbudde/algo-vecmath"
)

// GainParams shapes the depth gain curve.
type GainParams struct {
	YInter          float64
	GradConst       float64
	InflectionPoint float64
	InflectionRange float64
}

// DefaultGainParams returns the documented gain defaults.
func DefaultGainParams() GainParams {
	return GainParams{YInter: 0.80, GradConst: 10, InflectionPoint: 127, InflectionRange: 60}
}

// ResolveGain reads gain parameters from p.
func ResolveGain(p Params) (GainParams, []gpr.Event) {
	r := newResolver(KindGain, p)
	d := DefaultGainParams()
	return GainParams{
		YInter:          r.num(KeyYInter, d.YInter, nil, ""),
		GradConst:       r.num(KeyGradConst, d.GradConst, nil, ""),
		InflectionPoint: r.num(KeyInflectionPoint, d.InflectionPoint, nil, ""),
		InflectionRange: r.num(KeyInflectionRange, d.InflectionRange, positive, "must be positive"),
	}, r.events
}

// GainCurve returns the factor for each depth bin:
//
//	(erf((d - InflectionPoint) / InflectionRange) + 1) * GradConst + YInter
func GainCurve(depth int, p GainParams) []float64 {
	curve := make([]float64, depth)
	for d := range curve {
		curve[d] = (math.Erf((float64(d)-p.InflectionPoint)/p.InflectionRange)+1)*p.GradConst + p.YInter
	}
	return curve
}

// Gain multiplies every sample by the curve factor of its depth.
func Gain(v volume.Volume, p GainParams, opts ...Option) (volume.Volume, error) {
	cfg := applyOptions(opts...)
	curve := GainCurve(v.Depth, p)

	plane := make([]float64, v.Depth*v.Traces)
	for d, g := range curve {
		row := plane[d*v.Traces : (d+1)*v.Traces]
		for t := range row {
			row[t] = g
		}
	}

	return perChannel(v, cfg, func(c int, src, dst []int16) error {
		x := make([]float64, len(src))
		toFloats(x, src)
		y := make([]float64, len(src))
		vecmath.MulBlock(y, x, plane)
		if !volume.AllFinite(y) {
			return degenerate(KindGain, c)
		}
		for i, f := range y {
			dst[i] = volume.Narrow(f)
		}
		return nil
	})
}
