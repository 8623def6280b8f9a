package filter

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-gpr/gpr"
	"github.com/cwbudde/algo-gpr/gpr/volume"
	"gonum.org/v1/gonum/stat"
)

// BackgroundParams configures background removal.
type BackgroundParams struct {
	Percent float64
	Active  bool
}

// DefaultBackgroundParams returns the documented background defaults.
func DefaultBackgroundParams() BackgroundParams {
	return BackgroundParams{Percent: 1, Active: true}
}

// ResolveBackground reads background parameters from p.
func ResolveBackground(p Params) (BackgroundParams, []gpr.Event) {
	r := newResolver(KindBackground, p)
	return BackgroundParams{
		Percent: r.num(KeyPercent, DefaultBackgroundParams().Percent, nil, ""),
		Active:  r.check(),
	}, r.events
}

// Background subtracts trunc(mean(row))*Percent from every (channel, depth)
// row.
func Background(v volume.Volume, p BackgroundParams, opts ...Option) (volume.Volume, error) {
	if !p.Active || v.Traces == 0 {
		return v.Clone(), nil
	}
	cfg := applyOptions(opts...)

	return perChannel(v, cfg, func(_ int, src, dst []int16) error {
		x := make([]float64, v.Traces)
		for d := 0; d < v.Depth; d++ {
			row := src[d*v.Traces : (d+1)*v.Traces]
			toFloats(x, row)
			bg := math.Trunc(stat.Mean(x, nil)) * p.Percent
			out := dst[d*v.Traces : (d+1)*v.Traces]
			for t, f := range x {
				out[t] = volume.Narrow(f - bg)
			}
		}
		return nil
	})
}

// ChannelMeans returns the mean of every channel block.
func ChannelMeans(v volume.Volume) []float64 {
	means := make([]float64, v.Channels)
	if v.Depth*v.Traces == 0 {
		return means
	}
	x := make([]float64, v.Depth*v.Traces)
	for c := range means {
		toFloats(x, v.ChannelData(c))
		means[c] = stat.Mean(x, nil)
	}
	return means
}

// ChannelBias subtracts bias[c] from every sample of channel c.
func ChannelBias(v volume.Volume, bias []float64, opts ...Option) (volume.Volume, error) {
	if len(bias) != v.Channels {
		return volume.Volume{}, fmt.Errorf("%w: %d bias values for %d channels", gpr.ErrConfig, len(bias), v.Channels)
	}
	cfg := applyOptions(opts...)
	return perChannel(v, cfg, func(c int, src, dst []int16) error {
		for i, s := range src {
			dst[i] = volume.Narrow(float64(s) - bias[c])
		}
		return nil
	})
}
