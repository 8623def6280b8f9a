package filter

import (
	"math"

	"github.com/cwbudde/algo-gpr/gpr"
	"github.com/cwbudde/algo-gpr/gpr/volume"
	"github.com/cwbudde/algo-gpr/internal/workers"
)

// kalmanChunk is the number of independent sequences handed to one task.
const kalmanChunk = 1024

// KalmanParams configures recursive smoothing.
type KalmanParams struct {
	// Axis is 0 (channel), 1 (depth) or 2 (distance).
	Axis       int
	PercentVar float64
	Gain       float64
}

// DefaultKalmanParams returns the documented kalman defaults.
func DefaultKalmanParams() KalmanParams {
	return KalmanParams{Axis: 1, PercentVar: 0.2, Gain: 0.1}
}

// ResolveKalman reads kalman parameters from p.
func ResolveKalman(p Params) (KalmanParams, []gpr.Event) {
	r := newResolver(KindKalman, p)
	d := DefaultKalmanParams()
	axis := r.num(KeyAxis, float64(d.Axis), func(v float64) bool {
		return v == 0 || v == 1 || v == 2
	}, "must be 0, 1 or 2")
	return KalmanParams{
		Axis:       int(axis),
		PercentVar: r.num(KeyPercentVar, d.PercentVar, nonNegative, "must not be negative"),
		Gain:       r.num(KeyGain, d.Gain, nil, ""),
	}, r.events
}

// KalmanGains returns the gain sequence for a run of n samples. Index 0 is
// unused. Predicted and measurement variance both start at PercentVar; the
// corrected variance shrinks by (1-K) each step and 0/0 yields K=0.
func KalmanGains(n int, percentVar float64) []float64 {
	k := make([]float64, max(n, 0))
	pv, nv := percentVar, percentVar
	for i := 1; i < n; i++ {
		den := pv + nv
		if den != 0 {
			k[i] = pv / den
		}
		pv *= 1 - k[i]
	}
	return k
}

// Kalman smooths along p.Axis. The first slice passes through unchanged;
// every later sample is corrected against the previous corrected value:
//
//	corrected = Gain*predicted + (1-Gain)*observed + K*(observed-predicted)
//
// Corrections carry forward at full precision and are narrowed on output.
func Kalman(v volume.Volume, p KalmanParams, opts ...Option) (volume.Volume, error) {
	cfg := applyOptions(opts...)

	dims := [3]int{v.Channels, v.Depth, v.Traces}
	strides := [3]int{v.Depth * v.Traces, v.Traces, 1}
	length, stride := dims[p.Axis], strides[p.Axis]
	if length <= 1 || v.Len() == 0 {
		return v.Clone(), nil
	}

	gains := KalmanGains(length, p.PercentVar)
	sequences := v.Len() / length
	chunks := (sequences + kalmanChunk - 1) / kalmanChunk
	out := volume.Like(v)

	err := workers.ForEach(chunks, cfg.Workers, func(k int) error {
		end := min((k+1)*kalmanChunk, sequences)
		for s := k * kalmanChunk; s < end; s++ {
			base := (s/stride)*length*stride + s%stride

			pred := float64(v.Data[base])
			out.Data[base] = v.Data[base]
			for i := 1; i < length; i++ {
				idx := base + i*stride
				obs := float64(v.Data[idx])
				innov := obs - pred
				corrected := pred + (1-p.Gain)*innov + gains[i]*innov
				if math.IsNaN(corrected) || math.IsInf(corrected, 0) {
					return degenerate(KindKalman, idx/strides[0])
				}
				out.Data[idx] = volume.Narrow(corrected)
				pred = corrected
			}
		}
		return nil
	})
	if err != nil {
		return volume.Volume{}, err
	}
	return out, nil
}
