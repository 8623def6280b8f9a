package align

import (
	"math"

	"github.com/cwbudde/algo-gpr/gpr"
	"github.com/cwbudde/algo-gpr/gpr/volume"
	"github.com/cwbudde/algo-gpr/internal/logging"
)

const stageAmplitude = "amplitude"

// AmplitudeFactors returns the per-channel scale sqrt(max(range)/range[c]),
// where range is the distance between the ground lobes of the channel's mean
// profile. Channels without both lobes get factor 1.
func AmplitudeFactors(v volume.Volume, opts Options) ([]float64, []gpr.Event) {
	opts, events := opts.resolve(stageAmplitude)
	features, scanEvents := detect(stageAmplitude, v, opts)
	events = append(events, scanEvents...)

	ranges := make([]float64, v.Channels)
	maxRange := 0.0
	found := 0
	for c, f := range features {
		if !f.ok {
			events = append(events, gpr.NewEvent(stageAmplitude, c, gpr.ErrFeatureNotFound,
				"no ground lobes beyond (%g, %g)", opts.NegThreshold, opts.PosThreshold))
			continue
		}
		ranges[c] = f.profile[f.peaks.Max] - f.profile[f.peaks.Min]
		maxRange = math.Max(maxRange, ranges[c])
		found++
	}

	factors := make([]float64, v.Channels)
	for c, f := range features {
		factors[c] = 1
		if !f.ok || found == 0 {
			continue
		}
		if ranges[c] <= 0 {
			events = append(events, gpr.NewEvent(stageAmplitude, c, gpr.ErrNumericDegeneracy,
				"non-positive range %g", ranges[c]))
			continue
		}
		factors[c] = math.Sqrt(maxRange / ranges[c])
	}

	return factors, events
}

// Amplitude scales every channel by its amplitude factor.
func Amplitude(v volume.Volume, opts Options) (volume.Volume, []gpr.Event) {
	factors, events := AmplitudeFactors(v, opts)
	log := logging.NewComponentLogger(opts.Logger, stageAmplitude)

	out := volume.Like(v)
	events = append(events, forChannels(stageAmplitude, out, v, opts.Workers, func(c int) error {
		src := v.ChannelData(c)
		dst := out.ChannelData(c)
		if factors[c] == 1 {
			copy(dst, src)
			return nil
		}
		for i, s := range src {
			dst[i] = volume.Narrow(float64(s) * factors[c])
		}
		return nil
	})...)

	log.Debug("amplitude factors computed", "factors", factors)
	return out, events
}
