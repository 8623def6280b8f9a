package align

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/algo-gpr/gpr"
	"github.com/cwbudde/algo-gpr/gpr/volume"
	"github.com/cwbudde/algo-gpr/internal/logging"
)

const stageChannel = "channel"

// Shifts converts lateral offsets into trace delays:
// floor((offset-min(offsets))/interval).
func Shifts(offsets []float64, interval float64) []int {
	if len(offsets) == 0 {
		return nil
	}
	lo := offsets[0]
	for _, o := range offsets[1:] {
		lo = math.Min(lo, o)
	}
	out := make([]int, len(offsets))
	for i, o := range offsets {
		s := math.Floor((o - lo) / interval)
		if math.IsNaN(s) || s < 0 {
			s = 0
		}
		if s > math.MaxInt32 {
			s = math.MaxInt32
		}
		out[i] = int(s)
	}
	return out
}

// Channel delays each channel along distance by its offset shift. The
// exposed leading samples at each depth are filled with
// 0.1*Placeholder + mean of the samples that remain. Mismatched offsets or a
// non-positive interval leave the volume unchanged.
func Channel(v volume.Volume, offsets []float64, interval float64, opts Options) (volume.Volume, []gpr.Event) {
	opts, events := opts.resolve(stageChannel)
	log := logging.NewComponentLogger(opts.Logger, stageChannel)

	if len(offsets) != v.Channels {
		events = append(events, gpr.NewEvent(stageChannel, -1, gpr.ErrConfig,
			"%d offsets for %d channels, skipping channel alignment", len(offsets), v.Channels))
		return v.Clone(), events
	}
	if !(interval > 0) || math.IsInf(interval, 0) {
		events = append(events, gpr.NewEvent(stageChannel, -1, gpr.ErrConfig,
			"distance interval %g is not positive, skipping channel alignment", interval))
		return v.Clone(), events
	}
	for _, o := range offsets {
		if math.IsNaN(o) || math.IsInf(o, 0) {
			events = append(events, gpr.NewEvent(stageChannel, -1, gpr.ErrConfig,
				"offset %g is not finite, skipping channel alignment", o))
			return v.Clone(), events
		}
	}

	shifts := Shifts(offsets, interval)
	for c, s := range shifts {
		if s >= v.Traces && s > 0 {
			events = append(events, gpr.NewEvent(stageChannel, c, gpr.ErrNumericDegeneracy,
				"shift %d covers all %d traces", s, v.Traces))
		}
	}

	out := volume.Like(v)
	events = append(events, forChannels(stageChannel, out, v, opts.Workers, func(c int) error {
		delayChannel(out, v, c, shifts[c], opts.Placeholder)
		return nil
	})...)

	log.Debug("channel shifts computed", "shifts", shifts)
	return out, events
}

func delayChannel(dst, src volume.Volume, c, shift int, placeholder float64) {
	if shift == 0 {
		copy(dst.ChannelData(c), src.ChannelData(c))
		return
	}

	shift = min(shift, src.Traces)
	valid := src.Traces - shift
	buf := make([]float64, valid)

	for d := 0; d < src.Depth; d++ {
		in := src.Row(c, d)
		row := dst.Row(c, d)

		mean := 0.0
		if valid > 0 {
			for t := range buf {
				buf[t] = float64(in[t])
			}
			mean = stat.Mean(buf, nil)
		}
		fill := volume.Narrow(0.1*placeholder + mean)

		for t := 0; t < shift; t++ {
			row[t] = fill
		}
		copy(row[shift:], in[:valid])
	}
}
