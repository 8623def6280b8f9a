package align

import (
	"github.com/cwbudde/algo-gpr/gpr"
	"github.com/cwbudde/algo-gpr/gpr/rd3"
	"github.com/cwbudde/algo-gpr/gpr/volume"
	"github.com/cwbudde/algo-gpr/internal/workers"
)

// All runs amplitude, ground and channel alignment in that order, honouring
// the Skip flags. The input is not modified.
func All(v volume.Volume, header rd3.HeaderInfo, opts Options) (volume.Volume, []gpr.Event) {
	var events []gpr.Event
	out := v

	if !opts.SkipAmplitude {
		var evs []gpr.Event
		out, evs = Amplitude(out, opts)
		events = append(events, evs...)
	}
	if !opts.SkipGround {
		var evs []gpr.Event
		out, evs = Ground(out, opts)
		events = append(events, evs...)
	}
	if !opts.SkipChannel {
		var evs []gpr.Event
		out, evs = Channel(out, header.YOffsets, header.DistanceInterval, opts)
		events = append(events, evs...)
	}

	if opts.SkipAmplitude && opts.SkipGround && opts.SkipChannel {
		out = v.Clone()
	}
	return out, events
}

// forChannels runs fn for every channel of src. A channel whose fn fails or
// panics is copied from src into dst unchanged and reported as an event.
func forChannels(stage string, dst, src volume.Volume, w int, fn func(c int) error) []gpr.Event {
	var events []gpr.Event
	for c, err := range workers.Errors(src.Channels, w, fn) {
		if err == nil {
			continue
		}
		copy(dst.ChannelData(c), src.ChannelData(c))
		events = append(events, gpr.NewEvent(stage, c, gpr.ErrNumericDegeneracy,
			"channel left unchanged: %v", err))
	}
	return events
}
