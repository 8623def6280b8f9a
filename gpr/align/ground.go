package align

import (
	"github.com/cwbudde/algo-gpr/gpr"
	"github.com/cwbudde/algo-gpr/gpr/volume"
	"github.com/cwbudde/algo-gpr/internal/logging"
)

const stageGround = "ground"

// GroundIndices returns the detected ground depth of every channel with the
// manual offsets applied. ok[c] is false when detection failed.
func GroundIndices(v volume.Volume, opts Options) (indices []int, ok []bool, events []gpr.Event) {
	opts, events = opts.resolve(stageGround)
	features, scanEvents := detect(stageGround, v, opts)
	events = append(events, scanEvents...)

	manual := opts.ManualGroundOffsets
	if len(manual) > 0 && len(manual) != v.Channels {
		events = append(events, gpr.NewEvent(stageGround, -1, gpr.ErrConfig,
			"%d manual offsets for %d channels, ignoring them", len(manual), v.Channels))
		manual = nil
	}

	indices = make([]int, v.Channels)
	ok = make([]bool, v.Channels)
	for c, f := range features {
		if !f.ok {
			events = append(events, gpr.NewEvent(stageGround, c, gpr.ErrFeatureNotFound,
				"no ground lobes beyond (%g, %g)", opts.NegThreshold, opts.PosThreshold))
			continue
		}
		indices[c] = GroundIndex(f.profile, f.peaks)
		if manual != nil {
			indices[c] += manual[c]
		}
		ok[c] = true
	}
	return indices, ok, events
}

// Ground shifts every channel's depth axis so that ground-Pad becomes depth
// 0. Samples shifted past either end are dropped and the gap is zero-filled,
// so the depth extent is unchanged.
func Ground(v volume.Volume, opts Options) (volume.Volume, []gpr.Event) {
	indices, ok, events := GroundIndices(v, opts)
	pad := opts.Pad
	if pad < 0 {
		pad = DefaultPad
	}
	log := logging.NewComponentLogger(opts.Logger, stageGround)

	out := volume.Like(v)
	events = append(events, forChannels(stageGround, out, v, opts.Workers, func(c int) error {
		if !ok[c] {
			copy(out.ChannelData(c), v.ChannelData(c))
			return nil
		}
		shiftDepth(out, v, c, indices[c]-pad)
		return nil
	})...)

	log.Debug("ground indices computed", "indices", indices)
	return out, events
}

// shiftDepth writes src's channel c into dst with dst depth d taken from src
// depth d+start.
func shiftDepth(dst, src volume.Volume, c, start int) {
	for d := 0; d < src.Depth; d++ {
		from := d + start
		if from < 0 || from >= src.Depth {
			continue
		}
		copy(dst.Row(c, d), src.Row(c, from))
	}
}
