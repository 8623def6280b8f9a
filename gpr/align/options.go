package align

import (
	"log/slog"
	"math"

	"github.com/cwbudde/algo-gpr/gpr"
)

// Default scan and shift parameters.
const (
	DefaultNegThreshold = -1000.0
	DefaultPosThreshold = 1000.0
	DefaultPad          = 10
)

// Options configures the aligners.
type Options struct {
	// NegThreshold and PosThreshold bound the ground reflection lobes in the
	// mean depth profile.
	NegThreshold float64
	PosThreshold float64
	// Pad is the number of samples kept above the detected ground.
	Pad int
	// ManualGroundOffsets, when it has one entry per channel, is added to
	// the detected ground indices.
	ManualGroundOffsets []int
	// Placeholder seeds the fill value of samples exposed by channel
	// alignment (10% of it is added to the row mean).
	Placeholder float64

	SkipAmplitude bool
	SkipGround    bool
	SkipChannel   bool

	// Workers bounds per-channel parallelism; 0 uses GOMAXPROCS.
	Workers int
	Logger  *slog.Logger
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		NegThreshold: DefaultNegThreshold,
		PosThreshold: DefaultPosThreshold,
		Pad:          DefaultPad,
	}
}

// resolve replaces invalid settings with defaults and reports each
// replacement.
func (o Options) resolve(stage string) (Options, []gpr.Event) {
	var events []gpr.Event
	if math.IsNaN(o.NegThreshold) || math.IsNaN(o.PosThreshold) || o.NegThreshold >= o.PosThreshold {
		events = append(events, gpr.NewEvent(stage, -1, gpr.ErrConfig,
			"thresholds (%g, %g) not ordered, using (%g, %g)",
			o.NegThreshold, o.PosThreshold, DefaultNegThreshold, DefaultPosThreshold))
		o.NegThreshold = DefaultNegThreshold
		o.PosThreshold = DefaultPosThreshold
	}
	if o.Pad < 0 {
		events = append(events, gpr.NewEvent(stage, -1, gpr.ErrConfig,
			"pad %d is negative, using %d", o.Pad, DefaultPad))
		o.Pad = DefaultPad
	}
	if math.IsNaN(o.Placeholder) || math.IsInf(o.Placeholder, 0) {
		events = append(events, gpr.NewEvent(stage, -1, gpr.ErrConfig,
			"placeholder %g is not finite, using 0", o.Placeholder))
		o.Placeholder = 0
	}
	return o, events
}
