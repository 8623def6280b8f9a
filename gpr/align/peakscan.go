package align

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/algo-gpr/gpr"
	"github.com/cwbudde/algo-gpr/gpr/volume"
	"github.com/cwbudde/algo-gpr/internal/workers"
)

// Peaks holds the depth indices of the ground reflection lobes.
type Peaks struct {
	Min int
	Max int
}

type scanState int

const (
	seekingMin scanState = iota
	seekingMax
	scanDone
)

// ScanPeaks locates the ground reflection in a depth profile. The minimum is
// the first index below neg whose successor is larger; the maximum is the
// first index at or after it above pos whose successor is smaller. The last
// sample never qualifies since it has no successor.
func ScanPeaks(profile []float64, neg, pos float64) (Peaks, bool) {
	var p Peaks
	state := seekingMin

	for i := 0; i+1 < len(profile) && state != scanDone; i++ {
		cur, next := profile[i], profile[i+1]
		switch state {
		case seekingMin:
			if cur < neg && next > cur {
				p.Min = i
				state = seekingMax
			}
		case seekingMax:
			if cur > pos && next < cur {
				p.Max = i
				state = scanDone
			}
		}
	}

	if state != scanDone {
		return Peaks{}, false
	}
	return p, true
}

// FirstPositive returns the first index in [p.Min, p.Max] whose value is
// positive, or p.Max.
func FirstPositive(profile []float64, p Peaks) int {
	for i := p.Min; i <= p.Max && i < len(profile); i++ {
		if profile[i] > 0 {
			return i
		}
	}
	return p.Max
}

// GroundIndex averages the first positive sample with the lobe midpoint,
// rounding half to even.
func GroundIndex(profile []float64, p Peaks) int {
	mid := float64(p.Min+p.Max) / 2
	return int(math.RoundToEven((float64(FirstPositive(profile, p)) + mid) / 2))
}

// MeanProfile returns channel c's mean over distance at every depth,
// truncated toward zero.
func MeanProfile(v volume.Volume, c int) []float64 {
	out := make([]float64, v.Depth)
	if v.Traces == 0 {
		return out
	}
	row := make([]float64, v.Traces)
	for d := range out {
		for t, s := range v.Row(c, d) {
			row[t] = float64(s)
		}
		out[d] = math.Trunc(stat.Mean(row, nil))
	}
	return out
}

type feature struct {
	profile []float64
	peaks   Peaks
	ok      bool
}

// detect scans every channel's mean profile. A channel whose scan fails is
// reported and treated as having no features.
func detect(stage string, v volume.Volume, opts Options) ([]feature, []gpr.Event) {
	out := make([]feature, v.Channels)
	errs := workers.Errors(v.Channels, opts.Workers, func(c int) error {
		profile := MeanProfile(v, c)
		p, ok := ScanPeaks(profile, opts.NegThreshold, opts.PosThreshold)
		out[c] = feature{profile: profile, peaks: p, ok: ok}
		return nil
	})

	var events []gpr.Event
	for c, err := range errs {
		if err != nil {
			out[c] = feature{}
			events = append(events, gpr.NewEvent(stage, c, gpr.ErrNumericDegeneracy,
				"profile scan failed: %v", err))
		}
	}
	return out, events
}
