package filter

import (
	"fmt"

	"github.com/cwbudde/algo-gpr/gpr"
	"github.com/cwbudde/algo-gpr/gpr/volume"
	"github.com/cwbudde/algo-gpr/internal/workers"
	vecmath "github.com/cwbudde/algo-vecmath"
)

// SwitchParams carries the enable flag of switch-only filters.
type SwitchParams struct {
	Active bool
}

// ResolveSignSmoother reads sign_smoother parameters from p.
func ResolveSignSmoother(p Params) (SwitchParams, []gpr.Event) {
	return ResolveSwitch(KindSignSmoother, p)
}

// ResolveSwitch reads the check flag for kind. Missing flags are active.
func ResolveSwitch(kind Kind, p Params) (SwitchParams, []gpr.Event) {
	r := newResolver(kind, p)
	return SwitchParams{Active: r.check()}, r.events
}

// Neighbour directions. Per axis (channel, depth, distance) 0 walks forward
// through the window, 1 holds the centre and 2 walks backward.
var smoothDirections = [13][3]int{
	{0, 0, 0}, {1, 0, 0}, {2, 0, 0},
	{0, 1, 0}, {1, 1, 0}, {2, 1, 0},
	{0, 2, 0}, {1, 2, 0}, {2, 2, 0},
	{0, 0, 1}, {1, 0, 1}, {2, 0, 1},
	{0, 1, 1},
}

type voteRule int

const (
	// ruleSign clears a sample whose 2n neighbours all carry the opposite sign.
	ruleSign voteRule = iota
	// ruleZero clears a sample whose neighbours sum to zero.
	ruleZero
)

type smoothStage struct {
	radius   int
	pos, neg int32
	dirs     []int
	rule     voteRule
}

func smoothStages() []smoothStage {
	all := make([]int, len(smoothDirections))
	for i := range all {
		all[i] = i
	}
	return []smoothStage{
		{radius: 1, pos: 2, neg: -2, dirs: []int{4, 10, 12}, rule: ruleSign},
		{radius: 3, pos: 103, neg: -3, dirs: all, rule: ruleZero},
		{radius: 2, pos: 103, neg: -3, dirs: all, rule: ruleZero},
	}
}

// SignSmoother removes isolated sign outliers. Samples are classified by
// sign and three voting stages run over fixed neighbour lines of growing
// radius; samples whose class ends at zero are cleared in the output, all
// others keep their input value.
func SignSmoother(v volume.Volume, p SwitchParams, opts ...Option) (volume.Volume, error) {
	if !p.Active || v.Len() == 0 {
		return v.Clone(), nil
	}
	cfg := applyOptions(opts...)

	class := make([]int32, v.Len())
	for i, s := range v.Data {
		class[i] = int32(s)
	}
	for _, st := range smoothStages() {
		var err error
		class, err = runSmoothStage(class, v.Channels, v.Depth, v.Traces, st, cfg.Workers)
		if err != nil {
			return volume.Volume{}, fmt.Errorf("%s: radius %d stage: %w", KindSignSmoother, st.radius, err)
		}
	}

	mask := make([]float64, len(class))
	for i, k := range class {
		if k != 0 {
			mask[i] = 1
		}
	}
	x := volume.Floats(v)
	vecmath.MulBlockInPlace(x, mask)
	return volume.NarrowAll(v, x), nil
}

// runSmoothStage classifies in, pads it by the stage radius and applies the
// stage's direction passes in order. Padding is zero except along the
// channel axis, where the first and last channel planes are replicated.
func runSmoothStage(in []int32, channels, depth, traces int, st smoothStage, nworkers int) ([]int32, error) {
	n := st.radius
	pc, pd, pt := channels+2*n, depth+2*n, traces+2*n
	at := func(c, d, t int) int { return (c*pd+d)*pt + t }

	padded := make([]int32, pc*pd*pt)
	err := workers.ForEach(pc, nworkers, func(c int) error {
		src := min(max(c-n, 0), channels-1)
		for d := 0; d < depth; d++ {
			for t := 0; t < traces; t++ {
				padded[at(c, d+n, t+n)] = classify(in[(src*depth+d)*traces+t], st)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	next := make([]int32, len(in))
	centre := at(n, n, n)
	for _, di := range st.dirs {
		offsets := lineOffsets(smoothDirections[di], n, pd, pt)
		err := workers.ForEach(channels, nworkers, func(c int) error {
			for d := 0; d < depth; d++ {
				for t := 0; t < traces; t++ {
					base := at(c, d, t)
					y := padded[base+centre]
					var xz int32
					for _, off := range offsets {
						xz += padded[base+off]
					}
					next[(c*depth+d)*traces+t] = vote(st.rule, n, y, xz)
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		for c := 0; c < channels; c++ {
			for d := 0; d < depth; d++ {
				row := next[(c*depth+d)*traces : (c*depth+d+1)*traces]
				copy(padded[at(c+n, d+n, n):], row)
			}
		}
	}
	return next, nil
}

func classify(s int32, st smoothStage) int32 {
	switch {
	case s > 0:
		return st.pos
	case s < 0:
		return st.neg
	default:
		return 0
	}
}

func vote(rule voteRule, n int, y, xz int32) int32 {
	switch rule {
	case ruleSign:
		if xz*y == int32(-8*n) {
			return 0
		}
		return y
	default:
		if xz != 0 {
			return y
		}
		return 0
	}
}

// lineOffsets returns the flat padded offsets of the 2n neighbours on the
// line described by dir, relative to the window corner. The centre is
// excluded.
func lineOffsets(dir [3]int, n, pd, pt int) []int {
	axis := func(mode, i int) int {
		switch mode {
		case 0:
			return i
		case 1:
			return n
		default:
			return 2*n - i
		}
	}
	offsets := make([]int, 0, 2*n)
	for i := 0; i <= 2*n; i++ {
		if i == n {
			continue
		}
		o0, o1, o2 := axis(dir[0], i), axis(dir[1], i), axis(dir[2], i)
		offsets = append(offsets, (o0*pd+o1)*pt+o2)
	}
	return offsets
}
