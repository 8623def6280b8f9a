package filter

import (
	"math"

	"github.com/cwbudde/algo-gpr/gpr"
)

// Parameter keys.
const (
	KeyYInter          = "y_inter"
	KeyGradConst       = "grad_const"
	KeyInflectionPoint = "inflection_point"
	KeyInflectionRange = "inflection_range"
	KeyRangeValue      = "range_value"
	KeyLasRatio        = "las_ratio"
	KeySigmaNumber     = "sigma_number"
	KeySigmaConstants  = "sigma_constants"
	KeyEdgeRange       = "edge_range"
	KeyDepth           = "depth"
	KeyDist            = "dist"
	KeyWindow          = "window"
	KeyAxis            = "axis"
	KeyPercentVar      = "percent_var"
	KeyGain            = "gain"
	KeyPercent         = "percent"
	KeyCheck           = "check"
)

// CheckActive is the flag value that enables a switchable filter.
const CheckActive = 2

// Params holds the numeric parameters of one table row.
type Params struct {
	Num map[string]float64
}

// GetNum safely extracts a numeric parameter, returning def if missing or invalid.
func (p Params) GetNum(key string, def float64) float64 {
	if p.Num == nil {
		return def
	}
	v, ok := p.Num[key]
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return v
}

// Clone returns a deep copy of p.
func (p Params) Clone() Params {
	if p.Num == nil {
		return Params{}
	}
	num := make(map[string]float64, len(p.Num))
	for k, v := range p.Num {
		num[k] = v
	}
	return Params{Num: num}
}

// resolver reads parameters for one kind and records substitutions.
type resolver struct {
	kind   Kind
	p      Params
	events []gpr.Event
}

func newResolver(kind Kind, p Params) *resolver {
	return &resolver{kind: kind, p: p}
}

func (r *resolver) reject(key string, v, def float64, rule string) {
	r.events = append(r.events, gpr.NewEvent(string(r.kind), -1, gpr.ErrConfig,
		"%s=%g %s, using default %g", key, v, rule, def))
}

// num returns the parameter or def when absent. Non-finite values and
// values failing valid are replaced by def and reported.
func (r *resolver) num(key string, def float64, valid func(float64) bool, rule string) float64 {
	v, ok := r.p.Num[key]
	if !ok {
		return def
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		r.reject(key, v, def, "is not finite")
		return def
	}
	if valid != nil && !valid(v) {
		r.reject(key, v, def, rule)
		return def
	}
	return v
}

// count reads a positive integer parameter; fractional values truncate.
func (r *resolver) count(key string, def int) int {
	v := r.num(key, float64(def), func(v float64) bool { return v >= 1 && v <= math.MaxInt32 }, "must be a positive integer")
	return int(v)
}

// check reads a switch flag; it is active only at CheckActive.
func (r *resolver) check() bool {
	return r.num(KeyCheck, CheckActive, nil, "") == CheckActive
}

func positive(v float64) bool    { return v > 0 }
func nonNegative(v float64) bool { return v >= 0 }
