package filter

import "strings"

// Kind names a filter in a configuration table.
type Kind string

// Filter kinds.
const (
	KindGain          Kind = "gain"
	KindRange         Kind = "range"
	KindLas           Kind = "las"
	KindEdge          Kind = "edge"
	KindAverage       Kind = "average"
	KindYDifferential Kind = "y_differential"
	KindZDifferential Kind = "z_differential"
	KindSignSmoother  Kind = "sign_smoother"
	KindKalman        Kind = "kalman"
	KindBackground    Kind = "background"
	KindAlignSignal   Kind = "align_signal"
	KindChannelBias   Kind = "ch_bias"
)

var kindAliases = map[string]Kind{
	"alignsignal":  KindAlignSignal,
	"alingnsignal": KindAlignSignal,
	"align_signal": KindAlignSignal,
	"chbias":       KindChannelBias,
	"backgroud":    KindBackground,
}

// Kinds returns every known kind in documentation order.
func Kinds() []Kind {
	return []Kind{
		KindGain, KindRange, KindLas, KindEdge, KindAverage,
		KindYDifferential, KindZDifferential, KindSignSmoother,
		KindKalman, KindBackground, KindAlignSignal, KindChannelBias,
	}
}

// ParseKind normalises s and resolves legacy spellings. Unknown names are
// returned as-is with ok=false.
func ParseKind(s string) (Kind, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	if k, ok := kindAliases[key]; ok {
		return k, true
	}
	for _, k := range Kinds() {
		if string(k) == key {
			return k, true
		}
	}
	return Kind(strings.TrimSpace(s)), false
}
