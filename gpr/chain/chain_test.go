package chain

import (
	"bytes"
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/cwbudde/algo-gpr/gpr"
	"github.com/cwbudde/algo-gpr/gpr/filter"
	"github.com/cwbudde/algo-gpr/gpr/volume"
	"github.com/cwbudde/algo-gpr/internal/testutil"
)

const legacyCSV = "\ufefffilter_base,default,filter_order,y_inter,grad_const,inflection_point,inflection_range,range_vaule,las_ratio,sigmaNumber,sigma_constants,sign_smoother_check,background_percent,background_check\n" +
	"gain,1,2,0.8,10,127,60,,,,,,,\n" +
	"range,1,3,,,,,5000,,,,,,\n" +
	"las,0,4,,,,,,0.98,50,0.16,,,\n" +
	"sign_smoother,1,5,,,,,,,,,2,,\n" +
	"background,1,1,,,,,,,,,,1,2\n"

const equivalentTOML = `
[[filter]]
kind = "gain"
order = 2
[filter.params]
y_inter = 0.8
grad_const = 10
inflection_point = 127
inflection_range = 60

[[filter]]
kind = "range"
order = 3
[filter.params]
range_value = 5000

[[filter]]
kind = "las"
enabled = false
order = 4

[[filter]]
kind = "sign_smoother"
order = 5
[filter.params]
check = 2

[[filter]]
kind = "background"
order = 1
[filter.params]
percent = 1
check = 2
`

func kinds(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Kind
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func randomVolume(t *testing.T, seed int64, channels, depth, traces, amplitude int) volume.Volume {
	t.Helper()
	v, err := volume.Reshape(testutil.RandomSamples(seed, amplitude, channels*depth*traces), channels, depth)
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func table(entries ...Entry) Table {
	for i := range entries {
		entries[i].Enabled = true
		if entries[i].Order == 0 {
			entries[i].Order = float64(i + 1)
		}
	}
	return Table{Entries: entries}
}

func TestDefaultTable(t *testing.T) {
	t.Parallel()

	tab := DefaultTable()
	if len(tab.Entries) != len(filter.Kinds()) {
		t.Fatalf("default table has %d rows, want %d", len(tab.Entries), len(filter.Kinds()))
	}
	got := kinds(tab.Active())
	want := []string{"background", "gain", "las", "range"}
	if !equalStrings(got, want) {
		t.Fatalf("Active() = %v, want %v", got, want)
	}
	for _, e := range tab.Entries {
		if _, ok := filter.ParseKind(e.Kind); !ok {
			t.Fatalf("default table row %q has an unknown kind", e.Kind)
		}
	}

	// Fresh value per call.
	tab.Entries[0].Kind = "mutated"
	if DefaultTable().Entries[0].Kind == "mutated" {
		t.Fatal("DefaultTable shares state between calls")
	}
}

func TestParseCSV(t *testing.T) {
	t.Parallel()

	tab, err := ParseCSV(strings.NewReader(legacyCSV))
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if len(tab.Entries) != 5 {
		t.Fatalf("entries = %d, want 5", len(tab.Entries))
	}

	gain := tab.Entries[0]
	if gain.Kind != "gain" || !gain.Enabled || gain.Order != 2 {
		t.Fatalf("gain row = %+v", gain)
	}
	if gain.Params[filter.KeyInflectionPoint] != 127 {
		t.Fatalf("gain params = %v", gain.Params)
	}
	if _, ok := gain.Params[filter.KeyRangeValue]; ok {
		t.Fatal("range column leaked into gain row")
	}

	rng := tab.Entries[1]
	if rng.Params[filter.KeyRangeValue] != 5000 {
		t.Fatalf("range params = %v", rng.Params)
	}
	if tab.Entries[2].Enabled {
		t.Fatal("las row should be disabled")
	}
	if got := tab.Entries[3].Params[filter.KeyCheck]; got != 2 {
		t.Fatalf("sign_smoother check = %v, want 2", got)
	}
}

func TestParseCSVEmptyCellIsZero(t *testing.T) {
	t.Parallel()

	tab, err := ParseCSV(strings.NewReader("filter_base,default,filter_order,edge_range\nedge,1,,\n"))
	if err != nil {
		t.Fatal(err)
	}
	e := tab.Entries[0]
	if e.Order != 0 {
		t.Fatalf("order = %v, want 0", e.Order)
	}
	v, ok := e.Params[filter.KeyEdgeRange]
	if !ok || v != 0 {
		t.Fatalf("edge_range = (%v, %v), want (0, true)", v, ok)
	}
}

func TestParseCSVErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"no kind column", "default,filter_order\n1,1\n"},
		{"bad number", "filter_base,default,filter_order\ngain,yes,1\n"},
	}
	for _, tt := range tests {
		if _, err := ParseCSV(strings.NewReader(tt.in)); !errors.Is(err, gpr.ErrConfig) {
			t.Fatalf("%s: err = %v, want ErrConfig", tt.name, err)
		}
	}
}

func TestCSVAndTOMLOrderMatch(t *testing.T) {
	t.Parallel()

	fromCSV, err := ParseCSV(strings.NewReader(legacyCSV))
	if err != nil {
		t.Fatal(err)
	}
	fromTOML, err := ParseTOML(strings.NewReader(equivalentTOML))
	if err != nil {
		t.Fatal(err)
	}

	a, b := kinds(fromCSV.Active()), kinds(fromTOML.Active())
	if !equalStrings(a, b) {
		t.Fatalf("CSV order %v != TOML order %v", a, b)
	}
	want := []string{"background", "gain", "range", "sign_smoother"}
	if !equalStrings(a, want) {
		t.Fatalf("order = %v, want %v", a, want)
	}
}

func TestParseTOMLErrors(t *testing.T) {
	t.Parallel()

	for _, in := range []string{
		"[[filter]]\norder = 1\n",
		"[[filter]]\nkind = \"gain\"\ncolour = \"red\"\n",
		"[[filter]\n",
	} {
		if _, err := ParseTOML(strings.NewReader(in)); !errors.Is(err, gpr.ErrConfig) {
			t.Fatalf("ParseTOML(%q) err = %v, want ErrConfig", in, err)
		}
	}
}

func TestWriteTOMLRoundTrip(t *testing.T) {
	t.Parallel()

	src, err := ParseCSV(strings.NewReader(legacyCSV))
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := src.WriteTOML(&buf); err != nil {
		t.Fatal(err)
	}
	back, err := ParseTOML(&buf)
	if err != nil {
		t.Fatalf("ParseTOML(WriteTOML): %v\n%s", err, buf.String())
	}
	if !equalStrings(kinds(src.Active()), kinds(back.Active())) {
		t.Fatalf("order changed: %v vs %v", kinds(src.Active()), kinds(back.Active()))
	}
	if back.Entries[0].Params[filter.KeyGradConst] != 10 {
		t.Fatalf("params lost: %v", back.Entries[0].Params)
	}
}

func TestActiveIsStable(t *testing.T) {
	t.Parallel()

	tab := Table{Entries: []Entry{
		{Kind: "edge", Enabled: true, Order: 2},
		{Kind: "gain", Enabled: true, Order: 1},
		{Kind: "range", Enabled: true, Order: 2},
		{Kind: "las", Enabled: false, Order: 0},
		{Kind: "kalman", Enabled: true, Order: 1},
	}}
	got := kinds(tab.Active())
	want := []string{"gain", "kalman", "edge", "range"}
	if !equalStrings(got, want) {
		t.Fatalf("Active() = %v, want %v", got, want)
	}
}

func TestApplyEndToEndRange(t *testing.T) {
	t.Parallel()

	v := randomVolume(t, 7, 25, 256, 10, math.MaxInt16)
	if v.Channels != 25 || v.Depth != 256 || v.Traces != 10 {
		t.Fatalf("shape = %dx%dx%d", v.Channels, v.Depth, v.Traces)
	}

	out, events, err := Apply(context.Background(), v,
		table(Entry{Kind: "range", Params: map[string]float64{filter.KeyRangeValue: 100}}), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 0 {
		t.Fatalf("events = %v", events)
	}
	if out.Channels != 25 || out.Depth != 256 || out.Traces != 10 {
		t.Fatalf("out shape = %dx%dx%d", out.Channels, out.Depth, out.Traces)
	}
	for i, s := range out.Data {
		if s < -100 || s > 100 {
			t.Fatalf("out[%d] = %d outside [-100, 100]", i, s)
		}
	}
}

func TestApplyIsOrderSensitive(t *testing.T) {
	t.Parallel()

	v := randomVolume(t, 11, 25, 256, 10, 200)
	gain := Entry{Kind: "gain"}
	rng := Entry{Kind: "range", Params: map[string]float64{filter.KeyRangeValue: 100}}

	gainFirst, _, err := Apply(context.Background(), v, table(gain, rng), Options{})
	if err != nil {
		t.Fatal(err)
	}
	rangeFirst, _, err := Apply(context.Background(), v, table(rng, gain), Options{})
	if err != nil {
		t.Fatal(err)
	}

	differ := false
	for i := range gainFirst.Data {
		if gainFirst.Data[i] != rangeFirst.Data[i] {
			differ = true
			break
		}
	}
	if !differ {
		t.Fatal("gain→range and range→gain produced identical volumes")
	}
}

func TestApplyWrapsOnOverflow(t *testing.T) {
	t.Parallel()

	v, err := volume.FromData(1, 256, 2, testutil.Constant(30000, 512))
	if err != nil {
		t.Fatal(err)
	}
	out, _, err := Apply(context.Background(), v, table(Entry{Kind: "gain"}), Options{})
	if err != nil {
		t.Fatal(err)
	}

	curve := filter.GainCurve(256, filter.DefaultGainParams())
	for d := 0; d < 256; d++ {
		want := int32(volume.Narrow(30000 * curve[d]))
		if got := out.At(0, d, 0); got != want {
			t.Fatalf("depth %d = %d, want %d", d, got, want)
		}
		if got := out.At(0, d, 0); got < math.MinInt16 || got > math.MaxInt16 {
			t.Fatalf("depth %d = %d outside int16", d, got)
		}
	}
}

func TestApplySkipsUnknownKind(t *testing.T) {
	t.Parallel()

	v := randomVolume(t, 3, 2, 8, 4, 1000)
	out, events, err := Apply(context.Background(), v, table(Entry{Kind: "wavelet"}), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || !errors.Is(events[0].Err, ErrUnknownFilter) || !errors.Is(events[0].Err, gpr.ErrConfig) {
		t.Fatalf("events = %v, want one unknown-filter event", events)
	}
	if !equalWide(out, volume.Widen(v)) {
		t.Fatal("unknown kind changed the volume")
	}
}

type panicRuntime struct{}

func (panicRuntime) Configure(Context, filter.Params) []gpr.Event { return nil }

func (panicRuntime) Process(volume.Volume) (volume.Volume, []gpr.Event, error) {
	panic("boom")
}

func TestApplyRecoversPanic(t *testing.T) {
	t.Parallel()

	reg := DefaultRegistry()
	reg.MustRegister("explode", func(Context) (Runtime, error) { return panicRuntime{}, nil })

	v := randomVolume(t, 5, 2, 8, 4, 1000)
	tab := table(
		Entry{Kind: "explode"},
		Entry{Kind: "range", Params: map[string]float64{filter.KeyRangeValue: 10}},
	)
	out, events, err := Apply(context.Background(), v, tab, Options{Registry: reg})
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || !errors.Is(events[0].Err, ErrFilterFailed) {
		t.Fatalf("events = %v, want one ErrFilterFailed", events)
	}

	want, err := filter.Range(v, filter.RangeParams{Value: 10})
	if err != nil {
		t.Fatal(err)
	}
	if !equalWide(out, volume.Widen(want)) {
		t.Fatal("chain did not continue with the unchanged volume after a panic")
	}
}

func TestApplyKeepsInputOnDegeneracy(t *testing.T) {
	t.Parallel()

	v := randomVolume(t, 8, 2, 8, 4, 1000)
	tab := table(Entry{Kind: "gain", Params: map[string]float64{
		filter.KeyYInter:    math.MaxFloat64,
		filter.KeyGradConst: math.MaxFloat64,
	}})
	out, events, err := Apply(context.Background(), v, tab, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || !errors.Is(events[0].Err, gpr.ErrNumericDegeneracy) {
		t.Fatalf("events = %v, want one ErrNumericDegeneracy", events)
	}
	if !equalWide(out, volume.Widen(v)) {
		t.Fatal("degenerate filter output was not discarded")
	}
}

func TestApplyChannelBiasUsesChainInput(t *testing.T) {
	t.Parallel()

	data := append(testutil.Constant(100, 8), testutil.Constant(-50, 8)...)
	v, err := volume.FromData(2, 4, 2, data)
	if err != nil {
		t.Fatal(err)
	}
	tab := table(
		Entry{Kind: "range", Params: map[string]float64{filter.KeyRangeValue: 60}},
		Entry{Kind: "ch_bias"},
	)
	out, _, err := Apply(context.Background(), v, tab, Options{})
	if err != nil {
		t.Fatal(err)
	}
	// Clipped to 60 / -50, minus the unclipped means 100 / -50.
	for i, s := range out.Data {
		want := int32(-40)
		if i >= 8 {
			want = 0
		}
		if s != want {
			t.Fatalf("out[%d] = %d, want %d", i, s, want)
		}
	}
}

func TestApplySwitchInactive(t *testing.T) {
	t.Parallel()

	v := randomVolume(t, 4, 2, 8, 4, 1000)
	off := map[string]float64{filter.KeyCheck: 0}
	tab := table(
		Entry{Kind: "ch_bias", Params: off},
		Entry{Kind: "alingnSignal", Params: off},
		Entry{Kind: "background", Params: off},
	)
	out, events, err := Apply(context.Background(), v, tab, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 0 {
		t.Fatalf("events = %v", events)
	}
	if !equalWide(out, volume.Widen(v)) {
		t.Fatal("inactive switches changed the volume")
	}
}

func TestApplyCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	v := randomVolume(t, 1, 2, 8, 4, 1000)
	out, _, err := Apply(ctx, v, table(Entry{Kind: "range"}), Options{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if out.Data != nil {
		t.Fatal("cancelled run returned a volume")
	}
}

func TestApplyDoesNotModifyInput(t *testing.T) {
	t.Parallel()

	v := randomVolume(t, 12, 3, 16, 8, 3000)
	orig := v.Clone()
	tab := DefaultTable()
	for i := range tab.Entries {
		tab.Entries[i].Enabled = true
	}
	if _, _, err := Apply(context.Background(), v, tab, Options{Workers: 2}); err != nil {
		t.Fatal(err)
	}
	if !volume.Equal(v, orig) {
		t.Fatal("Apply modified its input")
	}
}

func equalWide(a, b volume.Wide) bool {
	if a.Channels != b.Channels || a.Depth != b.Depth || a.Traces != b.Traces || len(a.Data) != len(b.Data) {
		return false
	}
	for i := range a.Data {
		if a.Data[i] != b.Data[i] {
			return false
		}
	}
	return true
}
