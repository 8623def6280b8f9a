package filter

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-gpr/gpr"
	"github.com/cwbudde/algo-gpr/gpr/volume"
	"github.com/cwbudde/algo-gpr/internal/testutil"
)

func mustVolume(t *testing.T, channels, depth, traces int, data []int16) volume.Volume {
	t.Helper()
	v, err := volume.FromData(channels, depth, traces, data)
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func randomVolume(t *testing.T, seed int64, channels, depth, traces int) volume.Volume {
	t.Helper()
	return mustVolume(t, channels, depth, traces,
		testutil.RandomSamples(seed, 4000, channels*depth*traces))
}

func TestParseKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Kind
		ok   bool
	}{
		{"gain", KindGain, true},
		{" Range ", KindRange, true},
		{"alignSignal", KindAlignSignal, true},
		{"alingnSignal", KindAlignSignal, true},
		{"ch_bias", KindChannelBias, true},
		{"sign_smoother", KindSignSmoother, true},
		{"wavelet", Kind("wavelet"), false},
	}

	for _, tt := range tests {
		got, ok := ParseKind(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Fatalf("ParseKind(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestResolveDefaults(t *testing.T) {
	t.Parallel()

	if got, ev := ResolveGain(Params{}); got != DefaultGainParams() || len(ev) != 0 {
		t.Fatalf("ResolveGain = %+v %v", got, ev)
	}
	if got, ev := ResolveLas(Params{}); got != DefaultLasParams() || len(ev) != 0 {
		t.Fatalf("ResolveLas = %+v %v", got, ev)
	}
	if got, ev := ResolveKalman(Params{}); got != DefaultKalmanParams() || len(ev) != 0 {
		t.Fatalf("ResolveKalman = %+v %v", got, ev)
	}
	if got, ev := ResolveAverage(Params{}); got != DefaultAverageParams() || len(ev) != 0 {
		t.Fatalf("ResolveAverage = %+v %v", got, ev)
	}
	if got, _ := ResolveBackground(Params{}); !got.Active || got.Percent != 1 {
		t.Fatalf("ResolveBackground = %+v", got)
	}
}

func TestResolveInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		resolve func(Params) (any, []gpr.Event)
		params  map[string]float64
		want    any
	}{
		{
			name:    "inflection range",
			resolve: func(p Params) (any, []gpr.Event) { return ResolveGain(p) },
			params:  map[string]float64{KeyInflectionRange: 0, KeyYInter: 2},
			want:    GainParams{YInter: 2, GradConst: 10, InflectionPoint: 127, InflectionRange: 60},
		},
		{
			name:    "negative range",
			resolve: func(p Params) (any, []gpr.Event) { return ResolveRange(p) },
			params:  map[string]float64{KeyRangeValue: -5},
			want:    RangeParams{Value: 5000},
		},
		{
			name:    "sigma number",
			resolve: func(p Params) (any, []gpr.Event) { return ResolveLas(p) },
			params:  map[string]float64{KeySigmaNumber: 0.2},
			want:    DefaultLasParams(),
		},
		{
			name:    "kernel size",
			resolve: func(p Params) (any, []gpr.Event) { return ResolveAverage(p) },
			params:  map[string]float64{KeyDepth: -3, KeyDist: 5},
			want:    AverageParams{Depth: 3, Dist: 5},
		},
		{
			name:    "axis",
			resolve: func(p Params) (any, []gpr.Event) { return ResolveKalman(p) },
			params:  map[string]float64{KeyAxis: 3},
			want:    DefaultKalmanParams(),
		},
		{
			name:    "not finite",
			resolve: func(p Params) (any, []gpr.Event) { return ResolveYDifferential(p) },
			params:  map[string]float64{KeyWindow: math.NaN()},
			want:    DifferentialParams{Window: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, events := tt.resolve(Params{Num: tt.params})
			if got != tt.want {
				t.Fatalf("resolve = %+v, want %+v", got, tt.want)
			}
			if len(events) != 1 || !errors.Is(events[0].Err, gpr.ErrConfig) {
				t.Fatalf("events = %v, want one ErrConfig", events)
			}
		})
	}
}

func TestSwitchFlag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		num  map[string]float64
		want bool
	}{
		{nil, true},
		{map[string]float64{KeyCheck: 2}, true},
		{map[string]float64{KeyCheck: 1}, false},
		{map[string]float64{KeyCheck: 0}, false},
	}
	for _, tt := range tests {
		got, _ := ResolveSwitch(KindChannelBias, Params{Num: tt.num})
		if got.Active != tt.want {
			t.Fatalf("ResolveSwitch(%v).Active = %v, want %v", tt.num, got.Active, tt.want)
		}
	}
}

func TestRangeBoundary(t *testing.T) {
	t.Parallel()

	v := mustVolume(t, 1, 1, 6, []int16{5000, -5000, 5001, -5001, 0, 32767})
	out, err := Range(v, RangeParams{Value: 5000})
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireSamplesEqual(t, out.Data, []int16{5000, -5000, 5000, -5000, 0, 5000})
	testutil.RequireSamplesEqual(t, v.Data, []int16{5000, -5000, 5001, -5001, 0, 32767})
}

func TestGainCurve(t *testing.T) {
	t.Parallel()

	p := DefaultGainParams()
	curve := GainCurve(256, p)
	for d := 1; d < int(p.InflectionPoint); d++ {
		if curve[d] < curve[d-1] {
			t.Fatalf("curve[%d] = %v < curve[%d] = %v", d, curve[d], d-1, curve[d-1])
		}
	}
	for d, g := range curve {
		if g <= 0 {
			t.Fatalf("curve[%d] = %v, want > 0", d, g)
		}
	}
	if math.Abs(curve[127]-(p.GradConst+p.YInter)) > 1e-12 {
		t.Fatalf("curve[127] = %v, want %v", curve[127], p.GradConst+p.YInter)
	}
}

func TestGain(t *testing.T) {
	t.Parallel()

	v := mustVolume(t, 2, 4, 3, testutil.Constant(1000, 24))
	p := GainParams{YInter: 0.8, GradConst: 10, InflectionPoint: 2, InflectionRange: 1}
	out, err := Gain(v, p)
	if err != nil {
		t.Fatal(err)
	}

	curve := GainCurve(4, p)
	for c := 0; c < 2; c++ {
		for d := 0; d < 4; d++ {
			want := volume.Narrow(1000 * curve[d])
			for _, s := range out.Row(c, d) {
				if s != want {
					t.Fatalf("gain(%d,%d) = %d, want %d", c, d, s, want)
				}
			}
		}
	}
}

func TestGainNonFinite(t *testing.T) {
	t.Parallel()

	v := randomVolume(t, 3, 1, 4, 4)
	_, err := Gain(v, GainParams{YInter: math.MaxFloat64, GradConst: math.MaxFloat64, InflectionRange: 1})
	if !errors.Is(err, gpr.ErrNumericDegeneracy) {
		t.Fatalf("err = %v, want ErrNumericDegeneracy", err)
	}
}

func TestEdge(t *testing.T) {
	t.Parallel()

	v := mustVolume(t, 1, 1, 6, []int16{999, -999, 1000, -1000, 0, 3000})
	out, err := Edge(v, EdgeParams{Range: 1000})
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireSamplesEqual(t, out.Data, []int16{0, 0, 1000, -1000, 0, 3000})
}

func TestGaussianKernel(t *testing.T) {
	t.Parallel()

	k := GaussianKernel(7, 1.5)
	sum := 0.0
	for i, w := range k {
		sum += w
		if math.Abs(w-k[len(k)-1-i]) > 1e-15 {
			t.Fatalf("kernel not symmetric at %d", i)
		}
		if i > 0 && i <= 3 && w <= k[i-1] {
			t.Fatalf("kernel not increasing towards centre at %d", i)
		}
	}
	if math.Abs(sum-1) > 1e-12 {
		t.Fatalf("sum = %v, want 1", sum)
	}
	if GaussianKernel(0, 1) != nil {
		t.Fatal("GaussianKernel(0) should be nil")
	}
}

func TestLasConstant(t *testing.T) {
	t.Parallel()

	p := DefaultLasParams()
	e := (1.0001 - p.Ratio) / 2
	m := 1000.001
	want := volume.Narrow(1000 - m/math.Pow(m*m, e))

	for _, traces := range []int{1, 40, 120} {
		v := mustVolume(t, 2, 3, traces, testutil.Constant(1000, 6*traces))
		out, err := Las(v, p)
		if err != nil {
			t.Fatal(err)
		}
		for i, s := range out.Data {
			if s != want {
				t.Fatalf("traces=%d: out[%d] = %d, want %d", traces, i, s, want)
			}
		}
	}
}

func TestAverage(t *testing.T) {
	t.Parallel()

	data := make([]int16, 25)
	data[2*5+2] = 900
	v := mustVolume(t, 1, 5, 5, data)

	out, err := Average(v, AverageParams{Depth: 3, Dist: 3})
	if err != nil {
		t.Fatal(err)
	}
	for d := 0; d < 5; d++ {
		for tr := 0; tr < 5; tr++ {
			want := int16(0)
			if d >= 1 && d <= 3 && tr >= 1 && tr <= 3 {
				want = 100
			}
			if got := out.At(0, d, tr); got != want {
				t.Fatalf("avg(%d,%d) = %d, want %d", d, tr, got, want)
			}
		}
	}

	flat := mustVolume(t, 2, 6, 7, testutil.Constant(-321, 84))
	out, err = Average(flat, AverageParams{Depth: 5, Dist: 3})
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireSamplesEqual(t, out.Data, flat.Data)
}

func TestDifferentiate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		x      []float64
		window int
		want   []float64
	}{
		{"forward", []float64{1, 3, 6, 10}, 1, []float64{2, 3, 4, 0}},
		{"clamped", []float64{0, 2, 4}, 10, []float64{1, 2, 0}},
		{"single", []float64{7}, 1, []float64{0}},
		{"empty", nil, 1, []float64{}},
	}

	for _, tt := range tests {
		got, err := Differentiate(tt.x, tt.window)
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		testutil.RequireSliceNearlyEqual(t, got, tt.want, 1e-12)
	}
}

func TestDifferentials(t *testing.T) {
	t.Parallel()

	// Ramp along distance, constant along depth.
	const depth, traces = 4, 5
	data := make([]int16, 0, 2*depth*traces)
	for i := 0; i < 2*depth; i++ {
		data = append(data, testutil.Ramp(0, 10, traces)...)
	}
	v := mustVolume(t, 2, depth, traces, data)

	y, err := YDifferential(v, DifferentialParams{Window: 1})
	if err != nil {
		t.Fatal(err)
	}
	for c := 0; c < 2; c++ {
		for d := 0; d < depth; d++ {
			testutil.RequireSamplesEqual(t, y.Row(c, d), []int16{10, 10, 10, 10, 0})
		}
	}

	z, err := ZDifferential(v, DifferentialParams{Window: 2})
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireSamplesEqual(t, z.Data, make([]int16, len(v.Data)))
}

func TestSignSmootherRemovesOutlier(t *testing.T) {
	t.Parallel()

	const channels, depth, traces = 5, 32, 32
	v := mustVolume(t, channels, depth, traces, testutil.Constant(100, channels*depth*traces))
	v.Set(2, 16, 16, -100)
	orig := v.Clone()

	out, err := SignSmoother(v, SwitchParams{Active: true}, WithWorkers(3))
	if err != nil {
		t.Fatal(err)
	}
	if !volume.Equal(v, orig) {
		t.Fatal("input modified")
	}
	if got := out.At(2, 16, 16); got != 0 {
		t.Fatalf("outlier = %d, want 0", got)
	}
	for d := 10; d < 22; d++ {
		for tr := 10; tr < 22; tr++ {
			if d == 16 && tr == 16 {
				continue
			}
			if got := out.At(2, d, tr); got != 100 {
				t.Fatalf("out(2,%d,%d) = %d, want 100", d, tr, got)
			}
		}
	}
}

func TestSignSmootherInactive(t *testing.T) {
	t.Parallel()

	v := randomVolume(t, 9, 2, 6, 6)
	out, err := SignSmoother(v, SwitchParams{Active: false})
	if err != nil {
		t.Fatal(err)
	}
	if !volume.Equal(out, v) {
		t.Fatal("inactive sign smoother changed the volume")
	}
}

func TestKalmanGains(t *testing.T) {
	t.Parallel()

	got := KalmanGains(5, 0.2)
	testutil.RequireSliceNearlyEqual(t, got, []float64{0, 1.0 / 2, 1.0 / 3, 1.0 / 4, 1.0 / 5}, 1e-12)
	testutil.RequireSliceNearlyEqual(t, KalmanGains(3, 0), []float64{0, 0, 0}, 0)
}

func TestKalmanConstantFixedPoint(t *testing.T) {
	t.Parallel()

	v := mustVolume(t, 3, 8, 6, testutil.Constant(-1234, 3*8*6))
	for axis := 0; axis < 3; axis++ {
		out, err := Kalman(v, KalmanParams{Axis: axis, PercentVar: 0.2, Gain: 0.1})
		if err != nil {
			t.Fatal(err)
		}
		if !volume.Equal(out, v) {
			t.Fatalf("axis %d: constant signal not preserved", axis)
		}
	}
}

func TestKalmanStep(t *testing.T) {
	t.Parallel()

	v := mustVolume(t, 1, 1, 2, []int16{0, 100})
	out, err := Kalman(v, KalmanParams{Axis: 2, PercentVar: 0.2, Gain: 0.1})
	if err != nil {
		t.Fatal(err)
	}
	// 0 + 0.9*100 + 0.5*100
	testutil.RequireSamplesEqual(t, out.Data, []int16{0, 140})
}

func TestBackground(t *testing.T) {
	t.Parallel()

	v := mustVolume(t, 1, 2, 3, []int16{10, 20, 31, -5, -5, -5})
	out, err := Background(v, BackgroundParams{Percent: 1, Active: true})
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireSamplesEqual(t, out.Data, []int16{-10, 0, 11, 0, 0, 0})

	out, err = Background(v, BackgroundParams{Percent: 1})
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireSamplesEqual(t, out.Data, v.Data)
}

func TestChannelBias(t *testing.T) {
	t.Parallel()

	v := mustVolume(t, 2, 1, 2, []int16{10, 20, -4, -6})
	means := ChannelMeans(v)
	testutil.RequireSliceNearlyEqual(t, means, []float64{15, -5}, 0)

	out, err := ChannelBias(v, means)
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireSamplesEqual(t, out.Data, []int16{-5, 5, 1, -1})

	if _, err := ChannelBias(v, []float64{1}); !errors.Is(err, gpr.ErrConfig) {
		t.Fatalf("err = %v, want ErrConfig", err)
	}
}

func TestLookup(t *testing.T) {
	t.Parallel()

	for _, kind := range Kinds() {
		_, ok := Lookup(kind)
		want := kind != KindAlignSignal && kind != KindChannelBias
		if ok != want {
			t.Fatalf("Lookup(%s) ok = %v, want %v", kind, ok, want)
		}
	}
}

func TestFiltersArePureAndDeterministic(t *testing.T) {
	t.Parallel()

	v := randomVolume(t, 42, 3, 16, 12)
	orig := v.Clone()
	params := Params{Num: map[string]float64{KeySigmaNumber: 9, KeyWindow: 2, KeyAxis: 2}}

	for _, kind := range Kinds() {
		fn, ok := Lookup(kind)
		if !ok {
			continue
		}
		serial, _, err := fn(v, params, WithWorkers(1))
		if err != nil {
			t.Fatalf("%s: %v", kind, err)
		}
		parallel, _, err := fn(v, params, WithWorkers(4))
		if err != nil {
			t.Fatalf("%s: %v", kind, err)
		}
		if !volume.Equal(serial, parallel) {
			t.Fatalf("%s: result depends on worker count", kind)
		}
		if !volume.Equal(v, orig) {
			t.Fatalf("%s: input modified", kind)
		}
	}
}

func TestSingleTraceVolume(t *testing.T) {
	t.Parallel()

	v := randomVolume(t, 5, 2, 8, 1)
	for _, kind := range Kinds() {
		fn, ok := Lookup(kind)
		if !ok {
			continue
		}
		out, _, err := fn(v, Params{})
		if err != nil {
			t.Fatalf("%s: %v", kind, err)
		}
		if !volume.SameShape(out, v) {
			t.Fatalf("%s: shape changed", kind)
		}
	}
}
