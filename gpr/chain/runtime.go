package chain

import (
	"log/slog"

	"github.com/cwbudde/algo-gpr/gpr"
	"github.com/cwbudde/algo-gpr/gpr/align"
	"github.com/cwbudde/algo-gpr/gpr/filter"
	"github.com/cwbudde/algo-gpr/gpr/volume"
)

// Context provides run state that filter runtimes may read.
type Context struct {
	// InputMeans holds the per-channel means of the volume entering the chain.
	InputMeans []float64
	// Align configures align_signal passes.
	Align align.Options
	// Workers bounds per-channel parallelism inside filters.
	Workers int
	Logger  *slog.Logger
}

func (ctx Context) filterOptions() []filter.Option {
	return []filter.Option{filter.WithWorkers(ctx.Workers)}
}

// Runtime is the per-row configuration and processing contract.
type Runtime interface {
	// Configure binds the row's parameters and reports substituted defaults.
	Configure(ctx Context, params filter.Params) []gpr.Event
	// Process returns a new volume; the input must not be modified.
	Process(v volume.Volume) (volume.Volume, []gpr.Event, error)
}

// funcRuntime serves the pure filter kinds.
type funcRuntime struct {
	fn     filter.Func
	params filter.Params
	opts   []filter.Option
}

func (r *funcRuntime) Configure(ctx Context, params filter.Params) []gpr.Event {
	r.params = params.Clone()
	r.opts = ctx.filterOptions()
	return nil
}

func (r *funcRuntime) Process(v volume.Volume) (volume.Volume, []gpr.Event, error) {
	return r.fn(v, r.params, r.opts...)
}

// alignSignalRuntime re-runs amplitude alignment inside the chain.
type alignSignalRuntime struct {
	active bool
	opts   align.Options
}

func (r *alignSignalRuntime) Configure(ctx Context, params filter.Params) []gpr.Event {
	sw, events := filter.ResolveSwitch(filter.KindAlignSignal, params)
	r.active = sw.Active
	r.opts = ctx.Align
	if r.opts.Workers == 0 {
		r.opts.Workers = ctx.Workers
	}
	return events
}

func (r *alignSignalRuntime) Process(v volume.Volume) (volume.Volume, []gpr.Event, error) {
	if !r.active {
		return v.Clone(), nil, nil
	}
	out, events := align.Amplitude(v, r.opts)
	return out, events, nil
}

// channelBiasRuntime subtracts the chain input's per-channel means.
type channelBiasRuntime struct {
	active bool
	bias   []float64
	opts   []filter.Option
}

func (r *channelBiasRuntime) Configure(ctx Context, params filter.Params) []gpr.Event {
	sw, events := filter.ResolveSwitch(filter.KindChannelBias, params)
	r.active = sw.Active
	r.bias = ctx.InputMeans
	r.opts = ctx.filterOptions()
	return events
}

func (r *channelBiasRuntime) Process(v volume.Volume) (volume.Volume, []gpr.Event, error) {
	if !r.active {
		return v.Clone(), nil, nil
	}
	out, err := filter.ChannelBias(v, r.bias, r.opts...)
	return out, nil, err
}

// DefaultRegistry returns a Registry holding every built-in filter kind.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	for _, kind := range filter.Kinds() {
		fn, ok := filter.Lookup(kind)
		if !ok {
			continue
		}
		r.MustRegister(kind, func(_ Context) (Runtime, error) {
			return &funcRuntime{fn: fn}, nil
		})
	}
	r.MustRegister(filter.KindAlignSignal, func(_ Context) (Runtime, error) {
		return &alignSignalRuntime{}, nil
	})
	r.MustRegister(filter.KindChannelBias, func(_ Context) (Runtime, error) {
		return &channelBiasRuntime{}, nil
	})

	return r
}
