package chain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cwbudde/algo-gpr/gpr"
	"github.com/cwbudde/algo-gpr/gpr/align"
	"github.com/cwbudde/algo-gpr/gpr/filter"
	"github.com/cwbudde/algo-gpr/gpr/volume"
	"github.com/cwbudde/algo-gpr/internal/logging"
)

// Errors reported in chain events.
var (
	// ErrUnknownFilter marks a row whose kind has no registered runtime.
	ErrUnknownFilter = fmt.Errorf("%w: unknown filter kind", gpr.ErrConfig)
	// ErrFilterFailed marks a filter that returned an error or panicked.
	ErrFilterFailed = errors.New("chain: filter failed")
)

const component = "chain"

// Options configures Apply.
type Options struct {
	// Registry resolves kinds; nil uses DefaultRegistry.
	Registry *Registry
	// Align configures align_signal rows.
	Align   align.Options
	Workers int
	Logger  *slog.Logger
}

// Apply runs the enabled rows of table over v in ascending order and widens
// the result. A row with an unknown kind is skipped; a row whose filter
// fails keeps its input. Both are reported as events. ctx is checked
// between rows; on cancellation no volume is returned.
func Apply(ctx context.Context, v volume.Volume, table Table, opts Options) (volume.Wide, []gpr.Event, error) {
	reg := opts.Registry
	if reg == nil {
		reg = DefaultRegistry()
	}
	log := logging.NewComponentLogger(opts.Logger, component)

	rc := Context{
		InputMeans: filter.ChannelMeans(v),
		Align:      opts.Align,
		Workers:    opts.Workers,
		Logger:     opts.Logger,
	}

	var events []gpr.Event
	work := v
	for _, entry := range table.Active() {
		if err := ctx.Err(); err != nil {
			return volume.Wide{}, events, fmt.Errorf("chain: %w", err)
		}

		kind, _ := filter.ParseKind(entry.Kind)
		factory := reg.Lookup(kind)
		if factory == nil {
			events = append(events, gpr.Event{
				Stage:   entry.Kind,
				Channel: -1,
				Err:     fmt.Errorf("%w: %q", ErrUnknownFilter, entry.Kind),
			})
			log.Warn("skipping unknown filter", slog.String("kind", entry.Kind))
			continue
		}

		start := time.Now()
		out, evs, err := runEntry(factory, rc, entry, work)
		events = append(events, evs...)
		if err != nil {
			events = append(events, gpr.Event{Stage: string(kind), Channel: -1, Err: err})
			log.Warn("filter failed, keeping input",
				slog.String("kind", string(kind)),
				logging.Error(err),
			)
			continue
		}

		work = out
		log.Debug("filter applied",
			slog.String("kind", string(kind)),
			slog.Float64("order", entry.Order),
			slog.Duration("elapsed", time.Since(start)),
		)
	}

	return volume.Widen(work), events, nil
}

// runEntry configures and runs one row, converting panics into errors.
func runEntry(factory Factory, rc Context, entry Entry, v volume.Volume) (out volume.Volume, events []gpr.Event, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = volume.Volume{}
			err = fmt.Errorf("%w: %s panicked: %v", ErrFilterFailed, entry.Kind, r)
		}
	}()

	rt, err := factory(rc)
	if err != nil {
		return volume.Volume{}, nil, fmt.Errorf("%w: build %s: %w", ErrFilterFailed, entry.Kind, err)
	}
	events = rt.Configure(rc, entry.FilterParams())

	out, evs, err := rt.Process(v)
	events = append(events, evs...)
	if err == nil && !volume.SameShape(out, v) {
		err = fmt.Errorf("%w: %s changed the volume shape", ErrFilterFailed, entry.Kind)
	}
	return out, events, err
}
