// Package pipeline turns one acquisition on disk into a filtered volume:
// read, reshape, align, then run the filter chain.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/cwbudde/algo-gpr/gpr"
	"github.com/cwbudde/algo-gpr/gpr/align"
	"github.com/cwbudde/algo-gpr/gpr/chain"
	"github.com/cwbudde/algo-gpr/gpr/rd3"
	"github.com/cwbudde/algo-gpr/gpr/volume"
	"github.com/cwbudde/algo-gpr/internal/logging"
)

const stageHeader = "header"

// Request describes one run. It carries all per-run state; nothing is
// shared between concurrent runs.
type Request struct {
	Dir  string
	Base string
	// Table is the filter table; an empty table selects chain.DefaultTable.
	Table chain.Table
	Align align.Options
	// Channels overrides the header's channel count when positive. With
	// neither set, volume.DefaultChannels applies.
	Channels  int
	DepthBins int
	Workers   int
	Logger    *slog.Logger
}

// NewRequest returns a request for dir/base with default alignment and the
// built-in filter table.
func NewRequest(dir, base string) Request {
	return Request{
		Dir:       dir,
		Base:      base,
		Table:     chain.DefaultTable(),
		Align:     align.DefaultOptions(),
		DepthBins: volume.DefaultDepthBins,
	}
}

// Result is the outcome of a successful run.
type Result struct {
	RunID   uuid.UUID
	Header  rd3.HeaderInfo
	Volume  volume.Wide
	Events  []gpr.Event
	Elapsed time.Duration
}

// Process runs the full pipeline for req. Format errors abort the run and
// no volume is returned; recovered conditions are returned as events and
// logged at WARN.
func Process(ctx context.Context, req Request) (Result, error) {
	start := time.Now()
	res := Result{RunID: uuid.New()}
	log := logging.NewComponentLogger(req.Logger, "pipeline").With(
		slog.String(logging.FieldRunID, res.RunID.String()),
		slog.String(logging.FieldBase, req.Base),
	)

	if err := ctx.Err(); err != nil {
		return res, err
	}
	// Events gathered before a failure are still logged.
	fail := func(err error) (Result, error) {
		gpr.Log(ctx, log, res.Events)
		return res, err
	}

	data, err := rd3.Load(rd3.Acquisition{Dir: req.Dir, Base: req.Base})
	if err != nil {
		log.Error("load failed", logging.Error(err))
		return res, fmt.Errorf("pipeline: %s: %w", req.Base, err)
	}
	res.Header = data.Header
	for _, w := range data.Header.Warnings {
		res.Events = append(res.Events, gpr.NewEvent(stageHeader, -1, gpr.ErrConfig, "%s", w))
	}

	channels := req.Channels
	if channels <= 0 {
		channels = data.Header.Channels
	}
	v, err := volume.Reshape(data.Trace, channels, req.DepthBins)
	if err != nil {
		return fail(fmt.Errorf("pipeline: %s: %w: %w", req.Base, gpr.ErrFormat, err))
	}
	if v.Traces == 0 {
		return fail(fmt.Errorf("pipeline: %s: %w: %d samples hold no complete trace of %dx%d",
			req.Base, gpr.ErrFormat, len(data.Trace), v.Channels, v.Depth))
	}
	log.Info("acquisition loaded",
		slog.Int("channels", v.Channels),
		slog.Int("depth", v.Depth),
		slog.Int("traces", v.Traces),
	)

	alignOpts := req.Align
	alignOpts.Logger = req.Logger
	if alignOpts.Workers == 0 {
		alignOpts.Workers = req.Workers
	}
	aligned, events := align.All(v, data.Header, alignOpts)
	res.Events = append(res.Events, events...)

	table := req.Table
	if len(table.Entries) == 0 {
		table = chain.DefaultTable()
	}
	wide, events, err := chain.Apply(ctx, aligned, table, chain.Options{
		Align:   alignOpts,
		Workers: req.Workers,
		Logger:  req.Logger,
	})
	res.Events = append(res.Events, events...)
	if err != nil {
		log.Error("filter chain failed", logging.Error(err))
		return fail(fmt.Errorf("pipeline: %s: %w", req.Base, err))
	}
	res.Volume = wide
	res.Elapsed = time.Since(start)

	gpr.Log(ctx, log, res.Events)
	log.Info("acquisition processed",
		slog.Int("events", len(res.Events)),
		slog.Duration("elapsed", res.Elapsed),
	)
	return res, nil
}
