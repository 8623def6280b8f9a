package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-gpr/gpr/pipeline"
	"github.com/cwbudde/algo-gpr/gpr/volume"
	"github.com/cwbudde/algo-gpr/internal/config"
	"github.com/cwbudde/algo-gpr/internal/journal"
	"github.com/cwbudde/algo-gpr/internal/logging"
	"github.com/cwbudde/algo-gpr/internal/render"
)

type processOptions struct {
	outputDir string
	noRender  bool
	noJournal bool
}

func newProcessCommand(ctx *commandContext) *cobra.Command {
	var opts processOptions

	cmd := &cobra.Command{
		Use:   "process <dir> <base>...",
		Short: "Read, align, filter and render acquisitions",
		Long: "Process runs the pipeline for every base name in dir. A failing acquisition\n" +
			"is reported and the next one is processed.",
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(cmd, ctx, args[0], args[1:], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.outputDir, "output", "o", "", "Override render.output_dir")
	cmd.Flags().BoolVar(&opts.noRender, "no-render", false, "Skip image rendering")
	cmd.Flags().BoolVar(&opts.noJournal, "no-journal", false, "Do not record runs in the journal")

	return cmd
}

type processOutcome struct {
	base    string
	status  string
	traces  int
	events  int
	images  int
	bytes   int64
	elapsed time.Duration
	err     error
}

func runProcess(cmd *cobra.Command, cc *commandContext, dir string, bases []string, opts processOptions) error {
	cfg, err := cc.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := cc.logger(cmd)
	if err != nil {
		return err
	}
	table, err := cfg.FilterTable()
	if err != nil {
		return fmt.Errorf("load filter table: %w", err)
	}

	var store *journal.Store
	if cfg.Journal.Path != "" && !opts.noJournal {
		store, err = journal.Open(cmd.Context(), cfg.Journal.Path)
		if err != nil {
			return fmt.Errorf("open journal: %w", err)
		}
		defer store.Close()
	}

	outputDir := cfg.Render.OutputDir
	if opts.outputDir != "" {
		outputDir = opts.outputDir
	}
	renderEnabled := cfg.Render.Enabled && !opts.noRender

	outcomes := make([]processOutcome, 0, len(bases))
	failed := 0
	for _, base := range bases {
		if err := cmd.Context().Err(); err != nil {
			return err
		}

		req := pipeline.NewRequest(dir, base)
		req.Table = table
		req.Align = cfg.AlignOptions()
		req.Channels = cfg.Reader.Channels
		req.DepthBins = cfg.Reader.DepthBins
		req.Workers = cfg.Workers
		req.Logger = logger

		started := time.Now()
		outcome := processOne(cmd.Context(), req, cfg, outputDir, renderEnabled, logger)
		if outcome.err != nil {
			failed++
			logger.Error("acquisition failed", slog.String(logging.FieldBase, base), logging.Error(outcome.err))
		}
		outcomes = append(outcomes, outcome.processOutcome)

		if store != nil {
			run := outcome.journalRun(dir, started)
			if err := store.Record(cmd.Context(), run); err != nil {
				logger.Warn("journal record failed", slog.String(logging.FieldBase, base), logging.Error(err))
			}
		}
	}

	fprintf(cmd.OutOrStdout(), "%s\n", renderOutcomes(outcomes))
	if failed > 0 {
		return fmt.Errorf("%d of %d acquisitions failed", failed, len(bases))
	}
	return nil
}

type processResult struct {
	processOutcome
	result  pipeline.Result
	written []render.Written
}

func processOne(ctx context.Context, req pipeline.Request, cfg *config.Config, outputDir string, renderEnabled bool, logger *slog.Logger) processResult {
	out := processResult{processOutcome: processOutcome{base: req.Base, status: journal.StatusOK}}

	res, err := pipeline.Process(ctx, req)
	out.result = res
	out.events = len(res.Events)
	out.elapsed = res.Elapsed
	if err != nil {
		out.status = journal.StatusFailed
		out.err = err
		return out
	}
	out.traces = res.Volume.Traces

	if !renderEnabled {
		return out
	}
	var ranges []volume.Range
	if cfg.Render.ChunkMeters > 0 {
		ranges = volume.ChunkRanges(res.Volume.Traces, res.Header.DistanceInterval, cfg.Render.ChunkMeters)
	}
	written, err := render.WriteChunks(ctx, filepath.Join(outputDir, req.Base), req.Base, res.Volume, ranges, render.Options{
		VMin:   cfg.Render.VMin,
		VMax:   cfg.Render.VMax,
		Scale:  cfg.Render.Scale,
		Depth:  cfg.Render.Depth,
		Logger: logger,
	})
	out.written = written
	out.images = len(written)
	for _, w := range written {
		out.bytes += w.Bytes
	}
	if err != nil {
		out.status = journal.StatusFailed
		out.err = fmt.Errorf("render %s: %w", req.Base, err)
	}
	return out
}

func (r processResult) journalRun(dir string, started time.Time) journal.Run {
	id := r.result.RunID
	if id == uuid.Nil {
		id = uuid.New()
	}
	run := journal.Run{
		ID:       id.String(),
		Dir:      dir,
		Base:     r.base,
		Status:   r.status,
		Started:  started,
		Finished: time.Now(),
		Channels: r.result.Volume.Channels,
		Depth:    r.result.Volume.Depth,
		Traces:   r.traces,
		Images:   r.images,
		Events:   journal.EventsFrom(r.result.Events),
	}
	if r.err != nil {
		run.Error = r.err.Error()
	}
	return run
}

func renderOutcomes(outcomes []processOutcome) string {
	rows := make([][]string, 0, len(outcomes))
	for _, o := range outcomes {
		note := ""
		if o.err != nil {
			note = o.err.Error()
		}
		rows = append(rows, []string{
			o.base,
			o.status,
			strconv.Itoa(o.traces),
			strconv.Itoa(o.events),
			strconv.Itoa(o.images),
			humanize.Bytes(uint64(o.bytes)),
			o.elapsed.Round(time.Millisecond).String(),
			note,
		})
	}
	return renderTable(
		[]string{"Base", "Status", "Traces", "Events", "Images", "Size", "Elapsed", "Error"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight, alignLeft},
	)
}
