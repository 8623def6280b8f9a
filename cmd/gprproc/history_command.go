package main

import (
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-gpr/internal/journal"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var showEvents bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently processed acquisitions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withJournal(cmd.Context(), func(store *journal.Store) error {
				runs, err := store.Recent(cmd.Context(), limit)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(runs) == 0 {
					fprintf(out, "No runs recorded\n")
					return nil
				}
				fprintf(out, "%s\n", renderRuns(runs, time.Now()))
				if showEvents {
					for _, run := range runs {
						if len(run.Events) == 0 {
							continue
						}
						fprintf(out, "\n%s (%s)\n%s\n", run.Base, run.ID, renderEvents(run.Events))
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to show")
	cmd.Flags().BoolVar(&showEvents, "events", false, "List the recovered events of every run")

	return cmd
}

func renderRuns(runs []journal.Run, now time.Time) string {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			run.Base,
			run.Status,
			humanize.RelTime(run.Started, now, "ago", "from now"),
			run.Finished.Sub(run.Started).Round(time.Millisecond).String(),
			strconv.Itoa(run.Traces),
			strconv.Itoa(len(run.Events)),
			strconv.Itoa(run.Images),
			run.Error,
		})
	}
	return renderTable(
		[]string{"Base", "Status", "Started", "Duration", "Traces", "Events", "Images", "Error"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignLeft},
	)
}

func renderEvents(events []journal.Event) string {
	rows := make([][]string, 0, len(events))
	for _, ev := range events {
		channel := "-"
		if ev.Channel >= 0 {
			channel = strconv.Itoa(ev.Channel)
		}
		rows = append(rows, []string{ev.Stage, channel, ev.Message})
	}
	return renderTable([]string{"Stage", "Channel", "Message"}, rows, []columnAlignment{alignLeft, alignRight, alignLeft})
}
