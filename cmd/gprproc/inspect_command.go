package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-gpr/gpr/rd3"
)

func newInspectCommand(ctx *commandContext) *cobra.Command {
	var showFields bool

	cmd := &cobra.Command{
		Use:   "inspect <dir> <base>",
		Short: "Show the files and header of an acquisition",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			acq := rd3.Acquisition{Dir: args[0], Base: args[1]}
			if err := acq.Validate(); err != nil {
				return err
			}
			header, err := rd3.ReadHeader(acq.HeaderPath())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fprintf(out, "%s\n\n", renderFiles(acq))

			channels := header.Channels
			if cfg.Reader.Channels > 0 {
				channels = cfg.Reader.Channels
			}
			depth := header.Samples
			if depth <= 0 {
				depth = cfg.Reader.DepthBins
			}
			fprintf(out, "%s\n", renderGeometry(acq, header, channels, depth))

			if showFields {
				rows := make([][]string, 0, len(header.Keys))
				for _, key := range header.Keys {
					rows = append(rows, []string{key, header.Fields[key]})
				}
				fprintf(out, "\n%s\n", renderTable([]string{"Key", "Value"}, rows, nil))
			}
			for _, w := range header.Warnings {
				fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showFields, "fields", false, "Print every header field")

	return cmd
}

func renderFiles(acq rd3.Acquisition) string {
	rows := make([][]string, 0, 3)
	for _, ext := range []string{rd3.ExtTrace, rd3.ExtHeader, rd3.ExtSurface} {
		path := acq.Path(ext)
		size := "-"
		present := false
		if st, err := os.Stat(path); err == nil && !st.IsDir() {
			size = humanize.Bytes(uint64(st.Size()))
			present = true
		}
		rows = append(rows, []string{acq.Base + ext, yesNo(present), size})
	}
	return renderTable([]string{"File", "Present", "Size"}, rows, []columnAlignment{alignLeft, alignLeft, alignRight})
}

func renderGeometry(acq rd3.Acquisition, header rd3.HeaderInfo, channels, depth int) string {
	traces := "-"
	length := "-"
	if st, err := os.Stat(acq.TracePath()); err == nil && channels > 0 && depth > 0 {
		n := st.Size() / 2 / int64(channels*depth)
		traces = humanize.Comma(n)
		if header.DistanceInterval > 0 {
			length = fmt.Sprintf("%s m", humanize.FtoaWithDigits(float64(n)*header.DistanceInterval, 2))
		}
	}

	offsets := make([]string, len(header.YOffsets))
	for i, y := range header.YOffsets {
		offsets[i] = strconv.FormatFloat(y, 'g', -1, 64)
	}

	rows := [][]string{
		{"Channels", strconv.Itoa(channels)},
		{"Depth bins", strconv.Itoa(depth)},
		{"Traces", traces},
		{"Declared traces", strconv.Itoa(header.LastTrace)},
		{"Distance interval", strconv.FormatFloat(header.DistanceInterval, 'g', -1, 64)},
		{"Line length", length},
		{"Y offsets", strings.Join(offsets, " ")},
	}
	return renderTable([]string{"Property", "Value"}, rows, nil)
}
