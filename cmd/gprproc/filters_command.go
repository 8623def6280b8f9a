package main

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-gpr/gpr/chain"
)

func newFiltersCommand(ctx *commandContext) *cobra.Command {
	var format string
	var file string

	cmd := &cobra.Command{
		Use:   "filters",
		Short: "List the configured filter table",
		Long: "Filters prints the filter table in application order. With --format toml the\n" +
			"table is written in the TOML layout accepted by filters.path, which converts a\n" +
			"legacy CSV table when combined with --file.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			var table chain.Table
			if file != "" {
				table, err = chain.Load(file)
			} else {
				table, err = cfg.FilterTable()
			}
			if err != nil {
				return err
			}

			switch strings.ToLower(strings.TrimSpace(format)) {
			case "", "table":
				fprintf(cmd.OutOrStdout(), "%s\n", renderFilters(table))
				return nil
			case "toml":
				return table.WriteTOML(cmd.OutOrStdout())
			default:
				return fmt.Errorf("unsupported format %q (use table or toml)", format)
			}
		},
	}

	cmd.Flags().StringVar(&format, "format", "table", "Output format: table or toml")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Read this TOML or CSV table instead of filters.path")

	return cmd
}

func renderFilters(table chain.Table) string {
	entries := slices.Clone(table.Entries)
	slices.SortStableFunc(entries, func(a, b chain.Entry) int {
		switch {
		case a.Order < b.Order:
			return -1
		case a.Order > b.Order:
			return 1
		default:
			return 0
		}
	})

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			strconv.FormatFloat(e.Order, 'g', -1, 64),
			e.Kind,
			yesNo(e.Enabled),
			formatParams(e.Params),
		})
	}
	return renderTable([]string{"Order", "Filter", "Enabled", "Parameters"}, rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft})
}

func formatParams(params map[string]float64) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + strconv.FormatFloat(params[k], 'g', -1, 64)
	}
	return strings.Join(parts, " ")
}
