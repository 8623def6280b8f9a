package chain

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/cwbudde/algo-gpr/gpr"
	"github.com/cwbudde/algo-gpr/gpr/filter"
)

// Legacy table columns.
const (
	columnKind    = "filter_base"
	columnEnabled = "default"
	columnOrder   = "filter_order"
)

// legacyColumn maps a CSV column to a parameter key. A non-empty kind
// restricts the column to rows of that kind.
type legacyColumn struct {
	kind filter.Kind
	key  string
}

var legacyColumns = map[string]legacyColumn{
	"y_inter":             {filter.KindGain, filter.KeyYInter},
	"grad_const":          {filter.KindGain, filter.KeyGradConst},
	"inflection_point":    {filter.KindGain, filter.KeyInflectionPoint},
	"inflection_range":    {filter.KindGain, filter.KeyInflectionRange},
	"range_vaule":         {filter.KindRange, filter.KeyRangeValue},
	"range_value":         {filter.KindRange, filter.KeyRangeValue},
	"las_ratio":           {filter.KindLas, filter.KeyLasRatio},
	"sigmanumber":         {filter.KindLas, filter.KeySigmaNumber},
	"sigma_number":        {filter.KindLas, filter.KeySigmaNumber},
	"sigma_constants":     {filter.KindLas, filter.KeySigmaConstants},
	"edge_range":          {filter.KindEdge, filter.KeyEdgeRange},
	"depth_para":          {filter.KindAverage, filter.KeyDepth},
	"dist_para":           {filter.KindAverage, filter.KeyDist},
	"y_window_para":       {filter.KindYDifferential, filter.KeyWindow},
	"z_window_para":       {filter.KindZDifferential, filter.KeyWindow},
	"sign_smoother_check": {filter.KindSignSmoother, filter.KeyCheck},
	"axis_para":           {filter.KindKalman, filter.KeyAxis},
	"percent_var_para":    {filter.KindKalman, filter.KeyPercentVar},
	"gain_para":           {filter.KindKalman, filter.KeyGain},
	"background_percent":  {filter.KindBackground, filter.KeyPercent},
	"background_check":    {filter.KindBackground, filter.KeyCheck},
	"alingnsignal_check":  {filter.KindAlignSignal, filter.KeyCheck},
	"alignsignal_check":   {filter.KindAlignSignal, filter.KeyCheck},
	"ch_bias_check":       {filter.KindChannelBias, filter.KeyCheck},
}

// LoadCSV reads a legacy filterCollect.csv table.
func LoadCSV(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, fmt.Errorf("chain: open table: %w", err)
	}
	defer f.Close()
	return ParseCSV(f)
}

// ParseCSV decodes the legacy CSV layout: a header row naming filter_base,
// default and filter_order plus parameter columns. Rows are enabled when
// default is 1. Empty cells read as 0; columns missing from the header leave
// the parameter absent so the filter default applies. A leading byte order
// mark is honoured.
func ParseCSV(r io.Reader) (Table, error) {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	cr := csv.NewReader(transform.NewReader(r, dec))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Table{}, fmt.Errorf("%w: empty filter table", gpr.ErrConfig)
		}
		return Table{}, fmt.Errorf("%w: read filter table header: %w", gpr.ErrConfig, err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	kindCol, ok := index[columnKind]
	if !ok {
		return Table{}, fmt.Errorf("%w: filter table has no %s column", gpr.ErrConfig, columnKind)
	}

	var t Table
	for line := 2; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Table{}, fmt.Errorf("%w: read filter table: %w", gpr.ErrConfig, err)
		}

		cell := func(col int) string {
			if col < len(record) {
				return strings.TrimSpace(record[col])
			}
			return ""
		}
		number := func(name string) (float64, bool, error) {
			col, ok := index[name]
			if !ok {
				return 0, false, nil
			}
			s := cell(col)
			if s == "" {
				return 0, true, nil
			}
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return 0, true, fmt.Errorf("%w: line %d column %s: %q is not a number", gpr.ErrConfig, line, name, s)
			}
			return v, true, nil
		}

		name := cell(kindCol)
		if name == "" {
			continue
		}
		kind, _ := filter.ParseKind(name)

		entry := Entry{Kind: string(kind), Params: map[string]float64{}}
		enabled, _, err := number(columnEnabled)
		if err != nil {
			return Table{}, err
		}
		entry.Enabled = enabled == 1
		if entry.Order, _, err = number(columnOrder); err != nil {
			return Table{}, err
		}

		for col, lc := range legacyColumns {
			if lc.kind != kind {
				continue
			}
			v, present, err := number(col)
			if err != nil {
				return Table{}, err
			}
			if present {
				entry.Params[lc.key] = v
			}
		}
		t.Entries = append(t.Entries, entry)
	}
	return t, nil
}
