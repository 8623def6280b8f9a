package chain

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/cwbudde/algo-gpr/gpr"
	"github.com/cwbudde/algo-gpr/gpr/filter"
)

//go:embed default_filters.toml
var defaultFilters string

// Entry is one row of a filter table.
type Entry struct {
	Kind    string
	Enabled bool
	Order   float64
	Params  map[string]float64
}

// Table is an unordered list of filter rows.
type Table struct {
	Entries []Entry
}

type tomlTable struct {
	Filters []tomlEntry `toml:"filter"`
}

type tomlEntry struct {
	Kind    string             `toml:"kind"`
	Enabled *bool              `toml:"enabled"`
	Order   float64            `toml:"order"`
	Params  map[string]float64 `toml:"params,omitempty"`
}

// DefaultTable returns the built-in filter table.
func DefaultTable() Table {
	t, err := ParseTOML(strings.NewReader(defaultFilters))
	if err != nil {
		panic("chain: embedded default table: " + err.Error())
	}
	return t
}

// DefaultTOML returns the built-in filter table as TOML text.
func DefaultTOML() string {
	return defaultFilters
}

// Load reads a table from path, choosing the format by extension: .csv is
// the legacy layout, anything else is TOML.
func Load(path string) (Table, error) {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return LoadCSV(path)
	}
	return LoadTOML(path)
}

// LoadTOML reads a TOML filter table.
func LoadTOML(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, fmt.Errorf("chain: open table: %w", err)
	}
	defer f.Close()
	return ParseTOML(f)
}

// ParseTOML decodes a TOML filter table. Rows without an enabled key are
// enabled.
func ParseTOML(r io.Reader) (Table, error) {
	var doc tomlTable
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return Table{}, fmt.Errorf("%w: parse filter table: %w", gpr.ErrConfig, err)
	}

	t := Table{Entries: make([]Entry, 0, len(doc.Filters))}
	for i, row := range doc.Filters {
		if strings.TrimSpace(row.Kind) == "" {
			return Table{}, fmt.Errorf("%w: filter %d has no kind", gpr.ErrConfig, i)
		}
		enabled := true
		if row.Enabled != nil {
			enabled = *row.Enabled
		}
		t.Entries = append(t.Entries, Entry{
			Kind:    row.Kind,
			Enabled: enabled,
			Order:   row.Order,
			Params:  row.Params,
		})
	}
	return t, nil
}

// WriteTOML encodes t in the layout ParseTOML reads.
func (t Table) WriteTOML(w io.Writer) error {
	doc := tomlTable{Filters: make([]tomlEntry, len(t.Entries))}
	for i, e := range t.Entries {
		enabled := e.Enabled
		doc.Filters[i] = tomlEntry{Kind: e.Kind, Enabled: &enabled, Order: e.Order, Params: e.Params}
	}
	enc := toml.NewEncoder(w)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("chain: encode table: %w", err)
	}
	return nil
}

// Active returns the enabled rows, stable-sorted by ascending Order.
func (t Table) Active() []Entry {
	active := make([]Entry, 0, len(t.Entries))
	for _, e := range t.Entries {
		if e.Enabled {
			active = append(active, e)
		}
	}
	slices.SortStableFunc(active, func(a, b Entry) int {
		switch {
		case a.Order < b.Order:
			return -1
		case a.Order > b.Order:
			return 1
		default:
			return 0
		}
	})
	return active
}

// FilterParams returns the entry's parameters as filter.Params. The map is copied.
func (e Entry) FilterParams() filter.Params {
	return filter.Params{Num: e.Params}.Clone()
}
