package stats

import (
	"slices"
	"time"
)

// Row is one (player, team, season) line of a category table.
// Team is empty when the provider left it blank. A metric missing from
// Values is a null cell.
type Row struct {
	Player string             `json:"player"`
	Team   string             `json:"team,omitempty"`
	Values map[string]float64 `json:"values"`
}

// Value returns a metric and whether the cell was present.
func (r Row) Value(col string) (float64, bool) {
	v, ok := r.Values[col]
	return v, ok
}

// Table is a raw season table for one category. Tables are not mutated
// after the provider returns them.
type Table struct {
	League    string    `json:"league"`
	Season    string    `json:"season"`
	Category  Category  `json:"category"`
	Columns   []string  `json:"columns"`
	Rows      []Row     `json:"rows"`
	FetchedAt time.Time `json:"fetched_at"`
}

// HasColumn reports whether the table header carries col.
func (t *Table) HasColumn(col string) bool {
	if t == nil {
		return false
	}
	return slices.Contains(t.Columns, col)
}

// Len returns the row count; a nil table is empty.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Filter returns a copy of the table holding only rows matching f.
// Rows are shared, not copied.
func (t *Table) Filter(f TeamFilter) *Table {
	if t == nil {
		return nil
	}
	out := &Table{
		League:    t.League,
		Season:    t.Season,
		Category:  t.Category,
		Columns:   t.Columns,
		FetchedAt: t.FetchedAt,
		Rows:      make([]Row, 0, len(t.Rows)),
	}
	for _, r := range t.Rows {
		if f.Match(r.Team) {
			out.Rows = append(out.Rows, r)
		}
	}
	return out
}
