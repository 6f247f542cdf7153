package model

import "github.com/guregu/null/v6"

// Row is one period of a derived table. Values line up with the table's
// metric columns (Columns[1:]); an invalid null.Float marks an undefined cell.
type Row struct {
	Label  string
	Values []null.Float
}

// DerivedTable is the final output of one indicator pipeline run.
type DerivedTable struct {
	IndicatorID string
	Columns     []string // label column first
	Rows        []Row
}

// Tail returns the last n rows, or all rows when there are fewer.
func (t *DerivedTable) Tail(n int) []Row {
	if n <= 0 {
		return nil
	}
	if n >= len(t.Rows) {
		return t.Rows
	}
	return t.Rows[len(t.Rows)-n:]
}

// Column returns the values of the named metric column, or false if the
// table has no such column.
func (t *DerivedTable) Column(name string) ([]null.Float, bool) {
	for i, c := range t.Columns {
		if i == 0 || c != name {
			continue
		}
		out := make([]null.Float, len(t.Rows))
		for j, r := range t.Rows {
			out[j] = r.Values[i-1]
		}
		return out, true
	}
	return nil, false
}
