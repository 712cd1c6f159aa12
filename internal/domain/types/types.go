// Package types contains the flat table shape shared by display and export.
package types

import (
	"errors"
	"fmt"

	"github.com/okian/playerscore/internal/domain/player"
)

// ErrUnknownColumn is returned when a projection names a column the records
// do not carry.
var ErrUnknownColumn = errors.New("unknown column")

// Table is a ranked result as named columns and positional rows.
type Table struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// Entry is one ranked row keyed by column name.
type Entry struct {
	Rank   int            `json:"rank"`
	Values map[string]any `json:"values"`
}

// Project lays records out as a Table with the given columns, in order.
// Every record must resolve every column.
func Project(records []player.Record, columns []string) (Table, error) {
	t := Table{Columns: append([]string(nil), columns...), Rows: make([][]any, 0, len(records))}
	for i, r := range records {
		row := make([]any, len(columns))
		for j, c := range columns {
			v, ok := r.Value(c)
			if !ok {
				return Table{}, fmt.Errorf("%w: %q (row %d)", ErrUnknownColumn, c, i)
			}
			row[j] = v
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// Entries returns the table as rank-numbered entries, starting at 1.
func (t Table) Entries() []Entry {
	out := make([]Entry, len(t.Rows))
	for i, row := range t.Rows {
		values := make(map[string]any, len(t.Columns))
		for j, c := range t.Columns {
			values[c] = row[j]
		}
		out[i] = Entry{Rank: i + 1, Values: values}
	}
	return out
}

// Len returns the number of rows.
func (t Table) Len() int { return len(t.Rows) }
