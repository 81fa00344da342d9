// Package dbc reads SimulationCraft DBC CSV extracts into column-projected
// tables. Only the columns a generator asks for are retained; everything
// else is discarded at scan time.
package dbc

import (
	"strconv"

	herr "github.com/joshjau/hero-dbc/pkg/errors"
)

// Table holds the projected rows of one CSV extract.
// Rows are kept in original file order; generators depend on that.
type Table struct {
	Path    string     `json:"path"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`

	index map[string]int
}

// NewTable builds a table from already-projected rows.
// Each row is aligned with columns; a short row means the trailing
// columns were absent from the source line.
func NewTable(path string, columns []string, rows [][]string) *Table {
	t := &Table{Path: path, Columns: columns, Rows: rows}
	t.buildIndex()
	return t
}

func (t *Table) buildIndex() {
	t.index = make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		t.index[c] = i
	}
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// HasColumn reports whether the table carries the named column.
func (t *Table) HasColumn(col string) bool {
	if t.index == nil {
		t.buildIndex()
	}
	_, ok := t.index[col]
	return ok
}

// Field returns the raw string value of a column in row i.
// Absent columns and short rows yield the empty string.
func (t *Table) Field(i int, col string) string {
	if t.index == nil {
		t.buildIndex()
	}
	idx, ok := t.index[col]
	if !ok {
		return ""
	}
	row := t.Rows[i]
	if idx >= len(row) {
		return ""
	}
	return row[idx]
}

// Int parses a required integer field. A missing or unparseable value is
// a parse error identifying the field, the raw value, and the row number
// (1-based, counting the header as row 1).
func (t *Table) Int(i int, col string) (int, error) {
	v := t.Field(i, col)
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, herr.BadIntField(col, v, i+2).WithContext("path", t.Path)
	}
	return n, nil
}

// OptionalInt parses an integer field that defaults to zero when the
// column is absent, empty, or not numeric.
func (t *Table) OptionalInt(i int, col string) int {
	v := t.Field(i, col)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

// Float parses a float field. Missing or unparseable values return an
// error; generators that tolerate dirty rows check and skip.
func (t *Table) Float(i int, col string) (float64, error) {
	v := t.Field(i, col)
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, herr.BadIntField(col, v, i+2).WithContext("path", t.Path)
	}
	return f, nil
}
