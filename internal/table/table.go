// Package table provides a schema-light, read-only view over delimited
// sources. The dynamic representation stays confined here; core logic
// converts rows to typed records immediately after load.
package table

import (
	"sort"
	"strings"
)

// Table is an immutable snapshot of one tabular source: trimmed column
// names plus string cells. Derived data never mutates a Table; callers
// build new tables or typed records instead.
type Table struct {
	cols   []string
	colIdx map[string]int
	rows   [][]string
}

// New builds a Table. Column names are trimmed of surrounding whitespace.
// When duplicate names survive trimming, the first occurrence wins lookups.
func New(header []string, rows [][]string) *Table {
	cols := make([]string, len(header))
	colIdx := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		cols[i] = name
		if _, exists := colIdx[name]; !exists {
			colIdx[name] = i
		}
	}
	return &Table{cols: cols, colIdx: colIdx, rows: rows}
}

// Columns returns the column names in source order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.cols))
	copy(out, t.cols)
	return out
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int {
	return len(t.rows)
}

// NumColumns returns the number of columns.
func (t *Table) NumColumns() int {
	return len(t.cols)
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.colIdx[name]
	return ok
}

// FirstPresent returns the first candidate name present in the column set.
// It is the shared lookup for fuzzy multi-source column naming (date axis
// candidates, contact key aliases); it never pattern-scans for alternatives.
func (t *Table) FirstPresent(candidates ...string) (string, bool) {
	for _, name := range candidates {
		if t.HasColumn(name) {
			return name, true
		}
	}
	return "", false
}

// Cell returns the value at (row, column), or "" when the column is absent
// or the row is ragged short.
func (t *Table) Cell(row int, col string) string {
	idx, ok := t.colIdx[col]
	if !ok || row < 0 || row >= len(t.rows) || idx >= len(t.rows[row]) {
		return ""
	}
	return t.rows[row][idx]
}

// Row returns a copy of the row at i.
func (t *Table) Row(i int) []string {
	if i < 0 || i >= len(t.rows) {
		return nil
	}
	out := make([]string, len(t.rows[i]))
	copy(out, t.rows[i])
	return out
}

// Column returns all values of the named column, "" for ragged rows.
// The slice has NumRows entries; absent columns yield nil.
func (t *Table) Column(name string) []string {
	idx, ok := t.colIdx[name]
	if !ok {
		return nil
	}
	out := make([]string, len(t.rows))
	for i, row := range t.rows {
		if idx < len(row) {
			out[i] = row[idx]
		}
	}
	return out
}

// DistinctNonEmpty returns the sorted distinct non-blank values of a column.
func (t *Table) DistinctNonEmpty(name string) []string {
	seen := make(map[string]struct{})
	for _, v := range t.Column(name) {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		seen[v] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
