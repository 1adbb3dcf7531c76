// Package table defines the in-memory typed columnar dataset every engine
// operates on. A Table is immutable once built; transformations construct a
// new Table rather than mutating in place.
package table

import (
	"fmt"
	"strings"
)

// Table is an ordered set of equally-long named columns.
type Table struct {
	cols  []Column
	index map[string]int
}

// New validates column name uniqueness and row alignment.
func New(cols ...Column) (*Table, error) {
	t := &Table{index: make(map[string]int, len(cols))}
	rows := -1
	for _, c := range cols {
		if c.Name == "" {
			return nil, fmt.Errorf("column with empty name")
		}
		if _, dup := t.index[c.Name]; dup {
			return nil, fmt.Errorf("duplicate column name %q", c.Name)
		}
		if rows == -1 {
			rows = c.Len()
		} else if c.Len() != rows {
			return nil, fmt.Errorf("column %q has %d rows, want %d", c.Name, c.Len(), rows)
		}
		t.index[c.Name] = len(t.cols)
		t.cols = append(t.cols, c)
	}
	return t, nil
}

// MustNew panics on invalid columns; for tests and literals only.
func MustNew(cols ...Column) *Table {
	t, err := New(cols...)
	if err != nil {
		panic(err)
	}
	return t
}

// NumRows returns the shared row count, 0 for an empty table.
func (t *Table) NumRows() int {
	if len(t.cols) == 0 {
		return 0
	}
	return t.cols[0].Len()
}

// NumCols returns the column count.
func (t *Table) NumCols() int {
	return len(t.cols)
}

// Columns returns the columns in order. Callers must treat them as read-only.
func (t *Table) Columns() []Column {
	return t.cols
}

// Column looks a column up by name.
func (t *Table) Column(name string) (Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return Column{}, false
	}
	return t.cols[i], true
}

// Has reports whether a column exists.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Names returns column names in order.
func (t *Table) Names() []string {
	out := make([]string, len(t.cols))
	for i, c := range t.cols {
		out[i] = c.Name
	}
	return out
}

// NumericColumns returns all columns usable as float64 samples, in order.
func (t *Table) NumericColumns() []Column {
	var out []Column
	for _, c := range t.cols {
		if c.IsNumeric() {
			out = append(out, c)
		}
	}
	return out
}

// CategoricalColumns returns all categorical columns, in order.
func (t *Table) CategoricalColumns() []Column {
	var out []Column
	for _, c := range t.cols {
		if c.Kind == KindCategorical {
			out = append(out, c)
		}
	}
	return out
}

// MissingCellCount sums absent cells across the whole table.
func (t *Table) MissingCellCount() int {
	n := 0
	for _, c := range t.cols {
		n += c.MissingCount()
	}
	return n
}

// DuplicateRowCount counts rows whose full value fingerprint was already seen.
func (t *Table) DuplicateRowCount() int {
	seen := make(map[string]struct{}, t.NumRows())
	dups := 0
	for i := 0; i < t.NumRows(); i++ {
		key := t.rowKey(i)
		if _, ok := seen[key]; ok {
			dups++
		} else {
			seen[key] = struct{}{}
		}
	}
	return dups
}

func (t *Table) rowKey(i int) string {
	var b strings.Builder
	for _, c := range t.cols {
		if c.Missing[i] {
			b.WriteString("\x00\x01")
		} else {
			b.WriteString(c.CellString(i))
		}
		b.WriteByte('\x00')
	}
	return b.String()
}

// FilterRows builds a new table containing only rows where keep[i] is true.
func (t *Table) FilterRows(keep []bool) *Table {
	cols := make([]Column, len(t.cols))
	for i, c := range t.cols {
		cols[i] = c.Filter(keep)
	}
	return MustNew(cols...)
}

// WithColumns builds a new table from explicit columns, reusing validation.
func (t *Table) WithColumns(cols []Column) (*Table, error) {
	return New(cols...)
}

// ReplaceColumn builds a new table with one column swapped in place.
func (t *Table) ReplaceColumn(col Column) (*Table, error) {
	i, ok := t.index[col.Name]
	if !ok {
		return nil, fmt.Errorf("column %q not found", col.Name)
	}
	cols := append([]Column(nil), t.cols...)
	cols[i] = col
	return New(cols...)
}

// AppendColumn builds a new table with an extra column at the end.
func (t *Table) AppendColumn(col Column) (*Table, error) {
	cols := append(append([]Column(nil), t.cols...), col)
	return New(cols...)
}

// DropColumns builds a new table without the named columns. Unknown names
// are ignored.
func (t *Table) DropColumns(names ...string) *Table {
	drop := make(map[string]struct{}, len(names))
	for _, n := range names {
		drop[n] = struct{}{}
	}
	var cols []Column
	for _, c := range t.cols {
		if _, gone := drop[c.Name]; !gone {
			cols = append(cols, c)
		}
	}
	return MustNew(cols...)
}
