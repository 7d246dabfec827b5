// Package frame provides the in-memory table that flows through the accident
// pipeline.
//
// A Frame is an ordered set of uniquely named columns over rows of scalar
// cells. Cells are one of:
//
//   - nil (null / missing value)
//   - string
//   - float64
//   - int64
//   - time.Time
//
// Stages treat a Frame as a value: operations that change shape or content
// return a new Frame and leave the receiver untouched. Cells themselves are
// immutable scalars, so copies only duplicate row slices, never cell payloads.
package frame

import (
	"fmt"
	"strings"
)

// Frame is an ordered, column-named table of rows.
type Frame struct {
	columns []string
	index   map[string]int
	rows    [][]any
}

// New returns an empty Frame with the given column names. Column names must
// be unique; a repeated name is reported as an error.
func New(columns []string) (*Frame, error) {
	idx := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, dup := idx[c]; dup {
			return nil, fmt.Errorf("frame: duplicate column %q", c)
		}
		idx[c] = i
	}
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Frame{columns: cols, index: idx}, nil
}

// FromRows builds a Frame from column names and rows. Each row must have
// exactly len(columns) cells. Rows are copied.
func FromRows(columns []string, rows [][]any) (*Frame, error) {
	f, err := New(columns)
	if err != nil {
		return nil, err
	}
	f.rows = make([][]any, 0, len(rows))
	for i, r := range rows {
		if len(r) != len(columns) {
			return nil, fmt.Errorf("frame: row %d has %d cells, want %d", i, len(r), len(columns))
		}
		f.rows = append(f.rows, cloneRow(r))
	}
	return f, nil
}

// Columns returns a copy of the column names in order.
func (f *Frame) Columns() []string {
	out := make([]string, len(f.columns))
	copy(out, f.columns)
	return out
}

// Len reports the number of rows.
func (f *Frame) Len() int { return len(f.rows) }

// Width reports the number of columns.
func (f *Frame) Width() int { return len(f.columns) }

// Shape returns (rows, columns).
func (f *Frame) Shape() (int, int) { return len(f.rows), len(f.columns) }

// Has reports whether the named column exists.
func (f *Frame) Has(name string) bool {
	_, ok := f.index[name]
	return ok
}

// Index returns the position of the named column.
func (f *Frame) Index(name string) (int, bool) {
	i, ok := f.index[name]
	return i, ok
}

// Append adds a row. The row is copied.
func (f *Frame) Append(row []any) error {
	if len(row) != len(f.columns) {
		return fmt.Errorf("frame: append: row has %d cells, want %d", len(row), len(f.columns))
	}
	f.rows = append(f.rows, cloneRow(row))
	return nil
}

// Row returns row i. The returned slice is shared with the Frame and must
// not be modified.
func (f *Frame) Row(i int) []any { return f.rows[i] }

// Value returns the cell at row i of the named column, or nil when the
// column does not exist.
func (f *Frame) Value(i int, column string) any {
	j, ok := f.index[column]
	if !ok {
		return nil
	}
	return f.rows[i][j]
}

// Column returns a copy of the named column's cells.
func (f *Frame) Column(name string) ([]any, bool) {
	j, ok := f.index[name]
	if !ok {
		return nil, false
	}
	out := make([]any, len(f.rows))
	for i, r := range f.rows {
		out[i] = r[j]
	}
	return out, true
}

// Clone returns a copy of f that shares no row slices with it.
func (f *Frame) Clone() *Frame {
	g := &Frame{
		columns: make([]string, len(f.columns)),
		index:   make(map[string]int, len(f.index)),
		rows:    make([][]any, len(f.rows)),
	}
	copy(g.columns, f.columns)
	for k, v := range f.index {
		g.index[k] = v
	}
	for i, r := range f.rows {
		g.rows[i] = cloneRow(r)
	}
	return g
}

// WithColumn returns a copy of f in which the named column holds vals. An
// existing column is overwritten in place; a new column is appended at the
// end. len(vals) must equal f.Len().
func (f *Frame) WithColumn(name string, vals []any) (*Frame, error) {
	if len(vals) != len(f.rows) {
		return nil, fmt.Errorf("frame: column %q has %d values, want %d", name, len(vals), len(f.rows))
	}
	g := f.Clone()
	j, ok := g.index[name]
	if !ok {
		j = len(g.columns)
		g.columns = append(g.columns, name)
		g.index[name] = j
		for i := range g.rows {
			g.rows[i] = append(g.rows[i], nil)
		}
	}
	for i := range g.rows {
		g.rows[i][j] = vals[i]
	}
	return g, nil
}

// Renamed returns a copy of f with every column renamed to names[i]. The new
// names must be unique and len(names) must equal f.Width().
func (f *Frame) Renamed(names []string) (*Frame, error) {
	if len(names) != len(f.columns) {
		return nil, fmt.Errorf("frame: rename: got %d names, want %d", len(names), len(f.columns))
	}
	g, err := New(names)
	if err != nil {
		return nil, err
	}
	g.rows = make([][]any, len(f.rows))
	for i, r := range f.rows {
		g.rows[i] = cloneRow(r)
	}
	return g, nil
}

// Filter returns a new Frame holding the rows for which keep returns true,
// in their original order.
func (f *Frame) Filter(keep func(i int) bool) *Frame {
	g, _ := New(f.columns)
	for i, r := range f.rows {
		if keep(i) {
			g.rows = append(g.rows, cloneRow(r))
		}
	}
	return g
}

// Head returns a Frame with at most n leading rows.
func (f *Frame) Head(n int) *Frame {
	return f.Filter(func(i int) bool { return i < n })
}

// String renders the shape and column list, matching what the pipeline
// logs around every stage.
func (f *Frame) String() string {
	return fmt.Sprintf("frame(%d x %d)[%s]", len(f.rows), len(f.columns), strings.Join(f.columns, ", "))
}

func cloneRow(r []any) []any {
	out := make([]any, len(r))
	copy(out, r)
	return out
}
