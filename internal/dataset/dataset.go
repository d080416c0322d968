package dataset

import (
	"errors"
	"fmt"
	"strings"
)

// Row maps column names to cell values. A missing key reads as null.
type Row map[string]Value

// Get returns the value for col, null when the row omits it.
func (r Row) Get(col string) Value { return r[col] }

// Dataset is an immutable in-memory table: an ordered list of unique column
// names and an ordered list of rows. Build it once per analysis with New;
// every consumer only reads it.
type Dataset struct {
	columns []string
	index   map[string]int
	rows    []Row
}

// ErrDuplicateColumn is returned by New when a column name repeats.
var ErrDuplicateColumn = errors.New("duplicate column name")

// ErrEmptyColumn is returned by New when a column name is blank.
var ErrEmptyColumn = errors.New("empty column name")

// New copies columns and rows into a Dataset. Cell values are not validated;
// keys that are not listed in columns are kept but ignored by all readers.
func New(columns []string, rows []Row) (*Dataset, error) {
	cols := make([]string, len(columns))
	idx := make(map[string]int, len(columns))
	for i, c := range columns {
		if strings.TrimSpace(c) == "" {
			return nil, fmt.Errorf("column %d: %w", i+1, ErrEmptyColumn)
		}
		if _, ok := idx[c]; ok {
			return nil, fmt.Errorf("column %q: %w", c, ErrDuplicateColumn)
		}
		idx[c] = i
		cols[i] = c
	}
	rs := make([]Row, len(rows))
	for i, r := range rows {
		cp := make(Row, len(r))
		for k, v := range r {
			cp[k] = v
		}
		rs[i] = cp
	}
	return &Dataset{columns: cols, index: idx, rows: rs}, nil
}

// MustNew is New for fixtures and literals; it panics on an invalid column list.
func MustNew(columns []string, rows []Row) *Dataset {
	ds, err := New(columns, rows)
	if err != nil {
		panic(err)
	}
	return ds
}

// Columns returns a copy of the column names in order.
func (d *Dataset) Columns() []string {
	out := make([]string, len(d.columns))
	copy(out, d.columns)
	return out
}

// Rows returns the rows in order. The slice is a copy; the rows themselves
// are shared and must be treated as read-only.
func (d *Dataset) Rows() []Row {
	out := make([]Row, len(d.rows))
	copy(out, d.rows)
	return out
}

// HasColumn reports whether name is one of the dataset's columns.
func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.index[name]
	return ok
}

// Len is the number of rows.
func (d *Dataset) Len() int { return len(d.rows) }

// Width is the number of columns.
func (d *Dataset) Width() int { return len(d.columns) }

// Value returns the cell at row i for column col, null if the row omits it.
func (d *Dataset) Value(i int, col string) Value {
	return d.rows[i][col]
}

// Column returns every row's value for col in row order.
func (d *Dataset) Column(col string) []Value {
	out := make([]Value, len(d.rows))
	for i, r := range d.rows {
		out[i] = r[col]
	}
	return out
}

// Each calls fn for every row in order. fn must not modify the row.
func (d *Dataset) Each(fn func(i int, r Row)) {
	for i, r := range d.rows {
		fn(i, r)
	}
}
