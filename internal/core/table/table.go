package table

import (
	"slices"
	"strings"

	perr "aarcnorm/internal/platform/errors"
)

// Table is an ordered relation of rows over named columns
// KeyColumns name the row key (the index in the persisted form)
type Table struct {
	name    string
	columns []string
	key     []string
	index   map[string]int
	rows    [][]Value
}

// New constructs an empty table
// key columns must be a subset of columns; duplicates and unknown keys are programmer errors
func New(name string, columns []string, key ...string) *Table {
	idx := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, dup := idx[c]; dup {
			panic("table: duplicate column " + c + " in " + name)
		}
		idx[c] = i
	}
	for _, k := range key {
		if _, ok := idx[k]; !ok {
			panic("table: key column " + k + " not in " + name)
		}
	}
	return &Table{
		name:    name,
		columns: slices.Clone(columns),
		key:     slices.Clone(key),
		index:   idx,
	}
}

// WithKey returns a copy of t keyed by the given columns; rows are shared
func (t *Table) WithKey(key ...string) (*Table, error) {
	if _, err := t.Require(key...); err != nil {
		return nil, err
	}
	c := *t
	c.key = slices.Clone(key)
	return &c, nil
}

// Name returns the relation name
func (t *Table) Name() string { return t.name }

// Columns returns a copy of the column names in order
func (t *Table) Columns() []string { return slices.Clone(t.columns) }

// Key returns a copy of the key column names
func (t *Table) Key() []string { return slices.Clone(t.key) }

// Len returns the row count
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// Width returns the column count
func (t *Table) Width() int { return len(t.columns) }

// Index returns the position of a column
func (t *Table) Index(col string) (int, bool) {
	i, ok := t.index[col]
	return i, ok
}

// Append adds a row; the width must match the column count
func (t *Table) Append(row ...Value) error {
	if len(row) != len(t.columns) {
		return perr.Newf(perr.ErrorCodeInvalidArgument,
			"table %s: row has %d values, expected %d", t.name, len(row), len(t.columns))
	}
	t.rows = append(t.rows, slices.Clone(row))
	return nil
}

// MustAppend is Append for builders that construct rows of known width
func (t *Table) MustAppend(row ...Value) {
	if err := t.Append(row...); err != nil {
		panic(err)
	}
}

// Row returns the i-th row; callers must not mutate it
func (t *Table) Row(i int) []Value { return t.rows[i] }

// Get returns the value at row i in column col, null if the column is unknown
func (t *Table) Get(i int, col string) Value {
	j, ok := t.index[col]
	if !ok {
		return Null()
	}
	return t.rows[i][j]
}

// Column returns all values of a column in row order
func (t *Table) Column(col string) ([]Value, error) {
	j, err := t.Require(col)
	if err != nil {
		return nil, err
	}
	out := make([]Value, len(t.rows))
	for i, r := range t.rows {
		out[i] = r[j[0]]
	}
	return out, nil
}

// KeyOf returns the composite key values of row i
func (t *Table) KeyOf(i int) []Value {
	out := make([]Value, len(t.key))
	for n, k := range t.key {
		out[n] = t.rows[i][t.index[k]]
	}
	return out
}

// Require resolves column positions and fails with a schema error naming every missing column
func (t *Table) Require(cols ...string) ([]int, error) {
	out := make([]int, len(cols))
	var missing []string
	for n, c := range cols {
		i, ok := t.index[c]
		if !ok {
			missing = append(missing, c)
			continue
		}
		out[n] = i
	}
	if len(missing) > 0 {
		return nil, SchemaError(t.name, missing...)
	}
	return out, nil
}

// Slice returns rows [offset, offset+limit) clamped to the table bounds
func (t *Table) Slice(offset, limit int) [][]Value {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(t.rows) || limit <= 0 {
		return [][]Value{}
	}
	end := min(offset+limit, len(t.rows))
	return t.rows[offset:end]
}

// SortByKey orders rows ascending by key columns using Compare (nulls last)
// the sort is stable so ties keep their insertion order
func (t *Table) SortByKey() {
	pos := make([]int, len(t.key))
	for n, k := range t.key {
		pos[n] = t.index[k]
	}
	slices.SortStableFunc(t.rows, func(a, b []Value) int {
		for _, p := range pos {
			if c := Compare(a[p], b[p]); c != 0 {
				return c
			}
		}
		return 0
	})
}

// Equal reports whether two tables share name-independent shape and contents
// columns, key columns and row order must all match
func (t *Table) Equal(o *Table) bool {
	if t == nil || o == nil {
		return t == o
	}
	if !slices.Equal(t.columns, o.columns) || !slices.Equal(t.key, o.key) || len(t.rows) != len(o.rows) {
		return false
	}
	for i := range t.rows {
		if !slices.Equal(t.rows[i], o.rows[i]) {
			return false
		}
	}
	return true
}

// SchemaError builds the error raised when required columns are absent
func SchemaError(relation string, missing ...string) error {
	err := perr.Schemaf("%s: missing required column(s): %s",
		relation, strings.Join(missing, ", "))
	if len(missing) > 0 {
		err = perr.WithField(err, missing[0])
	}
	return perr.WithOp(err, "table.Require")
}
