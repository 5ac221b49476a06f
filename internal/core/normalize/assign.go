package normalize

import (
	"slices"

	"aarcnorm/internal/core/table"
)

// Dimension holds the surrogate ids of one categorical column
// ids are dense 0..n-1 in first-occurrence order of the distinct non-null values,
// so they are stable only within one run over a fixed raw file
type Dimension struct {
	column string
	values []table.Value
	ids    map[string]int64
}

// AssignSurrogates enumerates the distinct non-null values of column and numbers them
// every call owns its own enumeration; nothing is shared across calls
func AssignSurrogates(raw *table.Table, column string) (*Dimension, error) {
	pos, err := raw.Require(column)
	if err != nil {
		return nil, err
	}
	d := &Dimension{column: column, ids: make(map[string]int64)}
	for i := 0; i < raw.Len(); i++ {
		v := raw.Row(i)[pos[0]]
		if v.IsNull() {
			continue
		}
		k := table.Key(v)
		if _, seen := d.ids[k]; seen {
			continue
		}
		d.ids[k] = int64(len(d.values))
		d.values = append(d.values, v)
	}
	return d, nil
}

// Column returns the raw column this dimension was built from
func (d *Dimension) Column() string { return d.column }

// IDColumn returns the surrogate id column name, e.g. FieldId
func (d *Dimension) IDColumn() string { return idColumn(d.column) }

// Len returns the number of distinct non-null values
func (d *Dimension) Len() int { return len(d.values) }

// Lookup maps an original value to its Int64 surrogate id
// null and unknown values yield a null id and false
func (d *Dimension) Lookup(v table.Value) (table.Value, bool) {
	if v.IsNull() {
		return table.Null(), false
	}
	id, ok := d.ids[table.Key(v)]
	if !ok {
		return table.Null(), false
	}
	return table.Int(id), true
}

// Values returns the original values indexed by surrogate id
func (d *Dimension) Values() []table.Value { return slices.Clone(d.values) }

// AssignmentTable returns the value -> id relation keyed by the original value
func (d *Dimension) AssignmentTable(name string) *table.Table {
	t := table.New(name, []string{d.column, d.IDColumn()}, d.column)
	for id, v := range d.values {
		t.MustAppend(v, table.Int(int64(id)))
	}
	return t
}

// InverseTable returns the id -> value relation keyed by the surrogate id
func (d *Dimension) InverseTable(name string) *table.Table {
	t := table.New(name, []string{d.IDColumn(), d.column}, d.IDColumn())
	for id, v := range d.values {
		t.MustAppend(table.Int(int64(id)), v)
	}
	return t
}
