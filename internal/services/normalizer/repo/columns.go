// Package repo holds the file store and the sinks of the normalizer service
package repo

import (
	"aarcnorm/internal/core/table"
)

// RunIDColumn is prepended to every exported relation
const RunIDColumn = "run_id"

// Column is one exported column and its storage kind
type Column struct {
	Name string
	Kind table.Kind
}

// Columns infers the storage kind of every column of t
// a column holding one kind keeps it, ints mixed with floats widen to float,
// any other mix and all-null columns are stored as text
func Columns(t *table.Table) []Column {
	names := t.Columns()
	out := make([]Column, len(names))
	for j, name := range names {
		k := table.KindNull
		for i := 0; i < t.Len(); i++ {
			k = widen(k, t.Row(i)[j].Kind())
		}
		if k == table.KindNull {
			k = table.KindString
		}
		out[j] = Column{Name: name, Kind: k}
	}
	return out
}

func widen(have, next table.Kind) table.Kind {
	switch {
	case next == table.KindNull || next == have:
		return have
	case have == table.KindNull:
		return next
	case isNumeric(have) && isNumeric(next):
		return table.KindFloat
	default:
		return table.KindString
	}
}

func isNumeric(k table.Kind) bool { return k == table.KindInt || k == table.KindFloat }

// Names returns the column names with the run id column first
func Names(cols []Column) []string {
	out := make([]string, 0, len(cols)+1)
	out = append(out, RunIDColumn)
	for _, c := range cols {
		out = append(out, c.Name)
	}
	return out
}

// Rows renders t as driver values with runID first, nil for null
func Rows(t *table.Table, cols []Column, runID string) [][]any {
	out := make([][]any, t.Len())
	for i := range out {
		row := t.Row(i)
		r := make([]any, 0, len(cols)+1)
		r = append(r, runID)
		for j, c := range cols {
			r = append(r, cell(row[j], c.Kind))
		}
		out[i] = r
	}
	return out
}

func cell(v table.Value, k table.Kind) any {
	if v.IsNull() {
		return nil
	}
	switch k {
	case table.KindFloat:
		f, _ := v.AsFloat()
		return f
	case table.KindString:
		return v.Text()
	default:
		return v.Any()
	}
}
