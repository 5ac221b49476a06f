package tabular

import (
	"encoding/csv"
	"io"
	"slices"

	"aarcnorm/internal/core/table"
	perr "aarcnorm/internal/platform/errors"
)

// WriteTable writes t as CSV with a header row and no synthetic row index
// key columns come first, then the remaining columns in table order
func WriteTable(w io.Writer, t *table.Table) error {
	order := ColumnOrder(t)
	pos := make([]int, len(order))
	for n, c := range order {
		pos[n], _ = t.Index(c)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(order); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeIO, "%s: write header", t.Name())
	}
	rec := make([]string, len(order))
	for i := 0; i < t.Len(); i++ {
		r := t.Row(i)
		for n, p := range pos {
			rec[n] = r[p].Text()
		}
		if err := cw.Write(rec); err != nil {
			return perr.Wrapf(err, perr.ErrorCodeIO, "%s: write row %d", t.Name(), i)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeIO, "%s: flush", t.Name())
	}
	return nil
}

// ColumnOrder returns the persisted column order: key columns first
func ColumnOrder(t *table.Table) []string {
	key := t.Key()
	out := slices.Clone(key)
	for _, c := range t.Columns() {
		if !slices.Contains(key, c) {
			out = append(out, c)
		}
	}
	return out
}
