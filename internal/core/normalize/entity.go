package normalize

import (
	"aarcnorm/internal/core/table"
)

// BuildEntity derives one row per distinct non-null key
// each attribute takes the first non-null value observed for that key in raw row order;
// conflicting later values are dropped without error. Rows come out sorted by key
func BuildEntity(raw *table.Table, name, key string, attrs ...string) (*table.Table, error) {
	return groupFirst(raw, name, []string{key}, attrs, true)
}

// BuildEntityFor is BuildEntity driven by an Entity description
func BuildEntityFor(raw *table.Table, e Entity) (*table.Table, error) {
	return BuildEntity(raw, e.Name, e.Key, e.Attrs...)
}

// BuildAppointments collapses raw rows to one fact per (PersonId, Year, DepartmentId, InstitutionId)
// null key components are kept and group with other nulls in the same position
func BuildAppointments(raw *table.Table) (*table.Table, error) {
	return groupFirst(raw, RelAppointments, AppointmentKey, appointmentAttrs, false)
}

// groupFirst groups raw by keys and resolves attrs first non-null per group
// output columns are keys then attrs, sorted ascending by key with nulls last
func groupFirst(raw *table.Table, name string, keys, attrs []string, dropNullKeys bool) (*table.Table, error) {
	cols := append(append([]string{}, keys...), attrs...)
	pos, err := raw.Require(cols...)
	if err != nil {
		return nil, err
	}

	out := table.New(name, cols, keys...)
	groups := make(map[string]int)
	var rows [][]table.Value

	kv := make([]table.Value, len(keys))
	for i := 0; i < raw.Len(); i++ {
		r := raw.Row(i)
		skip := false
		for n := range keys {
			kv[n] = r[pos[n]]
			if dropNullKeys && kv[n].IsNull() {
				skip = true
			}
		}
		if skip {
			continue
		}

		gk := table.Key(kv...)
		g, ok := groups[gk]
		if !ok {
			row := make([]table.Value, len(cols))
			copy(row, kv)
			g = len(rows)
			groups[gk] = g
			rows = append(rows, row)
		}
		row := rows[g]
		for n := range attrs {
			c := len(keys) + n
			if row[c].IsNull() {
				row[c] = r[pos[c]]
			}
		}
	}

	for _, row := range rows {
		out.MustAppend(row...)
	}
	out.SortByKey()
	return out, nil
}
