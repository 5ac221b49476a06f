// Package sample cuts a small, anonymized fixture out of the full raw table
package sample

import (
	"math/rand"

	"aarcnorm/internal/core/normalize"
	"aarcnorm/internal/core/table"
	perr "aarcnorm/internal/platform/errors"
)

// Hidden replaces every person name in a sample
const Hidden = "<hidden>"

// DefaultDepartments is the number of departments kept when none is given
const DefaultDepartments = 40

// Result is a sampled raw table and the departments that were drawn
type Result struct {
	Table       *table.Table
	Departments []table.Value
}

// Departments draws n distinct DepartmentIds without replacement, keeps only their rows
// and hides PersonName. Rows without a DepartmentId form one more department that can
// be drawn. The draw is reproducible for a fixed rng seed and input order
func Departments(raw *table.Table, n int, rng *rand.Rand) (*Result, error) {
	pos, err := raw.Require(normalize.ColDepartmentID, normalize.ColPersonName)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, perr.InvalidArgf("sample size must be positive, got %d", n)
	}

	// distinct ids in first-occurrence order, null included
	var pool []table.Value
	seen := map[string]struct{}{}
	for i := 0; i < raw.Len(); i++ {
		v := raw.Row(i)[pos[0]]
		k := table.Key(v)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		pool = append(pool, v)
	}
	if len(pool) < n {
		return nil, perr.InvalidArgf("cannot sample %d departments from %d", n, len(pool))
	}

	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	chosen := pool[:n]

	keep := make(map[string]struct{}, n)
	for _, v := range chosen {
		keep[table.Key(v)] = struct{}{}
	}

	out := table.New(raw.Name(), raw.Columns(), raw.Key()...)
	for i := 0; i < raw.Len(); i++ {
		r := raw.Row(i)
		if _, ok := keep[table.Key(r[pos[0]])]; !ok {
			continue
		}
		row := append([]table.Value(nil), r...)
		row[pos[1]] = table.String(Hidden)
		out.MustAppend(row...)
	}
	return &Result{Table: out, Departments: chosen}, nil
}
