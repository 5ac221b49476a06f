package sample

import (
	"math/rand"
	"slices"
	"testing"

	"aarcnorm/internal/core/normalize"
	"aarcnorm/internal/core/table"
	perr "aarcnorm/internal/platform/errors"
)

func raw(t *testing.T, deps ...int64) *table.Table {
	t.Helper()
	tb := table.New("raw", []string{normalize.ColPersonID, normalize.ColPersonName, normalize.ColDepartmentID})
	for i, d := range deps {
		dep := table.Int(d)
		if d < 0 {
			dep = table.Null()
		}
		tb.MustAppend(table.Int(int64(i)), table.String("Real Name"), dep)
	}
	return tb
}

func TestDepartments_FiltersAndHides(t *testing.T) {
	in := raw(t, 1, 2, 3, 1, 2, 3, 4, -1)
	res, err := Departments(in, 2, rand.New(rand.NewSource(0)))
	if err != nil {
		t.Fatalf("sample: %v", err)
	}
	if len(res.Departments) != 2 || res.Departments[0] == res.Departments[1] {
		t.Fatalf("departments = %v", res.Departments)
	}
	for i := 0; i < res.Table.Len(); i++ {
		if res.Table.Get(i, normalize.ColPersonName) != table.String(Hidden) {
			t.Fatalf("row %d name not hidden", i)
		}
		if !slices.Contains(res.Departments, res.Table.Get(i, normalize.ColDepartmentID)) {
			t.Fatalf("row %d from an undrawn department", i)
		}
	}
	// every department in the fixture except 4 and the null one has two rows
	want := 0
	for _, d := range res.Departments {
		if d == table.Int(4) || d.IsNull() {
			want++
		} else {
			want += 2
		}
	}
	if res.Table.Len() != want {
		t.Fatalf("rows = %d, want %d", res.Table.Len(), want)
	}
	if in.Get(0, normalize.ColPersonName) != table.String("Real Name") {
		t.Fatalf("input must not be modified")
	}
}

func TestDepartments_Reproducible(t *testing.T) {
	in := raw(t, 5, 6, 7, 8, 9, 10, 11)
	a, _ := Departments(in, 3, rand.New(rand.NewSource(42)))
	b, _ := Departments(in, 3, rand.New(rand.NewSource(42)))
	if !slices.Equal(a.Departments, b.Departments) || !a.Table.Equal(b.Table) {
		t.Fatalf("same seed should draw the same sample")
	}
}

func TestDepartments_Errors(t *testing.T) {
	in := raw(t, 1, 2)
	if _, err := Departments(in, 3, rand.New(rand.NewSource(0))); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("oversized sample should fail, got %v", err)
	}
	if _, err := Departments(in, 0, rand.New(rand.NewSource(0))); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("zero sample should fail, got %v", err)
	}
	noNames := table.New("raw", []string{normalize.ColDepartmentID})
	if _, err := Departments(noNames, 1, rand.New(rand.NewSource(0))); !perr.IsSchema(err) {
		t.Fatalf("missing PersonName should be a schema error, got %v", err)
	}
}

func TestDepartments_NullIsADepartment(t *testing.T) {
	in := raw(t, -1, 7, -1)
	res, err := Departments(in, 2, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("sample: %v", err)
	}
	if len(res.Departments) != 2 || res.Table.Len() != 3 {
		t.Fatalf("departments = %v rows = %d", res.Departments, res.Table.Len())
	}
	nulls := 0
	for i := 0; i < res.Table.Len(); i++ {
		if res.Table.Get(i, normalize.ColDepartmentID).IsNull() {
			nulls++
		}
	}
	if nulls != 2 {
		t.Fatalf("null department rows = %d, want 2", nulls)
	}

	// 7 and null are the only departments
	if _, err := Departments(in, 3, rand.New(rand.NewSource(1))); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("oversized sample should fail, got %v", err)
	}
}
