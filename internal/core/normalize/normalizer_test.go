package normalize

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"aarcnorm/internal/core/table"
	perr "aarcnorm/internal/platform/errors"
	"aarcnorm/internal/platform/testkit"

	"github.com/rs/zerolog"
)

func quiet() *Normalizer { return New(Options{}) }

func TestNormalize_TwoRowScenario(t *testing.T) {
	raw := rawTable(t, scenarioRow("Assoc"), scenarioRow("Full"))
	c, err := quiet().Normalize(context.Background(), raw)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}

	if c.Appointments.Len() != 1 {
		t.Fatalf("appointments = %d, want 1", c.Appointments.Len())
	}
	if got := str(t, c.Appointments.Get(0, ColRank)); got != "Assoc" {
		t.Fatalf("Rank = %q, want Assoc", got)
	}
	if c.Appointments.Get(0, ColPrimaryAppointment) != table.Bool(true) {
		t.Fatalf("PrimaryAppointment = %v", c.Appointments.Get(0, ColPrimaryAppointment))
	}

	br := c.DepartmentTaxonomies
	if br.Len() != 1 {
		t.Fatalf("bridge rows = %d, want 1", br.Len())
	}
	for _, col := range []string{"FieldId", "AreaId", "UmbrellaId"} {
		if br.Get(0, col) != table.Int(0) {
			t.Fatalf("%s = %v, want 0", col, br.Get(0, col))
		}
	}
	if str(t, br.Get(0, ColTaxonomy)) != "STEM" || br.Get(0, ColDepartmentID) != table.Int(10) {
		t.Fatalf("bridge row = %v", br.Row(0))
	}

	if c.Taxonomies.Get(0, "TaxonomyId") != table.Int(0) || c.Fields.Get(0, ColField) != table.String("CS") {
		t.Fatalf("dimension tables = %v / %v", c.Taxonomies.Row(0), c.Fields.Row(0))
	}
	if c.Persons.Len() != 1 || c.Departments.Len() != 1 || c.Institutions.Len() != 1 {
		t.Fatalf("entity counts = %v", c.Counts())
	}
}

func TestNormalize_SchemaErrorAbortsRun(t *testing.T) {
	cols := make([]string, 0, len(RawColumns))
	for _, c := range RawColumns {
		if c != ColArea && c != ColRank {
			cols = append(cols, c)
		}
	}
	raw := table.New("raw", cols)

	c, err := quiet().Normalize(context.Background(), raw)
	if c != nil {
		t.Fatalf("no partial collection may be returned")
	}
	if !perr.IsSchema(err) {
		t.Fatalf("expected schema error, got %v", err)
	}
	testkit.MustContain(t, err.Error(), "Rank")
	testkit.MustContain(t, err.Error(), "Area")
}

func TestNormalize_VerboseCounts(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)
	n := New(Options{Verbose: true, Logger: &log})

	if _, err := n.Normalize(context.Background(), rawTable(t, scenarioRow("Assoc"))); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	out := buf.String()
	testkit.MustContain(t, out, `"message":"faculty count"`)
	testkit.MustContain(t, out, `"message":"Field count"`)
	testkit.MustContain(t, out, `"message":"appointments count"`)

	buf.Reset()
	silent := New(Options{Logger: &log})
	if _, err := silent.Normalize(context.Background(), rawTable(t, scenarioRow("Assoc"))); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("non-verbose run should not log, got %q", buf.String())
	}
}

func TestNormalize_Properties(t *testing.T) {
	// a deterministic, messy fixture: repeated ids, nulls in every dimension and key
	var recs []rec
	fields := []string{"CS", "Math", "", "Bio"}
	areas := []string{"Systems", "", "Theory"}
	umbrellas := []string{"Engineering", "Natural Sciences", ""}
	opt := func(s string) table.Value {
		if s == "" {
			return table.Null()
		}
		return table.String(s)
	}
	for i := 0; i < 120; i++ {
		r := rec{
			ColPersonID:      table.Int(int64(i % 17)),
			ColYear:          table.Int(int64(2010 + i%5)),
			ColDepartmentID:  table.Int(int64(i % 9)),
			ColInstitutionID: table.Int(int64(i % 4)),
			ColTaxonomy:      table.String(fmt.Sprintf("T%d", i%3)),
			ColField:         opt(fields[i%len(fields)]),
			ColArea:          opt(areas[i%len(areas)]),
			ColUmbrella:      opt(umbrellas[i%len(umbrellas)]),
			ColRank:          table.String(fmt.Sprintf("R%d", i)),
		}
		if i%11 == 0 {
			r[ColInstitutionID] = table.Null()
		}
		recs = append(recs, r)
	}
	raw := rawTable(t, recs...)

	c, err := quiet().Normalize(context.Background(), raw)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}

	unique := func(name string, tb *table.Table) {
		seen := map[string]bool{}
		for i := 0; i < tb.Len(); i++ {
			k := table.Key(tb.KeyOf(i)...)
			if seen[k] {
				t.Fatalf("%s: duplicate key at row %d", name, i)
			}
			seen[k] = true
		}
	}
	unique(RelPersons, c.Persons)
	unique(RelDepartments, c.Departments)
	unique(RelInstitutions, c.Institutions)
	unique(RelAppointments, c.Appointments)

	// surrogate density {0..n-1}
	for name, tb := range map[string]*table.Table{RelFields: c.Fields, RelAreas: c.Areas, RelUmbrellas: c.Umbrellas} {
		idCol := tb.Key()[0]
		for i := 0; i < tb.Len(); i++ {
			if tb.Get(i, idCol) != table.Int(int64(i)) {
				t.Fatalf("%s: id at row %d = %v", name, i, tb.Get(i, idCol))
			}
		}
	}
	if c.Fields.Len() != 3 || c.Areas.Len() != 2 || c.Umbrellas.Len() != 2 || c.Taxonomies.Len() != 3 {
		t.Fatalf("dimension counts = %v", c.Counts())
	}

	// bridge dedup over the full tuple
	seen := map[string]bool{}
	for i := 0; i < c.DepartmentTaxonomies.Len(); i++ {
		k := table.Key(c.DepartmentTaxonomies.Row(i)...)
		if seen[k] {
			t.Fatalf("bridge duplicate at row %d", i)
		}
		seen[k] = true
	}

	checkBridgeIDs(t, raw, c)
	for _, col := range []string{"FieldId", "AreaId", "UmbrellaId"} {
		nulls := 0
		for i := 0; i < c.DepartmentTaxonomies.Len(); i++ {
			if c.DepartmentTaxonomies.Get(i, col).IsNull() {
				nulls++
			}
		}
		if nulls == 0 {
			t.Fatalf("fixture should produce null %s values", col)
		}
	}

	// null institution keys survive in the fact table
	kept := false
	for i := 0; i < c.Appointments.Len(); i++ {
		if c.Appointments.Get(i, ColInstitutionID).IsNull() {
			kept = true
		}
	}
	if !kept {
		t.Fatalf("null InstitutionId keys should be kept")
	}
}

func TestNormalize_Deterministic(t *testing.T) {
	raw := rawTable(t, scenarioRow("Assoc"), scenarioRow("Full"),
		rec{ColPersonID: table.Int(2), ColField: table.String("Math"), ColTaxonomy: table.String("STEM")})
	a, err := quiet().Normalize(context.Background(), raw)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	b, _ := quiet().Normalize(context.Background(), raw)
	for _, name := range RelationNames {
		ta, _ := a.Relation(name)
		tb, _ := b.Relation(name)
		if !ta.Equal(tb) {
			t.Fatalf("%s differs between runs", name)
		}
	}
}

// checkBridgeIDs maps every raw row onto the bridge through the dimension tables and back:
// a non-null value gets the id its dimension holds for it, a null value a null id
func checkBridgeIDs(t *testing.T, raw *table.Table, c *Collection) {
	t.Helper()

	dims := []struct {
		col string
		tb  *table.Table
	}{{ColField, c.Fields}, {ColArea, c.Areas}, {ColUmbrella, c.Umbrellas}}

	toID := make([]map[string]table.Value, len(dims))
	fromID := make([]map[string]table.Value, len(dims))
	for d, dim := range dims {
		toID[d], fromID[d] = map[string]table.Value{}, map[string]table.Value{}
		for i := 0; i < dim.tb.Len(); i++ {
			id, v := dim.tb.Get(i, idColumn(dim.col)), dim.tb.Get(i, dim.col)
			if v.IsNull() {
				t.Fatalf("%s: null value holds id %v", dim.col, id)
			}
			toID[d][table.Key(v)] = id
			fromID[d][table.Key(id)] = v
		}
	}

	br := c.DepartmentTaxonomies
	bridge := map[string]bool{}
	for i := 0; i < br.Len(); i++ {
		bridge[table.Key(br.Row(i)...)] = true
	}

	// raw -> bridge
	projections := map[string]bool{}
	for i := 0; i < raw.Len(); i++ {
		want := []table.Value{raw.Get(i, ColDepartmentID), raw.Get(i, ColTaxonomy)}
		orig := append([]table.Value(nil), want...)
		for d, dim := range dims {
			v := raw.Get(i, dim.col)
			orig = append(orig, v)
			if v.IsNull() {
				want = append(want, table.Null())
				continue
			}
			id, ok := toID[d][table.Key(v)]
			if !ok || id.IsNull() {
				t.Fatalf("row %d: %s %v has no surrogate id", i, dim.col, v)
			}
			want = append(want, id)
		}
		projections[table.Key(orig...)] = true
		if !bridge[table.Key(want...)] {
			t.Fatalf("row %d: bridge lacks %v", i, want)
		}
	}

	// bridge -> raw, through the inverse tables
	for i := 0; i < br.Len(); i++ {
		orig := []table.Value{br.Get(i, ColDepartmentID), br.Get(i, ColTaxonomy)}
		for d, dim := range dims {
			id := br.Get(i, idColumn(dim.col))
			if id.IsNull() {
				orig = append(orig, table.Null())
				continue
			}
			v, ok := fromID[d][table.Key(id)]
			if !ok {
				t.Fatalf("bridge row %d: %s %v is not a known id", i, idColumn(dim.col), id)
			}
			orig = append(orig, v)
		}
		if !projections[table.Key(orig...)] {
			t.Fatalf("bridge row %d maps back to %v, which no raw row holds", i, orig)
		}
	}
	if br.Len() != len(projections) {
		t.Fatalf("bridge rows = %d, distinct raw projections = %d", br.Len(), len(projections))
	}
}
