package tabular

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"aarcnorm/internal/core/normalize"
	"aarcnorm/internal/core/table"
	perr "aarcnorm/internal/platform/errors"
)

func fixture(t *testing.T) *table.Table {
	t.Helper()
	var b bytes.Buffer
	b.WriteString("PersonId,PersonName,Gender,DegreeYear,DegreeInstitutionId,DepartmentId,DepartmentName,InstitutionId,InstitutionName,Year,Rank,PrimaryAppointment,Taxonomy,Umbrella,Area,Field\n")
	fields := []string{"Computer Science", "Mathematics", ""}
	for i := 0; i < 40; i++ {
		inst := fmt.Sprint(100 + i%3)
		if i%13 == 0 {
			inst = ""
		}
		fmt.Fprintf(&b, "%d,Person %d,%s,%d,%d,%d,Dept %d,%s,Uni %s,%d,%s,%s,T%d,U%d,A%d,%s\n",
			i%11, i%11, []string{"M", "F"}[i%2], 1980+i%11, 200+i%5,
			i%6, i%6, inst, inst, 2011+i%4,
			[]string{"Asst", "Assoc", "Full"}[i%3], []string{"True", "False"}[i%2],
			i%2, i%3, i%4, fields[i%3])
	}
	res, err := Decode(&b, RawName, Options{})
	if err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	return res.Table
}

func TestCollection_RoundTrip(t *testing.T) {
	c, err := normalize.New(normalize.Options{}).Normalize(context.Background(), fixture(t))
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}

	dir := filepath.Join(t.TempDir(), "normalized")
	if err := WriteCollection(dir, c); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := LoadCollection(context.Background(), dir, Options{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	for _, name := range normalize.RelationNames {
		want, _ := c.Relation(name)
		have, ok := got.Relation(name)
		if !ok {
			t.Fatalf("%s not reloaded", name)
		}
		if !have.Equal(want) {
			t.Fatalf("%s differs after round-trip\nwant key %v cols %v rows %d\nhave key %v cols %v rows %d",
				name, want.Key(), want.Columns(), want.Len(), have.Key(), have.Columns(), have.Len())
		}
	}
}

func TestLoadCollection_IgnoresUnknownAndFallsBack(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"notes.csv":                 "a,b\n1,2\n",
		"fields.txt":                "FieldId,Field\n0,CS\n",
		"areas.csv":                 "AreaId,Area\n0,Systems\n1,Theory\n",
		"department_taxonomies.csv": "Dept,Taxonomy\n1,STEM\n",
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "persons.csv"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	c, err := LoadCollection(context.Background(), dir, Options{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Fields != nil || c.Persons != nil {
		t.Fatalf("only *.csv files with relation names should load")
	}
	if c.Areas.Len() != 2 || c.Areas.Key()[0] != "AreaId" {
		t.Fatalf("areas = %d rows key %v", c.Areas.Len(), c.Areas.Key())
	}
	if k := c.DepartmentTaxonomies.Key(); len(k) != 1 || k[0] != "Dept" {
		t.Fatalf("schema-less file should be keyed by its first column, got %v", k)
	}

	if _, err := LoadCollection(context.Background(), filepath.Join(dir, "missing"), Options{}); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("missing dir should be not found, got %v", err)
	}
}

func TestWriteTable_KeyFirstNoIndex(t *testing.T) {
	tb := table.New("taxonomies", []string{"TaxonomyId", "Taxonomy"}, "Taxonomy")
	tb.MustAppend(table.Int(0), table.String("STEM"))
	tb.MustAppend(table.Int(1), table.Null())

	var b bytes.Buffer
	if err := WriteTable(&b, tb); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got, want := b.String(), "Taxonomy,TaxonomyId\nSTEM,0\n,1\n"; got != want {
		t.Fatalf("csv = %q, want %q", got, want)
	}
}
