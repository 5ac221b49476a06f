package normalize

import (
	"testing"

	"aarcnorm/internal/core/table"
)

// rec is one raw observation; unset fields are null
type rec map[string]table.Value

func rawTable(t *testing.T, recs ...rec) *table.Table {
	t.Helper()
	raw := table.New("raw", RawColumns)
	for _, r := range recs {
		row := make([]table.Value, len(RawColumns))
		for i, c := range RawColumns {
			row[i] = r[c]
		}
		if err := raw.Append(row...); err != nil {
			t.Fatalf("append raw: %v", err)
		}
	}
	return raw
}

// scenarioRow is the two-row fixture base; rank varies
func scenarioRow(rank string) rec {
	return rec{
		ColPersonID:           table.Int(1),
		ColDepartmentID:       table.Int(10),
		ColYear:               table.Int(2020),
		ColInstitutionID:      table.Int(100),
		ColField:              table.String("CS"),
		ColArea:               table.String("Systems"),
		ColUmbrella:           table.String("Engineering"),
		ColTaxonomy:           table.String("STEM"),
		ColRank:               table.String(rank),
		ColPrimaryAppointment: table.Bool(true),
	}
}

func str(t *testing.T, v table.Value) string {
	t.Helper()
	s, ok := v.AsString()
	if !ok {
		t.Fatalf("expected string value, got %v", v.Kind())
	}
	return s
}
