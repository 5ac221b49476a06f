package normalize

import (
	"aarcnorm/internal/core/table"
)

// BuildBridge links departments to their taxonomy hierarchy
//
// The raw projection (DepartmentId, Taxonomy, Field, Umbrella, Area) is deduplicated first,
// keeping the first occurrence, then Field, Area and Umbrella are swapped for their
// surrogate ids. Every dimension join is many-to-one so no duplicates reappear.
// A null or unassigned value leaves a null id behind; that is not an error
func BuildBridge(raw *table.Table, fields, areas, umbrellas *Dimension) (*table.Table, error) {
	pos, err := raw.Require(bridgeProjection...)
	if err != nil {
		return nil, err
	}
	dep, tax, fld, umb, area := pos[0], pos[1], pos[2], pos[3], pos[4]

	out := table.New(RelDepartmentTaxonomies, BridgeColumns, ColDepartmentID)
	seen := make(map[string]struct{})
	for i := 0; i < raw.Len(); i++ {
		r := raw.Row(i)
		k := table.Key(r[dep], r[tax], r[fld], r[umb], r[area])
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}

		fieldID, _ := fields.Lookup(r[fld])
		areaID, _ := areas.Lookup(r[area])
		umbrellaID, _ := umbrellas.Lookup(r[umb])
		out.MustAppend(r[dep], r[tax], fieldID, areaID, umbrellaID)
	}
	return out, nil
}
