package normalize

import (
	"slices"

	"aarcnorm/internal/core/table"
	perr "aarcnorm/internal/platform/errors"
)

// Relation names; each is also the file stem of the persisted table
const (
	RelPersons              = "persons"
	RelDepartments          = "departments"
	RelTaxonomies           = "taxonomies"
	RelFields               = "fields"
	RelAreas                = "areas"
	RelUmbrellas            = "umbrellas"
	RelInstitutions         = "institutions"
	RelAppointments         = "appointments"
	RelDepartmentTaxonomies = "department_taxonomies"
)

// RelationNames is the fixed set of relations in a Collection, in declaration order
var RelationNames = []string{
	RelPersons, RelDepartments, RelTaxonomies, RelFields, RelAreas,
	RelUmbrellas, RelInstitutions, RelAppointments, RelDepartmentTaxonomies,
}

// Schema is the static shape of one relation
type Schema struct {
	Name    string
	Columns []string
	Key     []string
}

var schemas = map[string]Schema{
	RelPersons: {
		Name:    RelPersons,
		Columns: append([]string{ColPersonID}, PersonEntity.Attrs...),
		Key:     []string{ColPersonID},
	},
	RelDepartments: {
		Name:    RelDepartments,
		Columns: []string{ColDepartmentID, ColDepartmentName},
		Key:     []string{ColDepartmentID},
	},
	RelTaxonomies: {
		Name:    RelTaxonomies,
		Columns: []string{ColTaxonomy, idColumn(ColTaxonomy)},
		Key:     []string{ColTaxonomy},
	},
	RelFields: {
		Name:    RelFields,
		Columns: []string{idColumn(ColField), ColField},
		Key:     []string{idColumn(ColField)},
	},
	RelAreas: {
		Name:    RelAreas,
		Columns: []string{idColumn(ColArea), ColArea},
		Key:     []string{idColumn(ColArea)},
	},
	RelUmbrellas: {
		Name:    RelUmbrellas,
		Columns: []string{idColumn(ColUmbrella), ColUmbrella},
		Key:     []string{idColumn(ColUmbrella)},
	},
	RelInstitutions: {
		Name:    RelInstitutions,
		Columns: []string{ColInstitutionID, ColInstitutionName},
		Key:     []string{ColInstitutionID},
	},
	RelAppointments: {
		Name:    RelAppointments,
		Columns: append(slices.Clone(AppointmentKey), appointmentAttrs...),
		Key:     slices.Clone(AppointmentKey),
	},
	RelDepartmentTaxonomies: {
		Name:    RelDepartmentTaxonomies,
		Columns: slices.Clone(BridgeColumns),
		Key:     []string{ColDepartmentID},
	},
}

// SchemaOf returns the static schema of a relation
func SchemaOf(name string) (Schema, bool) {
	s, ok := schemas[name]
	if !ok {
		return Schema{}, false
	}
	return Schema{Name: s.Name, Columns: slices.Clone(s.Columns), Key: slices.Clone(s.Key)}, true
}

// IsRelation reports whether name is one of RelationNames
func IsRelation(name string) bool {
	_, ok := schemas[name]
	return ok
}

// Collection is the normalized decomposition of one raw table
// it owns every table; nothing mutates them after Normalize returns
type Collection struct {
	Persons      *table.Table
	Departments  *table.Table
	Taxonomies   *table.Table
	Fields       *table.Table
	Areas        *table.Table
	Umbrellas    *table.Table
	Institutions *table.Table

	// relationships
	Appointments         *table.Table
	DepartmentTaxonomies *table.Table
}

// slot maps a relation name to its struct field
func (c *Collection) slot(name string) **table.Table {
	switch name {
	case RelPersons:
		return &c.Persons
	case RelDepartments:
		return &c.Departments
	case RelTaxonomies:
		return &c.Taxonomies
	case RelFields:
		return &c.Fields
	case RelAreas:
		return &c.Areas
	case RelUmbrellas:
		return &c.Umbrellas
	case RelInstitutions:
		return &c.Institutions
	case RelAppointments:
		return &c.Appointments
	case RelDepartmentTaxonomies:
		return &c.DepartmentTaxonomies
	}
	return nil
}

// Relation returns the named table; ok is false for unknown names or unset relations
func (c *Collection) Relation(name string) (*table.Table, bool) {
	p := c.slot(name)
	if p == nil || *p == nil {
		return nil, false
	}
	return *p, true
}

// SetRelation stores t under name
func (c *Collection) SetRelation(name string, t *table.Table) error {
	p := c.slot(name)
	if p == nil {
		return perr.NotFoundf("unknown relation %q", name)
	}
	*p = t
	return nil
}

// Each visits the set relations in RelationNames order and stops at the first error
func (c *Collection) Each(fn func(name string, t *table.Table) error) error {
	for _, name := range RelationNames {
		t, ok := c.Relation(name)
		if !ok {
			continue
		}
		if err := fn(name, t); err != nil {
			return err
		}
	}
	return nil
}

// Counts returns the row count of every set relation
func (c *Collection) Counts() map[string]int {
	out := make(map[string]int, len(RelationNames))
	_ = c.Each(func(name string, t *table.Table) error {
		out[name] = t.Len()
		return nil
	})
	return out
}
