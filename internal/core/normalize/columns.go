// Package normalize decomposes the denormalized faculty-appointment table into
// entity, dimension, bridge and fact relations
//
// Every builder is a pure function of the raw table. "First observed" always means
// raw row order, so callers must hand in rows in the order they were read
package normalize

// Raw column names
const (
	ColPersonID            = "PersonId"
	ColPersonName          = "PersonName"
	ColGender              = "Gender"
	ColDegreeYear          = "DegreeYear"
	ColDegreeInstitutionID = "DegreeInstitutionId"
	ColDepartmentID        = "DepartmentId"
	ColDepartmentName      = "DepartmentName"
	ColInstitutionID       = "InstitutionId"
	ColInstitutionName     = "InstitutionName"
	ColYear                = "Year"
	ColRank                = "Rank"
	ColPrimaryAppointment  = "PrimaryAppointment"
	ColTaxonomy            = "Taxonomy"
	ColUmbrella            = "Umbrella"
	ColArea                = "Area"
	ColField               = "Field"
)

// RawColumns lists every column of the raw record in file order
var RawColumns = []string{
	ColPersonID, ColPersonName, ColGender, ColDegreeYear, ColDegreeInstitutionID,
	ColDepartmentID, ColDepartmentName, ColInstitutionID, ColInstitutionName,
	ColYear, ColRank, ColPrimaryAppointment,
	ColTaxonomy, ColUmbrella, ColArea, ColField,
}

// Entity describes one entity relation derived by BuildEntity
type Entity struct {
	Name  string
	Key   string
	Attrs []string
}

// Entities derived from the raw table, in build order
var (
	PersonEntity = Entity{
		Name:  RelPersons,
		Key:   ColPersonID,
		Attrs: []string{ColGender, ColDegreeYear, ColPersonName, ColDegreeInstitutionID},
	}
	DepartmentEntity = Entity{
		Name:  RelDepartments,
		Key:   ColDepartmentID,
		Attrs: []string{ColDepartmentName},
	}
	InstitutionEntity = Entity{
		Name:  RelInstitutions,
		Key:   ColInstitutionID,
		Attrs: []string{ColInstitutionName},
	}
)

// AppointmentKey is the composite key of the appointment fact
var AppointmentKey = []string{ColPersonID, ColYear, ColDepartmentID, ColInstitutionID}

// appointmentAttrs are carried by first-observed resolution
var appointmentAttrs = []string{ColRank, ColPrimaryAppointment}

// bridgeProjection is the raw projection deduplicated into the bridge
var bridgeProjection = []string{ColDepartmentID, ColTaxonomy, ColField, ColUmbrella, ColArea}

// BridgeColumns are the bridge output columns
var BridgeColumns = []string{ColDepartmentID, ColTaxonomy, idColumn(ColField), idColumn(ColArea), idColumn(ColUmbrella)}

// DimensionColumns are the categorical columns that receive surrogate ids, in assignment order
var DimensionColumns = []string{ColTaxonomy, ColUmbrella, ColArea, ColField}

func idColumn(col string) string { return col + "Id" }
