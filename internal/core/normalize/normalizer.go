package normalize

import (
	"context"

	"aarcnorm/internal/core/table"
	"aarcnorm/internal/platform/logger"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Options tunes a Normalizer
type Options struct {
	// Verbose logs the row count of every derived relation
	Verbose bool
	// Logger overrides the package logger; nil uses logger.C(ctx)
	Logger *zerolog.Logger
}

// Normalizer runs the full decomposition; it holds no state between calls
type Normalizer struct {
	opt Options
}

// New constructs a Normalizer
func New(opt Options) *Normalizer { return &Normalizer{opt: opt} }

// Normalize derives every relation of the Collection from raw
//
// All required raw columns are checked before any work starts, so a missing column
// fails the whole run with a schema error and no partial Collection. The four dimension
// assignments run concurrently; everything else is sequential. The call does not
// observe ctx cancellation: it is pure, in-memory and bounded by the input size
func (n *Normalizer) Normalize(ctx context.Context, raw *table.Table) (*Collection, error) {
	if _, err := raw.Require(RawColumns...); err != nil {
		return nil, err
	}

	log := n.opt.Logger
	if log == nil {
		log = logger.C(ctx)
	}
	report := func(msg string, count int) {
		if n.opt.Verbose {
			log.Info().Int("count", count).Msg(msg)
		}
	}

	c := &Collection{}
	var err error

	if c.Persons, err = BuildEntityFor(raw, PersonEntity); err != nil {
		return nil, err
	}
	report("faculty count", c.Persons.Len())

	if c.Departments, err = BuildEntityFor(raw, DepartmentEntity); err != nil {
		return nil, err
	}
	report("departments count", c.Departments.Len())

	if c.Institutions, err = BuildEntityFor(raw, InstitutionEntity); err != nil {
		return nil, err
	}
	report("institutions count", c.Institutions.Len())

	dims, err := assignAll(raw, DimensionColumns)
	if err != nil {
		return nil, err
	}
	taxonomies, umbrellas, areas, fields := dims[0], dims[1], dims[2], dims[3]
	for _, d := range dims {
		report(d.Column()+" count", d.Len())
	}

	c.Taxonomies = taxonomies.AssignmentTable(RelTaxonomies)
	c.Fields = fields.InverseTable(RelFields)
	c.Areas = areas.InverseTable(RelAreas)
	c.Umbrellas = umbrellas.InverseTable(RelUmbrellas)

	if c.DepartmentTaxonomies, err = BuildBridge(raw, fields, areas, umbrellas); err != nil {
		return nil, err
	}
	report("department x taxonomy x field x area x umbrella count", c.DepartmentTaxonomies.Len())

	if c.Appointments, err = BuildAppointments(raw); err != nil {
		return nil, err
	}
	report("appointments count", c.Appointments.Len())

	return c, nil
}

// assignAll runs AssignSurrogates for each column in parallel, results in column order
func assignAll(raw *table.Table, columns []string) ([]*Dimension, error) {
	out := make([]*Dimension, len(columns))
	var g errgroup.Group
	for i, col := range columns {
		g.Go(func() error {
			d, err := AssignSurrogates(raw, col)
			if err != nil {
				return err
			}
			out[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
