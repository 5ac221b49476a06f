package repo

import (
	"context"
	"fmt"
	"strings"

	"aarcnorm/internal/core/normalize"
	"aarcnorm/internal/core/table"
	"aarcnorm/internal/modkit/repokit"
	perr "aarcnorm/internal/platform/errors"
	"aarcnorm/internal/platform/logger"
	"aarcnorm/internal/services/normalizer/domain"
)

// DefaultCHRelations are the relations worth scanning columnar
var DefaultCHRelations = []string{normalize.RelAppointments, normalize.RelDepartmentTaxonomies}

// CHType maps a storage kind to its nullable clickhouse column type
func CHType(k table.Kind) string {
	switch k {
	case table.KindInt:
		return "Nullable(Int64)"
	case table.KindFloat:
		return "Nullable(Float64)"
	case table.KindBool:
		return "Nullable(Bool)"
	default:
		return "Nullable(String)"
	}
}

func chIdent(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "\\`") + "`"
}

// CHSink publishes selected relations to clickhouse MergeTree tables ordered by run id
type CHSink struct {
	CH        repokit.Clickhouse
	Relations []string
}

// NewCHSink constructs the clickhouse sink; empty relations uses DefaultCHRelations
func NewCHSink(ch repokit.Clickhouse, relations ...string) *CHSink {
	if ch == nil {
		panic("normalizer.CHSink requires a non nil Clickhouse")
	}
	if len(relations) == 0 {
		relations = DefaultCHRelations
	}
	return &CHSink{CH: ch, Relations: relations}
}

// Name implements domain.Sink
func (s *CHSink) Name() string { return domain.SinkCH }

// TableDDL renders the create statement for one relation
func TableDDL(name string, cols []Column) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "CREATE TABLE IF NOT EXISTS %s (%s String", chIdent(name), chIdent(RunIDColumn))
	for _, c := range cols {
		fmt.Fprintf(&sb, ", %s %s", chIdent(c.Name), CHType(c.Kind))
	}
	fmt.Fprintf(&sb, ") ENGINE = MergeTree ORDER BY %s", chIdent(RunIDColumn))
	return sb.String()
}

// Publish implements domain.Sink
// clickhouse has no transactions so a failed run may leave some relations replaced
func (s *CHSink) Publish(ctx context.Context, runID string, c *normalize.Collection) error {
	ctx = logger.WithRun(ctx, runID)
	log := logger.C(ctx)
	for _, name := range s.Relations {
		t, ok := c.Relation(name)
		if !ok {
			continue
		}
		cols := Columns(t)
		if err := s.CH.Exec(ctx, TableDDL(name, cols)); err != nil {
			return perr.Wrapf(err, perr.ErrorCodeDB, "create ch table %s", name)
		}
		del := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", chIdent(name), chIdent(RunIDColumn))
		if err := s.CH.Exec(ctx, del, runID); err != nil {
			return perr.Wrapf(err, perr.ErrorCodeDB, "clear ch table %s", name)
		}
		names := Names(cols)
		quoted := make([]string, len(names))
		for i, n := range names {
			quoted[i] = chIdent(n)
		}
		if err := s.CH.Insert(ctx, chIdent(name), quoted, Rows(t, cols, runID)); err != nil {
			return err
		}
		log.Debug().
			Str("sink", domain.SinkCH).
			Str("relation", name).
			Int("rows", t.Len()).
			Msg("relation published")
	}
	return nil
}
