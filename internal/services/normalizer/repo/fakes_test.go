package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"aarcnorm/internal/core/normalize"
	"aarcnorm/internal/core/table"
	"aarcnorm/internal/modkit/repokit"
	"aarcnorm/internal/platform/logger"
)

type tag int64

func (t tag) String() string      { return fmt.Sprintf("OK %d", int64(t)) }
func (t tag) RowsAffected() int64 { return int64(t) }

type call struct {
	sql   string
	args  []any
	runID string
}

// recQ records every statement; RowsAffected echoes the number of value tuples
type recQ struct {
	calls   []call
	failOn  string
	copies  []call
	copyAll bool

	// failErr replaces the default error; failMax caps how many statements fail, 0 is unbounded
	failErr error
	failMax int
	failed  int

	// count and result answer ledger reads
	count  int64
	result *runRows
}

func (q *recQ) Exec(ctx context.Context, sql string, args ...any) (repokit.CommandTag, error) {
	q.calls = append(q.calls, call{sql: sql, args: args, runID: logger.RunID(ctx)})
	if q.failOn != "" && strings.Contains(sql, q.failOn) && (q.failMax == 0 || q.failed < q.failMax) {
		q.failed++
		return nil, q.err()
	}
	return tag(strings.Count(sql, "),(") + 1), nil
}

func (q *recQ) Query(ctx context.Context, sql string, args ...any) (repokit.Rows, error) {
	q.calls = append(q.calls, call{sql: sql, args: args, runID: logger.RunID(ctx)})
	if q.failOn != "" && strings.Contains(sql, q.failOn) {
		return nil, q.err()
	}
	if q.result == nil {
		return &runRows{}, nil
	}
	return q.result, nil
}

func (q *recQ) QueryRow(ctx context.Context, sql string, args ...any) repokit.Row {
	q.calls = append(q.calls, call{sql: sql, args: args, runID: logger.RunID(ctx)})
	if q.failOn != "" && strings.Contains(sql, q.failOn) {
		return countRow{err: q.err()}
	}
	return countRow{n: q.count}
}

func (q *recQ) err() error {
	if q.failErr != nil {
		return q.failErr
	}
	return errors.New("boom")
}

// countRow answers count(*) queries
type countRow struct {
	n   int64
	err error
}

func (r countRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*int64)) = r.n
	return nil
}

// runRows replays fixed ledger rows
type runRows struct {
	cols []string
	rows [][]any
	i    int
}

func (r *runRows) Next() bool {
	r.i++
	return r.i <= len(r.rows)
}

func (r *runRows) Scan(dest ...any) error {
	for j, d := range dest {
		*(d.(*any)) = r.rows[r.i-1][j]
	}
	return nil
}

func (r *runRows) Err() error        { return nil }
func (r *runRows) Close()            {}
func (r *runRows) Columns() []string { return r.cols }

// copyQ adds COPY support on top of recQ
type copyQ struct{ *recQ }

func (q copyQ) CopyFrom(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	q.copies = append(q.copies, call{sql: table + ":" + strings.Join(columns, ","), args: []any{len(rows)}, runID: logger.RunID(ctx)})
	return int64(len(rows)), nil
}

// fakeTx runs fn against q directly
type fakeTx struct {
	repokit.Queryer
	txs int
}

func (f *fakeTx) Tx(_ context.Context, fn func(q repokit.Queryer) error) error {
	f.txs++
	return fn(f.Queryer)
}

func sqls(cs []call) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = strings.Join(strings.Fields(c.sql), " ")
	}
	return out
}

func smallCollection(t *testing.T) *normalize.Collection {
	t.Helper()

	appt := table.New(normalize.RelAppointments,
		[]string{"PersonId", "Year", "DepartmentId", "InstitutionId", "Rank", "PrimaryAppointment"},
		normalize.AppointmentKey...)
	appt.MustAppend(table.Int(1), table.Int(2020), table.Int(10), table.Int(5), table.String("Assoc"), table.Bool(true))
	appt.MustAppend(table.Int(2), table.Int(2021), table.Int(10), table.Null(), table.Null(), table.Bool(false))

	bridge := table.New(normalize.RelDepartmentTaxonomies, normalize.BridgeColumns, normalize.ColDepartmentID)
	bridge.MustAppend(table.Int(10), table.String("T"), table.Int(0), table.Int(0), table.Int(0))

	depts := table.New(normalize.RelDepartments, []string{"DepartmentId", "DepartmentName"}, "DepartmentId")
	depts.MustAppend(table.Int(10), table.String("Physics"))

	c := &normalize.Collection{}
	for _, x := range []*table.Table{appt, bridge, depts} {
		if err := c.SetRelation(x.Name(), x); err != nil {
			t.Fatalf("SetRelation: %v", err)
		}
	}
	return c
}
