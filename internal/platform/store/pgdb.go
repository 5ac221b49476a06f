package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"aarcnorm/internal/platform/logger"
	"aarcnorm/internal/platform/store/pg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgxConn is the statement surface shared by *pgxpool.Pool and pgx.Tx
type pgxConn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	CopyFrom(ctx context.Context, table pgx.Identifier, columns []string, src pgx.CopyFromSource) (int64, error)
}

// traceFn reports one finished statement
type traceFn func(ctx context.Context, sql string, args []any, start time.Time, err error)

// pgQuerier runs statements on conn and traces each one
type pgQuerier struct {
	conn  pgxConn
	trace traceFn
}

var (
	_ RowQuerier = pgQuerier{}
	_ Copier     = pgQuerier{}
	_ TxRunner   = (*pgDB)(nil)
)

func (q pgQuerier) done(ctx context.Context, sql string, args []any, start time.Time, err error) {
	if q.trace != nil {
		q.trace(ctx, sql, args, start, err)
	}
}

func (q pgQuerier) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	start := time.Now()
	ct, err := q.conn.Exec(ctx, sql, args...)
	q.done(ctx, sql, args, start, err)
	return ct, err
}

// Query traces when the result set opens; scanning is not timed
func (q pgQuerier) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	start := time.Now()
	rs, err := q.conn.Query(ctx, sql, args...)
	q.done(ctx, sql, args, start, err)
	if err != nil {
		return nil, err
	}
	return pgRows{rs}, nil
}

// QueryRow traces after Scan, which is when pgx reports the error
func (q pgQuerier) QueryRow(ctx context.Context, sql string, args ...any) Row {
	start := time.Now()
	return pgRow{
		Row:  q.conn.QueryRow(ctx, sql, args...),
		done: func(err error) { q.done(ctx, sql, args, start, err) },
	}
}

func (q pgQuerier) CopyFrom(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	start := time.Now()
	n, err := q.conn.CopyFrom(ctx, pgx.Identifier{table}, columns, pgx.CopyFromRows(rows))
	q.done(ctx, copyStatement(table, columns), []any{len(rows)}, start, err)
	return n, err
}

// pgDB is the pool backed TxRunner
type pgDB struct {
	pgQuerier
	begin func(ctx context.Context) (pgx.Tx, error)
	close func()
}

func newPGDB(p *pg.PG) *pgDB {
	return &pgDB{
		pgQuerier: pgQuerier{conn: p.Pool, trace: traceTo(p.Tracer, p.SlowMs)},
		begin:     p.Pool.Begin,
		close:     p.Close,
	}
}

// Tx commits when fn returns nil; the deferred rollback is a no-op after commit
func (d *pgDB) Tx(ctx context.Context, fn func(q RowQuerier) error) error {
	tx, err := d.begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(pgQuerier{conn: tx, trace: d.trace}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Ping round trips through the querier so traced sessions show readiness probes
func (d *pgDB) Ping(ctx context.Context) error {
	_, err := Scalar[int](ctx, d, "SELECT 1")
	return err
}

func (d *pgDB) Close() error {
	if d.close != nil {
		d.close()
	}
	return nil
}

func traceTo(t pg.QueryTracer, slowMs int) traceFn {
	if t == nil {
		return nil
	}
	slow := time.Duration(slowMs) * time.Millisecond
	return func(ctx context.Context, sql string, args []any, start time.Time, err error) {
		elapsed := time.Since(start)
		t.OnQuery(ctx, pg.QueryEvent{
			SQL:       sql,
			Args:      args,
			ElapsedUS: elapsed.Microseconds(),
			Err:       err,
			Slow:      slowMs >= 0 && elapsed >= slow,
		})
	}
}

// copyStatement renders a COPY for traces only
func copyStatement(table string, columns []string) string {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = pgx.Identifier{c}.Sanitize()
	}
	return fmt.Sprintf("COPY %s (%s) FROM STDIN", pgx.Identifier{table}.Sanitize(), strings.Join(quoted, ", "))
}

type pgRow struct {
	pgx.Row
	done func(error)
}

func (r pgRow) Scan(dest ...any) error {
	err := r.Row.Scan(dest...)
	r.done(err)
	return err
}

type pgRows struct{ pgx.Rows }

func (r pgRows) Columns() []string {
	fds := r.FieldDescriptions()
	cols := make([]string, len(fds))
	for i, fd := range fds {
		cols[i] = fd.Name
	}
	return cols
}

// seams for tests
var (
	openPool    = pg.Open
	pingBackoff = 150 * time.Millisecond
)

const maxPingBackoff = 2 * time.Second

func openPG(ctx context.Context, cfg Config, log logger.Logger) (*pgDB, error) {
	var tracer pg.QueryTracer
	if cfg.PG.LogSQL {
		tracer = pg.Tracer(log)
	}
	p, err := openPool(ctx, pg.Config{
		URL:      cfg.PG.URL,
		MaxConns: cfg.PG.MaxConns,
		SlowMs:   cfg.PG.SlowQueryMs,
		AppName:  cfg.AppName,
	}, tracer, nil)
	if err != nil {
		return nil, err
	}
	// the pool connects lazily; ping it directly so the probes stay out of the trace
	if err := waitReady(ctx, p.Pool.Ping, cfg.PG.ConnectRetries, cfg.PG.PingTimeout); err != nil {
		p.Close()
		return nil, err
	}
	return newPGDB(p), nil
}

// waitReady retries ping with doubling backoff until it succeeds, attempts run out or ctx ends
func waitReady(ctx context.Context, ping func(context.Context) error, attempts int, timeout time.Duration) error {
	backoff := pingBackoff
	var err error
	for i := 1; i <= attempts; i++ {
		pctx, cancel := context.WithTimeout(ctx, timeout)
		err = ping(pctx)
		cancel()
		if err == nil {
			return nil
		}
		if i == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff = min(2*backoff, maxPingBackoff)
	}
	return fmt.Errorf("postgres not ready after %d attempts: %w", attempts, err)
}
