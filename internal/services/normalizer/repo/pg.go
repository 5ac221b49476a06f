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
	"aarcnorm/internal/platform/store"
	"aarcnorm/internal/services/normalizer/domain"

	"github.com/jackc/pgx/v5"
)

// maxParams is the postgres bind parameter limit per statement
const maxParams = 65535

// DefaultChunk is the row count per multi-row INSERT
const DefaultChunk = 500

// Storage is the per transaction postgres surface of the sink and ledger
type Storage interface {
	EnsureSchema(ctx context.Context, schema string) error
	EnsureTable(ctx context.Context, name string, cols []Column) error
	DeleteRun(ctx context.Context, name, runID string) (int64, error)
	InsertRows(ctx context.Context, name string, columns []string, rows [][]any) (int64, error)

	EnsureLedger(ctx context.Context) error
	StartRun(ctx context.Context, s domain.RunStart) error
	FinishRun(ctx context.Context, runID string, fin domain.RunFinish) error
	CountRuns(ctx context.Context) (int64, error)
	RecentRuns(ctx context.Context, limit int) ([]map[string]any, error)
}

type (
	// PG is a Postgres binder for Storage
	PG      struct{ Chunk int }
	queries struct {
		q     repokit.Queryer
		chunk int
	}
)

// NewPG returns a Postgres binder; chunk <= 0 uses DefaultChunk
func NewPG(chunk int) repokit.Binder[Storage] { return PG{Chunk: chunk} }

// Bind implements repokit.Binder
func (p PG) Bind(q repokit.Queryer) Storage {
	c := p.Chunk
	if c <= 0 {
		c = DefaultChunk
	}
	return &queries{q: q, chunk: c}
}

func ident(name string) string { return pgx.Identifier{name}.Sanitize() }

// PGType maps a storage kind to its postgres column type
func PGType(k table.Kind) string {
	switch k {
	case table.KindInt:
		return "BIGINT"
	case table.KindFloat:
		return "DOUBLE PRECISION"
	case table.KindBool:
		return "BOOLEAN"
	default:
		return "TEXT"
	}
}

func (r *queries) EnsureSchema(ctx context.Context, schema string) error {
	_, err := r.q.Exec(ctx, "CREATE SCHEMA IF NOT EXISTS "+ident(schema))
	return err
}

// EnsureTable creates the relation table; every data column is nullable
func (r *queries) EnsureTable(ctx context.Context, name string, cols []Column) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "CREATE TABLE IF NOT EXISTS %s (%s TEXT NOT NULL", ident(name), ident(RunIDColumn))
	for _, c := range cols {
		fmt.Fprintf(&sb, ", %s %s", ident(c.Name), PGType(c.Kind))
	}
	sb.WriteByte(')')
	_, err := r.q.Exec(ctx, sb.String())
	return err
}

func (r *queries) DeleteRun(ctx context.Context, name, runID string) (int64, error) {
	tag, err := r.q.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE %s = $1", ident(name), ident(RunIDColumn)), runID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// InsertRows bulk loads through COPY when the querier supports it, else chunked INSERTs
func (r *queries) InsertRows(ctx context.Context, name string, columns []string, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	if c, ok := repokit.CopierOf(r.q); ok {
		return c.CopyFrom(ctx, name, columns, rows)
	}

	chunk := r.chunk
	if lim := maxParams / len(columns); chunk > lim {
		chunk = lim
	}
	cols := make([]string, len(columns))
	for i, c := range columns {
		cols[i] = ident(c)
	}
	head := fmt.Sprintf("INSERT INTO %s (%s) VALUES ", ident(name), strings.Join(cols, ", "))

	var total int64
	for lo := 0; lo < len(rows); lo += chunk {
		hi := min(lo+chunk, len(rows))
		var sb strings.Builder
		sb.WriteString(head)
		args := make([]any, 0, (hi-lo)*len(columns))
		for i, row := range rows[lo:hi] {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteByte('(')
			for j := range columns {
				if j > 0 {
					sb.WriteByte(',')
				}
				fmt.Fprintf(&sb, "$%d", len(args)+j+1)
			}
			sb.WriteByte(')')
			args = append(args, row...)
		}
		tag, err := r.q.Exec(ctx, sb.String(), args...)
		if err != nil {
			return total, err
		}
		total += tag.RowsAffected()
	}
	return total, nil
}

const ledgerDDL = `
	CREATE TABLE IF NOT EXISTS normalize_runs (
		run_id      TEXT PRIMARY KEY,
		raw_path    TEXT NOT NULL,
		out_dir     TEXT,
		sinks       TEXT,
		status      TEXT NOT NULL,
		started_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
		finished_at TIMESTAMPTZ,
		raw_rows    BIGINT,
		relations   INT,
		elapsed_ms  BIGINT,
		error       TEXT
	)`

func (r *queries) EnsureLedger(ctx context.Context) error {
	_, err := r.q.Exec(ctx, ledgerDDL)
	return err
}

// StartRun marks a run as running (idempotent)
func (r *queries) StartRun(ctx context.Context, s domain.RunStart) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO normalize_runs (run_id, raw_path, out_dir, sinks, status, started_at)
		VALUES ($1, $2, NULLIF($3,''), NULLIF($4,''), 'running', now())
		ON CONFLICT (run_id) DO UPDATE
		SET started_at = now(), status = 'running', error = null, finished_at = null
	`, s.RunID, s.RawPath, s.OutDir, strings.Join(s.Sinks, ","))
	return err
}

// FinishRun records the outcome of a run
func (r *queries) FinishRun(ctx context.Context, runID string, fin domain.RunFinish) error {
	_, err := r.q.Exec(ctx, `
		UPDATE normalize_runs SET
			finished_at = now(),
			status = $2,
			raw_rows = $3,
			relations = $4,
			elapsed_ms = $5,
			error = NULLIF($6,'')
		WHERE run_id = $1
	`, runID, fin.Status, fin.RawRows, fin.Relations, fin.ElapsedMS, fin.ErrText)
	return err
}

// DefaultAttempts bounds PGSink transactions retried on transient errors
const DefaultAttempts = 3

// CountRuns returns the number of recorded runs
func (r *queries) CountRuns(ctx context.Context) (int64, error) {
	return store.Scalar[int64](ctx, r.q, `SELECT count(*) FROM normalize_runs`)
}

// RecentRuns returns up to limit runs, newest first
func (r *queries) RecentRuns(ctx context.Context, limit int) ([]map[string]any, error) {
	return store.Maps(ctx, r.q, `
		SELECT run_id, raw_path, out_dir, sinks, status, started_at,
		       finished_at, raw_rows, relations, elapsed_ms, error
		FROM normalize_runs
		ORDER BY started_at DESC, run_id
		LIMIT $1
	`, limit)
}

// PGSink publishes every relation of a collection into one postgres table each
type PGSink struct {
	DB     repokit.TxRunner
	Binder repokit.Binder[Storage]
	// Schema is created if missing and used as search_path; empty keeps the default
	Schema string
	// Attempts caps transactions per Publish; 0 means DefaultAttempts
	Attempts int
}

// NewPGSink constructs the postgres sink
func NewPGSink(db repokit.TxRunner, binder repokit.Binder[Storage], schema string) *PGSink {
	if db == nil {
		panic("normalizer.PGSink requires a non nil TxRunner")
	}
	if binder == nil {
		panic("normalizer.PGSink requires a non nil Storage binder")
	}
	return &PGSink{DB: db, Binder: binder, Schema: schema}
}

// Name implements domain.Sink
func (s *PGSink) Name() string { return domain.SinkPG }

// Publish replaces the rows of runID in every relation table inside one transaction
// serialization failures and deadlocks retry the whole transaction
func (s *PGSink) Publish(ctx context.Context, runID string, c *normalize.Collection) error {
	attempts := s.Attempts
	if attempts <= 0 {
		attempts = DefaultAttempts
	}
	var err error
	for i := 1; i <= attempts; i++ {
		if err = s.publish(ctx, runID, c); err == nil || !perr.Retryable(err) {
			return err
		}
		if i < attempts {
			logger.C(ctx).Warn().Err(err).Int("attempt", i).Str("sink", domain.SinkPG).Msg("transient publish error, retrying")
		}
	}
	return err
}

func (s *PGSink) publish(ctx context.Context, runID string, c *normalize.Collection) error {
	hooks := []repokit.BeginHook{repokit.SetLocal("statement_timeout", "0")}
	if s.Schema != "" {
		hooks = append(hooks,
			func(ctx context.Context, q repokit.Queryer) error {
				return s.Binder.Bind(q).EnsureSchema(ctx, s.Schema)
			},
			repokit.SetLocal("search_path", s.Schema),
		)
	}
	tx := repokit.WithBeginHooks(s.DB, hooks...)

	return store.RunScoped(ctx, tx, runID, func(ctx context.Context, q store.RowQuerier) error {
		st := repokit.MustBind(s.Binder, q)
		log := logger.C(ctx)
		return c.Each(func(name string, t *table.Table) error {
			cols := Columns(t)
			if err := st.EnsureTable(ctx, name, cols); err != nil {
				return perr.FromPostgresf(err, "create table %s", name)
			}
			deleted, err := st.DeleteRun(ctx, name, runID)
			if err != nil {
				return perr.FromPostgresf(err, "clear %s", name)
			}
			n, err := st.InsertRows(ctx, name, Names(cols), Rows(t, cols, runID))
			if err != nil {
				return perr.FromPostgresf(err, "load %s", name)
			}
			log.Debug().
				Str("sink", domain.SinkPG).
				Str("relation", name).
				Int64("replaced", deleted).
				Int64("rows", n).
				Msg("relation published")
			return nil
		})
	})
}

// PGLedger records runs in the normalize_runs table
type PGLedger struct {
	DB     repokit.TxRunner
	Binder repokit.Binder[Storage]
	Schema string
}

func (l *PGLedger) tx() repokit.TxRunner {
	if l.Schema == "" {
		return l.DB
	}
	return repokit.WithBeginHooks(l.DB,
		func(ctx context.Context, q repokit.Queryer) error {
			return l.Binder.Bind(q).EnsureSchema(ctx, l.Schema)
		},
		repokit.SetLocal("search_path", l.Schema),
	)
}

// StartRun implements domain.Ledger
func (l *PGLedger) StartRun(ctx context.Context, s domain.RunStart) error {
	return repokit.WithTx(ctx, l.tx(), func(q repokit.Queryer) error {
		st := repokit.MustBind(l.Binder, q)
		if err := st.EnsureLedger(ctx); err != nil {
			return err
		}
		return st.StartRun(ctx, s)
	})
}

// FinishRun implements domain.Ledger
func (l *PGLedger) FinishRun(ctx context.Context, runID string, fin domain.RunFinish) error {
	err := repokit.WithTx(ctx, l.tx(), func(q repokit.Queryer) error {
		return repokit.MustBind(l.Binder, q).FinishRun(ctx, runID, fin)
	})
	if perr.IsUndefinedTable(err) {
		return perr.Wrapf(err, perr.ErrorCodeSchema, "run ledger missing, start of %s was not recorded", runID)
	}
	return perr.FromPostgres(err, "finish run")
}

// Recent implements domain.History; a ledger that was never created reads as empty
func (l *PGLedger) Recent(ctx context.Context, limit int) (int64, []map[string]any, error) {
	var (
		total int64
		runs  []map[string]any
	)
	err := repokit.WithTx(ctx, l.tx(), func(q repokit.Queryer) error {
		st := repokit.MustBind(l.Binder, q)
		var err error
		if total, err = st.CountRuns(ctx); err != nil {
			return err
		}
		runs, err = st.RecentRuns(ctx, limit)
		return err
	})
	if perr.IsUndefinedTable(err) {
		return 0, []map[string]any{}, nil
	}
	if err != nil {
		return 0, nil, perr.FromPostgres(err, "list runs")
	}
	if runs == nil {
		runs = []map[string]any{}
	}
	return total, runs, nil
}
