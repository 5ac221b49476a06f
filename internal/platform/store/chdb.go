package store

import (
	"context"
	"fmt"
	"time"

	"aarcnorm/internal/platform/logger"
	"aarcnorm/internal/platform/store/ch"
)

// chConn is the part of *ch.CH the seam needs
type chConn interface {
	Insert(ctx context.Context, table string, columns []string, rows [][]any) error
	Exec(ctx context.Context, sql string, args ...any) error
	Query(ctx context.Context, sql string, args ...any) (ch.Rows, error)
	Ping(ctx context.Context) error
	Close() error
}

// dialCH is swapped in tests
var dialCH = func(ctx context.Context, cfg ch.Config) (chConn, error) {
	c, err := ch.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// chDB is the Clickhouse seam; with logSQL every statement is logged
type chDB struct {
	conn   chConn
	log    logger.Logger
	logSQL bool
}

var _ Clickhouse = (*chDB)(nil)

func newCHDB(c chConn, log logger.Logger, logSQL bool) *chDB {
	return &chDB{conn: c, log: log.With().Str("component", "ch").Logger(), logSQL: logSQL}
}

// openCH dials and pings once; the native protocol connects lazily
func openCH(ctx context.Context, cfg Config, log logger.Logger) (*chDB, error) {
	c, err := dialCH(ctx, ch.Config{URL: cfg.CH.URL, Role: cfg.CH.ClientRole, Tag: cfg.CH.ClientTag})
	if err != nil {
		return nil, err
	}
	db := newCHDB(c, log, cfg.CH.LogSQL)
	if err := db.Ping(ctx); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("clickhouse ping: %w", err)
	}
	return db, nil
}

func (d *chDB) Insert(ctx context.Context, table string, columns []string, rows [][]any) error {
	return d.timed(ctx, "INSERT INTO "+table, len(rows), func() error {
		return d.conn.Insert(ctx, table, columns, rows)
	})
}

func (d *chDB) Exec(ctx context.Context, sql string, args ...any) error {
	return d.timed(ctx, sql, -1, func() error {
		return d.conn.Exec(ctx, sql, args...)
	})
}

func (d *chDB) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	var r ch.Rows
	err := d.timed(ctx, sql, -1, func() (err error) {
		r, err = d.conn.Query(ctx, sql, args...)
		return err
	})
	if err != nil {
		return nil, err
	}
	return chRows{r}, nil
}

func (d *chDB) Ping(ctx context.Context) error { return d.conn.Ping(ctx) }

func (d *chDB) Close() error { return d.conn.Close() }

// timed runs fn and logs the statement; rows < 0 leaves the row count out
func (d *chDB) timed(ctx context.Context, sql string, rows int, fn func() error) error {
	start := time.Now()
	err := fn()
	if !d.logSQL {
		return err
	}
	evt := d.log.Info()
	if err != nil {
		evt = d.log.Warn().Err(err)
	}
	if id := logger.RunID(ctx); id != "" {
		evt = evt.Str("run_id", id)
	}
	if rows >= 0 {
		evt = evt.Int("rows", rows)
	}
	evt.Dur("elapsed", time.Since(start)).Str("sql", sql).Msg("ch statement")
	return err
}

// chRows adapts ch.Rows, whose Close returns an error
type chRows struct{ ch.Rows }

func (r chRows) Close() { _ = r.Rows.Close() }
