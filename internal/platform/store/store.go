// Package store opens the optional postgres and clickhouse backends behind narrow seams
// so repositories never import a driver directly
package store

import (
	"context"
	"errors"
	"fmt"
	"io"

	perr "aarcnorm/internal/platform/errors"
	"aarcnorm/internal/platform/logger"

	"github.com/rs/zerolog"
)

// Row is a single result row
type Row interface {
	Scan(dest ...any) error
}

// Rows is a forward only result set
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
	Columns() []string
}

// CommandTag reports what a write touched
type CommandTag interface {
	String() string
	RowsAffected() int64
}

// RowQuerier runs sql either on the pool or inside a transaction
type RowQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

// TxRunner scopes fn to one transaction; fn returning an error rolls it back
type TxRunner interface {
	RowQuerier
	Tx(ctx context.Context, fn func(q RowQuerier) error) error
}

// Copier bulk loads through COPY; repos type-assert for it and fall back to INSERT
type Copier interface {
	CopyFrom(ctx context.Context, table string, columns []string, rows [][]any) (int64, error)
}

// Clickhouse is the columnar seam
type Clickhouse interface {
	// Insert appends rows through one batch; each row holds one value per column
	Insert(ctx context.Context, table string, columns []string, rows [][]any) error
	Exec(ctx context.Context, sql string, args ...any) error
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	Close() error
}

// Pinger reports readiness
type Pinger interface{ Ping(context.Context) error }

// Store holds the opened backends; a disabled backend stays nil
type Store struct {
	Log logger.Logger
	PG  TxRunner
	CH  Clickhouse
}

// Option configures Open
type Option func(*Store)

// WithLogger routes driver traces through log
func WithLogger(log logger.Logger) Option {
	return func(s *Store) { s.Log = log }
}

// Open connects every backend enabled in cfg, postgres first
// a failing backend closes the ones already open
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{Log: zerolog.Nop()}
	for _, o := range opts {
		o(s)
	}
	cfg = cfg.withDefaults()

	if cfg.PG.Enabled {
		db, err := openPG(ctx, cfg, s.Log)
		if err != nil {
			return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "open postgres")
		}
		s.PG = db
	}
	if cfg.CH.Enabled {
		db, err := openCH(ctx, cfg, s.Log)
		if err != nil {
			_ = s.Close(ctx)
			return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "open clickhouse")
		}
		s.CH = db
	}
	return s, nil
}

// Guard pings every open backend and joins the failures
func (s *Store) Guard(ctx context.Context) error {
	if s == nil {
		return errors.New("store: nil")
	}
	seams := []struct {
		name string
		seam any
	}{{"pg", s.PG}, {"ch", s.CH}}

	var errs []error
	for _, b := range seams {
		p, ok := b.seam.(Pinger)
		if !ok {
			continue
		}
		if err := p.Ping(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", b.name, err))
		}
	}
	return errors.Join(errs...)
}

// Close releases every open backend
func (s *Store) Close(_ context.Context) error {
	var errs []error
	if s.CH != nil {
		errs = append(errs, s.CH.Close())
	}
	if c, ok := s.PG.(io.Closer); ok {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
