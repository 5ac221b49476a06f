// Package pg builds the pgx pool and traces statements through zerolog
package pg

import (
	"context"

	perr "aarcnorm/internal/platform/errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config tunes the pool
type Config struct {
	URL      string
	MaxConns int32
	// SlowMs marks traced statements at or over it as slow; negative disables the mark
	SlowMs int
	// AppName becomes application_name unless the url already sets one
	AppName string
}

// PG bundles the pool with the tracer its statements report to
type PG struct {
	Pool   *pgxpool.Pool
	Tracer QueryTracer
	SlowMs int
}

var newPool = pgxpool.NewWithConfig

// PoolConfig parses the url and layers cfg over it
func PoolConfig(cfg Config) (*pgxpool.Config, error) {
	pc, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, perr.WithField(perr.Wrap(err, perr.ErrorCodeInvalidArgument, "parse postgres url"), "URL")
	}
	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	params := pc.ConnConfig.RuntimeParams
	if _, set := params["application_name"]; !set && cfg.AppName != "" {
		params["application_name"] = cfg.AppName
	}
	return pc, nil
}

// Open builds the pool; tune may adjust the parsed config before the pool exists
func Open(ctx context.Context, cfg Config, tracer QueryTracer, tune func(*pgxpool.Config)) (*PG, error) {
	pc, err := PoolConfig(cfg)
	if err != nil {
		return nil, err
	}
	if tune != nil {
		tune(pc)
	}
	pool, err := newPool(ctx, pc)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "create postgres pool")
	}
	return &PG{Pool: pool, Tracer: tracer, SlowMs: cfg.SlowMs}, nil
}

// Close closes the pool; safe on nil
func (p *PG) Close() {
	if p == nil || p.Pool == nil {
		return
	}
	p.Pool.Close()
}
