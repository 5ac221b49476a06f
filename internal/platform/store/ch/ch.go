// Package ch provides a clickhouse client
package ch

import (
	"context"
	"fmt"
	"strings"
	"time"

	perr "aarcnorm/internal/platform/errors"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// Config configures clickhouse client
type Config struct {
	// URL is a clickhouse:// dsn, e.g. clickhouse://default:@localhost:9000/aarc
	URL string

	// Role and Tag are reported to the server as client products
	Role string
	Tag  string

	// DialTimeout overrides the dsn dial timeout when non zero
	DialTimeout time.Duration
}

// Rows is the minimal result set iteration for ch
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
	Columns() []string
}

// CH wraps a clickhouse-go native connection
type CH struct {
	conn driver.Conn
}

// openConn is swapped in tests
var openConn = clickhouse.Open

// Options parses the dsn and applies client info and timeouts
func Options(cfg Config) (*clickhouse.Options, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, perr.WithField(perr.InvalidArgf("clickhouse url is empty"), "URL")
	}
	opts, err := clickhouse.ParseDSN(cfg.URL)
	if err != nil {
		return nil, perr.WithField(perr.Wrap(err, perr.ErrorCodeInvalidArgument, "parse clickhouse dsn"), "URL")
	}
	opts.ClientInfo = BuildClientInfo(cfg.Role, cfg.Tag)
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	return opts, nil
}

// Open returns a clickhouse client; the connection is dialed lazily
func Open(_ context.Context, cfg Config) (*CH, error) {
	opts, err := Options(cfg)
	if err != nil {
		return nil, err
	}
	conn, err := openConn(opts)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "open clickhouse")
	}
	return &CH{conn: conn}, nil
}

// Insert appends rows to table through one native batch
// every row must have one value per column, in column order
func (c *CH) Insert(ctx context.Context, table string, columns []string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}
	q := fmt.Sprintf("INSERT INTO %s (%s)", table, strings.Join(columns, ", "))
	b, err := c.conn.PrepareBatch(ctx, q)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeDB, "prepare batch %s", table)
	}
	for i, r := range rows {
		if err := b.Append(r...); err != nil {
			_ = b.Abort()
			return perr.Wrapf(err, perr.ErrorCodeDB, "append row %d to %s", i, table)
		}
	}
	if err := b.Send(); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeDB, "send batch %s", table)
	}
	return nil
}

// Exec runs a statement that returns no rows
func (c *CH) Exec(ctx context.Context, sql string, args ...any) error {
	return c.conn.Exec(ctx, sql, args...)
}

// Query runs a query and returns ch.Rows
func (c *CH) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	return c.conn.Query(ctx, sql, args...)
}

// Ping checks server connectivity
func (c *CH) Ping(ctx context.Context) error { return c.conn.Ping(ctx) }

// Close closes resources
func (c *CH) Close() error { return c.conn.Close() }
