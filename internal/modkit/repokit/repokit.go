// Package repokit holds the seams and helpers repositories share
package repokit

import (
	"context"
	"fmt"

	perr "aarcnorm/internal/platform/errors"
	"aarcnorm/internal/platform/store"
)

// store seams under the names repositories use
type (
	Queryer    = store.RowQuerier
	TxRunner   = store.TxRunner
	Rows       = store.Rows
	Row        = store.Row
	CommandTag = store.CommandTag
	Copier     = store.Copier
	Clickhouse = store.Clickhouse
)

// Binder produces a repository bound to one querier, usually a transaction
type Binder[T any] interface {
	Bind(Queryer) T
}

// MustBind binds b to q; a nil q is a wiring bug
func MustBind[T any](b Binder[T], q Queryer) T {
	if q == nil {
		panic("repokit: bind on nil queryer")
	}
	return b.Bind(q)
}

// WithTx runs fn inside one transaction of tx
func WithTx(ctx context.Context, tx TxRunner, fn func(q Queryer) error) error {
	return tx.Tx(ctx, fn)
}

// CopierOf reports whether q can bulk load through COPY
func CopierOf(q Queryer) (Copier, bool) {
	c, ok := q.(Copier)
	return c, ok
}

// BeginHook runs first thing inside every transaction
type BeginHook func(ctx context.Context, q Queryer) error

// WithBeginHooks returns a TxRunner running hooks, in order, before each fn
// statements outside Tx go straight to inner
func WithBeginHooks(inner TxRunner, hooks ...BeginHook) TxRunner {
	if len(hooks) == 0 {
		return inner
	}
	if h, ok := inner.(hooked); ok {
		return hooked{TxRunner: h.TxRunner, hooks: append(append([]BeginHook(nil), h.hooks...), hooks...)}
	}
	return hooked{TxRunner: inner, hooks: hooks}
}

type hooked struct {
	TxRunner
	hooks []BeginHook
}

func (h hooked) Tx(ctx context.Context, fn func(q Queryer) error) error {
	return h.TxRunner.Tx(ctx, func(q Queryer) error {
		for _, hook := range h.hooks {
			if err := hook(ctx, q); err != nil {
				return err
			}
		}
		return fn(q)
	})
}

// SetLocal sets a server parameter for the rest of the transaction
func SetLocal(param, value string) BeginHook {
	return func(ctx context.Context, q Queryer) error {
		if _, err := q.Exec(ctx, "SELECT set_config($1, $2, true)", param, value); err != nil {
			return perr.FromPostgresf(err, "set %s", param)
		}
		return nil
	}
}

// Guarder is anything that can prove its backends answer
type Guarder interface {
	Guard(context.Context) error
}

// MustGuard panics when g reports a failure; for process startup only
func MustGuard(ctx context.Context, g Guarder) {
	if err := g.Guard(ctx); err != nil {
		panic(fmt.Errorf("dependency guard failed: %w", err))
	}
}
