package repokit

import (
	"context"
	"errors"
	"testing"

	perr "aarcnorm/internal/platform/errors"
	"aarcnorm/internal/platform/testkit"

	"github.com/jackc/pgx/v5/pgconn"
)

// execLog records statements; every Tx runs against itself
type execLog struct {
	sql   []string
	args  [][]any
	err   error
	txs   int
	txErr error
}

func (l *execLog) Exec(_ context.Context, sql string, args ...any) (CommandTag, error) {
	l.sql = append(l.sql, sql)
	l.args = append(l.args, args)
	return pgconn.NewCommandTag("SELECT 1"), l.err
}

func (l *execLog) Query(context.Context, string, ...any) (Rows, error) { return nil, l.err }
func (l *execLog) QueryRow(context.Context, string, ...any) Row         { return nil }

func (l *execLog) Tx(_ context.Context, fn func(Queryer) error) error {
	l.txs++
	if err := fn(l); err != nil {
		return err
	}
	return l.txErr
}

type countBinder struct{ bound []Queryer }

func (b *countBinder) Bind(q Queryer) int {
	b.bound = append(b.bound, q)
	return len(b.bound)
}

func TestMustBind(t *testing.T) {
	t.Parallel()

	b := &countBinder{}
	q := &execLog{}
	if n := MustBind[int](b, q); n != 1 || b.bound[0] != q {
		t.Fatalf("bound %d, %v", n, b.bound)
	}
	testkit.MustPanic(t, func() { MustBind[int](b, nil) })
}

func TestWithTx_ReturnsFnOrCommitError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	db := &execLog{}
	if err := WithTx(context.Background(), db, func(Queryer) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("want boom, got %v", err)
	}
	db.txErr = errors.New("commit failed")
	if err := WithTx(context.Background(), db, func(Queryer) error { return nil }); !errors.Is(err, db.txErr) {
		t.Fatalf("want commit error, got %v", err)
	}
	if db.txs != 2 {
		t.Fatalf("txs = %d", db.txs)
	}
}

func TestWithBeginHooks_RunBeforeFn(t *testing.T) {
	t.Parallel()

	db := &execLog{}
	tx := WithBeginHooks(
		WithBeginHooks(db, SetLocal("statement_timeout", "0")),
		SetLocal("search_path", "aarc"),
	)
	err := tx.Tx(context.Background(), func(q Queryer) error {
		_, err := q.Exec(context.Background(), "TRUNCATE persons")
		return err
	})
	if err != nil {
		t.Fatalf("Tx: %v", err)
	}
	if len(db.sql) != 3 || db.sql[2] != "TRUNCATE persons" {
		t.Fatalf("statements = %q", db.sql)
	}
	if db.args[0][0] != "statement_timeout" || db.args[1][1] != "aarc" {
		t.Fatalf("hooks out of order: %v", db.args)
	}
	if db.txs != 1 {
		t.Fatalf("stacked hooks opened %d transactions", db.txs)
	}

	if _, err := tx.Exec(context.Background(), "SELECT 1"); err != nil || len(db.sql) != 4 {
		t.Fatal("plain statements should pass through without hooks")
	}
}

func TestWithBeginHooks_NoHooksIsIdentity(t *testing.T) {
	t.Parallel()

	db := &execLog{}
	if WithBeginHooks(db) != TxRunner(db) {
		t.Fatal("want inner runner back")
	}
}

func TestWithBeginHooks_HookErrorSkipsFn(t *testing.T) {
	t.Parallel()

	db := &execLog{err: &pgconn.PgError{Code: "3F000", Message: `schema "aarc" does not exist`}}
	ran := false
	err := WithBeginHooks(db, SetLocal("search_path", "aarc")).Tx(context.Background(), func(Queryer) error {
		ran = true
		return nil
	})
	if ran {
		t.Fatal("fn ran after a failing hook")
	}
	if perr.CodeOf(err) != perr.ErrorCodeDB {
		t.Fatalf("want db code, got %v", perr.CodeOf(err))
	}
	testkit.MustContain(t, err.Error(), "set search_path")
}

type staticGuard struct{ err error }

func (g staticGuard) Guard(context.Context) error { return g.err }

func TestMustGuard(t *testing.T) {
	t.Parallel()

	testkit.MustNotPanic(t, func() { MustGuard(context.Background(), staticGuard{}) })
	testkit.MustPanic(t, func() { MustGuard(context.Background(), staticGuard{err: errors.New("pg: timeout")}) })
}
