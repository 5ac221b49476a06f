package store

import (
	"context"

	"aarcnorm/internal/platform/logger"
)

// RunScoped tags ctx with runID and calls fn inside one transaction of tx
// statements traced inside fn carry the run id
func RunScoped(ctx context.Context, tx TxRunner, runID string, fn func(ctx context.Context, q RowQuerier) error) error {
	ctx = logger.WithRun(ctx, runID)
	return tx.Tx(ctx, func(q RowQuerier) error {
		return fn(ctx, q)
	})
}
