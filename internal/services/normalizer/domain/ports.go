package domain

import (
	"context"

	"aarcnorm/internal/core/normalize"
	"aarcnorm/internal/core/table"
)

// RunnerPort is the public port of the module
type RunnerPort interface {
	Run(ctx context.Context, job Job) (Report, error)
}

// Source loads the raw table
type Source interface {
	ReadRaw(ctx context.Context, path string, nfc bool) (*table.Table, error)
}

// Store persists a collection as files
type Store interface {
	WriteCollection(ctx context.Context, dir string, c *normalize.Collection) error
}

// Sink publishes a collection to an external system
// publishing the same run id twice replaces the earlier rows
type Sink interface {
	Name() string
	Publish(ctx context.Context, runID string, c *normalize.Collection) error
}

// Ledger records run bookkeeping; failures never fail the run
type Ledger interface {
	StartRun(ctx context.Context, s RunStart) error
	FinishRun(ctx context.Context, runID string, fin RunFinish) error
}

// History lists recorded runs newest first, with the total number recorded
type History interface {
	Recent(ctx context.Context, limit int) (int64, []map[string]any, error)
}

// DoneHook is told about every successful run
type DoneHook func(ctx context.Context, r Report)

// Reloader is implemented by readers that cache published collections
type Reloader interface {
	Reload(ctx context.Context) error
}
