package domain

import "context"

// QueryPort is consumed by handlers
type QueryPort interface {
	Relations(ctx context.Context) ([]RelationInfo, error)
	Page(ctx context.Context, name string, q PageQuery) (RelationPage, error)
	Schema(ctx context.Context, name string) (SchemaInfo, error)
}

// ReloaderPort drops the cached collection so the next read sees fresh files
type ReloaderPort interface {
	Reload(ctx context.Context) error
}
