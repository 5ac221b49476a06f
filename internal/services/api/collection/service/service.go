// Package service serves a persisted collection for reads
package service

import (
	"context"
	"sync"

	"aarcnorm/internal/adapters/tabular"
	"aarcnorm/internal/core/normalize"
	"aarcnorm/internal/core/table"
	perr "aarcnorm/internal/platform/errors"
	"aarcnorm/internal/platform/logger"
	"aarcnorm/internal/services/api/collection/domain"
)

// Service defines the collection service contract
type Service interface {
	domain.QueryPort
	domain.ReloaderPort
}

// Defaults for paging
const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// Loader reads a collection from dir
type Loader func(ctx context.Context, dir string) (*normalize.Collection, error)

// Svc implements Service over a directory of relation files
// the collection is loaded on first use and cached until Reload
type Svc struct {
	dir  string
	load Loader

	mu  sync.RWMutex
	col *normalize.Collection
}

// New constructs a collection service reading from dir
func New(dir string, load Loader) *Svc {
	if dir == "" {
		panic("collection.Service requires a data dir")
	}
	if load == nil {
		load = func(ctx context.Context, dir string) (*normalize.Collection, error) {
			return tabular.LoadCollection(ctx, dir, tabular.Options{Sanitize: true})
		}
	}
	return &Svc{dir: dir, load: load}
}

// collection returns the cached collection, loading it when needed
func (s *Svc) collection(ctx context.Context) (*normalize.Collection, error) {
	s.mu.RLock()
	c := s.col
	s.mu.RUnlock()
	if c != nil {
		return c, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.col != nil {
		return s.col, nil
	}
	c, err := s.load(ctx, s.dir)
	if err != nil {
		return nil, perr.WithOp(err, "load collection")
	}
	s.col = c
	logger.C(ctx).Info().Str("dir", s.dir).Interface("counts", c.Counts()).Msg("collection loaded")
	return c, nil
}

// Reload drops the cache; the next read loads the files again
func (s *Svc) Reload(ctx context.Context) error {
	s.mu.Lock()
	s.col = nil
	s.mu.Unlock()
	logger.C(ctx).Debug().Str("dir", s.dir).Msg("collection cache dropped")
	return nil
}

// Relations lists every loaded relation in canonical order
func (s *Svc) Relations(ctx context.Context) ([]domain.RelationInfo, error) {
	c, err := s.collection(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.RelationInfo, 0, len(normalize.RelationNames))
	_ = c.Each(func(name string, t *table.Table) error {
		out = append(out, domain.RelationInfo{Name: name, Rows: t.Len(), Columns: t.Columns(), Key: t.Key()})
		return nil
	})
	return out, nil
}

// Page returns one window of a relation; the limit is clamped to MaxLimit
func (s *Svc) Page(ctx context.Context, name string, q domain.PageQuery) (domain.RelationPage, error) {
	t, err := s.relation(ctx, name)
	if err != nil {
		return domain.RelationPage{}, err
	}
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	limit = min(limit, MaxLimit)
	offset := max(q.Offset, 0)

	cols := t.Columns()
	rows := t.Slice(offset, limit)
	out := make([]domain.Row, 0, len(rows))
	for _, r := range rows {
		m := make(domain.Row, len(cols))
		for i, c := range cols {
			m[c] = r[i]
		}
		out = append(out, m)
	}
	return domain.RelationPage{Name: name, Total: t.Len(), Offset: offset, Limit: limit, Rows: out}, nil
}

// Schema returns the static schema of a relation, whether or not it is loaded
func (s *Svc) Schema(_ context.Context, name string) (domain.SchemaInfo, error) {
	sc, ok := normalize.SchemaOf(name)
	if !ok {
		return domain.SchemaInfo{}, perr.WithField(perr.NotFoundf("unknown relation %q", name), "name")
	}
	return domain.SchemaInfo{Name: sc.Name, Columns: sc.Columns, Key: sc.Key}, nil
}

func (s *Svc) relation(ctx context.Context, name string) (*table.Table, error) {
	if !normalize.IsRelation(name) {
		return nil, perr.WithField(perr.NotFoundf("unknown relation %q", name), "name")
	}
	c, err := s.collection(ctx)
	if err != nil {
		return nil, err
	}
	t, ok := c.Relation(name)
	if !ok {
		return nil, perr.NotFoundf("relation %q is not loaded", name)
	}
	return t, nil
}
