package tabular

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"aarcnorm/internal/core/normalize"
	"aarcnorm/internal/core/table"
	perr "aarcnorm/internal/platform/errors"
	"aarcnorm/internal/platform/logger"
)

// Ext is the file extension of a persisted relation
const Ext = ".csv"

// WriteFile writes t to path, creating or truncating it
func WriteFile(path string, t *table.Table) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeIO, "create %s", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = perr.Wrapf(cerr, perr.ErrorCodeIO, "close %s", path)
		}
	}()
	return WriteTable(f, t)
}

// WriteCollection persists every set relation as <dir>/<relation>.csv
func WriteCollection(dir string, c *normalize.Collection) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeIO, "mkdir %s", dir)
	}
	return c.Each(func(name string, t *table.Table) error {
		return WriteFile(filepath.Join(dir, name+Ext), t)
	})
}

// LoadCollection reads every <relation>.csv under dir back into a Collection
// files whose stem is not a relation name are ignored. Keys come from the static
// relation schema; a file lacking those columns is keyed by its first column
func LoadCollection(ctx context.Context, dir string, opt Options) (*normalize.Collection, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, perr.Wrapf(err, perr.ErrorCodeNotFound, "collection dir %s", dir)
		}
		return nil, perr.Wrapf(err, perr.ErrorCodeIO, "read dir %s", dir)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	log := logger.C(ctx)
	c := &normalize.Collection{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), Ext) {
			continue
		}
		name := strings.TrimSuffix(e.Name(), Ext)
		if !normalize.IsRelation(name) {
			log.Debug().Str("file", e.Name()).Msg("skipping unknown relation")
			continue
		}

		path := filepath.Join(dir, e.Name())
		res, err := ReadFile(path, name, opt)
		if err != nil {
			return nil, err
		}
		for _, w := range res.Warnings {
			log.Warn().Str("path", path).Int("row", w.Row).Msg(w.Message)
		}

		t, err := restoreKey(res.Table, name)
		if err != nil {
			return nil, err
		}
		if err := c.SetRelation(name, t); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func restoreKey(t *table.Table, name string) (*table.Table, error) {
	s, _ := normalize.SchemaOf(name)
	if keyed, err := t.WithKey(s.Key...); err == nil {
		return keyed, nil
	}
	cols := t.Columns()
	if len(cols) == 0 {
		return nil, perr.IOf("%s: no columns", name)
	}
	return t.WithKey(cols[0])
}
