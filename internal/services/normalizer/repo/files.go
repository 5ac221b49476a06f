package repo

import (
	"context"

	"aarcnorm/internal/adapters/tabular"
	"aarcnorm/internal/core/normalize"
	"aarcnorm/internal/core/table"
)

// Files reads the raw table and writes collections through the tabular adapter
type Files struct {
	// Sanitize strips control characters from text cells on load
	Sanitize bool
}

// ReadRaw implements domain.Source
func (f Files) ReadRaw(ctx context.Context, path string, nfc bool) (*table.Table, error) {
	return tabular.ReadRaw(ctx, path, tabular.Options{NFC: nfc, Sanitize: f.Sanitize})
}

// WriteCollection implements domain.Store
func (Files) WriteCollection(_ context.Context, dir string, c *normalize.Collection) error {
	return tabular.WriteCollection(dir, c)
}
