// Package domain holds the collection api types
package domain

import "aarcnorm/internal/core/table"

// RelationInfo summarizes one loaded relation
type RelationInfo struct {
	Name    string   `json:"name"`
	Rows    int      `json:"rows"`
	Columns []string `json:"columns"`
	Key     []string `json:"key"`
}

// PageQuery is the query string of a relation read
// a zero limit means the service default
type PageQuery struct {
	Offset int `json:"offset" validate:"min=0"`
	Limit  int `json:"limit" validate:"min=0,max=1000"`
}

// Row is one relation row keyed by column name
type Row map[string]table.Value

// RelationPage is one window of a relation
type RelationPage struct {
	Name   string
	Total  int
	Offset int
	Limit  int
	Rows   []Row
}

// Next returns the offset of the following page, or -1 on the last page
func (p RelationPage) Next() int {
	if p.Offset+len(p.Rows) >= p.Total || len(p.Rows) == 0 {
		return -1
	}
	return p.Offset + len(p.Rows)
}

// SchemaInfo is the static shape of a relation
type SchemaInfo struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
	Key     []string `json:"key"`
}
