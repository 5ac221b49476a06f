// Package http provides http transport for the normalized collection
package http

import (
	stdhttp "net/http"
	"strconv"

	"aarcnorm/internal/modkit/httpkit"
	"aarcnorm/internal/services/api/collection/domain"
)

// Register mounts collection endpoints on the given router
func Register(r httpkit.Router, s domain.QueryPort) {
	h := &handlers{svc: s}

	// relation names, sizes and keys
	httpkit.Get(r, "/", h.list)

	// paged rows; cursor carries the next offset
	httpkit.GetQuery[domain.PageQuery](r, "/{name}", h.page)

	httpkit.Get(r, "/{name}/schema", h.schema)
}

type handlers struct{ svc domain.QueryPort }

// @Summary Loaded relations with row counts and keys
// @Tags Relations
// @Produce json
// @Success 200 {array} domain.RelationInfo "ok"
// @Failure 404 {object} net.Envelope "nothing has been normalized yet"
// @Router /relations [get]
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	return h.svc.Relations(r.Context())
}

// @Summary One page of relation rows
// @Tags Relations
// @Produce json
// @Param name path string true "relation" example(persons)
// @Param offset query int false "first row" minimum(0)
// @Param limit query int false "page size" minimum(0) maximum(1000)
// @Success 200 {object} net.Envelope "ok; page.cursor is the next offset"
// @Failure 404 {object} net.Envelope "unknown relation"
// @Router /relations/{name} [get]
func (h *handlers) page(r *stdhttp.Request, in domain.PageQuery) (any, error) {
	p, err := h.svc.Page(r.Context(), httpkit.Param(r, "name"), in)
	if err != nil {
		return nil, err
	}
	cursor := ""
	if next := p.Next(); next >= 0 {
		cursor = strconv.Itoa(next)
	}
	return httpkit.List(p.Rows, p.Total, p.Offset/p.Limit+1, p.Limit, cursor), nil
}

// @Summary Columns and key of a relation
// @Tags Relations
// @Produce json
// @Param name path string true "relation" example(appointments)
// @Success 200 {object} domain.SchemaInfo "ok"
// @Failure 404 {object} net.Envelope "unknown relation"
// @Router /relations/{name}/schema [get]
func (h *handlers) schema(r *stdhttp.Request) (any, error) {
	return h.svc.Schema(r.Context(), httpkit.Param(r, "name"))
}
