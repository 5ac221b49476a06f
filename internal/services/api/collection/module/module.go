// Package module mounts the read api over a persisted collection
package module

import (
	"aarcnorm/internal/modkit"
	"aarcnorm/internal/modkit/httpkit"
	colhttp "aarcnorm/internal/services/api/collection/http"
	colsvc "aarcnorm/internal/services/api/collection/service"
)

// DefaultDir is read when CORE_API_DATA_DIR is unset
const DefaultDir = "data/normalized"

type Module struct {
	modkit.Base
	deps  modkit.Deps
	svc   colsvc.Service
	ports Ports
}

// New serves the directory named by CORE_API_DATA_DIR
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	dir := deps.Cfg.Prefix("CORE_API_").MayString("DATA_DIR", DefaultDir)
	return NewWithService(deps, colsvc.New(dir, nil), opts...)
}

// NewWithService serves svc
func NewWithService(deps modkit.Deps, svc colsvc.Service, opts ...modkit.Option) *Module {
	return &Module{
		Base:  modkit.Build("collection", "/relations", opts...),
		deps:  deps,
		svc:   svc,
		ports: Ports{Query: svc, Reloader: svc},
	}
}

func (m *Module) MountRoutes(r httpkit.Router) {
	m.Mount(r, func(sub httpkit.Router) { colhttp.Register(sub, m.svc) })
}
