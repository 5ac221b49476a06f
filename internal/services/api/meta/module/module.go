// Package module mounts the health, readiness and version endpoints
package module

import (
	"time"

	"aarcnorm/internal/modkit"
	"aarcnorm/internal/modkit/httpkit"
	metahttp "aarcnorm/internal/services/api/meta/http"
)

// ServiceName is reported by health and version when CORE_API_SERVICE is unset
const ServiceName = "aarc-api"

type Module struct {
	modkit.Base
	deps metahttp.Deps
}

// New reads CORE_API_*; /ready pings deps.PG and deps.CH when they are set
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	api := deps.Cfg.Prefix("CORE_API_")
	d := metahttp.Deps{
		ServiceName:  api.MayString("SERVICE", ServiceName),
		StartedAt:    time.Now(),
		DataDir:      api.MayString("DATA_DIR", ""),
		ReadyTimeout: api.MayDuration("READY_TIMEOUT", 2*time.Second),
	}
	// typed nils would read as configured backends
	if deps.PG != nil {
		d.PG = deps.PG
	}
	if deps.CH != nil {
		d.CH = deps.CH
	}
	return &Module{Base: modkit.Build("meta", "/meta", opts...), deps: d}
}

// Ports is nil; nothing depends on meta
func (m *Module) Ports() any { return nil }

func (m *Module) MountRoutes(r httpkit.Router) {
	m.Mount(r, func(sub httpkit.Router) { metahttp.Register(sub, m.deps) })
}
