// Package api assembles the api modules behind /api/v1
package api

import (
	"aarcnorm/internal/platform/config"
	"aarcnorm/internal/platform/logger"
	phttp "aarcnorm/internal/platform/net/http"
	"aarcnorm/internal/platform/store"

	"aarcnorm/internal/modkit"
	"aarcnorm/internal/modkit/httpkit"
	"aarcnorm/internal/modkit/module"
	"aarcnorm/internal/modkit/swaggerkit"

	colmod "aarcnorm/internal/services/api/collection/module"
	metamod "aarcnorm/internal/services/api/meta/module"
	normmod "aarcnorm/internal/services/normalizer/module"
)

// Options carry what the api shares across modules
type Options struct {
	// Config is the root config; modules pick their own prefixes
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool
}

// Mount registers every module and their ports on r
func Mount(r phttp.Router, opt Options) {
	deps := modkit.Deps{Cfg: opt.Config}
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}
	if opt.Store != nil {
		deps.PG = opt.Store.PG
		deps.CH = opt.Store.CH
	}

	// the normalizer reloads the collection after each run
	col := colmod.New(deps)
	norm := normmod.New(deps, modkit.WithPorts(module.MustPortsOf[colmod.Ports](col).Reloader))

	mods := []module.Module{metamod.New(deps), col, norm}

	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)
	httpkit.MountAPI(r, "v1", httpkit.CommonStack(), func(api httpkit.Router) {
		swaggerkit.Mount(api, "/api/v1", opt.EnableSwagger)
		for _, m := range mods {
			module.Register(m.Name(), m.Ports())
			m.MountRoutes(api)
		}
	})
}
