// Package module mounts normalization runs on the api
package module

import (
	"context"

	"aarcnorm/internal/modkit"
	"aarcnorm/internal/modkit/httpkit"
	"aarcnorm/internal/platform/logger"
	"aarcnorm/internal/services/normalizer/domain"
	"aarcnorm/internal/services/normalizer/guardrails"
	normhttp "aarcnorm/internal/services/normalizer/http"
	"aarcnorm/internal/services/normalizer/repo"
	"aarcnorm/internal/services/normalizer/service"
)

// Ports defines the normalizer module ports
type Ports struct {
	Runner domain.RunnerPort
}

type Module struct {
	modkit.Base
	deps  modkit.Deps
	opts  Options
	svc   *service.Service
	ports Ports
	hist  domain.History
}

// New reads CORE_NORMALIZE_*
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	return NewWithOptions(deps, FromConfig(deps.Cfg), opts...)
}

// NewWithOptions wires files, sinks, ledger and service
// the postgres sink and ledger need deps.PG; the clickhouse sink needs deps.CH.
// a domain.Reloader passed with modkit.WithPorts is reloaded after every successful run
func NewWithOptions(deps modkit.Deps, o Options, opts ...modkit.Option) *Module {
	b := modkit.Build("normalizer", "/runs", opts...)

	var (
		sinks   []domain.Sink
		export  []string
		ledger  domain.Ledger
		history domain.History
	)
	if deps.PG != nil {
		binder := repo.NewPG(o.PGChunk)
		sinks = append(sinks, repo.NewPGSink(deps.PG, binder, o.Schema))
		if o.ExportPG {
			export = append(export, domain.SinkPG)
		}
		if o.Ledger {
			pl := &repo.PGLedger{DB: deps.PG, Binder: binder, Schema: o.Schema}
			ledger, history = pl, pl
		}
	}
	if deps.CH != nil {
		sinks = append(sinks, repo.NewCHSink(deps.CH, o.CHRelations...))
		if o.ExportCH {
			export = append(export, domain.SinkCH)
		}
	}

	files := repo.Files{Sanitize: o.Sanitize}
	svc := service.New(files, files, sinks, service.Config{
		RawPath: o.RawPath,
		OutDir:  o.OutDir,
		Export:  export,
		NFC:     o.NFC,
		Verbose: o.Verbose,
		Timeouts: guardrails.Timeouts{
			Run:     o.RunTimeout,
			Load:    o.LoadTimeout,
			Publish: o.PublishTimeout,
		},
	})
	if ledger != nil {
		svc.WithLedger(ledger)
	}
	if r, ok := b.Injected().(domain.Reloader); ok {
		svc.WithDoneHook(reloadHook(r))
	}

	return &Module{
		Base:  b,
		deps:  deps,
		opts:  o,
		svc:   svc,
		ports: Ports{Runner: svc},
		hist:  history,
	}
}

func reloadHook(r domain.Reloader) domain.DoneHook {
	return func(ctx context.Context, _ domain.Report) {
		if err := r.Reload(ctx); err != nil {
			logger.C(ctx).Warn().Err(err).Msg("reload after run failed")
		}
	}
}

// Service returns the wired service
func (m *Module) Service() *service.Service { return m.svc }

func (m *Module) Ports() any { return m.ports }

// MountRoutes serves POST and GET on the module prefix
func (m *Module) MountRoutes(r httpkit.Router) {
	m.Mount(r, func(sub httpkit.Router) { normhttp.Register(sub, m.svc, m.hist, m.opts.HTTPPaths) })
}
