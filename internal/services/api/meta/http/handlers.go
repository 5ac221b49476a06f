// Package http serves liveness, readiness and build info
package http

import (
	"context"
	"net/http"
	"time"

	"aarcnorm/internal/core/version"
	"aarcnorm/internal/modkit/httpkit"

	"golang.org/x/sync/errgroup"
)

// Pinger is any backend /ready can probe
type Pinger interface {
	Ping(context.Context) error
}

// Deps feed the meta handlers; PG and CH may be nil or anything, only a Pinger is probed
type Deps struct {
	ServiceName  string
	StartedAt    time.Time
	DataDir      string
	PG, CH       any
	ReadyTimeout time.Duration
}

// Check states
const (
	CheckOK      = "ok"
	CheckFail    = "fail"
	CheckSkipped = "skipped"
	CheckUnknown = "unknown"
)

// HealthResponse is the liveness payload
type HealthResponse struct {
	OK      bool   `json:"ok"      example:"true"`
	Service string `json:"service" example:"aarc-api"`
	Started string `json:"started" example:"2026-10-18T09:00:00Z"`
	Now     string `json:"now"     example:"2026-10-18T09:05:00Z"`
}

type ReadyCheck struct {
	Name   string `json:"name"   example:"pg"`
	Status string `json:"status" example:"ok"`
	Error  string `json:"error,omitempty" example:"dial tcp 127.0.0.1:5432: connect: connection refused"`
}

// ReadyResponse fails only when a configured backend does not answer
type ReadyResponse struct {
	Status string       `json:"status"`
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"`
}

type ServiceResponse struct {
	Name    string `json:"name"`
	Started string `json:"started"`
	Uptime  int64  `json:"uptime"`
	DataDir string `json:"data_dir,omitempty"`
}

func stamp(t time.Time) string { return t.UTC().Format(time.RFC3339) }

// Register adds /health, /ready, /version and /service
func Register(r httpkit.Router, d Deps) {
	if d.ReadyTimeout <= 0 {
		d.ReadyTimeout = 2 * time.Second
	}
	h := &handlers{deps: d}

	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/service", h.service)
}

type handlers struct{ deps Deps }

// @Summary Health check
// @Tags Meta
// @Produce json
// @Success 200 {object} HealthResponse "ok"
// @Router /meta/health [get]
func (h *handlers) health(*http.Request) (any, error) {
	d := h.deps
	return HealthResponse{OK: true, Service: d.ServiceName, Started: stamp(d.StartedAt), Now: stamp(time.Now())}, nil
}

// @Summary Readiness probe with backend checks
// @Tags Meta
// @Produce json
// @Success 200 {object} ReadyResponse "ok"
// @Failure 503 {object} ReadyResponse "a configured backend did not answer"
// @Router /meta/ready [get]
func (h *handlers) ready(req *http.Request) (any, error) {
	resp := ready(req.Context(), h.deps)
	if resp.Status == CheckFail {
		return httpkit.Response{Status: http.StatusServiceUnavailable, Body: resp}, nil
	}
	return resp, nil
}

// @Summary Build and version info
// @Tags Meta
// @Produce json
// @Success 200 {object} version.BuildInfo "ok"
// @Router /meta/version [get]
func (h *handlers) version(*http.Request) (any, error) {
	return version.Info(h.deps.ServiceName), nil
}

// @Summary Service info and uptime
// @Tags Meta
// @Produce json
// @Success 200 {object} ServiceResponse "ok"
// @Router /meta/service [get]
func (h *handlers) service(*http.Request) (any, error) {
	d := h.deps
	return ServiceResponse{
		Name:    d.ServiceName,
		Started: stamp(d.StartedAt),
		Uptime:  int64(time.Since(d.StartedAt).Seconds()),
		DataDir: d.DataDir,
	}, nil
}

// ready probes the backends in parallel, each bounded by ReadyTimeout
func ready(ctx context.Context, d Deps) ReadyResponse {
	ctx, cancel := context.WithTimeout(ctx, d.ReadyTimeout)
	defer cancel()

	targets := []struct {
		name string
		dep  any
	}{{"pg", d.PG}, {"ch", d.CH}}

	checks := make([]ReadyCheck, len(targets))
	var g errgroup.Group
	for i, tg := range targets {
		g.Go(func() error {
			checks[i] = probe(ctx, tg.name, tg.dep)
			return nil
		})
	}
	_ = g.Wait()

	resp := ReadyResponse{Status: CheckOK, Checks: checks, Now: stamp(time.Now())}
	for _, c := range checks {
		if c.Status == CheckFail {
			resp.Status = CheckFail
		}
	}
	return resp
}

func probe(ctx context.Context, name string, dep any) ReadyCheck {
	if dep == nil {
		return ReadyCheck{Name: name, Status: CheckSkipped}
	}
	p, ok := dep.(Pinger)
	if !ok {
		return ReadyCheck{Name: name, Status: CheckUnknown}
	}
	if err := p.Ping(ctx); err != nil {
		return ReadyCheck{Name: name, Status: CheckFail, Error: err.Error()}
	}
	return ReadyCheck{Name: name, Status: CheckOK}
}
