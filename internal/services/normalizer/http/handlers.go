// Package http provides http transport for normalization runs
package http

import (
	stdhttp "net/http"

	"aarcnorm/internal/modkit/httpkit"
	perr "aarcnorm/internal/platform/errors"
	"aarcnorm/internal/services/normalizer/domain"
)

// Register mounts the run endpoints; unless allowPaths is set callers get the configured paths
// hist may be nil when no ledger is wired
func Register(r httpkit.Router, s domain.RunnerPort, hist domain.History, allowPaths bool) {
	h := &handlers{svc: s, hist: hist, allowPaths: allowPaths}

	// synchronous run, one at a time; the report comes back in the body
	httpkit.PostJSON[domain.Job](r.With(httpkit.RunStack()...), "/", h.run)
	httpkit.GetQuery[domain.HistoryQuery](r, "/", h.history)
}

type handlers struct {
	svc        domain.RunnerPort
	hist       domain.History
	allowPaths bool
}

// @Summary Run a normalization and return its report
// @Tags Runs
// @Accept json
// @Produce json
// @Param payload body domain.Job false "empty fields use the server defaults"
// @Success 201 {object} domain.Report "created"
// @Failure 415 {object} net.Envelope "body is not json"
// @Failure 422 {object} net.Envelope "raw file is missing columns or a sink is not configured"
// @Failure 429 {string} string "another run is in flight"
// @Router /runs [post]
func (h *handlers) run(r *stdhttp.Request, in domain.Job) (any, error) {
	if !h.allowPaths {
		if in.RawPath != "" {
			return nil, perr.WithField(perr.InvalidArgf("raw_path is fixed by the server"), "raw_path")
		}
		if in.OutDir != "" {
			return nil, perr.WithField(perr.InvalidArgf("out_dir is fixed by the server"), "out_dir")
		}
	}
	rep, err := h.svc.Run(r.Context(), in)
	if err != nil {
		return nil, err
	}
	return httpkit.Created(rep), nil
}

// @Summary Recorded runs, newest first
// @Tags Runs
// @Produce json
// @Param limit query int false "runs to list" minimum(0) maximum(200)
// @Success 200 {object} net.Envelope "ok"
// @Failure 503 {object} net.Envelope "no postgres ledger configured"
// @Router /runs [get]
func (h *handlers) history(r *stdhttp.Request, in domain.HistoryQuery) (any, error) {
	if h.hist == nil {
		return nil, perr.Unavailablef("run history needs the postgres ledger")
	}
	limit := in.Limit
	if limit == 0 {
		limit = domain.DefaultHistory
	}
	total, runs, err := h.hist.Recent(r.Context(), limit)
	if err != nil {
		return nil, err
	}
	return httpkit.List(runs, int(total), 1, limit, ""), nil
}
