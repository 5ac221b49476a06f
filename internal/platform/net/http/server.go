package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"aarcnorm/internal/platform/config"
	"aarcnorm/internal/platform/logger"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// ShutdownGrace bounds the drain after Run's ctx ends
var ShutdownGrace = 10 * time.Second

// Server serves one chi mux on API_PORT of its config view
type Server struct {
	mux *chi.Mux
	srv *http.Server
}

// NewServer listens on API_PORT, default :4000
func NewServer(cfg config.Conf) *Server {
	mux := chi.NewRouter()
	return &Server{
		mux: mux,
		srv: &http.Server{
			Addr:              cfg.MayString("API_PORT", ":4000"),
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Router is the root of the mux
func (s *Server) Router() Router { return AdaptChi(s.mux) }

// Addr is the configured listen address
func (s *Server) Addr() string { return s.srv.Addr }

// Run listens on Addr until ctx ends, then drains for at most ShutdownGrace
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	log := logger.Named("http")
	log.Info().Str("addr", ln.Addr().String()).Msg("http listening")

	errc := make(chan error, 1)
	go func() { errc <- s.srv.Serve(ln) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	sctx, cancel := context.WithTimeout(context.Background(), ShutdownGrace)
	defer cancel()
	if err := s.srv.Shutdown(sctx); err != nil {
		log.Warn().Err(err).Msg("http shutdown")
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// MountProfiler serves pprof under prefix when enabled
func MountProfiler(r Router, prefix string, enabled bool) {
	if !enabled {
		return
	}
	h := http.StripPrefix(prefix, middleware.Profiler())
	r.Handle(prefix, h)
	r.Handle(prefix+"/*", h)
}
