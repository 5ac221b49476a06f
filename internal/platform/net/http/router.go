// Package http is the server side of the api: a chi backed router seam and envelope responses
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handler is what routes are registered with
type Handler = http.HandlerFunc

// Router is the routing surface modules mount against
type Router interface {
	Get(path string, h Handler)
	Post(path string, h Handler)
	Handle(path string, h http.Handler)
	Use(mw ...func(http.Handler) http.Handler)
	Route(prefix string, fn func(Router))
	// With returns a router whose routes also run mw; r itself is unchanged
	With(mw ...func(http.Handler) http.Handler) Router
	// Mux serves everything registered so far, including subroutes
	Mux() http.Handler
}

// AdaptChi wraps a chi router, root or sub
func AdaptChi(r chi.Router) Router { return chiRouter{r} }

type chiRouter struct{ r chi.Router }

func (c chiRouter) Get(path string, h Handler)        { c.r.Method(http.MethodGet, path, h) }
func (c chiRouter) Post(path string, h Handler)       { c.r.Method(http.MethodPost, path, h) }
func (c chiRouter) Handle(path string, h http.Handler) { c.r.Handle(path, h) }

func (c chiRouter) Use(mw ...func(http.Handler) http.Handler) { c.r.Use(mw...) }

func (c chiRouter) With(mw ...func(http.Handler) http.Handler) Router {
	return chiRouter{c.r.With(mw...)}
}

func (c chiRouter) Route(prefix string, fn func(Router)) {
	c.r.Route(prefix, func(sub chi.Router) { fn(chiRouter{sub}) })
}

func (c chiRouter) Mux() http.Handler { return c.r }

// Param returns a path parameter of the matched route, empty when absent
func Param(r *http.Request, name string) string { return chi.URLParam(r, name) }
