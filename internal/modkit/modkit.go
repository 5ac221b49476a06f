// Package modkit wires api modules: shared deps in, routes and ports out
package modkit

import (
	"net/http"
	"strings"

	"aarcnorm/internal/modkit/httpkit"
	"aarcnorm/internal/modkit/repokit"
	"aarcnorm/internal/platform/config"
	"aarcnorm/internal/platform/logger"
)

// Deps are handed to every module constructor; PG and CH are nil when the backend is off
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	PG  repokit.TxRunner
	CH  repokit.Clickhouse
}

// Option overrides how a module is built
type Option func(*Base)

// WithName renames the module in logs and the port registry
func WithName(name string) Option { return func(b *Base) { b.name = name } }

// WithPrefix moves the module routes under prefix
func WithPrefix(prefix string) Option { return func(b *Base) { b.prefix = prefix } }

// WithMiddlewares appends per module middleware, outermost first
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(b *Base) { b.mw = append(b.mw, mw...) }
}

// WithPorts hands the module ports owned by another module
func WithPorts[T any](p T) Option { return func(b *Base) { b.injected = p } }

// WithSubrouter swaps the router the module registers on, after middleware
func WithSubrouter(fn func(httpkit.Router) httpkit.Router) Option {
	return func(b *Base) { b.subrouter = fn }
}

// WithRegister adds routes next to the module's own
func WithRegister(fn func(httpkit.Router)) Option { return func(b *Base) { b.extra = fn } }

// Base carries what every module shares; modules embed it
type Base struct {
	name      string
	prefix    string
	mw        []func(http.Handler) http.Handler
	injected  any
	subrouter func(httpkit.Router) httpkit.Router
	extra     func(httpkit.Router)
}

// Build applies opts over the module defaults
func Build(name, prefix string, opts ...Option) Base {
	b := Base{name: name, prefix: prefix}
	for _, o := range opts {
		o(&b)
	}
	b.mw = append([]func(http.Handler) http.Handler(nil), b.mw...)
	return b
}

// Name panics when the module was built without one
func (b Base) Name() string {
	if strings.TrimSpace(b.name) == "" {
		panic("modkit: module name is required")
	}
	return b.name
}

// Prefix normalizes to one leading slash and no trailing slash; the root is refused
func (b Base) Prefix() string {
	p := "/" + strings.Trim(strings.TrimSpace(b.prefix), "/")
	if p == "/" {
		panic("modkit: module " + b.name + " needs a route prefix")
	}
	return p
}

// Middlewares returns a copy of the per module middleware
func (b Base) Middlewares() []func(http.Handler) http.Handler {
	return append([]func(http.Handler) http.Handler(nil), b.mw...)
}

// Injected returns the ports passed with WithPorts, nil when none
func (b Base) Injected() any { return b.injected }

// Mount registers own, then any WithRegister routes, under the module prefix
func (b Base) Mount(r httpkit.Router, own func(httpkit.Router)) {
	httpkit.MountUnder(r, b.Prefix(), b.mw, func(sub httpkit.Router) {
		if b.subrouter != nil {
			sub = b.subrouter(sub)
		}
		own(sub)
		if b.extra != nil {
			b.extra(sub)
		}
	})
}
