// Package middleware is the request pipeline of the api: chi middlewares behind plain
// func(http.Handler) http.Handler values plus the access log and panic recovery
package middleware

import (
	"net/http"
	"time"

	pnet "aarcnorm/internal/platform/net"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Middleware is one stage of the pipeline
type Middleware = func(http.Handler) http.Handler

func RequestID() Middleware    { return chimw.RequestID }
func RealIP() Middleware       { return chimw.RealIP }
func NoCache() Middleware      { return chimw.NoCache }
func StripSlashes() Middleware { return chimw.StripSlashes }

// Timeout cancels the request context after d
func Timeout(d time.Duration) Middleware { return chimw.Timeout(d) }

// Throttle caps in flight requests; requests over the cap get 429 right away
func Throttle(limit int) Middleware { return chimw.Throttle(limit) }

// Heartbeat answers GET path with 200 before any routing
func Heartbeat(path string) Middleware { return chimw.Heartbeat(path) }

// AllowContentType rejects bodies of any other type with 415
func AllowContentType(types ...string) Middleware { return chimw.AllowContentType(types...) }

// Compress encodes responses at level for clients that accept it
func Compress(level int) Middleware { return chimw.NewCompressor(level).Handler }

// LogContext puts the chi request id on the logger context and echoes it back
// it needs RequestID ahead of it
func LogContext() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if id := chimw.GetReqID(r.Context()); id != "" {
				w.Header().Set(chimw.RequestIDHeader, id)
				r = r.WithContext(pnet.WithRequest(r.Context(), id))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CORSOptions picks what browsers may send; blank lists fall back to the api defaults
type CORSOptions struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

func CORS(o CORSOptions) Middleware {
	return cors.Handler(cors.Options{
		AllowedOrigins:   o.AllowedOrigins,
		AllowedMethods:   orDefault(o.AllowedMethods, http.MethodGet, http.MethodPost, http.MethodOptions),
		AllowedHeaders:   orDefault(o.AllowedHeaders, "Accept", "Content-Type", chimw.RequestIDHeader),
		ExposedHeaders:   orDefault(o.ExposedHeaders, chimw.RequestIDHeader),
		AllowCredentials: o.AllowCredentials,
		MaxAge:           o.MaxAge,
	})
}

func orDefault(v []string, def ...string) []string {
	if len(v) == 0 {
		return def
	}
	return v
}
