package middleware

import (
	"net/http"
	"time"

	"aarcnorm/internal/platform/logger"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// AccessLog writes one line per request on the request logger
// requests taking slow or longer log at warn; slow 0 never does
func AccessLog(slow time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			took := time.Since(start)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			log := logger.C(r.Context())
			ev := log.Info()
			if slow > 0 && took >= slow {
				ev = log.Warn()
			}
			ev.Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", status).
				Int("bytes", ww.BytesWritten()).
				Dur("elapsed", took).
				Msg("request")
		})
	}
}
