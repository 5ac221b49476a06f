package middleware

import (
	"net/http"
	"runtime/debug"

	perr "aarcnorm/internal/platform/errors"
	"aarcnorm/internal/platform/logger"
	pnet "aarcnorm/internal/platform/net"
)

// Recover answers a panicking handler with a 500 envelope and logs the stack
// http.ErrAbortHandler is re-raised so the server can drop the connection
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == http.ErrAbortHandler {
				panic(v)
			}
			logger.C(r.Context()).Error().
				Interface("panic", v).
				Bytes("stack", debug.Stack()).
				Msg("handler panicked")

			status, env := pnet.Failure(perr.PanicErrf("internal error"), pnet.RequestID(r.Context()))
			pnet.WriteJSON(w, status, env)
		}()
		next.ServeHTTP(w, r)
	})
}
