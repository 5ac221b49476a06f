package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	"aarcnorm/internal/platform/net/middleware"
)

var (
	// SlowRequest is when the access log switches to warn
	SlowRequest = 2 * time.Second
	// RequestTimeout bounds every api request
	RequestTimeout = time.Minute
)

// CommonStack is the pipeline in front of every api route
func CommonStack() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		middleware.RequestID(),
		middleware.LogContext(),
		middleware.RealIP(),
		middleware.Recover,
		middleware.AccessLog(SlowRequest),
		middleware.NoCache(),
		middleware.CORS(middleware.CORSOptions{AllowedOrigins: []string{"*"}}),
		middleware.Compress(flate.BestSpeed),
		middleware.Heartbeat("/health"),
		middleware.StripSlashes(),
		middleware.Timeout(RequestTimeout),
	}
}

// RunStack guards the endpoints that start a run: json only, one at a time
func RunStack() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		middleware.AllowContentType("application/json"),
		middleware.Throttle(1),
	}
}
