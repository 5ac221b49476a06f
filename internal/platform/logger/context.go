package logger

import "context"

type ctxKey int

const (
	requestKey ctxKey = iota
	runKey
)

// WithRequest tags ctx with an http request id; empty ids are ignored
func WithRequest(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestKey, id)
}

// RequestID returns the id set by WithRequest
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestKey).(string)
	return id
}

// WithRun tags ctx with a normalization run id; empty ids are ignored
func WithRun(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runKey, id)
}

// RunID returns the id set by WithRun
func RunID(ctx context.Context) string {
	id, _ := ctx.Value(runKey).(string)
	return id
}

// C returns the root logger carrying the request and run ids of ctx
func C(ctx context.Context) *Logger {
	lc := Get().With()
	if id := RequestID(ctx); id != "" {
		lc = lc.Str("request_id", id)
	}
	if id := RunID(ctx); id != "" {
		lc = lc.Str("run_id", id)
	}
	l := lc.Logger()
	return &l
}
