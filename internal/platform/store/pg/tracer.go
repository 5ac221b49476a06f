package pg

import (
	"context"
	"strings"

	"aarcnorm/internal/platform/logger"

	"github.com/rs/zerolog"
)

// maxLoggedArgs bounds the bind arguments written per statement; chunked inserts carry thousands
const maxLoggedArgs = 16

// QueryEvent describes one finished statement
type QueryEvent struct {
	SQL       string
	Args      []any
	ElapsedUS int64
	Err       error
	Slow      bool
}

// QueryTracer receives every finished statement
type QueryTracer interface {
	OnQuery(ctx context.Context, ev QueryEvent)
}

// Tracer logs statements at info and slow ones at warn
// tracing is opt in, so the root level does not filter it
func Tracer(root logger.Logger) QueryTracer {
	return logTracer{log: root.Level(zerolog.DebugLevel).With().Str("component", "pg").Logger()}
}

type logTracer struct{ log logger.Logger }

func (t logTracer) OnQuery(ctx context.Context, ev QueryEvent) {
	evt := t.log.Info()
	if ev.Slow {
		evt = t.log.Warn()
	}
	if id := logger.RunID(ctx); id != "" {
		evt = evt.Str("run_id", id)
	}
	if len(ev.Args) > maxLoggedArgs {
		evt = evt.Int("arg_count", len(ev.Args))
	} else {
		evt = evt.Interface("args", ev.Args)
	}
	evt.Float64("elapsed_ms", float64(ev.ElapsedUS)/1000).
		Bool("slow", ev.Slow).
		Str("sql", strings.Join(strings.Fields(ev.SQL), " ")).
		Err(ev.Err).
		Msg("pg statement")
}
