package pg

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"trendlens/internal/platform/logger"
)

// QueryEvent describes one finished statement
type QueryEvent struct {
	SQL     string
	Args    []any
	Elapsed time.Duration
	Rows    int64
	Err     error
	Slow    bool
}

// QueryTracer receives query events
type QueryTracer interface {
	OnQuery(ctx context.Context, ev QueryEvent)
}

// TracerFunc adapts a function to QueryTracer
type TracerFunc func(ctx context.Context, ev QueryEvent)

// OnQuery calls f
func (f TracerFunc) OnQuery(ctx context.Context, ev QueryEvent) { f(ctx, ev) }

// Multi fans an event out to every non nil tracer, nil when there are none
func Multi(ts ...QueryTracer) QueryTracer {
	var live []QueryTracer
	for _, t := range ts {
		if t != nil {
			live = append(live, t)
		}
	}
	switch len(live) {
	case 0:
		return nil
	case 1:
		return live[0]
	}
	return TracerFunc(func(ctx context.Context, ev QueryEvent) {
		for _, t := range live {
			t.OnQuery(ctx, ev)
		}
	})
}

// Tracer logs every statement, independent of the root level
// Slow or failed statements go out at warn
func Tracer(root logger.Logger) QueryTracer {
	ll := root.Level(zerolog.DebugLevel).With().Str("component", "pg").Logger()
	return TracerFunc(func(_ context.Context, ev QueryEvent) {
		evt := ll.Info()
		if ev.Slow || ev.Err != nil {
			evt = ll.Warn()
		}
		evt.Float64("elapsed_ms", float64(ev.Elapsed.Microseconds())/1000).
			Bool("slow", ev.Slow).
			Int64("rows", ev.Rows).
			Str("sql", compact(ev.SQL)).
			Int("args", len(ev.Args)).
			Err(ev.Err).
			Msg("pg query")
	})
}

// compact folds runs of whitespace so multi line SQL logs on one line
func compact(s string) string { return strings.Join(strings.Fields(s), " ") }
