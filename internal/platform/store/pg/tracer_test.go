package pg

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestMulti(t *testing.T) {
	t.Parallel()
	if Multi() != nil || Multi(nil, nil) != nil {
		t.Fatal("Multi of nothing must be nil")
	}
	var calls []string
	a := TracerFunc(func(context.Context, QueryEvent) { calls = append(calls, "a") })
	b := TracerFunc(func(context.Context, QueryEvent) { calls = append(calls, "b") })

	Multi(a, nil, b).OnQuery(context.Background(), QueryEvent{})
	if strings.Join(calls, "") != "ab" {
		t.Fatalf("calls %v", calls)
	}
}

func TestTracer_LogsCompactSQL(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	tr := Tracer(zerolog.New(&buf).Level(zerolog.ErrorLevel))

	tr.OnQuery(context.Background(), QueryEvent{
		SQL:     "select theme,\n\t value\n  from search_interest",
		Args:    []any{"UAE"},
		Elapsed: 1500 * time.Microsecond,
		Rows:    12,
	})
	tr.OnQuery(context.Background(), QueryEvent{SQL: "select 1", Err: errors.New("boom")})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines %q", buf.String())
	}
	if !strings.Contains(lines[0], `"sql":"select theme, value from search_interest"`) ||
		!strings.Contains(lines[0], `"level":"info"`) ||
		!strings.Contains(lines[0], `"rows":12`) {
		t.Fatalf("first line %s", lines[0])
	}
	if !strings.Contains(lines[1], `"level":"warn"`) {
		t.Fatalf("second line %s", lines[1])
	}
}
