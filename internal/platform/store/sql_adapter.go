package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"trendlens/internal/platform/store/pg"
)

// pgAdapter wraps pg.PG as a RowQuerier and reports each query to the tracer
type pgAdapter struct {
	p *pg.PG
}

func newPGAdapter(p *pg.PG) *pgAdapter { return &pgAdapter{p: p} }

func (a *pgAdapter) Ping(ctx context.Context) error {
	if a == nil || a.p == nil {
		return errors.New("pg: nil adapter")
	}
	return a.p.Pool.Ping(ctx)
}

func (a *pgAdapter) Close() error { a.p.Close(); return nil }

func (a *pgAdapter) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	start := time.Now()
	ct, err := a.p.Pool.Exec(ctx, sql, args...)
	a.emit(ctx, sql, args, start, err, ct.RowsAffected())
	return tag{ct}, err
}

func (a *pgAdapter) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	start := time.Now()
	rs, err := a.p.Pool.Query(ctx, sql, args...)
	if err != nil {
		a.emit(ctx, sql, args, start, err, 0)
		return nil, err
	}
	// timed until Close so a loader's full scan is measured
	return &rows{r: rs, done: func(n int64, err error) { a.emit(ctx, sql, args, start, err, n) }}, nil
}

func (a *pgAdapter) QueryRow(ctx context.Context, sql string, args ...any) Row {
	start := time.Now()
	r := a.p.Pool.QueryRow(ctx, sql, args...)
	return row{r: r, after: func(err error) { a.emit(ctx, sql, args, start, err, 1) }}
}

func (a *pgAdapter) emit(ctx context.Context, sql string, args []any, start time.Time, err error, n int64) {
	if a.p.Tracer == nil {
		return
	}
	elapsed := time.Since(start)
	a.p.Tracer.OnQuery(ctx, pg.QueryEvent{
		SQL:     sql,
		Args:    args,
		Elapsed: elapsed,
		Rows:    n,
		Err:     err,
		Slow:    a.p.SlowMs > 0 && elapsed >= time.Duration(a.p.SlowMs)*time.Millisecond,
	})
}

type row struct {
	r     pgx.Row
	after func(error)
}

func (x row) Scan(dst ...any) error {
	err := x.r.Scan(dst...)
	if x.after != nil {
		x.after(err)
	}
	return err
}

type rows struct {
	r    pgx.Rows
	n    int64
	done func(int64, error)
}

func (x *rows) Next() bool {
	ok := x.r.Next()
	if ok {
		x.n++
	}
	return ok
}

func (x *rows) Scan(dst ...any) error { return x.r.Scan(dst...) }
func (x *rows) Err() error            { return x.r.Err() }

func (x *rows) Close() {
	x.r.Close()
	if x.done != nil {
		x.done(x.n, x.r.Err())
		x.done = nil
	}
}

func (x *rows) Columns() []string {
	f := x.r.FieldDescriptions()
	out := make([]string, len(f))
	for i := range f {
		out[i] = f[i].Name
	}
	return out
}

type tag struct{ t pgconn.CommandTag }

func (t tag) String() string      { return t.t.String() }
func (t tag) RowsAffected() int64 { return t.t.RowsAffected() }
