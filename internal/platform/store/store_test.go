package store

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"trendlens/internal/platform/config"
	"trendlens/internal/platform/store/ch"
)

type fakeRows struct {
	cols    []string
	data    [][]any
	i       int
	closed  bool
	err     error
	closeTo error
}

func (f *fakeRows) Next() bool {
	if f.i >= len(f.data) {
		return false
	}
	f.i++
	return true
}

func (f *fakeRows) Scan(dest ...any) error {
	row := f.data[f.i-1]
	for i := range dest {
		reflect.ValueOf(dest[i]).Elem().Set(reflect.ValueOf(row[i]))
	}
	return nil
}

func (f *fakeRows) Err() error        { return f.err }
func (f *fakeRows) Columns() []string { return f.cols }
func (f *fakeRows) Close()            { f.closed = true }

type fakeCH struct {
	rows    *fakeRows
	pingErr error
	closed  bool
}

func (f *fakeCH) Query(context.Context, string, ...any) (ch.Rows, error) {
	return chDriverRows{f.rows}, nil
}
func (f *fakeCH) Ping(context.Context) error { return f.pingErr }
func (f *fakeCH) Close() error               { f.closed = true; return nil }

// chDriverRows mimics the driver's error returning Close
type chDriverRows struct{ *fakeRows }

func (r chDriverRows) Close() error { r.fakeRows.Close(); return r.closeTo }

type fakePG struct {
	RowQuerier
	pingErr error
	closed  bool
}

func (f *fakePG) Ping(context.Context) error { return f.pingErr }
func (f *fakePG) Close() error               { f.closed = true; return nil }

func TestGuardAndClose(t *testing.T) {
	t.Parallel()
	pg := &fakePG{pingErr: errors.New("refused")}
	chc := &fakeCH{pingErr: errors.New("timeout")}
	s := &Store{PG: pg, CH: newCHAdapter(chc)}

	if got := s.Enabled(); !reflect.DeepEqual(got, []string{"pg", "ch"}) {
		t.Fatalf("Enabled = %v", got)
	}
	err := s.Guard(context.Background())
	if err == nil || !errors.Is(err, pg.pingErr) || !errors.Is(err, chc.pingErr) {
		t.Fatalf("Guard = %v", err)
	}
	if err := s.Close(context.Background()); err != nil {
		t.Fatalf("Close = %v", err)
	}
	if !pg.closed || !chc.closed {
		t.Fatal("backends not closed")
	}
}

func TestZeroStore(t *testing.T) {
	t.Parallel()
	var s Store
	if err := s.Guard(context.Background()); err != nil {
		t.Fatalf("zero Guard = %v", err)
	}
	if len(s.Enabled()) != 0 {
		t.Fatal("zero store has backends")
	}
	var nilStore *Store
	if nilStore.Guard(context.Background()) == nil {
		t.Fatal("nil store must fail Guard")
	}
	if err := nilStore.Close(context.Background()); err != nil {
		t.Fatalf("nil Close = %v", err)
	}
}

func TestConfigFrom(t *testing.T) {
	t.Parallel()
	c := config.FromMap(map[string]string{
		"T_CORE_PG_URL":          "postgres://u:p@db:5432/trends",
		"T_CORE_PG_MAX_CONNS":    "8",
		"T_CORE_PG_PING_TIMEOUT": "1s",
	}).Prefix("T_")

	got := ConfigFrom(c, "trendlens", "api")
	if !got.PG.Enabled || got.PG.MaxConns != 8 || got.PG.PingTimeout != time.Second {
		t.Fatalf("pg = %+v", got.PG)
	}
	if got.PG.ConnectRetries != 6 || got.PG.SlowQueryMs != 500 {
		t.Fatalf("pg defaults = %+v", got.PG)
	}
	if got.CH.Enabled || got.CH.Role != "api" || got.AppName != "trendlens" {
		t.Fatalf("ch = %+v", got.CH)
	}
}

func TestCHAdapter_RowsSurfaceCloseError(t *testing.T) {
	t.Parallel()
	fr := &fakeRows{cols: []string{"theme", "value"}, data: [][]any{{"Price", 1.5}}, closeTo: errors.New("stream reset")}
	a := newCHAdapter(&fakeCH{rows: fr})

	rows, err := a.Query(context.Background(), "SELECT theme, value FROM search_interest")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	for rows.Next() {
	}
	rows.Close()
	if !fr.closed {
		t.Fatal("driver rows not closed")
	}
	if rows.Err() == nil {
		t.Fatal("close error swallowed")
	}
}

type rowsQuerier struct{ rows *fakeRows }

func (q rowsQuerier) Query(context.Context, string, ...any) (Rows, error) { return q.rows, nil }

func TestMany(t *testing.T) {
	t.Parallel()
	fr := &fakeRows{cols: []string{"theme", "value"}, data: [][]any{{"Price", 1.5}, {"Location", 2.0}}}
	type kv struct {
		k string
		v float64
	}
	got, err := Many(context.Background(), rowsQuerier{fr}, func(r Row) (kv, error) {
		var out kv
		return out, r.Scan(&out.k, &out.v)
	}, "SELECT 1")
	if err != nil {
		t.Fatalf("Many: %v", err)
	}
	if !reflect.DeepEqual(got, []kv{{"Price", 1.5}, {"Location", 2.0}}) {
		t.Fatalf("got %v", got)
	}
	if !fr.closed {
		t.Fatal("rows not closed")
	}
}

func TestMany_CancelledContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fr := &fakeRows{data: [][]any{{"x"}}}
	_, err := Many(ctx, rowsQuerier{fr}, func(r Row) (string, error) {
		var s string
		return s, r.Scan(&s)
	}, "SELECT 1")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
}

func TestMissingColumns(t *testing.T) {
	t.Parallel()
	fr := &fakeRows{cols: []string{"date", "country", "theme"}}
	got := MissingColumns(fr, "date", "theme", "keyword", "value")
	if !reflect.DeepEqual(got, []string{"keyword", "value"}) {
		t.Fatalf("got %v", got)
	}
}
