package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trendlens/internal/core/content"
	"trendlens/internal/core/country"
	"trendlens/internal/core/trend"
	perr "trendlens/internal/platform/errors"
)

type fakeLoader struct {
	calls   atomic.Int32
	gate    chan struct{}
	failOn  trend.Source
	search  []trend.Record
	brand   []content.Post
	consume []content.Post
}

func (f *fakeLoader) Backend() string { return "fake" }

func (f *fakeLoader) LoadSearch(ctx context.Context) ([]trend.Record, error) {
	f.calls.Add(1)
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.failOn == trend.SourceSearch {
		return nil, perr.Schemaf("search source is missing required column %q", "value")
	}
	return f.search, nil
}

func (f *fakeLoader) LoadPosts(_ context.Context, src trend.Source) ([]content.Post, error) {
	if f.failOn == src {
		return nil, perr.Unavailablef("%s backend down", src)
	}
	if src == trend.SourceBrand {
		return f.brand, nil
	}
	return f.consume, nil
}

func sample() *fakeLoader {
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return &fakeLoader{
		search: []trend.Record{
			{Source: trend.SourceSearch, Theme: "Luxury", SubTheme: "Villas", Country: "uae", At: at, Value: 10},
			{Source: trend.SourceSearch, Theme: "Luxury", SubTheme: "Villas", Country: " ", At: at, Value: 5},
		},
		brand:   []content.Post{{Username: "a", Theme: "Rental", Country: "KSA", At: at}},
		consume: []content.Post{{Username: "b", Theme: "Rental", Country: "United Arab Emirates", At: at}, {Country: "egy", At: at}},
	}
}

func TestSnapshot_CachesUntilReload(t *testing.T) {
	t.Parallel()
	l := sample()
	s := New(l, Config{}, nil)
	ctx := context.Background()

	first, err := s.Snapshot(ctx)
	require.NoError(t, err)
	second, err := s.Snapshot(ctx)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, int32(1), l.calls.Load())

	status, err := s.Reload(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), l.calls.Load())
	require.Len(t, status, 3)
	assert.Equal(t, trend.SourceSearch, status[0].Source)
	assert.Equal(t, 2, status[0].Rows)
	assert.Equal(t, "fake", status[1].Backend)
	assert.Equal(t, 2, status[2].Rows)

	third, err := s.Snapshot(ctx)
	require.NoError(t, err)
	assert.NotSame(t, first, third)
	assert.Equal(t, 1.0, third.Dataset().Brand[0].Value)
}

func TestSnapshot_ConcurrentMissesShareOneLoad(t *testing.T) {
	t.Parallel()
	l := sample()
	l.gate = make(chan struct{})
	s := New(l, Config{TTL: -1}, nil)

	var wg sync.WaitGroup
	snaps := make([]any, 8)
	errs := make([]error, 8)
	for i := range snaps {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			snaps[i], errs[i] = s.Snapshot(context.Background())
		}(i)
	}
	require.Eventually(t, func() bool { return l.calls.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(l.gate)
	wg.Wait()

	assert.Equal(t, int32(1), l.calls.Load())
	for i := range snaps {
		require.NoError(t, errs[i])
		assert.Same(t, snaps[0], snaps[i])
	}
}

func TestSnapshot_CallerCancelDoesNotAbortLoad(t *testing.T) {
	t.Parallel()
	l := sample()
	l.gate = make(chan struct{})
	s := New(l, Config{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := s.Snapshot(ctx)
		done <- err
	}()
	require.Eventually(t, func() bool { return l.calls.Load() == 1 }, time.Second, time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	close(l.gate)
	require.Eventually(t, func() bool {
		_, ok := s.cache.Get(snapshotKey)
		return ok
	}, time.Second, time.Millisecond)
	_, err := s.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), l.calls.Load())
}

func TestSnapshot_LoadErrorsAreNotCached(t *testing.T) {
	t.Parallel()
	l := sample()
	l.failOn = trend.SourceConsumer
	s := New(l, Config{}, nil)

	_, err := s.Snapshot(context.Background())
	require.Error(t, err)
	assert.Equal(t, perr.ErrorCodeUnavailable, perr.CodeOf(err))
	e, ok := perr.As(err)
	require.True(t, ok)
	assert.Equal(t, "sources.load.consumer", e.Op())

	l.failOn = ""
	_, err = s.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), l.calls.Load())
}

func TestCountries(t *testing.T) {
	t.Parallel()
	s := New(sample(), Config{Canon: country.Normalize}, nil)
	got, err := s.Countries(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Egypt", "Saudi Arabia", "United Arab Emirates"}, got)

	_, err = New(&fakeLoader{failOn: trend.SourceSearch}, Config{}, nil).Countries(context.Background())
	assert.Equal(t, perr.ErrorCodeSchema, perr.CodeOf(err))
}
