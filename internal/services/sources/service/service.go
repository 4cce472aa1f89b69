// Package service caches raw source loads and serves them to the analysis modules
package service

import (
	"context"
	"slices"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"trendlens/internal/core/content"
	"trendlens/internal/core/trend"
	perr "trendlens/internal/platform/errors"
	"trendlens/internal/platform/logger"
	"trendlens/internal/platform/metrics"
	"trendlens/internal/services/sources/domain"
)

const (
	snapshotKey = "snapshot"
	// DefaultTTL keeps a snapshot until reload when no ttl is configured
	DefaultTTL = 15 * time.Minute
)

// Config for the sources service
type Config struct {
	// TTL is how long a snapshot is served, negative never expires
	TTL   time.Duration
	Canon func(string) string
}

// Service implements domain.Port over a Loader with a read-through cache
// concurrent misses share one load
type Service struct {
	loader  domain.Loader
	cache   *cache.Cache
	group   singleflight.Group
	metrics *metrics.Metrics
	canon   func(string) string
	log     logger.Logger
	now     func() time.Time
}

var _ domain.Port = (*Service)(nil)

// New constructs the service, m may be nil
func New(loader domain.Loader, cfg Config, m *metrics.Metrics) *Service {
	ttl := cfg.TTL
	switch {
	case ttl == 0:
		ttl = DefaultTTL
	case ttl < 0:
		ttl = cache.NoExpiration
	}
	canon := cfg.Canon
	if canon == nil {
		canon = func(s string) string { return s }
	}
	cleanup := time.Minute
	if ttl == cache.NoExpiration {
		cleanup = 0
	}
	return &Service{
		loader:  loader,
		cache:   cache.New(ttl, cleanup),
		metrics: m,
		canon:   canon,
		log:     *logger.Named("sources"),
		now:     time.Now,
	}
}

// Snapshot implements domain.Port
func (s *Service) Snapshot(ctx context.Context) (*domain.Snapshot, error) {
	if v, ok := s.cache.Get(snapshotKey); ok {
		s.metrics.CacheLookup("hit")
		return v.(*domain.Snapshot), nil
	}
	s.metrics.CacheLookup("miss")

	// the shared load outlives any one caller so a cancelled request does not fail the others
	ch := s.group.DoChan(snapshotKey, func() (any, error) {
		snap, err := s.load(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		s.cache.SetDefault(snapshotKey, snap)
		return snap, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			s.metrics.CacheLookup("shared")
		}
		return res.Val.(*domain.Snapshot), nil
	}
}

// Status implements domain.Port
func (s *Service) Status(ctx context.Context) ([]domain.Status, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return statusOf(snap), nil
}

// Reload implements domain.Port, dropping the cached snapshot and loading anew
func (s *Service) Reload(ctx context.Context) ([]domain.Status, error) {
	s.cache.Delete(snapshotKey)
	s.group.Forget(snapshotKey)
	s.log.Info().Msg("source cache purged")
	return s.Status(ctx)
}

// Countries implements domain.Port, the sorted canonical names across all sources
func (s *Service) Countries(ctx context.Context) ([]string, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	seen := map[string]struct{}{}
	add := func(raw string) {
		if c := s.canon(raw); c != "" {
			seen[c] = struct{}{}
		}
	}
	for _, r := range snap.Search {
		add(r.Country)
	}
	for _, p := range snap.Brand {
		add(p.Country)
	}
	for _, p := range snap.Consumer {
		add(p.Country)
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	slices.Sort(out)
	return out, nil
}

func (s *Service) load(ctx context.Context) (*domain.Snapshot, error) {
	backend := s.loader.Backend()
	start := s.now()

	search, err := timed(ctx, s, trend.SourceSearch, s.loader.LoadSearch)
	if err != nil {
		return nil, err
	}
	posts := make(map[trend.Source][]content.Post, 2)
	for _, src := range []trend.Source{trend.SourceBrand, trend.SourceConsumer} {
		ps, err := timed(ctx, s, src, func(ctx context.Context) ([]content.Post, error) {
			return s.loader.LoadPosts(ctx, src)
		})
		if err != nil {
			return nil, err
		}
		posts[src] = ps
	}

	snap := domain.NewSnapshot(backend, s.now().UTC(), search, posts[trend.SourceBrand], posts[trend.SourceConsumer])
	s.log.Info().
		Str("backend", backend).
		Int("search", len(snap.Search)).
		Int("brand", len(snap.Brand)).
		Int("consumer", len(snap.Consumer)).
		Dur("elapsed", s.now().Sub(start)).
		Msg("raw sources loaded")
	return snap, nil
}

// timed runs one source load and records it
func timed[T any](ctx context.Context, s *Service, src trend.Source, fn func(context.Context) ([]T, error)) ([]T, error) {
	start := s.now()
	rows, err := fn(ctx)
	s.metrics.ObserveLoad(string(src), s.loader.Backend(), len(rows), s.now().Sub(start), err)
	if err != nil {
		s.log.Error().Err(err).Str("source", string(src)).Msg("raw source load failed")
		return nil, perr.WithOp(err, "sources.load."+string(src))
	}
	return rows, nil
}

func statusOf(snap *domain.Snapshot) []domain.Status {
	out := make([]domain.Status, 0, 3)
	for _, src := range trend.Sources() {
		out = append(out, domain.Status{
			Source:   src,
			Backend:  snap.Backend,
			Rows:     snap.Rows(src),
			LoadedAt: snap.LoadedAt,
		})
	}
	return out
}
