// Package service runs trend analyses over the cached source snapshot
package service

import (
	"context"
	"time"

	"trendlens/internal/core/trend"
	perr "trendlens/internal/platform/errors"
	"trendlens/internal/platform/logger"
	"trendlens/internal/platform/metrics"
	ptime "trendlens/internal/platform/time"
	"trendlens/internal/services/api/trends/domain"
	sources "trendlens/internal/services/sources/domain"
)

// Config holds the defaults a request may override
type Config struct {
	Floor      time.Time
	TopN       int
	TopVolumeN int
	Canon      func(string) string
}

// Service implements domain.Port
type Service struct {
	sources sources.Port
	engine  *trend.Engine
	cfg     Config
	metrics *metrics.Metrics
	log     logger.Logger
	now     func() time.Time
}

var _ domain.Port = (*Service)(nil)

// New builds the service, m may be nil
func New(src sources.Port, cfg Config, m *metrics.Metrics) *Service {
	if cfg.Floor.IsZero() {
		cfg.Floor = trend.DefaultFloor
	}
	return &Service{
		sources: src,
		engine:  trend.NewEngine(cfg.Canon),
		cfg:     cfg,
		metrics: m,
		log:     *logger.Named("trends"),
		now:     time.Now,
	}
}

// Trajectory implements domain.Port
func (s *Service) Trajectory(ctx context.Context, in domain.TrajectoryInput) (domain.Trajectory, error) {
	q, err := s.query(in.Scope, in.TopN, in.TopVolumeN)
	if err != nil {
		return domain.Trajectory{}, err
	}
	a, snap, err := s.analyze(ctx, "trajectory", q)
	if err != nil {
		return domain.Trajectory{}, err
	}
	return domain.Trajectory{Analysis: a, LoadedAt: snap.LoadedAt.UTC().Format(time.RFC3339)}, nil
}

// Series implements domain.Port
func (s *Service) Series(ctx context.Context, in domain.SeriesInput) (domain.Series, error) {
	q, err := s.query(in.Scope, in.TopN, in.TopN)
	if err != nil {
		return domain.Series{}, err
	}
	a, _, err := s.analyze(ctx, "series", q)
	if err != nil {
		return domain.Series{}, err
	}

	keys := in.Entities
	switch {
	case len(keys) > 0:
	case in.Category != "":
		var c trend.Category
		if err := c.UnmarshalText([]byte(in.Category)); err != nil {
			return domain.Series{}, perr.WithField(err, "category")
		}
		for _, top := range a.Top {
			if top.Category == c {
				keys = trend.Keys(top.Stats)
			}
		}
	default:
		keys = trend.Keys(a.TopVolume)
	}

	out := domain.Series{Freq: a.Freq, Entities: keys, Points: []trend.MergedPoint{}}
	if len(keys) > 0 {
		out.Points = trend.SeriesOf(a.Display, keys...)
	}
	out.Empty = len(out.Points) == 0
	return out, nil
}

// Countries implements domain.Port
func (s *Service) Countries(ctx context.Context) (domain.Countries, error) {
	cs, err := s.sources.Countries(ctx)
	if err != nil {
		return domain.Countries{}, err
	}
	return domain.Countries{Countries: cs}, nil
}

func (s *Service) query(sc domain.Scope, topN, topVolumeN int) (trend.Query, error) {
	q := trend.Query{
		Granularity: trend.Granularity(sc.Granularity),
		Country:     sc.Country,
		Floor:       s.cfg.Floor,
		Freq:        trend.Freq(sc.Freq),
		TopN:        firstPositive(topN, s.cfg.TopN),
		TopVolumeN:  firstPositive(topVolumeN, s.cfg.TopVolumeN),
	}
	since, err := ptime.ParseDay(sc.Since)
	if err != nil {
		return q, perr.WithField(err, "since")
	}
	// since narrows the window, it never reaches before the floor
	if since.After(q.Floor) {
		q.Floor = since
	}
	for _, raw := range sc.Sources {
		src, err := trend.ParseSource(raw)
		if err != nil {
			return q, perr.WithField(err, "sources")
		}
		q.Sources = append(q.Sources, src)
	}
	return q, nil
}

func (s *Service) analyze(ctx context.Context, kind string, q trend.Query) (trend.Analysis, *sources.Snapshot, error) {
	snap, err := s.sources.Snapshot(ctx)
	if err != nil {
		return trend.Analysis{}, nil, err
	}
	start := s.now()
	a, err := s.engine.Analyze(ctx, snap.Dataset(), q)
	if err != nil {
		return trend.Analysis{}, nil, perr.WithOp(err, "trends."+kind)
	}
	elapsed := s.now().Sub(start)
	s.metrics.ObserveAnalysis(kind, len(a.Stats), elapsed)
	s.log.Debug().
		Str("granularity", string(a.Granularity)).
		Str("country", a.Country).
		Int("entities", entities(a.Merged)).
		Int("stats", len(a.Stats)).
		Bool("empty", a.Empty).
		Dur("elapsed", elapsed).
		Msg(kind + " analysis")
	return a, snap, nil
}

func firstPositive(vs ...int) int {
	for _, v := range vs {
		if v > 0 {
			return v
		}
	}
	return 0
}

func entities(series []trend.MergedPoint) int {
	seen := make(map[trend.EntityKey]struct{})
	for _, p := range series {
		seen[p.Entity] = struct{}{}
	}
	return len(seen)
}
