// Package service computes the content overviews from the cached snapshot
package service

import (
	"context"
	"strings"
	"time"

	"trendlens/internal/core/content"
	"trendlens/internal/core/trend"
	perr "trendlens/internal/platform/errors"
	"trendlens/internal/platform/logger"
	"trendlens/internal/platform/metrics"
	ptime "trendlens/internal/platform/time"
	"trendlens/internal/services/api/content/domain"
	sources "trendlens/internal/services/sources/domain"
)

// Config for the content service
type Config struct {
	// Floor starts the daily series, zero means trend.DefaultFloor
	Floor time.Time
	Canon func(string) string
}

// Service implements domain.Port
type Service struct {
	sources sources.Port
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
	if cfg.Canon == nil {
		cfg.Canon = strings.TrimSpace
	}
	return &Service{sources: src, cfg: cfg, metrics: m, log: *logger.Named("content"), now: time.Now}
}

// Overview implements domain.Port
func (s *Service) Overview(ctx context.Context, src trend.Source, in domain.OverviewInput) (domain.Overview, error) {
	if src != trend.SourceBrand && src != trend.SourceConsumer {
		return domain.Overview{}, perr.WithField(perr.InvalidArgf("%q is not a content source", src), "source")
	}
	g, err := trend.ParseGranularity(in.By)
	if err != nil {
		return domain.Overview{}, perr.WithField(err, "by")
	}
	by := content.Theme
	if g == trend.BySubTheme {
		by = content.SubTheme
	}
	from, to, err := ptime.DayRange(in.From, in.To)
	if err != nil {
		return domain.Overview{}, err
	}
	snap, err := s.sources.Snapshot(ctx)
	if err != nil {
		return domain.Overview{}, err
	}

	countries := make([]string, 0, len(in.Countries))
	for _, c := range in.Countries {
		if cc := s.cfg.Canon(c); cc != "" {
			countries = append(countries, cc)
		}
	}
	f := content.Filter{
		Accounts:  in.Accounts,
		Themes:    in.Themes,
		SubThemes: in.SubThemes,
		Countries: countries,
		Canon:     s.cfg.Canon,
		From:      from,
		To:        to,
	}

	start := s.now()
	now := start.UTC()
	posts := f.Apply(snap.Posts(src))
	out := domain.Overview{
		Source:          src,
		By:              string(by),
		Empty:           len(posts) == 0,
		KPIs:            content.Summarize(posts, s.cfg.Canon),
		TopAccounts:     content.TopAccounts(posts, in.TopAccounts),
		TopGroups:       content.TopGroups(posts, by, in.Top),
		Distribution:    content.Distribution(posts, by, 0),
		DailyVolume:     content.DailyVolume(posts, s.cfg.Floor),
		DailyEngagement: content.DailyEngagement(posts, s.cfg.Floor),
		Yearly:          content.YearlyVolume(posts, in.Years, now),
		GroupTrends:     content.TopGroupTrends(posts, by, in.Trends),
		Fastest:         content.FastestGrowing(posts, by, in.Trends),
		GrowthPerYear:   content.GrowthPerYear(posts, by, in.Trends, in.Years, now),
	}
	elapsed := s.now().Sub(start)
	s.metrics.ObserveAnalysis("content_overview", len(out.Distribution), elapsed)
	s.log.Debug().
		Str("source", string(src)).
		Int("posts", len(posts)).
		Int("groups", len(out.Distribution)).
		Dur("elapsed", elapsed).
		Msg("content overview")
	return out, nil
}
