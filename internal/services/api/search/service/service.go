// Package service computes the search-interest overview from the cached snapshot
package service

import (
	"context"
	"strings"
	"time"

	"trendlens/internal/core/interest"
	"trendlens/internal/core/trend"
	"trendlens/internal/platform/logger"
	"trendlens/internal/platform/metrics"
	ptime "trendlens/internal/platform/time"
	"trendlens/internal/services/api/search/domain"
	sources "trendlens/internal/services/sources/domain"
)

// Service implements domain.Port
type Service struct {
	sources sources.Port
	canon   func(string) string
	metrics *metrics.Metrics
	log     logger.Logger
	now     func() time.Time
}

var _ domain.Port = (*Service)(nil)

// New builds the service, canon maps raw countries and m may be nil
func New(src sources.Port, canon func(string) string, m *metrics.Metrics) *Service {
	if canon == nil {
		canon = strings.TrimSpace
	}
	return &Service{sources: src, canon: canon, metrics: m, log: *logger.Named("search"), now: time.Now}
}

// Overview implements domain.Port
func (s *Service) Overview(ctx context.Context, in domain.OverviewInput) (domain.Overview, error) {
	by, err := trend.ParseGranularity(in.By)
	if err != nil {
		return domain.Overview{}, err
	}
	from, to, err := ptime.DayRange(in.From, in.To)
	if err != nil {
		return domain.Overview{}, err
	}
	snap, err := s.sources.Snapshot(ctx)
	if err != nil {
		return domain.Overview{}, err
	}

	f := interest.Filter{
		Theme:    in.Theme,
		SubTheme: in.SubTheme,
		Country:  s.canon(in.Country),
		Canon:    s.canon,
		From:     from,
		To:       to,
	}

	start := s.now()
	recs := f.Apply(snap.Search)
	out := domain.Overview{
		By:           string(by),
		Rows:         len(recs),
		Empty:        len(recs) == 0,
		Top:          interest.TopByAverage(recs, by, in.Top),
		Distribution: interest.Distribution(recs, by, 0),
		Trends:       interest.TopTrends(recs, by, in.Trends),
		Fastest:      interest.FastestGrowing(recs, by, in.Trends),
		Slopes:       interest.SlopeRanking(recs, by, in.Trends),
	}
	elapsed := s.now().Sub(start)
	s.metrics.ObserveAnalysis("search_overview", len(out.Distribution), elapsed)
	s.log.Debug().
		Str("by", out.By).
		Int("rows", out.Rows).
		Int("groups", len(out.Distribution)).
		Dur("elapsed", elapsed).
		Msg("search overview")
	return out, nil
}
