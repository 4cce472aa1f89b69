package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trendlens/internal/core/country"
	"trendlens/internal/core/trend"
	perr "trendlens/internal/platform/errors"
	"trendlens/internal/services/api/search/domain"
	sources "trendlens/internal/services/sources/domain"
)

type fakeSources struct{ snap *sources.Snapshot }

func (f fakeSources) Snapshot(context.Context) (*sources.Snapshot, error) { return f.snap, nil }
func (f fakeSources) Status(context.Context) ([]sources.Status, error)    { return nil, nil }
func (f fakeSources) Reload(context.Context) ([]sources.Status, error)    { return nil, nil }
func (f fakeSources) Countries(context.Context) ([]string, error)         { return nil, nil }

func rec(theme, sub, c string, day int, v float64) trend.Record {
	return trend.Record{Source: trend.SourceSearch, Theme: theme, SubTheme: sub, Country: c, At: time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC), Value: v}
}

func newService() *Service {
	recs := []trend.Record{
		rec("Luxury", "Villas", "uae", 1, 10),
		rec("Luxury", "Villas", "uae", 2, 30),
		rec("Luxury", "Penthouses", "UAE", 3, 50),
		rec("Rental", "Studios", "ksa", 1, 45),
		rec("Rental", "Studios", "ksa", 2, 25),
		rec("Mortgage", "Rates", "uk", 5, 0),
	}
	snap := sources.NewSnapshot("fake", time.Now(), recs, nil, nil)
	return New(fakeSources{snap: snap}, country.Normalize, nil)
}

func TestOverview(t *testing.T) {
	t.Parallel()
	out, err := newService().Overview(context.Background(), domain.OverviewInput{})
	require.NoError(t, err)

	assert.Equal(t, "theme", out.By)
	assert.Equal(t, 6, out.Rows)
	require.Len(t, out.Top, 3)
	assert.Equal(t, "Rental", out.Top[0].Key)
	assert.InDelta(t, 35, out.Top[0].Value, 1e-9)
	assert.Len(t, out.Distribution, 2, "zero-mean groups are left out")
	require.NotEmpty(t, out.Fastest.Ranking)
	assert.Equal(t, "Luxury", out.Fastest.Ranking[0].Group)
	assert.InDelta(t, 40, out.Fastest.Ranking[0].Score, 1e-9)
	require.Len(t, out.Slopes.Ranking, 2, "single-day groups are skipped")
	assert.Equal(t, "Rental", out.Slopes.Ranking[1].Group)
}

func TestOverview_Filters(t *testing.T) {
	t.Parallel()
	s := newService()
	ctx := context.Background()

	out, err := s.Overview(ctx, domain.OverviewInput{By: "sub_theme", Country: "United Arab Emirates", To: "2024-01-02"})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Rows)
	require.Len(t, out.Top, 1)
	assert.Equal(t, "Villas", out.Top[0].Key)

	out, err = s.Overview(ctx, domain.OverviewInput{Theme: "Nope"})
	require.NoError(t, err)
	assert.True(t, out.Empty)
	assert.Empty(t, out.Top)

	_, err = s.Overview(ctx, domain.OverviewInput{From: "yesterday"})
	assert.Equal(t, perr.ErrorCodeInvalidArgument, perr.CodeOf(err))
	_, err = s.Overview(ctx, domain.OverviewInput{By: "account"})
	assert.Equal(t, perr.ErrorCodeInvalidArgument, perr.CodeOf(err))
}
