// Package interest ranks themes and sub-themes of the search-interest source
// by average level, spread and growth
package interest

import (
	"math"
	"sort"
	"strings"
	"time"

	"trendlens/internal/core/trend"
)

// Default list sizes
const (
	DefaultTop    = 5
	DefaultTrends = 3
)

// Filter narrows search rows; empty fields match everything, To is inclusive
type Filter struct {
	Theme    string
	SubTheme string
	// Country is canonical and compared through Canon when set
	Country string
	Canon   func(string) string
	From    time.Time
	To      time.Time
}

// Apply returns the matching rows in input order
func (f Filter) Apply(recs []trend.Record) []trend.Record {
	canon := f.Canon
	if canon == nil {
		canon = strings.TrimSpace
	}
	theme, sub, country := strings.TrimSpace(f.Theme), strings.TrimSpace(f.SubTheme), strings.TrimSpace(f.Country)
	var to time.Time
	if !f.To.IsZero() {
		to = dayOf(f.To).AddDate(0, 0, 1)
	}
	out := make([]trend.Record, 0, len(recs))
	for _, r := range recs {
		switch {
		case theme != "" && strings.TrimSpace(r.Theme) != theme:
		case sub != "" && strings.TrimSpace(r.SubTheme) != sub:
		case country != "" && canon(r.Country) != country:
		case !f.From.IsZero() && r.At.Before(dayOf(f.From)):
		case !to.IsZero() && !r.At.Before(to):
		default:
			out = append(out, r)
		}
	}
	return out
}

// Average is a group and its mean interest
type Average struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
}

// Share is an Average with its fraction of the listed total
type Share struct {
	Average
	Share float64 `json:"share"`
}

// Point is one day of a group's mean interest
type Point struct {
	Group string    `json:"group"`
	Day   time.Time `json:"day"`
	Value float64   `json:"value"`
}

// Score ranks a group by a growth measure
type Score struct {
	Group string  `json:"group"`
	Score float64 `json:"score"`
}

// Growth is a ranking plus the daily series of the ranked groups
type Growth struct {
	Ranking []Score `json:"ranking"`
	Series  []Point `json:"series"`
}

// groupOf reads the grouping column; BySubTheme means the sub-theme alone here
func groupOf(r trend.Record, by trend.Granularity) string {
	if by == trend.BySubTheme {
		return strings.TrimSpace(r.SubTheme)
	}
	return strings.TrimSpace(r.Theme)
}

// Averages is the mean interest per group, highest first, ties by key
func Averages(recs []trend.Record, by trend.Granularity) []Average {
	type acc struct {
		sum float64
		n   int
	}
	m := make(map[string]*acc)
	for _, r := range recs {
		g := groupOf(r, by)
		if g == "" || !finite(r.Value) {
			continue
		}
		a := m[g]
		if a == nil {
			a = &acc{}
			m[g] = a
		}
		a.sum += r.Value
		a.n++
	}
	out := make([]Average, 0, len(m))
	for g, a := range m {
		out = append(out, Average{Key: g, Value: a.sum / float64(a.n)})
	}
	sortAverages(out)
	return out
}

// TopByAverage keeps the n highest averages, n <= 0 means DefaultTop
func TopByAverage(recs []trend.Record, by trend.Granularity, n int) []Average {
	if n <= 0 {
		n = DefaultTop
	}
	return head(Averages(recs, by), n)
}

// Distribution lists groups with a positive average and their share of the
// listed total, n <= 0 keeps every group
func Distribution(recs []trend.Record, by trend.Granularity, n int) []Share {
	var pos []Average
	for _, a := range Averages(recs, by) {
		if a.Value > 0 {
			pos = append(pos, a)
		}
	}
	if n > 0 {
		pos = head(pos, n)
	}
	var total float64
	for _, a := range pos {
		total += a.Value
	}
	out := make([]Share, len(pos))
	for i, a := range pos {
		out[i] = Share{Average: a}
		if total > 0 {
			out[i].Share = a.Value / total
		}
	}
	return out
}

// DailyMeans averages interest per group and day, sorted by group then day
func DailyMeans(recs []trend.Record, by trend.Granularity) []Point {
	type key struct {
		g string
		d time.Time
	}
	type acc struct {
		sum float64
		n   int
	}
	m := make(map[key]*acc)
	for _, r := range recs {
		g := groupOf(r, by)
		if g == "" || r.At.IsZero() || !finite(r.Value) {
			continue
		}
		k := key{g, dayOf(r.At)}
		a := m[k]
		if a == nil {
			a = &acc{}
			m[k] = a
		}
		a.sum += r.Value
		a.n++
	}
	out := make([]Point, 0, len(m))
	for k, a := range m {
		out = append(out, Point{Group: k.g, Day: k.d, Value: a.sum / float64(a.n)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Group != out[j].Group {
			return out[i].Group < out[j].Group
		}
		return out[i].Day.Before(out[j].Day)
	})
	return out
}

// TopTrends returns the daily series of the n groups with the highest mean of
// daily means, n <= 0 means DefaultTrends
func TopTrends(recs []trend.Record, by trend.Granularity, n int) []Point {
	if n <= 0 {
		n = DefaultTrends
	}
	daily := DailyMeans(recs, by)
	var avgs []Average
	eachGroup(daily, func(g string, run []Point) {
		vs := make([]float64, len(run))
		for i, p := range run {
			vs[i] = p.Value
		}
		avgs = append(avgs, Average{Key: g, Value: trend.Mean(vs)})
	})
	sortAverages(avgs)
	keep := make(map[string]struct{}, n)
	for _, a := range head(avgs, n) {
		keep[a.Key] = struct{}{}
	}
	return only(daily, keep)
}

// FastestGrowing ranks groups by last daily mean minus first daily mean,
// n <= 0 means DefaultTrends
func FastestGrowing(recs []trend.Record, by trend.Granularity, n int) Growth {
	return rank(DailyMeans(recs, by), n, func(run []Point) (float64, bool) {
		return run[len(run)-1].Value - run[0].Value, true
	})
}

// SlopeRanking ranks groups by the OLS slope of daily mean interest per day,
// skipping groups with fewer than two days; n <= 0 means DefaultTrends
func SlopeRanking(recs []trend.Record, by trend.Granularity, n int) Growth {
	return rank(DailyMeans(recs, by), n, func(run []Point) (float64, bool) {
		if len(run) < 2 {
			return 0, false
		}
		xs := make([]float64, len(run))
		ys := make([]float64, len(run))
		for i, p := range run {
			xs[i] = p.Day.Sub(run[0].Day).Hours() / 24
			ys[i] = p.Value
		}
		return trend.OLSSlope(xs, ys), true
	})
}

func rank(daily []Point, n int, score func([]Point) (float64, bool)) Growth {
	if n <= 0 {
		n = DefaultTrends
	}
	scores := make([]Score, 0)
	eachGroup(daily, func(g string, run []Point) {
		if s, ok := score(run); ok {
			scores = append(scores, Score{Group: g, Score: s})
		}
	})
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].Score > scores[j].Score })
	scores = head(scores, n)
	keep := make(map[string]struct{}, len(scores))
	for _, s := range scores {
		keep[s.Group] = struct{}{}
	}
	return Growth{Ranking: scores, Series: only(daily, keep)}
}

func eachGroup(series []Point, fn func(string, []Point)) {
	for i := 0; i < len(series); {
		j := i
		for j < len(series) && series[j].Group == series[i].Group {
			j++
		}
		fn(series[i].Group, series[i:j])
		i = j
	}
}

func only(series []Point, keep map[string]struct{}) []Point {
	out := make([]Point, 0)
	for _, p := range series {
		if _, ok := keep[p.Group]; ok {
			out = append(out, p)
		}
	}
	return out
}

func sortAverages(a []Average) {
	sort.Slice(a, func(i, j int) bool {
		if a[i].Value != a[j].Value {
			return a[i].Value > a[j].Value
		}
		return a[i].Key < a[j].Key
	})
}

func head[T any](vs []T, n int) []T {
	if len(vs) > n {
		return vs[:n]
	}
	return vs
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func dayOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
