package content

import (
	"sort"
	"time"

	"trendlens/internal/core/trend"
)

// GroupScore ranks a group by a growth measure
type GroupScore struct {
	Group string  `json:"group"`
	Score float64 `json:"score"`
}

// Growth is the ranking plus the cumulative daily series of the winners
type Growth struct {
	Ranking    []GroupScore `json:"ranking"`
	Cumulative []GroupDay   `json:"cumulative"`
}

// YearGrowth is one yearly leader
type YearGrowth struct {
	Year   int     `json:"year"`
	Group  string  `json:"group"`
	Growth float64 `json:"growth"`
}

// FastestGrowing accumulates daily counts per group and ranks groups by the
// OLS slope of the cumulative count against the point index
// Groups with a single active day are skipped; n <= 0 means DefaultTrendGroups
func FastestGrowing(posts []Post, d Dimension, n int) Growth {
	if n <= 0 {
		n = DefaultTrendGroups
	}
	cum := cumulative(dailyByGroup(posts, d, nil))

	var scores []GroupScore
	forEachGroup(cum, func(g string, run []GroupDay) {
		if len(run) < 2 {
			return
		}
		xs := make([]float64, len(run))
		ys := make([]float64, len(run))
		for i, p := range run {
			xs[i] = float64(i)
			ys[i] = p.Value
		}
		scores = append(scores, GroupScore{Group: g, Score: trend.OLSSlope(xs, ys)})
	})
	rankScores(scores)
	scores = head(scores, n)

	keep := make(map[string]struct{}, len(scores))
	for _, s := range scores {
		keep[s.Group] = struct{}{}
	}
	series := make([]GroupDay, 0)
	for _, p := range cum {
		if _, ok := keep[p.Group]; ok {
			series = append(series, p)
		}
	}
	if scores == nil {
		scores = []GroupScore{}
	}
	return Growth{Ranking: scores, Cumulative: series}
}

// GrowthPerYear ranks, for each of the last years up to now, the groups by
// last minus first cumulative daily count within that year
func GrowthPerYear(posts []Post, d Dimension, n, years int, now time.Time) []YearGrowth {
	if n <= 0 {
		n = DefaultTrendGroups
	}
	if years <= 0 {
		years = DefaultYears
	}
	last := now.UTC().Year()
	byYear := make(map[int][]Post)
	for _, p := range posts {
		if p.At.IsZero() {
			continue
		}
		if y := p.At.UTC().Year(); y > last-years && y <= last {
			byYear[y] = append(byYear[y], p)
		}
	}

	out := make([]YearGrowth, 0)
	for y := last - years + 1; y <= last; y++ {
		cum := cumulative(dailyByGroup(byYear[y], d, nil))
		var scores []GroupScore
		forEachGroup(cum, func(g string, run []GroupDay) {
			scores = append(scores, GroupScore{Group: g, Score: run[len(run)-1].Value - run[0].Value})
		})
		rankScores(scores)
		for _, s := range head(scores, n) {
			out = append(out, YearGrowth{Year: y, Group: s.Group, Growth: s.Score})
		}
	}
	return out
}

// cumulative turns per-day counts, sorted by group then day, into running totals
func cumulative(daily []GroupDay) []GroupDay {
	out := make([]GroupDay, len(daily))
	var run float64
	for i, p := range daily {
		if i == 0 || p.Group != daily[i-1].Group {
			run = 0
		}
		run += p.Value
		out[i] = GroupDay{Group: p.Group, Day: p.Day, Value: run}
	}
	return out
}

func forEachGroup(series []GroupDay, fn func(string, []GroupDay)) {
	for i := 0; i < len(series); {
		j := i
		for j < len(series) && series[j].Group == series[i].Group {
			j++
		}
		fn(series[i].Group, series[i:j])
		i = j
	}
}

func rankScores(s []GroupScore) {
	sort.SliceStable(s, func(i, j int) bool { return s[i].Score > s[j].Score })
}
