package content

import (
	"sort"
	"time"
)

// DayValue is one day of a series
type DayValue struct {
	Day   time.Time `json:"day"`
	Value float64   `json:"value"`
}

// GroupDay is one day of a grouped series
type GroupDay struct {
	Group string    `json:"group"`
	Day   time.Time `json:"day"`
	Value float64   `json:"value"`
}

// YearCount is posts per calendar year
type YearCount struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// DailyVolume counts posts per day on or after floor, zero floor keeps all
func DailyVolume(posts []Post, floor time.Time) []DayValue {
	return daily(posts, floor, func(Post) float64 { return 1 })
}

// DailyEngagement sums engagement per day on or after floor
func DailyEngagement(posts []Post, floor time.Time) []DayValue {
	return daily(posts, floor, func(p Post) float64 { return float64(p.Engagement()) })
}

func daily(posts []Post, floor time.Time, weight func(Post) float64) []DayValue {
	m := make(map[time.Time]float64)
	for _, p := range posts {
		if p.At.IsZero() || (!floor.IsZero() && p.At.Before(floor)) {
			continue
		}
		m[dayOf(p.At)] += weight(p)
	}
	out := make([]DayValue, 0, len(m))
	for d, v := range m {
		out = append(out, DayValue{Day: d, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out
}

// YearlyVolume counts posts in the last n calendar years up to now's year,
// listing only years that have posts; n <= 0 means DefaultYears
func YearlyVolume(posts []Post, n int, now time.Time) []YearCount {
	if n <= 0 {
		n = DefaultYears
	}
	last := now.UTC().Year()
	first := last - n + 1
	m := make(map[int]int)
	for _, p := range posts {
		if p.At.IsZero() {
			continue
		}
		if y := p.At.UTC().Year(); y >= first && y <= last {
			m[y]++
		}
	}
	out := make([]YearCount, 0, len(m))
	for y, c := range m {
		out = append(out, YearCount{Year: y, Count: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// TopGroupTrends returns daily counts for the n biggest groups,
// n <= 0 means DefaultTrendGroups
func TopGroupTrends(posts []Post, d Dimension, n int) []GroupDay {
	if n <= 0 {
		n = DefaultTrendGroups
	}
	keep := make(map[string]struct{}, n)
	for _, c := range head(Counts(posts, d), n) {
		keep[c.Key] = struct{}{}
	}
	return dailyByGroup(posts, d, keep)
}

// dailyByGroup counts posts per group and day, sorted by group then day
// A nil keep set keeps every group
func dailyByGroup(posts []Post, d Dimension, keep map[string]struct{}) []GroupDay {
	type gk struct {
		g string
		d time.Time
	}
	m := make(map[gk]float64)
	for _, p := range posts {
		g := d.Of(p)
		if g == "" || p.At.IsZero() {
			continue
		}
		if keep != nil {
			if _, ok := keep[g]; !ok {
				continue
			}
		}
		m[gk{g, dayOf(p.At)}]++
	}
	out := make([]GroupDay, 0, len(m))
	for k, v := range m {
		out = append(out, GroupDay{Group: k.g, Day: k.d, Value: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Group != out[j].Group {
			return out[i].Group < out[j].Group
		}
		return out[i].Day.Before(out[j].Day)
	})
	return out
}
