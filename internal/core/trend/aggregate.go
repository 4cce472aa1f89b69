package trend

import (
	"math"
	"sort"
	"strings"
	"time"
)

// scaleEpsilon keeps the min-max denominator positive for flat series
const scaleEpsilon = 1e-6

// AggregateOptions narrows and shapes one aggregation pass
type AggregateOptions struct {
	Granularity Granularity
	// Country is a canonical name, empty means all countries
	Country string
	// Canon maps a raw country to its canonical name, nil compares raw values
	Canon func(string) string
}

type cell struct {
	entity EntityKey
	bucket time.Time
}

type runningMean struct {
	sum float64
	n   int
}

// MonthStart truncates t to the first instant of its UTC month
func MonthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// KeyOf extracts the entity key at granularity g, ok is false when a needed
// part is blank
func KeyOf(r Record, g Granularity) (EntityKey, bool) {
	theme := strings.TrimSpace(r.Theme)
	if theme == "" {
		return EntityKey{}, false
	}
	if g != BySubTheme {
		return EntityKey{Theme: theme}, true
	}
	sub := strings.TrimSpace(r.SubTheme)
	if sub == "" {
		return EntityKey{}, false
	}
	return EntityKey{Theme: theme, SubTheme: sub}, true
}

// Aggregate buckets one source by entity and month and scales each entity
// onto 0..100 against its own range
// Search cells take the mean interest, content cells take the row count
// Rows from other sources are ignored so a mixed slice is safe to pass
func Aggregate(src Source, recs []Record, opt AggregateOptions) []Point {
	cells := make(map[cell]*runningMean)
	canon := countryMatcher(opt)

	for _, r := range recs {
		if r.Source != "" && r.Source != src {
			continue
		}
		if r.At.IsZero() {
			continue
		}
		if !canon(r.Country) {
			continue
		}
		key, ok := KeyOf(r, opt.Granularity)
		if !ok {
			continue
		}
		v := 1.0
		if src == SourceSearch {
			if math.IsNaN(r.Value) || math.IsInf(r.Value, 0) {
				continue
			}
			v = r.Value
		}
		c := cell{entity: key, bucket: MonthStart(r.At)}
		acc := cells[c]
		if acc == nil {
			acc = &runningMean{}
			cells[c] = acc
		}
		acc.sum += v
		acc.n++
	}
	if len(cells) == 0 {
		return []Point{}
	}

	type span struct{ min, max float64 }
	ranges := make(map[EntityKey]*span)
	out := make([]Point, 0, len(cells))
	for c, acc := range cells {
		val := acc.sum
		if src == SourceSearch {
			val = acc.sum / float64(acc.n)
		}
		out = append(out, Point{Entity: c.entity, Bucket: c.bucket, Source: src, Value: val})
		sp := ranges[c.entity]
		if sp == nil {
			ranges[c.entity] = &span{min: val, max: val}
			continue
		}
		sp.min = math.Min(sp.min, val)
		sp.max = math.Max(sp.max, val)
	}

	for i := range out {
		sp := ranges[out[i].Entity]
		out[i].Volume = Scale(out[i].Value, sp.min, sp.max)
	}
	sortPoints(out)
	return out
}

// Scale maps v onto 0..100 over [min, max]; a flat range yields 0
func Scale(v, min, max float64) float64 {
	return 100 * (v - min) / (max - min + scaleEpsilon)
}

func countryMatcher(opt AggregateOptions) func(string) bool {
	want := strings.TrimSpace(opt.Country)
	if want == "" {
		return func(string) bool { return true }
	}
	if opt.Canon == nil {
		return func(raw string) bool { return strings.TrimSpace(raw) == want }
	}
	// raw country columns repeat heavily so memoize per pass
	memo := make(map[string]bool)
	return func(raw string) bool {
		if hit, ok := memo[raw]; ok {
			return hit
		}
		hit := opt.Canon(raw) == want
		memo[raw] = hit
		return hit
	}
}

func sortPoints(ps []Point) {
	sort.Slice(ps, func(i, j int) bool {
		if !ps[i].Bucket.Equal(ps[j].Bucket) {
			return ps[i].Bucket.Before(ps[j].Bucket)
		}
		return ps[i].Entity.Less(ps[j].Entity)
	})
}
