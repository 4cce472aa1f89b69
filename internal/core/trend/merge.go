package trend

import (
	"sort"
	"time"
)

// DefaultFloor is the earliest bucket kept by Merge
var DefaultFloor = time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC)

type mergeCell struct {
	runningMean
	sources [3]bool
}

// Merge unions normalized points from any number of sources and averages the
// volume per entity and bucket over whichever sources reported it
// Buckets before floor are dropped, floor never goes below DefaultFloor
// The output is sorted by bucket then entity and does not depend on set order
func Merge(floor time.Time, sets ...[]Point) []MergedPoint {
	if floor.Before(DefaultFloor) {
		floor = DefaultFloor
	}
	floor = MonthStart(floor)

	cells := make(map[cell]*mergeCell)
	for _, set := range sets {
		for _, p := range set {
			if p.Bucket.Before(floor) {
				continue
			}
			c := cell{entity: p.Entity, bucket: p.Bucket}
			mc := cells[c]
			if mc == nil {
				mc = &mergeCell{}
				cells[c] = mc
			}
			mc.sum += p.Volume
			mc.n++
			if r := p.Source.rank(); r < len(mc.sources) {
				mc.sources[r] = true
			}
		}
	}

	out := make([]MergedPoint, 0, len(cells))
	for c, mc := range cells {
		mp := MergedPoint{Entity: c.entity, Bucket: c.bucket, Volume: mc.sum / float64(mc.n)}
		for i, src := range Sources() {
			if mc.sources[i] {
				mp.Sources = append(mp.Sources, src)
			}
		}
		out = append(out, mp)
	}
	sortMerged(out)
	return out
}

func sortMerged(ps []MergedPoint) {
	sort.Slice(ps, func(i, j int) bool {
		if !ps[i].Bucket.Equal(ps[j].Bucket) {
			return ps[i].Bucket.Before(ps[j].Bucket)
		}
		return ps[i].Entity.Less(ps[j].Entity)
	})
}

// SeriesOf keeps only the points of the given entities, preserving order
// An empty key set keeps everything
func SeriesOf(series []MergedPoint, keys ...EntityKey) []MergedPoint {
	if len(keys) == 0 {
		return series
	}
	want := make(map[EntityKey]struct{}, len(keys))
	for _, k := range keys {
		want[k] = struct{}{}
	}
	out := make([]MergedPoint, 0, len(series))
	for _, p := range series {
		if _, ok := want[p.Entity]; ok {
			out = append(out, p)
		}
	}
	return out
}
