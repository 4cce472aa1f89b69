package trend

import (
	"sort"
	"time"
)

const day = 24 * time.Hour

// Classification is the stats table plus the thresholds that produced it
type Classification struct {
	Stats        []Stat  `json:"stats"`
	VolumeMedian float64 `json:"volume_median"`
	GrowthMedian float64 `json:"growth_median"`
}

// Empty reports whether no entity qualified
func (c Classification) Empty() bool { return len(c.Stats) == 0 }

// Classify fits a trend per entity and assigns quadrants
// Entities need at least two distinct buckets, others are left out
// Thresholds are the medians of the qualifying entities and ties count as high
func Classify(series []MergedPoint) Classification {
	byEntity := make(map[EntityKey][]MergedPoint)
	for _, p := range series {
		byEntity[p.Entity] = append(byEntity[p.Entity], p)
	}

	stats := make([]Stat, 0, len(byEntity))
	for key, pts := range byEntity {
		sort.Slice(pts, func(i, j int) bool { return pts[i].Bucket.Before(pts[j].Bucket) })
		pts = dedupeBuckets(pts)
		if len(pts) < 2 {
			continue
		}
		first := pts[0].Bucket
		xs := make([]float64, len(pts))
		ys := make([]float64, len(pts))
		for i, p := range pts {
			xs[i] = float64(p.Bucket.Sub(first)) / float64(day)
			ys[i] = p.Volume
		}
		stats = append(stats, Stat{
			Entity:      key,
			MeanVolume:  Mean(ys),
			GrowthSlope: OLSSlope(xs, ys),
			Points:      len(pts),
		})
	}
	if len(stats) == 0 {
		return Classification{Stats: []Stat{}}
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Entity.Less(stats[j].Entity) })

	vols := make([]float64, len(stats))
	slopes := make([]float64, len(stats))
	for i, s := range stats {
		vols[i] = s.MeanVolume
		slopes[i] = s.GrowthSlope
	}
	out := Classification{Stats: stats, VolumeMedian: Median(vols), GrowthMedian: Median(slopes)}
	for i := range out.Stats {
		out.Stats[i].Category = Categorize(out.Stats[i].MeanVolume, out.Stats[i].GrowthSlope, out.VolumeMedian, out.GrowthMedian)
	}
	return out
}

// Categorize places one entity against the scope medians
func Categorize(volume, growth, volumeMedian, growthMedian float64) Category {
	highVol := volume >= volumeMedian
	highGrowth := growth >= growthMedian
	switch {
	case highVol && highGrowth:
		return HighVolumeHighGrowth
	case highVol:
		return HighVolumeLowGrowth
	case highGrowth:
		return LowVolumeHighGrowth
	default:
		return LowVolumeLowGrowth
	}
}

// dedupeBuckets averages repeated buckets of a sorted slice
// Merge never emits duplicates but callers may hand in their own series
func dedupeBuckets(pts []MergedPoint) []MergedPoint {
	out := pts[:0:0]
	for i := 0; i < len(pts); {
		j := i
		var sum float64
		for j < len(pts) && pts[j].Bucket.Equal(pts[i].Bucket) {
			sum += pts[j].Volume
			j++
		}
		p := pts[i]
		p.Volume = sum / float64(j-i)
		out = append(out, p)
		i = j
	}
	return out
}
