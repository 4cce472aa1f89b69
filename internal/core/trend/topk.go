package trend

import "sort"

// Default representative counts
const (
	DefaultTopN       = 3
	DefaultTopVolumeN = 5
)

// CategoryTop is the ranked head of one quadrant
type CategoryTop struct {
	Category Category `json:"category"`
	Code     string   `json:"code"`
	Stats    []Stat   `json:"stats"`
}

// TopPerCategory ranks each quadrant by mean volume descending and keeps at
// most n entries, n <= 0 means DefaultTopN
// Equal volumes keep the classifier order
func TopPerCategory(stats []Stat, n int) []CategoryTop {
	if n <= 0 {
		n = DefaultTopN
	}
	groups := make(map[Category][]Stat, 4)
	for _, s := range stats {
		groups[s.Category] = append(groups[s.Category], s)
	}
	out := make([]CategoryTop, 0, 4)
	for _, c := range Categories() {
		out = append(out, CategoryTop{Category: c, Code: c.Code(), Stats: headByVolume(groups[c], n)})
	}
	return out
}

// TopByVolume ranks every entity by mean volume regardless of quadrant,
// n <= 0 means DefaultTopVolumeN
func TopByVolume(stats []Stat, n int) []Stat {
	if n <= 0 {
		n = DefaultTopVolumeN
	}
	return headByVolume(stats, n)
}

// Keys returns the entity keys of stats in order
func Keys(stats []Stat) []EntityKey {
	out := make([]EntityKey, len(stats))
	for i, s := range stats {
		out[i] = s.Entity
	}
	return out
}

func headByVolume(stats []Stat, n int) []Stat {
	c := append([]Stat(nil), stats...)
	sort.SliceStable(c, func(i, j int) bool { return c[i].MeanVolume > c[j].MeanVolume })
	if len(c) > n {
		c = c[:n]
	}
	if c == nil {
		c = []Stat{}
	}
	return c
}
