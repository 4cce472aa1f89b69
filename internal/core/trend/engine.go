package trend

import (
	"context"
	"strings"
	"time"
)

// Query is one analysis scope
type Query struct {
	Granularity Granularity
	// Country is raw user input, normalized before filtering
	Country string
	// Floor is the earliest bucket kept, it never drops below DefaultFloor
	Floor time.Time
	// Freq only shapes Analysis.Display
	Freq       Freq
	TopN       int
	TopVolumeN int
	// Sources restricts the merge, empty means all three
	Sources []Source
}

// Normalize fills defaults and rejects unknown enum values
func (q Query) Normalize() (Query, error) {
	g, err := ParseGranularity(string(q.Granularity))
	if err != nil {
		return q, err
	}
	f, err := ParseFreq(string(q.Freq))
	if err != nil {
		return q, err
	}
	q.Granularity, q.Freq = g, f
	if q.Floor.Before(DefaultFloor) {
		q.Floor = DefaultFloor
	}
	if q.TopN <= 0 {
		q.TopN = DefaultTopN
	}
	if q.TopVolumeN <= 0 {
		q.TopVolumeN = DefaultTopVolumeN
	}
	want := make(map[Source]bool, len(q.Sources))
	for _, raw := range q.Sources {
		s, err := ParseSource(string(raw))
		if err != nil {
			return q, err
		}
		want[s] = true
	}
	// each source votes once per cell, in canonical order
	q.Sources = make([]Source, 0, len(Sources()))
	for _, s := range Sources() {
		if len(want) == 0 || want[s] {
			q.Sources = append(q.Sources, s)
		}
	}
	q.Country = strings.TrimSpace(q.Country)
	return q, nil
}

// Analysis is everything one pass produces
type Analysis struct {
	Granularity  Granularity    `json:"granularity"`
	Country      string         `json:"country,omitempty"`
	Freq         Freq           `json:"freq"`
	Empty        bool           `json:"empty"`
	PerSource    map[Source]int `json:"per_source"`
	Merged       []MergedPoint  `json:"merged"`
	Display      []MergedPoint  `json:"display"`
	Stats        []Stat         `json:"stats"`
	VolumeMedian float64        `json:"volume_median"`
	GrowthMedian float64        `json:"growth_median"`
	Top          []CategoryTop  `json:"top"`
	TopVolume    []Stat         `json:"top_volume"`
}

// Engine runs the full pipeline over an injected dataset
// It holds no per-analysis state and may be shared
type Engine struct {
	canon func(string) string
}

// NewEngine builds an Engine; canon maps raw countries to canonical names
func NewEngine(canon func(string) string) *Engine {
	if canon == nil {
		canon = strings.TrimSpace
	}
	return &Engine{canon: canon}
}

// Canon exposes the country mapping used for filters
func (e *Engine) Canon(raw string) string { return e.canon(raw) }

// Analyze aggregates, merges, classifies and ranks ds under q
// Empty scopes are not errors, they come back with Empty set
func (e *Engine) Analyze(ctx context.Context, ds Dataset, q Query) (Analysis, error) {
	if err := ctx.Err(); err != nil {
		return Analysis{}, err
	}
	q, err := q.Normalize()
	if err != nil {
		return Analysis{}, err
	}
	country := ""
	if q.Country != "" {
		country = e.canon(q.Country)
	}

	opt := AggregateOptions{Granularity: q.Granularity, Country: country, Canon: e.canon}
	sets := make([][]Point, 0, len(q.Sources))
	per := make(map[Source]int, len(q.Sources))
	for _, src := range q.Sources {
		pts := Aggregate(src, ds.Of(src), opt)
		per[src] = len(pts)
		sets = append(sets, pts)
		if err := ctx.Err(); err != nil {
			return Analysis{}, err
		}
	}

	merged := Merge(q.Floor, sets...)
	cls := Classify(merged)
	return Analysis{
		Granularity:  q.Granularity,
		Country:      country,
		Freq:         q.Freq,
		Empty:        cls.Empty(),
		PerSource:    per,
		Merged:       merged,
		Display:      Resample(merged, q.Freq),
		Stats:        cls.Stats,
		VolumeMedian: cls.VolumeMedian,
		GrowthMedian: cls.GrowthMedian,
		Top:          TopPerCategory(cls.Stats, q.TopN),
		TopVolume:    TopByVolume(cls.Stats, q.TopVolumeN),
	}, nil
}
