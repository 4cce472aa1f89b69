// Package trend turns raw per-source activity into comparable monthly volume
// series and classifies entities into volume/growth quadrants
//
// Stages, leaf first
// 1 Aggregate buckets one source by month and min-max scales it per entity
// 2 Merge averages the scaled sources per entity and month
// 3 Classify fits an OLS slope per entity and splits on the medians
// 4 TopPerCategory and TopByVolume pick the representatives
// Resample is presentation only and runs over the merged monthly series
package trend

import (
	"strings"
	"time"

	perr "trendlens/internal/platform/errors"
)

// Source identifies one of the three raw datasets
type Source string

const (
	// SourceSearch is the search-interest index, one value per row
	SourceSearch Source = "search"
	// SourceBrand is developer posted content, one post per row
	SourceBrand Source = "brand"
	// SourceConsumer is consumer posted content, one post per row
	SourceConsumer Source = "consumer"
)

// Sources lists every source in canonical order
func Sources() []Source { return []Source{SourceSearch, SourceBrand, SourceConsumer} }

// Valid reports whether s is a known source
func (s Source) Valid() bool {
	switch s {
	case SourceSearch, SourceBrand, SourceConsumer:
		return true
	}
	return false
}

// rank gives the canonical position used to keep source lists stable
func (s Source) rank() int {
	switch s {
	case SourceSearch:
		return 0
	case SourceBrand:
		return 1
	case SourceConsumer:
		return 2
	}
	return 3
}

// ParseSource accepts the canonical names case-insensitively
func ParseSource(s string) (Source, error) {
	src := Source(strings.ToLower(strings.TrimSpace(s)))
	if !src.Valid() {
		return "", perr.InvalidArgf("unknown source %q", s)
	}
	return src, nil
}

// Granularity chooses what an entity is
type Granularity string

const (
	// ByTheme groups on theme only
	ByTheme Granularity = "theme"
	// BySubTheme groups on the theme and sub-theme pair
	BySubTheme Granularity = "sub_theme"
)

// ParseGranularity defaults the empty string to ByTheme
func ParseGranularity(s string) (Granularity, error) {
	switch g := Granularity(strings.ToLower(strings.TrimSpace(s))); g {
	case "":
		return ByTheme, nil
	case ByTheme, BySubTheme:
		return g, nil
	}
	return "", perr.InvalidArgf("unknown granularity %q", s)
}

// EntityKey is a theme, or a theme and sub-theme pair
type EntityKey struct {
	Theme    string `json:"theme"`
	SubTheme string `json:"sub_theme,omitempty"`
}

// String renders the key for logs and labels
func (k EntityKey) String() string {
	if k.SubTheme == "" {
		return k.Theme
	}
	return k.Theme + " / " + k.SubTheme
}

// Less orders keys by theme then sub-theme
func (k EntityKey) Less(o EntityKey) bool {
	if k.Theme != o.Theme {
		return k.Theme < o.Theme
	}
	return k.SubTheme < o.SubTheme
}

// Record is one raw row. Value is the interest index for search rows and
// ignored for content rows, where each row counts once
type Record struct {
	Source   Source
	Theme    string
	SubTheme string
	Country  string
	At       time.Time
	Value    float64
}

// Dataset holds the raw rows of all three sources
// It is shared read-only between analyses
type Dataset struct {
	Search   []Record
	Brand    []Record
	Consumer []Record
}

// Of returns the rows of one source
func (d Dataset) Of(s Source) []Record {
	switch s {
	case SourceSearch:
		return d.Search
	case SourceBrand:
		return d.Brand
	case SourceConsumer:
		return d.Consumer
	}
	return nil
}

// Len counts rows across sources
func (d Dataset) Len() int { return len(d.Search) + len(d.Brand) + len(d.Consumer) }

// Point is one source-local normalized cell
type Point struct {
	Entity EntityKey `json:"entity"`
	Bucket time.Time `json:"bucket"`
	Source Source    `json:"source"`
	Value  float64   `json:"value"`
	Volume float64   `json:"volume"`
}

// MergedPoint is the cross-source mean for one entity and bucket
type MergedPoint struct {
	Entity  EntityKey `json:"entity"`
	Bucket  time.Time `json:"bucket"`
	Volume  float64   `json:"volume"`
	Sources []Source  `json:"sources,omitempty"`
}

// Category is a volume/growth quadrant
type Category uint8

const (
	// HighVolumeHighGrowth is at or above both medians
	HighVolumeHighGrowth Category = iota
	// HighVolumeLowGrowth is at or above the volume median only
	HighVolumeLowGrowth
	// LowVolumeHighGrowth is at or above the growth median only
	LowVolumeHighGrowth
	// LowVolumeLowGrowth is below both medians
	LowVolumeLowGrowth
)

// Categories lists the quadrants in display order
func Categories() []Category {
	return []Category{HighVolumeHighGrowth, HighVolumeLowGrowth, LowVolumeHighGrowth, LowVolumeLowGrowth}
}

// String returns the display label
func (c Category) String() string {
	switch c {
	case HighVolumeHighGrowth:
		return "High Volume + High Growth"
	case HighVolumeLowGrowth:
		return "High Volume + Low Growth"
	case LowVolumeHighGrowth:
		return "Low Volume + High Growth"
	case LowVolumeLowGrowth:
		return "Low Volume + Low Growth"
	}
	return "Unknown"
}

// Code returns the short form, HH HL LH or LL
func (c Category) Code() string {
	switch c {
	case HighVolumeHighGrowth:
		return "HH"
	case HighVolumeLowGrowth:
		return "HL"
	case LowVolumeHighGrowth:
		return "LH"
	case LowVolumeLowGrowth:
		return "LL"
	}
	return "??"
}

// MarshalText encodes the display label
func (c Category) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// UnmarshalText accepts either the label or the short code
func (c *Category) UnmarshalText(b []byte) error {
	s := strings.TrimSpace(string(b))
	for _, k := range Categories() {
		if strings.EqualFold(s, k.String()) || strings.EqualFold(s, k.Code()) {
			*c = k
			return nil
		}
	}
	return perr.InvalidArgf("unknown category %q", s)
}

// Stat is the per-entity trend summary
type Stat struct {
	Entity      EntityKey `json:"entity"`
	MeanVolume  float64   `json:"mean_volume"`
	GrowthSlope float64   `json:"growth_slope"`
	Points      int       `json:"points"`
	Category    Category  `json:"category"`
}
