// Package domain defines the raw source snapshot and the load ports
package domain

import (
	"time"

	"trendlens/internal/core/content"
	"trendlens/internal/core/trend"
)

// Snapshot is one consistent load of all three raw sources
// it is shared read-only across requests and never mutated after Load
type Snapshot struct {
	Search   []trend.Record
	Brand    []content.Post
	Consumer []content.Post
	Backend  string
	LoadedAt time.Time

	dataset trend.Dataset
}

// NewSnapshot freezes the rows and precomputes the trend dataset
func NewSnapshot(backend string, at time.Time, search []trend.Record, brand, consumer []content.Post) *Snapshot {
	return &Snapshot{
		Search:   search,
		Brand:    brand,
		Consumer: consumer,
		Backend:  backend,
		LoadedAt: at,
		dataset: trend.Dataset{
			Search:   search,
			Brand:    Records(trend.SourceBrand, brand),
			Consumer: Records(trend.SourceConsumer, consumer),
		},
	}
}

// Dataset returns the rows as trend records for the engine
func (s *Snapshot) Dataset() trend.Dataset { return s.dataset }

// Posts returns the content rows of a content source
func (s *Snapshot) Posts(src trend.Source) []content.Post {
	switch src {
	case trend.SourceBrand:
		return s.Brand
	case trend.SourceConsumer:
		return s.Consumer
	}
	return nil
}

// Rows counts the rows of one source
func (s *Snapshot) Rows(src trend.Source) int {
	if src == trend.SourceSearch {
		return len(s.Search)
	}
	return len(s.Posts(src))
}

// Records turns posts into presence records, one per post
func Records(src trend.Source, posts []content.Post) []trend.Record {
	out := make([]trend.Record, len(posts))
	for i, p := range posts {
		out[i] = trend.Record{
			Source:   src,
			Theme:    p.Theme,
			SubTheme: p.SubTheme,
			Country:  p.Country,
			At:       p.At,
			Value:    1,
		}
	}
	return out
}

// Status describes the currently cached load of one source
type Status struct {
	Source   trend.Source `json:"source"`
	Backend  string       `json:"backend"`
	Rows     int          `json:"rows"`
	LoadedAt time.Time    `json:"loaded_at"`
}
