// Package domain holds DTOs for the trend trajectory endpoints
package domain

import (
	"trendlens/internal/core/trend"
)

// Scope selects what one analysis covers, every field is optional
type Scope struct {
	Granularity string   `json:"granularity,omitempty" validate:"omitempty,oneof=theme sub_theme" example:"sub_theme"`
	Country     string   `json:"country,omitempty" validate:"omitempty,max=80" example:"UAE"`
	Since       string   `json:"since,omitempty" validate:"omitempty,isodate" example:"2021-01-01"`
	Freq        string   `json:"freq,omitempty" validate:"omitempty,max=16" example:"quarter"`
	Sources     []string `json:"sources,omitempty" validate:"omitempty,max=3,unique,dive,oneof=search brand consumer" example:"search"`
}

// TrajectoryInput asks for the full classification
type TrajectoryInput struct {
	Scope
	TopN       int `json:"top_n,omitempty" validate:"omitempty,min=1,max=50" example:"3"`
	TopVolumeN int `json:"top_volume_n,omitempty" validate:"omitempty,min=1,max=100" example:"5"`
}

// Trajectory is the analysis plus when its rows were loaded
type Trajectory struct {
	trend.Analysis
	LoadedAt string `json:"loaded_at" example:"2025-01-01T00:00:00Z"`
}

// SeriesInput picks entities to chart
// Entities wins over Category, and with neither the top by volume are charted
type SeriesInput struct {
	Scope
	Entities []trend.EntityKey `json:"entities,omitempty" validate:"omitempty,max=50,dive"`
	Category string            `json:"category,omitempty" validate:"omitempty,oneof=HH HL LH LL" example:"HH"`
	TopN     int               `json:"top_n,omitempty" validate:"omitempty,min=1,max=50" example:"3"`
}

// Series is the resampled chart data of the chosen entities
type Series struct {
	Freq     trend.Freq          `json:"freq" example:"month"`
	Entities []trend.EntityKey   `json:"entities"`
	Points   []trend.MergedPoint `json:"points"`
	Empty    bool                `json:"empty"`
}

// Countries lists the canonical names across all sources
type Countries struct {
	Countries []string `json:"countries" example:"United Arab Emirates"`
}
