// Package domain holds DTOs for the search-interest overview
package domain

import (
	"context"

	"trendlens/internal/core/interest"
)

// OverviewInput filters the search rows, every field is optional
type OverviewInput struct {
	By       string `json:"by,omitempty" validate:"omitempty,oneof=theme sub_theme" example:"theme"`
	Theme    string `json:"theme,omitempty" validate:"omitempty,max=120" example:"Luxury"`
	SubTheme string `json:"sub_theme,omitempty" validate:"omitempty,max=120" example:"Villas"`
	Country  string `json:"country,omitempty" validate:"omitempty,max=80" example:"UAE"`
	From     string `json:"from,omitempty" validate:"omitempty,isodate" example:"2023-01-01"`
	To       string `json:"to,omitempty" validate:"omitempty,isodate" example:"2024-12-31"`
	Top      int    `json:"top,omitempty" validate:"omitempty,min=1,max=50" example:"5"`
	Trends   int    `json:"trends,omitempty" validate:"omitempty,min=1,max=20" example:"3"`
}

// Overview is every search-interest view for one filter
type Overview struct {
	By           string             `json:"by" example:"theme"`
	Rows         int                `json:"rows" example:"1200"`
	Empty        bool               `json:"empty"`
	Top          []interest.Average `json:"top"`
	Distribution []interest.Share   `json:"distribution"`
	Trends       []interest.Point   `json:"trends"`
	Fastest      interest.Growth    `json:"fastest"`
	Slopes       interest.Growth    `json:"slopes"`
}

// Port is the search overview surface
type Port interface {
	Overview(ctx context.Context, in OverviewInput) (Overview, error)
}
