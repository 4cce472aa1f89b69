// Package domain holds DTOs for the brand and consumer content overviews
package domain

import (
	"context"

	"trendlens/internal/core/content"
	"trendlens/internal/core/trend"
)

// OverviewInput filters posts, empty lists match everything
type OverviewInput struct {
	By          string   `json:"by,omitempty" validate:"omitempty,oneof=theme sub_theme" example:"theme"`
	Accounts    []string `json:"accounts,omitempty" validate:"omitempty,max=200" example:"emaar"`
	Themes      []string `json:"themes,omitempty" validate:"omitempty,max=200" example:"Luxury"`
	SubThemes   []string `json:"sub_themes,omitempty" validate:"omitempty,max=200" example:"Villas"`
	Countries   []string `json:"countries,omitempty" validate:"omitempty,max=50" example:"UAE"`
	From        string   `json:"from,omitempty" validate:"omitempty,isodate" example:"2023-01-01"`
	To          string   `json:"to,omitempty" validate:"omitempty,isodate" example:"2024-12-31"`
	Top         int      `json:"top,omitempty" validate:"omitempty,min=1,max=50" example:"5"`
	TopAccounts int      `json:"top_accounts,omitempty" validate:"omitempty,min=1,max=100" example:"10"`
	Trends      int      `json:"trends,omitempty" validate:"omitempty,min=1,max=20" example:"3"`
	Years       int      `json:"years,omitempty" validate:"omitempty,min=1,max=20" example:"5"`
}

// Overview is every content view for one source and filter
type Overview struct {
	Source          trend.Source         `json:"source" example:"brand"`
	By              string               `json:"by" example:"theme"`
	Empty           bool                 `json:"empty"`
	KPIs            content.KPIs         `json:"kpis"`
	TopAccounts     []content.Count      `json:"top_accounts"`
	TopGroups       []content.Count      `json:"top_groups"`
	Distribution    []content.Share      `json:"distribution"`
	DailyVolume     []content.DayValue   `json:"daily_volume"`
	DailyEngagement []content.DayValue   `json:"daily_engagement"`
	Yearly          []content.YearCount  `json:"yearly"`
	GroupTrends     []content.GroupDay   `json:"group_trends"`
	Fastest         content.Growth       `json:"fastest"`
	GrowthPerYear   []content.YearGrowth `json:"growth_per_year"`
}

// Port is the content overview surface
type Port interface {
	Overview(ctx context.Context, src trend.Source, in OverviewInput) (Overview, error)
}
