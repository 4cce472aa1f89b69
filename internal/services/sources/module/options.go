package module

import (
	"time"

	"trendlens/internal/core/trend"
	"trendlens/internal/platform/config"
	"trendlens/internal/services/sources/repo"
	"trendlens/internal/services/sources/service"
)

// Backends a snapshot can be loaded from
const (
	BackendCSV = "csv"
	BackendPG  = "pg"
	BackendCH  = "ch"
)

// Options holds configuration settings for the sources module
type Options struct {
	Backend string
	Paths   map[trend.Source]string
	Tables  repo.Tables
	TTL     time.Duration
	APIKey  string
}

// FromConfig reads the source settings from cfg
func FromConfig(cfg config.Conf) Options {
	return Options{
		Backend: cfg.MayEnum("SOURCE_BACKEND", BackendCSV, BackendCSV, BackendPG, BackendCH),
		Paths: map[trend.Source]string{
			trend.SourceSearch:   cfg.MayString("SEARCH_CSV", ""),
			trend.SourceBrand:    cfg.MayString("BRAND_CSV", ""),
			trend.SourceConsumer: cfg.MayString("CONSUMER_CSV", ""),
		},
		Tables: repo.Tables{
			Search:   cfg.MayString("SEARCH_TABLE", ""),
			Brand:    cfg.MayString("BRAND_TABLE", ""),
			Consumer: cfg.MayString("CONSUMER_TABLE", ""),
		},
		TTL:    cfg.MayDuration("CACHE_TTL", service.DefaultTTL),
		APIKey: cfg.MayString("API_KEY", ""),
	}
}
