package modkit

import (
	"trendlens/internal/core/country"
	"trendlens/internal/platform/config"
	"trendlens/internal/platform/logger"
	"trendlens/internal/platform/metrics"
	"trendlens/internal/platform/store"
)

// Deps holds the process wide dependencies handed to every module
// Store and Metrics may be nil in tests, modules nil check optional ones
type Deps struct {
	Log       *logger.Logger
	Cfg       config.Conf
	Store     *store.Store
	Metrics   *metrics.Metrics
	Countries *country.Normalizer
}

// Logger returns a component logger, falling back to the root logger
func (d Deps) Logger(component string) *logger.Logger {
	if d.Log == nil {
		return logger.Named(component)
	}
	ll := d.Log.With().Str("component", component).Logger()
	return &ll
}

// Canon returns the country canonicalizer, the built-in table when unset
func (d Deps) Canon() func(string) string {
	if d.Countries == nil {
		return country.Normalize
	}
	return d.Countries.Normalize
}
