// Package api assembles the trendlens HTTP API
package api

import (
	"trendlens/internal/core/country"
	"trendlens/internal/platform/config"
	"trendlens/internal/platform/logger"
	"trendlens/internal/platform/metrics"
	phttp "trendlens/internal/platform/net/http"
	"trendlens/internal/platform/store"

	"trendlens/internal/modkit"
	"trendlens/internal/modkit/httpkit"
	"trendlens/internal/modkit/module"
	"trendlens/internal/modkit/swaggerkit"

	chatmod "trendlens/internal/services/api/chat/module"
	contentmod "trendlens/internal/services/api/content/module"
	metamod "trendlens/internal/services/api/meta/module"
	searchmod "trendlens/internal/services/api/search/module"
	trendsmod "trendlens/internal/services/api/trends/module"
	sourcesmod "trendlens/internal/services/sources/module"
)

// Options are the API options
type Options struct {
	Config    config.Conf
	Store     *store.Store // nil for the csv backend
	Logger    *logger.Logger
	Metrics   *metrics.Metrics
	Countries *country.Normalizer

	EnableSwagger  bool
	EnableProfiler bool
}

// Mount builds every module and mounts them under /api/v1 on r
func Mount(r phttp.Router, opt Options) []modkit.Module {
	deps := modkit.Deps{
		Log:       opt.Logger,
		Cfg:       opt.Config,
		Store:     opt.Store,
		Metrics:   opt.Metrics,
		Countries: opt.Countries,
	}

	// sources owns the raw snapshot, the analysis modules read through its port
	sources := sourcesmod.New(deps)
	src := module.MustPortsOf[sourcesmod.Ports](sources)

	mods := []modkit.Module{
		metamod.New(deps, modkit.WithPorts(src)),
		sources,
		trendsmod.New(deps, modkit.WithPorts(src)),
		searchmod.New(deps, modkit.WithPorts(src)),
		contentmod.New(deps, modkit.WithPorts(src)),
		chatmod.New(deps),
	}

	stack := httpkit.CommonStack(httpkit.StackOptions{
		Origins: opt.Config.MayCSV("CORS_ORIGINS", nil),
		Slow:    opt.Config.MayDuration("SLOW_REQUEST", 0),
		Observe: opt.Metrics.ObserveHTTP,
		Timeout: opt.Config.MayDuration("REQUEST_TIMEOUT", 0),
	})
	httpkit.MountAPIV1(r, stack, func(api httpkit.Router) {
		swaggerkit.Mount(api, opt.EnableSwagger)
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		for _, m := range mods {
			module.Register(m.Name(), m.Ports())
			m.MountRoutes(api)
		}
	})
	return mods
}
