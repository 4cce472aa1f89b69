// @title         Trendlens API
// @version       0.1.0
// @description   Real estate theme trajectories across search, brand and consumer sources

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"trendlens/internal/core/country"
	"trendlens/internal/modkit/repokit"
	"trendlens/internal/platform/config"
	"trendlens/internal/platform/logger"
	"trendlens/internal/platform/metrics"
	phttp "trendlens/internal/platform/net/http"
	"trendlens/internal/platform/store"

	"trendlens/internal/services/api"
)

func main() {
	config.LoadDotenv()

	lo := logger.FromEnv()
	lo.Service = "trendlens-api"
	logger.Init(lo)
	l := logger.Get()

	// everything service scoped lives under TRENDLENS_API_*
	apiCfg := config.New().Prefix("TRENDLENS_API_")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m, err := metrics.New()
	if err != nil {
		l.Panic().Err(err).Msg("metrics init failed")
	}

	// stores are only opened when CORE_PG_URL / CORE_CH_URL are set
	st, err := store.Open(ctx,
		store.ConfigFrom(apiCfg, "trendlens", "api"),
		store.WithLogger(*l),
		store.WithQueryObserver(m.PGTracer()),
	)
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	repokit.MustGuard(ctx, st)

	countries := country.New(nil)
	if path := apiCfg.MayString("COUNTRY_ALIASES", ""); path != "" {
		extra, err := country.LoadAliases(path)
		if err != nil {
			l.Panic().Err(err).Str("path", path).Msg("country aliases")
		}
		countries = country.New(extra)
		l.Info().Int("aliases", countries.Len()).Msg("country aliases loaded")
	}

	// http server (reads TRENDLENS_API_PORT and the timeout knobs)
	srv := phttp.NewServer(apiCfg)
	srv.Router().Handle("/metrics", m.Handler())

	api.Mount(
		srv.Router(),
		api.Options{
			Config:         apiCfg,
			Store:          st,
			Logger:         l,
			Metrics:        m,
			Countries:      countries,
			EnableSwagger:  apiCfg.MayBool("ENABLE_SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("ENABLE_PPROF", false),
		},
	)

	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
	l.Info().Msg("bye")
}
