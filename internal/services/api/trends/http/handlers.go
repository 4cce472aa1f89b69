// Package http provides http transport for trend trajectories
package http

import (
	stdhttp "net/http"

	"trendlens/internal/modkit/httpkit"
	"trendlens/internal/modkit/swaggerkit"
	"trendlens/internal/services/api/trends/domain"
)

// Register mounts the trend endpoints on the given router
func Register(r httpkit.Router, p domain.Port) {
	h := &handlers{port: p}

	// full classification for a scope
	httpkit.PostJSON(r, "/trajectory", h.trajectory)

	// chart data for chosen entities
	httpkit.PostJSON(r, "/series", h.series)

	httpkit.GetJSON(r, "/countries", h.countries)

	swaggerkit.Describe(
		swaggerkit.Op{Method: stdhttp.MethodPost, Path: "/trends/trajectory", Summary: "Classify themes by volume and growth", Tag: "Trends", Body: domain.TrajectoryInput{}, Result: domain.Trajectory{}},
		swaggerkit.Op{Method: stdhttp.MethodPost, Path: "/trends/series", Summary: "Resampled volume series", Tag: "Trends", Body: domain.SeriesInput{}, Result: domain.Series{}},
		swaggerkit.Op{Method: stdhttp.MethodGet, Path: "/trends/countries", Summary: "Canonical countries across sources", Tag: "Trends", Result: domain.Countries{}},
	)
}

type handlers struct{ port domain.Port }

func (h *handlers) trajectory(r *stdhttp.Request, in domain.TrajectoryInput) (any, error) {
	return h.port.Trajectory(r.Context(), in)
}

func (h *handlers) series(r *stdhttp.Request, in domain.SeriesInput) (any, error) {
	return h.port.Series(r.Context(), in)
}

func (h *handlers) countries(r *stdhttp.Request) (any, error) {
	return h.port.Countries(r.Context())
}
