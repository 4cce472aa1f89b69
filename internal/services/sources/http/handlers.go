// Package http provides http transport for raw source status and reload
package http

import (
	stdhttp "net/http"

	"trendlens/internal/modkit/httpkit"
	"trendlens/internal/modkit/swaggerkit"
	"trendlens/internal/services/sources/domain"
)

// Register mounts the source endpoints, reload sits behind apiKey
func Register(r httpkit.Router, port domain.Port, apiKey string) {
	h := &handlers{port: port}

	// load status per source
	httpkit.GetJSON(r, "/", h.status)

	httpkit.Protected(r, apiKey, func(pr httpkit.Router) {
		// drop the cached snapshot and load again
		httpkit.PostAction(pr, "/reload", h.reload)
	})

	swaggerkit.Describe(
		swaggerkit.Op{Method: stdhttp.MethodGet, Path: "/sources", Summary: "Raw source load status", Tag: "Sources", Result: []domain.Status{}},
		swaggerkit.Op{Method: stdhttp.MethodPost, Path: "/sources/reload", Summary: "Purge the source cache and reload", Tag: "Sources", Result: []domain.Status{}, Secured: apiKey != ""},
	)
}

type handlers struct{ port domain.Port }

func (h *handlers) status(r *stdhttp.Request) (any, error) {
	return h.port.Status(r.Context())
}

func (h *handlers) reload(r *stdhttp.Request) (any, error) {
	return h.port.Reload(r.Context())
}
