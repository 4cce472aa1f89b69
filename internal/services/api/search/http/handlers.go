// Package http provides http transport for the search-interest overview
package http

import (
	stdhttp "net/http"

	"trendlens/internal/modkit/httpkit"
	"trendlens/internal/modkit/swaggerkit"
	"trendlens/internal/services/api/search/domain"
)

// Register mounts the search endpoints on the given router
func Register(r httpkit.Router, p domain.Port) {
	h := &handlers{port: p}
	httpkit.PostJSON(r, "/overview", h.overview)

	swaggerkit.Describe(swaggerkit.Op{
		Method:  stdhttp.MethodPost,
		Path:    "/search/overview",
		Summary: "Search-interest rankings, spread and growth",
		Tag:     "Search",
		Body:    domain.OverviewInput{},
		Result:  domain.Overview{},
	})
}

type handlers struct{ port domain.Port }

func (h *handlers) overview(r *stdhttp.Request, in domain.OverviewInput) (any, error) {
	return h.port.Overview(r.Context(), in)
}
