// Package http provides http transport for the content overviews
package http

import (
	stdhttp "net/http"

	"trendlens/internal/core/trend"
	"trendlens/internal/modkit/httpkit"
	"trendlens/internal/modkit/swaggerkit"
	"trendlens/internal/services/api/content/domain"
)

// Register mounts one overview per content source
func Register(r httpkit.Router, p domain.Port) {
	for _, src := range []trend.Source{trend.SourceBrand, trend.SourceConsumer} {
		httpkit.PostJSON(r, "/"+string(src)+"/overview", func(r *stdhttp.Request, in domain.OverviewInput) (any, error) {
			return p.Overview(r.Context(), src, in)
		})
		swaggerkit.Describe(swaggerkit.Op{
			Method:  stdhttp.MethodPost,
			Path:    "/content/" + string(src) + "/overview",
			Summary: "KPIs, rankings and growth of " + string(src) + " posts",
			Tag:     "Content",
			Body:    domain.OverviewInput{},
			Result:  domain.Overview{},
		})
	}
}
