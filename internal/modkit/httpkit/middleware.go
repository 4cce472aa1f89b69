package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	phttp "trendlens/internal/platform/net/http"
	"trendlens/internal/platform/net/middleware"
)

// StackOptions tunes the api wide middleware
type StackOptions struct {
	Origins []string
	// Slow marks requests at or over it in the access log
	Slow time.Duration
	// Observe receives one sample per request, usually metrics.ObserveHTTP
	Observe middleware.Observer
	Timeout time.Duration
}

// CommonStack returns the baseline middleware mounted on /api/v1
func CommonStack(o StackOptions) []func(http.Handler) http.Handler {
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	return []func(http.Handler) http.Handler{
		middleware.RequestID(),
		middleware.RealIP(),

		middleware.RecoverJSON,
		middleware.NoCache(),

		middleware.AccessLog(middleware.AccessLogOptions{Slow: o.Slow, Observe: o.Observe}),

		middleware.CORS(middleware.CORSOptions{AllowedOrigins: o.Origins}),
		middleware.Compress(flate.BestSpeed),
		middleware.Timeout(o.Timeout),
	}
}

// APIKey wires the key check to the platform JSON writer
func APIKey(key string) func(http.Handler) http.Handler {
	return middleware.APIKey(key, phttp.JSON)
}
