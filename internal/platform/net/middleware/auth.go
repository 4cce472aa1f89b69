package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	perr "trendlens/internal/platform/errors"
	pnet "trendlens/internal/platform/net"
)

// APIKeyHeader is checked before the Authorization bearer form
const APIKeyHeader = "X-API-Key"

// APIKey guards mutating and relay routes with a shared key
// An empty key disables the check, which is the local dev default
func APIKey(key string, write func(w http.ResponseWriter, status int, body any)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if key == "" {
			return next
		}
		want := []byte(key)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if subtle.ConstantTimeCompare([]byte(presented(r)), want) != 1 {
				status, body := pnet.Error(perr.Unauthorizedf("missing or invalid api key"), pnet.RequestID(r.Context()))
				write(w, status, body)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func presented(r *http.Request) string {
	if v := r.Header.Get(APIKeyHeader); v != "" {
		return v
	}
	if v, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return strings.TrimSpace(v)
	}
	return ""
}
