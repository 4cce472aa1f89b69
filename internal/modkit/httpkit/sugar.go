package httpkit

import (
	"net/http"

	phttp "trendlens/internal/platform/net/http"
)

// GetJSON mounts a bodiless JSON handler under GET
func GetJSON(r Router, path string, h func(*http.Request) (any, error)) {
	phttp.GetJSON(r, path, h)
}

// PostJSON mounts a JSON handler under POST, an empty body binds the zero T
func PostJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	phttp.PostJSON(r, path, h)
}

// PostAction mounts a bodiless command under POST
func PostAction(r Router, path string, h func(*http.Request) (any, error)) {
	phttp.PostAction(r, path, h)
}
