package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

// MountSwagger serves the swagger UI under prefix when enabled
// the UI reads doc.json from the swag registry entry named instance
func MountSwagger(r Router, prefix, instance string, enabled bool) {
	if !enabled {
		return
	}
	ui := httpSwagger.Handler(
		httpSwagger.InstanceName(instance),
		httpSwagger.URL("doc.json"),
	)
	r.Get(prefix+"/*", func(w http.ResponseWriter, req *http.Request) {
		ui.ServeHTTP(w, req)
	})
}
