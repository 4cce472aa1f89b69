package swaggerkit

import (
	"sync"

	"github.com/swaggo/swag"

	phttp "trendlens/internal/platform/net/http"
)

// InstanceName is the swag registry key the UI reads doc.json from
const InstanceName = "trendlens"

var registerOnce sync.Once

// Mount registers the default document and serves the UI under /swagger
// r is the versioned api router so the UI lives at /api/v1/swagger/
func Mount(r phttp.Router, enabled bool) {
	if !enabled {
		return
	}
	registerOnce.Do(func() { swag.Register(InstanceName, Default) })
	phttp.MountSwagger(r, "/swagger", InstanceName, true)
}
