// Package module defines the module contract and the port registry used during bootstrap
package module

import phttp "trendlens/internal/platform/net/http"

// Module is what the API mounts
// it lives apart from modkit so a module can export its own ports type without import knots
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}
