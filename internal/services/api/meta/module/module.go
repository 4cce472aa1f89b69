// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"time"

	"trendlens/internal/modkit"
	phttp "trendlens/internal/platform/net/http"
	metahttp "trendlens/internal/services/api/meta/http"
	sources "trendlens/internal/services/sources/module"
)

// ServiceName is reported by /health and /version
const ServiceName = "trendlens-api"

// Module implements the modkit.Module interface
type Module struct {
	modkit.Base
	startedAt time.Time
}

// New constructs a meta module mounted at the api root
// sources.Ports passed with modkit.WithPorts adds the sources readiness check
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("meta"), modkit.WithPrefix("")}, opts...)...)

	m := &Module{startedAt: time.Now()}
	d := metahttp.Deps{ServiceName: ServiceName, StartedAt: m.startedAt, Store: deps.Store}
	if src, ok := b.Ports.(sources.Ports); ok {
		d.Sources = src.Port
	}
	m.Base = modkit.NewBase(b, func(r phttp.Router) { metahttp.Register(r, d) })
	return m
}

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return nil }
