// Package module wires the content overviews into the API using modkit
package module

import (
	"trendlens/internal/core/trend"
	"trendlens/internal/modkit"
	phttp "trendlens/internal/platform/net/http"
	"trendlens/internal/services/api/content/domain"
	contenthttp "trendlens/internal/services/api/content/http"
	"trendlens/internal/services/api/content/service"
	sources "trendlens/internal/services/sources/module"
)

// Ports exposed by the content module
type Ports struct {
	Port domain.Port
}

// Module implements the content module
type Module struct {
	modkit.Base
	ports Ports
}

// New constructs the content module, it needs sources.Ports via modkit.WithPorts
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("content"), modkit.WithPrefix("/content")}, opts...)...)
	src, ok := b.Ports.(sources.Ports)
	if !ok || src.Port == nil {
		panic("content: sources ports are required")
	}

	svc := service.New(src.Port, service.Config{
		Floor: deps.Cfg.MayDate("START_FLOOR", trend.DefaultFloor),
		Canon: deps.Canon(),
	}, deps.Metrics)
	m := &Module{ports: Ports{Port: svc}}
	m.Base = modkit.NewBase(b, func(r phttp.Router) { contenthttp.Register(r, m.ports.Port) })
	return m
}

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }
