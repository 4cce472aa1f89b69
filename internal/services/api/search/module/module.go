// Package module wires the search-interest overview into the API using modkit
package module

import (
	"trendlens/internal/modkit"
	phttp "trendlens/internal/platform/net/http"
	"trendlens/internal/services/api/search/domain"
	searchhttp "trendlens/internal/services/api/search/http"
	"trendlens/internal/services/api/search/service"
	sources "trendlens/internal/services/sources/module"
)

// Ports exposed by the search module
type Ports struct {
	Port domain.Port
}

// Module implements the search module
type Module struct {
	modkit.Base
	ports Ports
}

// New constructs the search module, it needs sources.Ports via modkit.WithPorts
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("search"), modkit.WithPrefix("/search")}, opts...)...)
	src, ok := b.Ports.(sources.Ports)
	if !ok || src.Port == nil {
		panic("search: sources ports are required")
	}

	m := &Module{ports: Ports{Port: service.New(src.Port, deps.Canon(), deps.Metrics)}}
	m.Base = modkit.NewBase(b, func(r phttp.Router) { searchhttp.Register(r, m.ports.Port) })
	return m
}

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }
