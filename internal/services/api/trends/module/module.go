// Package module wires trend trajectories into the API using modkit
package module

import (
	"trendlens/internal/core/trend"
	"trendlens/internal/modkit"
	phttp "trendlens/internal/platform/net/http"
	"trendlens/internal/services/api/trends/domain"
	trendshttp "trendlens/internal/services/api/trends/http"
	"trendlens/internal/services/api/trends/service"
	sources "trendlens/internal/services/sources/module"
)

// Ports exposed by the trends module
type Ports struct {
	Port domain.Port
}

// Module implements the trends module
type Module struct {
	modkit.Base
	ports Ports
}

// New constructs the trends module, it needs sources.Ports via modkit.WithPorts
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("trends"), modkit.WithPrefix("/trends")}, opts...)...)
	src, ok := b.Ports.(sources.Ports)
	if !ok || src.Port == nil {
		panic("trends: sources ports are required")
	}

	c := deps.Cfg
	svc := service.New(src.Port, service.Config{
		Floor:      c.MayDate("START_FLOOR", trend.DefaultFloor),
		TopN:       c.MayInt("TOP_N", trend.DefaultTopN),
		TopVolumeN: c.MayInt("TOP_VOLUME_N", trend.DefaultTopVolumeN),
		Canon:      deps.Canon(),
	}, deps.Metrics)

	m := &Module{ports: Ports{Port: svc}}
	m.Base = modkit.NewBase(b, func(r phttp.Router) { trendshttp.Register(r, m.ports.Port) })
	return m
}

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }
