// Package module wires the raw sources into the API using modkit
package module

import (
	"fmt"

	"trendlens/internal/modkit"
	"trendlens/internal/modkit/repokit"
	phttp "trendlens/internal/platform/net/http"
	"trendlens/internal/services/sources/domain"
	sourceshttp "trendlens/internal/services/sources/http"
	"trendlens/internal/services/sources/repo"
	"trendlens/internal/services/sources/service"
)

// Ports exposed by the sources module
type Ports struct {
	Port domain.Port
}

// Module implements the sources module
type Module struct {
	modkit.Base
	ports Ports
}

// New constructs the sources module from deps.Cfg
// a pg or ch backend without its store is a wiring mistake and panics
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	o := FromConfig(deps.Cfg)
	loader, err := Loader(o, deps)
	if err != nil {
		panic(err)
	}
	return NewWith(deps, loader, o, opts...)
}

// NewWith builds the module over an explicit loader
func NewWith(deps modkit.Deps, loader domain.Loader, o Options, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("sources"), modkit.WithPrefix("/sources")}, opts...)...)

	svc := service.New(loader, service.Config{TTL: o.TTL, Canon: deps.Canon()}, deps.Metrics)
	m := &Module{ports: Ports{Port: svc}}
	m.Base = modkit.NewBase(b, func(r phttp.Router) {
		sourceshttp.Register(r, m.ports.Port, o.APIKey)
	})

	deps.Logger("sources").Info().
		Str("backend", loader.Backend()).
		Dur("ttl", o.TTL).
		Msg("sources module ready")
	return m
}

// Loader picks the raw loader for o.Backend
func Loader(o Options, deps modkit.Deps) (domain.Loader, error) {
	switch o.Backend {
	case "", BackendCSV:
		return repo.NewCSV(o.Paths), nil
	case BackendPG, BackendCH:
		tables, err := o.Tables.Validate()
		if err != nil {
			return nil, err
		}
		if o.Backend == BackendPG {
			if q := repokit.PG(deps.Store); q != nil {
				return repo.NewPG(tables).Bind(q), nil
			}
			return nil, fmt.Errorf("sources: backend pg needs CORE_PG_URL")
		}
		if c := repokit.CH(deps.Store); c != nil {
			return repo.NewCH(tables).Bind(c), nil
		}
		return nil, fmt.Errorf("sources: backend ch needs CORE_CH_URL")
	}
	return nil, fmt.Errorf("sources: unknown backend %q", o.Backend)
}

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }
