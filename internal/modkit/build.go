package modkit

import (
	"net/http"
	"strings"

	phttp "trendlens/internal/platform/net/http"
	pstrings "trendlens/internal/platform/strings"
)

// Built is the resolved option set
type Built struct {
	Name     string
	Prefix   string
	Mw       []func(http.Handler) http.Handler
	Ports    any
	Register func(phttp.Router)
}

// Build applies opts in order, later options win
func Build(opts ...Option) Built {
	var c buildCfg
	for _, o := range opts {
		o(&c)
	}
	if c.register == nil {
		c.register = func(phttp.Router) {}
	}
	return Built{
		Name:     c.name,
		Prefix:   c.prefix,
		Mw:       append([]func(http.Handler) http.Handler(nil), c.mw...),
		Ports:    c.ports,
		Register: c.register,
	}
}

// Base is embedded by modules for the name, prefix and mounting boilerplate
type Base struct {
	name   string
	prefix string
	mw     []func(http.Handler) http.Handler
	routes func(phttp.Router)
}

// NewBase resolves b and pairs it with the module's own route registration
// extra routes from WithRegister run after own
func NewBase(b Built, own func(phttp.Router)) Base {
	extra := b.Register
	return Base{
		name:   b.Name,
		prefix: b.Prefix,
		mw:     b.Mw,
		routes: func(r phttp.Router) {
			own(r)
			extra(r)
		},
	}
}

// Name returns the module name, panicking when unset
func (b Base) Name() string {
	if b.name == "" {
		panic("modkit: module name is required")
	}
	return b.name
}

// Prefix returns the normalized mount prefix, blank mounts at the parent root
func (b Base) Prefix() string {
	if strings.Trim(b.prefix, " /") == "" {
		return ""
	}
	return pstrings.MustPrefix(b.prefix)
}

// MountRoutes mounts the module under its prefix with its middleware
func (b Base) MountRoutes(r phttp.Router) {
	mount := func(rr phttp.Router) {
		if len(b.mw) > 0 {
			rr.Use(b.mw...)
		}
		b.routes(rr)
	}
	if p := b.Prefix(); p != "" {
		r.Route(p, mount)
		return
	}
	r.Group(mount)
}
