// Package module wires the chat relay into the API using modkit
package module

import (
	"trendlens/internal/adapters/relay"
	"trendlens/internal/modkit"
	phttp "trendlens/internal/platform/net/http"
	"trendlens/internal/services/api/chat/domain"
	chathttp "trendlens/internal/services/api/chat/http"
	"trendlens/internal/services/api/chat/service"
)

// Ports exposed by the chat module
type Ports struct {
	Port domain.Port
}

// Module implements the chat module
type Module struct {
	modkit.Base
	ports Ports
}

// New constructs the chat module
// client may be injected with modkit.WithPorts, otherwise it is built from RELAY_* config
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("chat"), modkit.WithPrefix("/chat")}, opts...)...)

	client, ok := b.Ports.(*relay.Client)
	if !ok || client == nil {
		client = ClientFromConfig(deps)
	}
	if !client.Enabled() {
		deps.Logger("chat").Warn().Msg("RELAY_URL is not set, chat answers 503")
	}

	m := &Module{ports: Ports{Port: service.New(client)}}
	key := deps.Cfg.MayString("API_KEY", "")
	m.Base = modkit.NewBase(b, func(r phttp.Router) { chathttp.Register(r, m.ports.Port, key) })
	return m
}

// ClientFromConfig builds the relay client, reporting every call to deps.Metrics
func ClientFromConfig(deps modkit.Deps) *relay.Client {
	c := deps.Cfg
	return relay.NewClient(relay.Options{
		URL:        c.MayString("RELAY_URL", ""),
		Timeout:    c.MayDuration("RELAY_TIMEOUT", 0),
		MaxRetries: c.MayInt("RELAY_RETRIES", 0),
		Observe:    deps.Metrics.ObserveRelay,
	})
}

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }
