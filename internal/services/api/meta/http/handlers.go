// Package http provides meta endpoints
package http

import (
	"context"
	"net/http"
	"time"

	"trendlens/internal/core/version"
	"trendlens/internal/modkit/httpkit"
	"trendlens/internal/modkit/repokit"
	"trendlens/internal/modkit/swaggerkit"
	"trendlens/internal/platform/store"
	sources "trendlens/internal/services/sources/domain"
)

const readyTimeout = 2 * time.Second

// Deps are the handler dependencies, Store and Sources may be nil
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	Store       *store.Store
	Sources     sources.Port
}

type handlers struct {
	deps Deps
	now  func() time.Time
}

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	h := &handlers{deps: d, now: time.Now}

	httpkit.GetJSON(r, "/health", h.health)
	httpkit.GetJSON(r, "/ready", h.ready)
	httpkit.GetJSON(r, "/version", h.version)

	swaggerkit.Describe(
		swaggerkit.Op{Method: http.MethodGet, Path: "/health", Summary: "Liveness", Tag: "Meta", Result: HealthResponse{}},
		swaggerkit.Op{Method: http.MethodGet, Path: "/ready", Summary: "Readiness with dependency checks", Tag: "Meta", Result: ReadyResponse{}},
		swaggerkit.Op{Method: http.MethodGet, Path: "/version", Summary: "Build and version info", Tag: "Meta", Result: version.BuildInfo{}},
	)
}

// HealthResponse is the health payload
type HealthResponse struct {
	OK      bool   `json:"ok" example:"true"`
	Service string `json:"service" example:"trendlens-api"`
	Started string `json:"started" example:"2025-09-03T13:00:00Z"`
	Uptime  int64  `json:"uptime" example:"300"`
}

// ReadyCheck describes a single dependency check
type ReadyCheck struct {
	Name   string `json:"name" example:"pg"`
	Status string `json:"status" example:"ok"` // ok fail skipped
	Error  string `json:"error,omitempty" example:"dial tcp 127.0.0.1:5432 connect: connection refused"`
}

// ReadyResponse summarizes readiness
type ReadyResponse struct {
	Status string       `json:"status" example:"ok"` // ok fail
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now" example:"2025-09-03T13:05:00Z"`
}

func (h *handlers) health(_ *http.Request) (any, error) {
	return HealthResponse{
		OK:      true,
		Service: h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Uptime:  int64(h.now().Sub(h.deps.StartedAt) / time.Second),
	}, nil
}

// ready answers 503 with the checks when any dependency fails
func (h *handlers) ready(r *http.Request) (any, error) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	var pg, ch repokit.Pinger
	if st := h.deps.Store; st != nil {
		if p, ok := st.PG.(repokit.Pinger); ok {
			pg = p
		}
		if st.CH != nil {
			ch = st.CH
		}
	}
	checks := []ReadyCheck{
		check("pg", pg != nil, func() error { return repokit.Ping(ctx, "pg", pg, readyTimeout) }),
		check("ch", ch != nil, func() error { return repokit.Ping(ctx, "ch", ch, readyTimeout) }),
		check("sources", h.deps.Sources != nil, func() error {
			_, err := h.deps.Sources.Status(ctx)
			return err
		}),
	}

	out := ReadyResponse{Status: "ok", Checks: checks, Now: h.now().UTC().Format(time.RFC3339)}
	for _, c := range checks {
		if c.Status == "fail" {
			out.Status = "fail"
			return httpkit.Response{Status: http.StatusServiceUnavailable, Body: out}, nil
		}
	}
	return out, nil
}

func (h *handlers) version(_ *http.Request) (any, error) {
	return version.Info(h.deps.ServiceName), nil
}

func check(name string, configured bool, fn func() error) ReadyCheck {
	if !configured {
		return ReadyCheck{Name: name, Status: "skipped"}
	}
	if err := fn(); err != nil {
		return ReadyCheck{Name: name, Status: "fail", Error: err.Error()}
	}
	return ReadyCheck{Name: name, Status: "ok"}
}
