// Package http provides http transport for the chat relay
package http

import (
	stdhttp "net/http"
	"strings"

	"trendlens/internal/modkit/httpkit"
	"trendlens/internal/modkit/swaggerkit"
	"trendlens/internal/services/api/chat/domain"
)

// Register mounts the chat endpoint behind apiKey
func Register(r httpkit.Router, p domain.Port, apiKey string) {
	h := &handlers{port: p}
	httpkit.Protected(r, apiKey, func(pr httpkit.Router) {
		httpkit.PostJSON(pr, "/", h.ask)
	})

	swaggerkit.Describe(swaggerkit.Op{
		Method:  stdhttp.MethodPost,
		Path:    "/chat",
		Summary: "Ask the analytics relay about a dataset",
		Tag:     "Chat",
		Body:    domain.AskInput{},
		Result:  domain.Reply{},
		Secured: apiKey != "",
	})
}

type handlers struct{ port domain.Port }

// ask falls back to the session header and echoes the session back in it
func (h *handlers) ask(r *stdhttp.Request, in domain.AskInput) (any, error) {
	if in.SessionID == "" {
		in.SessionID = strings.TrimSpace(r.Header.Get(domain.SessionHeader))
	}
	out, err := h.port.Ask(r.Context(), in)
	if err != nil {
		return nil, err
	}
	resp := httpkit.OK(out)
	resp.Header = stdhttp.Header{}
	resp.Header.Set(domain.SessionHeader, out.SessionID)
	return resp, nil
}
