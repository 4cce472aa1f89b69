package net_test

import (
	"context"
	"testing"

	"trendlens/internal/platform/logger"
	pnet "trendlens/internal/platform/net"
)

func TestWithRequest(t *testing.T) {
	t.Parallel()
	base := context.Background()

	cases := []struct {
		name, req, session string
	}{
		{"both ids", "req-123", "sess-1"},
		{"request only", "req-only", ""},
		{"session only", "", "sess-only"},
		{"none", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ctx := pnet.WithRequest(base, tc.req, tc.session)
			if got := pnet.RequestID(ctx); got != tc.req {
				t.Fatalf("RequestID = %q want %q", got, tc.req)
			}
			if got := pnet.SessionID(ctx); got != tc.session {
				t.Fatalf("SessionID = %q want %q", got, tc.session)
			}
			if got := logger.RequestID(ctx); got != tc.req {
				t.Fatalf("logger.RequestID = %q want %q", got, tc.req)
			}
		})
	}
}

func TestWithRequest_NoIDsKeepsContext(t *testing.T) {
	t.Parallel()
	base := context.Background()
	if pnet.WithRequest(base, "", "") != base {
		t.Fatal("expected ctx to be unchanged when both ids are empty")
	}
}
