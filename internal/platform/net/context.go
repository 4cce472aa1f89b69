// Package net carries request scoped ids and the transport neutral reply envelope
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"

	"trendlens/internal/platform/logger"
)

type ctxKey string

const keySessionID ctxKey = "session_id"

// WithRequest stamps the request id (and a chat session id when known) on ctx
// The id is stored under chi's key so chimw.GetReqID and logger.C agree
func WithRequest(ctx context.Context, reqID, sessionID string) context.Context {
	if reqID != "" {
		ctx = context.WithValue(ctx, chimw.RequestIDKey, reqID)
	}
	if sessionID != "" {
		ctx = context.WithValue(ctx, keySessionID, sessionID)
	}
	return logger.WithRequest(ctx, reqID, sessionID)
}

// RequestID returns the request id on ctx, or ""
func RequestID(ctx context.Context) string {
	if v := chimw.GetReqID(ctx); v != "" {
		return v
	}
	return logger.RequestID(ctx)
}

// SessionID returns the chat session id on ctx, or ""
func SessionID(ctx context.Context) string {
	v, _ := ctx.Value(keySessionID).(string)
	return v
}
