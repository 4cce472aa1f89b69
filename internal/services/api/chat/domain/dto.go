// Package domain holds DTOs for the chat relay endpoint
package domain

import "context"

// SessionHeader carries the conversation id on requests and replies
const SessionHeader = "X-Session-ID"

// AskInput is one user turn
type AskInput struct {
	Message   string `json:"message" validate:"required,max=4000" example:"Which luxury themes grew fastest in 2024?"`
	Dataset   string `json:"dataset" validate:"required,oneof=search brand consumer" example:"brand"`
	SessionID string `json:"session_id,omitempty" validate:"omitempty,uuid" example:"6f1c7a52-8f0e-4c9b-9d3e-1f2a3b4c5d6e"`
}

// Image is a chart rendered by the relay, as a data URL the browser can show
type Image struct {
	MIME    string `json:"mime" example:"image/png"`
	DataURL string `json:"data_url"`
}

// Document is a pdf report with its first page text
type Document struct {
	Pages   int    `json:"pages" example:"2"`
	Size    int    `json:"size" example:"18231"`
	Preview string `json:"preview"`
	DataURL string `json:"data_url"`
}

// Reply is the relay's answer
type Reply struct {
	SessionID string    `json:"session_id" example:"6f1c7a52-8f0e-4c9b-9d3e-1f2a3b4c5d6e"`
	Message   string    `json:"message"`
	Image     *Image    `json:"image,omitempty"`
	Document  *Document `json:"document,omitempty"`
}

// Port is the chat surface
type Port interface {
	Ask(ctx context.Context, in AskInput) (Reply, error)
}
