// Package service forwards chat turns to the relay
package service

import (
	"context"
	"encoding/base64"
	"time"

	"trendlens/internal/adapters/relay"
	"trendlens/internal/core/trend"
	perr "trendlens/internal/platform/errors"
	"trendlens/internal/platform/logger"
	"trendlens/internal/services/api/chat/domain"
)

// Asker is the relay client seam
type Asker interface {
	Ask(ctx context.Context, q relay.Question) (relay.Answer, error)
}

// Service implements domain.Port
type Service struct {
	relay Asker
	log   logger.Logger
	now   func() time.Time
}

var _ domain.Port = (*Service)(nil)

// New wraps a relay client
func New(a Asker) *Service {
	return &Service{relay: a, log: *logger.Named("chat"), now: time.Now}
}

// Ask implements domain.Port
func (s *Service) Ask(ctx context.Context, in domain.AskInput) (domain.Reply, error) {
	src, err := trend.ParseSource(in.Dataset)
	if err != nil {
		return domain.Reply{}, perr.WithField(err, "dataset")
	}
	start := s.now()
	ans, err := s.relay.Ask(ctx, relay.Question{Message: in.Message, Dataset: src, SessionID: in.SessionID})
	if err != nil {
		return domain.Reply{}, perr.WithOp(err, "chat.ask")
	}
	s.log.Debug().
		Str("session", ans.SessionID).
		Str("dataset", string(src)).
		Bool("image", ans.Image != nil).
		Bool("document", ans.Document != nil).
		Dur("elapsed", s.now().Sub(start)).
		Msg("chat turn")

	out := domain.Reply{SessionID: ans.SessionID, Message: ans.Message}
	if ans.Image != nil {
		out.Image = &domain.Image{MIME: ans.Image.MIME, DataURL: dataURL(ans.Image.MIME, ans.Image.Data)}
	}
	if d := ans.Document; d != nil {
		out.Document = &domain.Document{Pages: d.Pages, Size: d.Size, Preview: d.Preview, DataURL: dataURL("application/pdf", d.Data)}
	}
	return out, nil
}

func dataURL(mime string, b []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(b)
}
