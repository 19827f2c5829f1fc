package email

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// NoopSender logs emails instead of sending them. Used in development
// when no provider API key is configured.
type NoopSender struct{}

func NewNoopSender() *NoopSender {
	return &NoopSender{}
}

func (s *NoopSender) Send(ctx context.Context, req SendRequest) (SendResult, error) {
	slog.Info("email_noop",
		"to", req.To,
		"subject", req.Subject,
		"body_len", len(req.HTML),
	)
	return SendResult{MessageID: "noop-" + uuid.NewString(), SentAt: time.Now().UTC()}, nil
}
