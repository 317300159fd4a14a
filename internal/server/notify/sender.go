// Package notify delivers out-of-band messages such as one-time codes. The
// orchestrator depends only on the Sender interface; wiring decides whether
// delivery is real or logged.
package notify

import (
	"context"

	"github.com/mkalvans/authcore/internal/domain"
	"github.com/mkalvans/authcore/internal/logging"
)

// Sender delivers a message to an identity over a side channel.
type Sender interface {
	Send(ctx context.Context, recipient domain.Email, subject, body string) error
}

// LogSender writes deliveries to the service log instead of sending them.
// It is the default in deployments without a mail provider. The body may
// carry a one-time code, so it is never logged.
type LogSender struct {
	logger logging.Logger
}

func NewLogSender(logger logging.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, recipient domain.Email, subject, body string) error {
	s.logger.Info(ctx, "notification dispatched", "recipient", recipient, "subject", subject)
	return nil
}

var _ Sender = (*LogSender)(nil)
