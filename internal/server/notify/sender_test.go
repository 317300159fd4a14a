package notify

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkalvans/authcore/internal/domain"
	"github.com/mkalvans/authcore/internal/logging"
)

func TestLogSender_NeverLogsBody(t *testing.T) {
	var buf bytes.Buffer
	sender := NewLogSender(logging.NewSlogLogger(slog.New(slog.NewTextHandler(&buf, nil))))

	email, err := domain.ParseEmail("user@example.com")
	require.NoError(t, err)

	err = sender.Send(context.Background(), email, "Your verification code", "Your verification code is: 123456")
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "notification dispatched")
	assert.Contains(t, out, "Your verification code")
	assert.NotContains(t, out, "123456", "the one-time code must stay out of the log")
	assert.NotContains(t, out, "user@example.com", "the recipient address is redacted")
}
