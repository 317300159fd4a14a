package domain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecret_NeverPrintsValue(t *testing.T) {
	s := NewSecret("hunter2")

	assert.Equal(t, "hunter2", s.Expose())
	assert.Equal(t, Redacted, s.String())
	assert.NotContains(t, fmt.Sprintf("%v %+v %#v %s", s, s, s, s), "hunter2")
}

func TestSecret_JSONRedacted(t *testing.T) {
	payload := struct {
		Password Secret `json:"password"`
	}{Password: NewSecret("hunter2")}

	b, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"password":"[REDACTED]"}`, string(b))
}

func TestSecret_SlogRedacted(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, nil))

	l.LogAttrs(context.Background(), slog.LevelInfo, "login", slog.Any("password", NewSecret("hunter2")))

	assert.NotContains(t, buf.String(), "hunter2")
	assert.Contains(t, buf.String(), Redacted)
}
