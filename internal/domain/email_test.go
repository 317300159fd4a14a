package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEmail_Valid(t *testing.T) {
	tests := []string{
		"test@example.com",
		"user@mail.example.com",
		"user+tag@example.com",
	}
	for _, raw := range tests {
		e, err := ParseEmail(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, raw, e.Expose())
	}
}

func TestParseEmail_Normalizes(t *testing.T) {
	e, err := ParseEmail("  Alice@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", e.Expose())
}

func TestParseEmail_Invalid(t *testing.T) {
	tests := []string{
		"",
		"   ",
		"testexample.com",
		"test@@example.com",
		"@example.com",
		"test@",
		"test@example..com",
		"test@example",
		"a b@example.com",
	}
	for _, raw := range tests {
		_, err := ParseEmail(raw)
		require.Error(t, err, "expected %q to be rejected", raw)
		assert.True(t, errors.Is(err, ErrValidation), raw)
	}
}

func TestEmail_StringIsRedacted(t *testing.T) {
	e, err := ParseEmail("test@example.com")
	require.NoError(t, err)
	assert.Equal(t, Redacted, fmt.Sprint(e))
	assert.NotContains(t, fmt.Sprintf("%v %+v", e, e), "example.com")
}
