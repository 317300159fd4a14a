package domain

import "log/slog"

// Redacted is what a Secret prints instead of its value.
const Redacted = "[REDACTED]"

// Secret wraps a sensitive string (password, email address) so that the
// default textual and structured representations never reveal it. The raw
// value is reachable only through Expose.
type Secret struct {
	value string
}

// NewSecret wraps the given value.
func NewSecret(value string) Secret {
	return Secret{value: value}
}

// Expose returns the wrapped value. This is the only accessor; call sites
// are easy to audit.
func (s Secret) Expose() string {
	return s.value
}

func (s Secret) String() string {
	return Redacted
}

// GoString keeps %#v output redacted as well.
func (s Secret) GoString() string {
	return "domain.Secret(" + Redacted + ")"
}

// MarshalJSON redacts the value so a Secret can never leak through an
// accidentally serialized struct.
func (s Secret) MarshalJSON() ([]byte, error) {
	return []byte(`"` + Redacted + `"`), nil
}

// LogValue keeps slog output redacted.
func (s Secret) LogValue() slog.Value {
	return slog.StringValue(Redacted)
}
