package domain

import (
	"fmt"
	"strings"
)

// Email is a validated, normalized login identity. It is the primary key
// for credentials, attempt summaries and second-factor challenges, and is
// never constructed without passing ParseEmail.
type Email struct {
	secret Secret
}

// ParseEmail validates and normalizes an email-shaped identity. The address
// is lowercased before validation so lookups are case-insensitive.
func ParseEmail(raw string) (Email, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if !isValidEmail(s) {
		return Email{}, fmt.Errorf("%w: not a valid email", ErrValidation)
	}
	return Email{secret: NewSecret(s)}, nil
}

// Expose returns the normalized address for use as a store key or token
// subject. Printing an Email through fmt yields a redacted placeholder.
func (e Email) Expose() string {
	return e.secret.Expose()
}

func (e Email) String() string {
	return e.secret.String()
}

// IsZero reports whether the Email was never parsed.
func (e Email) IsZero() bool {
	return e.secret.Expose() == ""
}

// isValidEmail checks the shape of an address: exactly one '@', a non-empty
// local part, and a domain of dot-separated non-empty labels with at least
// one dot. Deliverability is not a concern here; the format gate only keeps
// garbage out of the stores.
func isValidEmail(s string) bool {
	at := strings.IndexByte(s, '@')
	if at <= 0 || at != strings.LastIndexByte(s, '@') {
		return false
	}
	local, dom := s[:at], s[at+1:]
	if local == "" || dom == "" || strings.ContainsAny(s, " \t\r\n") {
		return false
	}
	labels := strings.Split(dom, ".")
	if len(labels) < 2 {
		return false
	}
	for _, l := range labels {
		if l == "" {
			return false
		}
	}
	return true
}
