package domain

import (
	"fmt"
	"unicode"
)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 8

// Password is a validated plaintext password in transit between the caller
// and the hashing layer. It is never persisted; only its Argon2id hash is.
type Password struct {
	secret Secret
}

// ParsePassword validates password strength: at least MinPasswordLength
// characters with at least one uppercase letter, one lowercase letter, one
// digit and one special character.
func ParsePassword(raw string) (Password, error) {
	if len(raw) < MinPasswordLength {
		return Password{}, fmt.Errorf("%w: password must be at least %d characters long", ErrValidation, MinPasswordLength)
	}
	var upper, lower, digit, special bool
	for _, r := range raw {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		default:
			special = true
		}
	}
	switch {
	case !upper:
		return Password{}, fmt.Errorf("%w: password must contain an uppercase letter", ErrValidation)
	case !lower:
		return Password{}, fmt.Errorf("%w: password must contain a lowercase letter", ErrValidation)
	case !digit:
		return Password{}, fmt.Errorf("%w: password must contain a digit", ErrValidation)
	case !special:
		return Password{}, fmt.Errorf("%w: password must contain a special character", ErrValidation)
	}
	return Password{secret: NewSecret(raw)}, nil
}

// Expose returns the plaintext for hashing or verification.
func (p Password) Expose() string {
	return p.secret.Expose()
}

func (p Password) String() string {
	return p.secret.String()
}
