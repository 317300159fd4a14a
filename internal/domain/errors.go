// Package domain holds the validated value objects (email, password,
// secrets) and the sentinel errors shared by every component of the
// authentication core. Callers match errors with errors.Is.
package domain

import "errors"

var (
	// Validation errors, raised before any store access.
	ErrValidation   = errors.New("validation error")
	ErrMissingToken = errors.New("missing token")

	// Repository-level errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Credential errors. Deliberately a single value for wrong password,
	// wrong second-factor pair and wrong verifier token, so the caller
	// cannot tell which check failed.
	ErrIncorrectCredentials = errors.New("incorrect credentials")

	// Token errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenRevoked = errors.New("token revoked")

	// ErrUnexpected marks backend/storage failures. The underlying cause
	// is wrapped for diagnostics but never shown verbatim to callers.
	ErrUnexpected = errors.New("unexpected error")
)

// Unexpected chains a backend failure onto ErrUnexpected, preserving the
// cause for errors.Is/errors.Unwrap while keeping the external surface
// generic.
func Unexpected(err error) error {
	if err == nil {
		return nil
	}
	return errors.Join(ErrUnexpected, err)
}
