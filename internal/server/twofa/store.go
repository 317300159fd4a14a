// Package twofa stores the one-time second-factor challenge issued during a
// deferred login. At most one unconsumed challenge exists per identity: a
// new challenge always supersedes the previous one.
package twofa

import (
	"context"

	"github.com/google/uuid"
	"github.com/mkalvans/authcore/internal/common"
	"github.com/mkalvans/authcore/internal/domain"
)

// CodeLength is the width of the one-time decimal code.
const CodeLength = 6

// Challenge is the pair a caller must echo back to complete a deferred
// login. Both fields take part in verification.
type Challenge struct {
	AttemptID string
	Code      string
}

// Store holds pending challenges keyed by identity.
type Store interface {
	// AddCode stores the challenge for the identity, replacing any prior
	// one regardless of its remaining lifetime.
	AddCode(ctx context.Context, email domain.Email, ch Challenge) error

	// GetCode returns the pending challenge, or domain.ErrNotFound when
	// none exists or the stored one has expired.
	GetCode(ctx context.Context, email domain.Email) (Challenge, error)

	// RemoveCode deletes the pending challenge. Removing a missing
	// challenge is not an error.
	RemoveCode(ctx context.Context, email domain.Email) error
}

// NewChallenge generates a fresh attempt id and one-time code.
func NewChallenge() (Challenge, error) {
	code, err := common.MakeRandDigits(CodeLength)
	if err != nil {
		return Challenge{}, domain.Unexpected(err)
	}
	return Challenge{AttemptID: uuid.NewString(), Code: code}, nil
}
