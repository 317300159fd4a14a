// Package credentials implements the credential store: identity →
// password-hash-and-flags records, with validation built on the bounded
// Argon2id hashing pool. Storage backends are swappable behind Repository.
package credentials

import (
	"context"

	"github.com/mkalvans/authcore/internal/domain"
)

// Repository persists credential records. Implementations must be safe for
// concurrent use and must keep operations on different identities from
// serializing against one another.
type Repository interface {
	// Create inserts a new record. Returns domain.ErrAlreadyExists if the
	// identity is taken.
	Create(ctx context.Context, cred *Credential) error

	// Get returns the record or domain.ErrNotFound.
	Get(ctx context.Context, email domain.Email) (*Credential, error)

	// Delete removes the record or returns domain.ErrNotFound.
	Delete(ctx context.Context, email domain.Email) error
}
