package credentials

import "github.com/mkalvans/authcore/internal/domain"

// Credential is the stored record for one identity. PasswordHash is the
// Argon2id PHC string; the plaintext password never reaches this struct.
// Records are never mutated in place: delete removes the whole row.
type Credential struct {
	Email             domain.Email
	PasswordHash      string
	RequiresTwoFactor bool
}
