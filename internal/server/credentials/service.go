package credentials

import (
	"context"
	"errors"

	"github.com/mkalvans/authcore/internal/domain"
	"github.com/mkalvans/authcore/internal/server/hashing"
)

// Service is the credential store facade: it owns the hashing discipline
// and delegates persistence to the injected Repository.
type Service struct {
	repo   Repository
	hasher hashing.Hasher
}

// NewService wires a repository and a hasher into a credential service.
func NewService(repo Repository, hasher hashing.Hasher) *Service {
	return &Service{repo: repo, hasher: hasher}
}

// Add hashes the password on the bounded pool and persists the record.
// Returns domain.ErrAlreadyExists if the identity is taken.
func (s *Service) Add(ctx context.Context, email domain.Email, password domain.Password, requiresTwoFactor bool) error {
	hash, err := s.hasher.Hash(ctx, password.Expose())
	if err != nil {
		return domain.Unexpected(err)
	}
	return s.repo.Create(ctx, &Credential{
		Email:             email,
		PasswordHash:      hash,
		RequiresTwoFactor: requiresTwoFactor,
	})
}

// Get returns the stored record or domain.ErrNotFound.
func (s *Service) Get(ctx context.Context, email domain.Email) (*Credential, error) {
	return s.repo.Get(ctx, email)
}

// Validate verifies the password against the stored hash. It returns
// domain.ErrNotFound for an unknown identity and
// domain.ErrIncorrectCredentials on a hash mismatch.
func (s *Service) Validate(ctx context.Context, email domain.Email, password domain.Password) (*Credential, error) {
	cred, err := s.repo.Get(ctx, email)
	if err != nil {
		return nil, err
	}
	ok, err := s.hasher.Verify(ctx, password.Expose(), cred.PasswordHash)
	if err != nil {
		return nil, domain.Unexpected(err)
	}
	if !ok {
		return nil, domain.ErrIncorrectCredentials
	}
	return cred, nil
}

// Delete validates the credentials first and removes the record on success.
func (s *Service) Delete(ctx context.Context, email domain.Email, password domain.Password) error {
	if _, err := s.Validate(ctx, email, password); err != nil {
		return err
	}
	err := s.repo.Delete(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		// Row disappeared between validate and delete; the account is gone
		// either way.
		return nil
	}
	return err
}
