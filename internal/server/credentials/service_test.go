package credentials

import (
	"context"
	"testing"

	"github.com/mkalvans/authcore/internal/domain"
	"github.com/mkalvans/authcore/internal/server/hashing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cheap Argon2 parameters so tests stay fast.
func newTestService() *Service {
	hasher := hashing.NewArgon2Hasher(hashing.Params{
		Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32,
	})
	return NewService(NewMemoryRepository(), hashing.NewPool(hasher, 2))
}

func mustPassword(t *testing.T, s string) domain.Password {
	t.Helper()
	p, err := domain.ParsePassword(s)
	require.NoError(t, err)
	return p
}

func TestService_AddThenValidate(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	email := mustEmail(t, "a@x.com")
	password := mustPassword(t, "Aa1!aaaa")

	require.NoError(t, svc.Add(ctx, email, password, false))

	cred, err := svc.Validate(ctx, email, password)
	require.NoError(t, err)
	assert.False(t, cred.RequiresTwoFactor)

	// Hash, never the plaintext, is what got stored.
	stored, err := svc.Get(ctx, email)
	require.NoError(t, err)
	assert.NotContains(t, stored.PasswordHash, "Aa1!aaaa")

	_, err = svc.Validate(ctx, email, mustPassword(t, "Aa1!aaaax"))
	assert.ErrorIs(t, err, domain.ErrIncorrectCredentials)
}

func TestService_AddDuplicate(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	email := mustEmail(t, "a@x.com")

	require.NoError(t, svc.Add(ctx, email, mustPassword(t, "Aa1!aaaa"), false))
	err := svc.Add(ctx, email, mustPassword(t, "Bb2@bbbb"), true)
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestService_ValidateUnknownIdentity(t *testing.T) {
	svc := newTestService()

	_, err := svc.Validate(context.Background(), mustEmail(t, "ghost@x.com"), mustPassword(t, "Aa1!aaaa"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestService_Delete(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	email := mustEmail(t, "a@x.com")
	password := mustPassword(t, "Aa1!aaaa")

	require.NoError(t, svc.Add(ctx, email, password, false))

	// Wrong password must not delete anything.
	err := svc.Delete(ctx, email, mustPassword(t, "Wrong1!aa"))
	assert.ErrorIs(t, err, domain.ErrIncorrectCredentials)
	_, err = svc.Get(ctx, email)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, email, password))
	_, err = svc.Get(ctx, email)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
