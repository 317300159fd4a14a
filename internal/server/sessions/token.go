// Package sessions mints and validates the signed, self-contained session
// tokens issued after a successful authentication. A token encodes the
// identity and an absolute expiry and is verifiable offline with the
// service's symmetric secret. Structural validity alone does not authorize
// a request: the orchestrator consults the revocation store first.
package sessions

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mkalvans/authcore/internal/domain"
)

// Claims are the session token claims. Subject carries the identity, the
// registered expiry claim carries the absolute expiry instant.
type Claims struct {
	jwt.RegisteredClaims
}

// Identity returns the subject as a parsed Email.
func (c *Claims) Identity() (domain.Email, error) {
	return domain.ParseEmail(c.Subject)
}

// Service signs and verifies session tokens with an HS256 symmetric secret
// shared only within the service's trust boundary.
type Service struct {
	secret []byte
}

// NewService constructs a token service around the given secret.
func NewService(secret string) *Service {
	return &Service{secret: []byte(secret)}
}

// Mint produces a signed token for the identity, expiring after ttl. Its
// external representation is three dot-separated segments.
func (s *Service) Mint(email domain.Email, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email.Expose(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", domain.Unexpected(err)
	}
	return signed, nil
}

// Validate verifies the signature and expiry and returns the decoded
// claims. Malformed, re-signed and expired tokens all map to
// domain.ErrInvalidToken.
func (s *Service) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, domain.ErrInvalidToken
	}

	return claims, nil
}
