// Package hashing implements the password-hashing discipline of the
// credential store: Argon2id with PHC-formatted encoded hashes, executed on
// a bounded worker pool so CPU-bound hashing never starves the request
// scheduler.
package hashing

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Params holds the Argon2id cost parameters.
type Params struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultParams returns OWASP-recommended defaults for Argon2id, tuned to
// cost tens of milliseconds of dedicated CPU time.
func DefaultParams() Params {
	return Params{
		Memory:      64 * 1024, // 64 MiB
		Iterations:  3,
		Parallelism: 2,
		SaltLength:  16,
		KeyLength:   32,
	}
}

// Argon2Hasher hashes and verifies passwords using Argon2id.
type Argon2Hasher struct {
	params Params
}

// NewArgon2Hasher constructs a hasher with the given cost parameters.
func NewArgon2Hasher(params Params) *Argon2Hasher {
	return &Argon2Hasher{params: params}
}

// Hash derives an Argon2id hash with a fresh random salt and returns it in
// PHC string format: $argon2id$v=19$m=…,t=…,p=…$salt$hash.
func (h *Argon2Hasher) Hash(password string) (string, error) {
	salt := make([]byte, h.params.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	hash := argon2.IDKey(
		[]byte(password),
		salt,
		h.params.Iterations,
		h.params.Memory,
		h.params.Parallelism,
		h.params.KeyLength,
	)
	b64Salt := base64.RawStdEncoding.EncodeToString(salt)
	b64Hash := base64.RawStdEncoding.EncodeToString(hash)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, h.params.Memory, h.params.Iterations, h.params.Parallelism, b64Salt, b64Hash), nil
}

// Verify recomputes the hash of password with the parameters and salt
// embedded in encoded and compares in constant time.
func (h *Argon2Hasher) Verify(password, encoded string) bool {
	params, salt, hash, err := decodeHash(encoded)
	if err != nil {
		return false
	}
	candidate := argon2.IDKey(
		[]byte(password),
		salt,
		params.Iterations,
		params.Memory,
		params.Parallelism,
		params.KeyLength,
	)
	return subtle.ConstantTimeCompare(hash, candidate) == 1
}

func decodeHash(encoded string) (*Params, []byte, []byte, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return nil, nil, nil, errors.New("invalid argon2 hash format")
	}
	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return nil, nil, nil, errors.New("unsupported argon2 version")
	}
	params := &Params{}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.Memory, &params.Iterations, &params.Parallelism); err != nil {
		return nil, nil, nil, errors.New("invalid argon2 parameters")
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, nil, nil, err
	}
	hash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return nil, nil, nil, err
	}
	params.SaltLength = uint32(len(salt))
	params.KeyLength = uint32(len(hash))
	return params, salt, hash, nil
}
