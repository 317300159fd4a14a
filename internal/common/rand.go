// Package common provides small helpers shared across the service:
// fixed-width random numeric codes and secret wiping.
package common

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// MakeRandDigits generates a random decimal string of exactly n digits,
// left-padded with zeros. Used for one-time second-factor codes.
func MakeRandDigits(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("invalid code length: %d", n)
	}
	limit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
	v, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", err
	}
	s := v.String()
	if len(s) < n {
		s = strings.Repeat("0", n-len(s)) + s
	}
	return s, nil
}

// WipeByteArray overwrites the contents of the provided byte slice with
// zeros, removing sensitive data such as passwords from memory after use.
// A nil slice is a no-op.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
