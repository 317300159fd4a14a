// Package revocation records session tokens that must be rejected even
// though their signature and expiry still verify, e.g. after logout.
// Entries carry a time-to-live no shorter than the token issuance TTL, so
// the set never outlives the tokens it shadows and never grows unbounded.
package revocation

import "context"

// Store is the revocation set contract. Two interchangeable backends exist:
// a process-local set (lost on restart, adequate for one instance) and a
// Redis set keyed by native TTL (shared across instances). Business logic
// is identical against either.
type Store interface {
	// Store records the token; it expires out of the set on its own.
	Store(ctx context.Context, token string) error

	// Contains answers membership.
	Contains(ctx context.Context, token string) (bool, error)
}
