// Package attempts tracks consecutive login failures per identity and
// derives the human-verification requirement from them. The tracker is an
// escalation heuristic, not a security boundary: the credential check stays
// authoritative, so a lost race between reading a summary and a concurrent
// attempt is tolerable.
package attempts

import (
	"context"
	"time"
)

// Summary is the per-identity failure state. A summary older than the
// configured inactivity window is reported as all-zero without needing an
// explicit delete.
type Summary struct {
	FailedCount       int
	LastAttempt       time.Time
	RequiresChallenge bool
}

// Tracker is the failed-login tracking contract.
type Tracker interface {
	// RecordAttempt increments the counter and stamps the time on failure,
	// resets the counter to zero and stamps the time on success.
	RecordAttempt(ctx context.Context, identity string, success bool) error

	// GetSummary returns the current summary, or an all-zero summary when
	// none exists or the stored one has gone stale.
	GetSummary(ctx context.Context, identity string) (Summary, error)

	// Reset explicitly clears the counter, e.g. after a successful
	// second-factor verification.
	Reset(ctx context.Context, identity string) error
}
