package hashing

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Hasher is the password-hashing capability consumed by the credential
// store.
type Hasher interface {
	Hash(ctx context.Context, password string) (string, error)
	Verify(ctx context.Context, password, encoded string) (bool, error)
}

// Pool wraps an Argon2Hasher with a weighted semaphore so that at most
// `workers` hash computations run at once. A burst of login attempts queues
// here instead of saturating every scheduler thread with memory-hard work;
// waiting respects the caller's context.
type Pool struct {
	hasher *Argon2Hasher
	sem    *semaphore.Weighted
}

// NewPool builds a bounded hashing pool. workers values below one fall back
// to a single slot.
func NewPool(hasher *Argon2Hasher, workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{hasher: hasher, sem: semaphore.NewWeighted(int64(workers))}
}

// Hash computes the Argon2id hash of password on a pool slot.
func (p *Pool) Hash(ctx context.Context, password string) (string, error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer p.sem.Release(1)
	return p.hasher.Hash(password)
}

// Verify checks password against encoded on a pool slot.
func (p *Pool) Verify(ctx context.Context, password, encoded string) (bool, error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return false, err
	}
	defer p.sem.Release(1)
	return p.hasher.Verify(password, encoded), nil
}

var _ Hasher = (*Pool)(nil)
