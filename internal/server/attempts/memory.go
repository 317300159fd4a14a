package attempts

import (
	"context"
	"hash/fnv"
	"sync"
	"time"
)

const memoryShards = 16

type record struct {
	failed int
	last   time.Time
}

type memoryShard struct {
	mu      sync.RWMutex
	records map[string]*record
}

// MemoryTracker keeps failure counters in process memory, sharded by
// identity so attempts on different identities do not serialize. Stale
// records are ignored on read and dropped opportunistically on write; no
// background sweep is needed for correctness.
type MemoryTracker struct {
	shards    [memoryShards]*memoryShard
	threshold int
	window    time.Duration
	now       func() time.Time
}

// NewMemoryTracker builds a tracker that demands a challenge after
// threshold consecutive failures and forgets summaries idle longer than
// window.
func NewMemoryTracker(threshold int, window time.Duration) *MemoryTracker {
	t := &MemoryTracker{threshold: threshold, window: window, now: time.Now}
	for i := range t.shards {
		t.shards[i] = &memoryShard{records: make(map[string]*record)}
	}
	return t
}

func (t *MemoryTracker) shard(identity string) *memoryShard {
	h := fnv.New32a()
	h.Write([]byte(identity))
	return t.shards[h.Sum32()%memoryShards]
}

func (t *MemoryTracker) stale(r *record, now time.Time) bool {
	return now.Sub(r.last) > t.window
}

func (t *MemoryTracker) RecordAttempt(ctx context.Context, identity string, success bool) error {
	now := t.now()
	sh := t.shard(identity)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	for k, r := range sh.records {
		if t.stale(r, now) {
			delete(sh.records, k)
		}
	}

	r, ok := sh.records[identity]
	if !ok {
		r = &record{}
		sh.records[identity] = r
	}
	if success {
		r.failed = 0
	} else {
		r.failed++
	}
	r.last = now
	return nil
}

func (t *MemoryTracker) GetSummary(ctx context.Context, identity string) (Summary, error) {
	now := t.now()
	sh := t.shard(identity)

	// Snapshot the record's fields while holding the lock; the pointer's
	// fields are mutated under the write lock by RecordAttempt.
	sh.mu.RLock()
	r, ok := sh.records[identity]
	var failed int
	var last time.Time
	if ok {
		failed, last = r.failed, r.last
	}
	sh.mu.RUnlock()

	if !ok || now.Sub(last) > t.window {
		return Summary{}, nil
	}
	return Summary{
		FailedCount:       failed,
		LastAttempt:       last,
		RequiresChallenge: failed >= t.threshold,
	}, nil
}

func (t *MemoryTracker) Reset(ctx context.Context, identity string) error {
	now := t.now()
	sh := t.shard(identity)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if r, ok := sh.records[identity]; ok {
		r.failed = 0
		r.last = now
	}
	return nil
}

var _ Tracker = (*MemoryTracker)(nil)
