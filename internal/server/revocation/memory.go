package revocation

import (
	"context"
	"hash/fnv"
	"sync"
	"time"
)

const memoryShards = 16

type memoryShard struct {
	mu      sync.RWMutex
	expires map[string]time.Time
}

// MemoryStore is the process-local revocation backend. Expiry is lazy: a
// stored instant is compared against the clock on every read, matching the
// Redis backend's observable behavior without a timer thread. Expired rows
// are also dropped opportunistically on write to bound memory.
type MemoryStore struct {
	shards [memoryShards]*memoryShard
	ttl    time.Duration
	now    func() time.Time
}

// NewMemoryStore builds an in-memory store whose entries live for ttl.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	s := &MemoryStore{ttl: ttl, now: time.Now}
	for i := range s.shards {
		s.shards[i] = &memoryShard{expires: make(map[string]time.Time)}
	}
	return s
}

func (s *MemoryStore) shard(token string) *memoryShard {
	h := fnv.New32a()
	h.Write([]byte(token))
	return s.shards[h.Sum32()%memoryShards]
}

func (s *MemoryStore) Store(ctx context.Context, token string) error {
	now := s.now()
	sh := s.shard(token)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	for k, exp := range sh.expires {
		if now.After(exp) {
			delete(sh.expires, k)
		}
	}
	sh.expires[token] = now.Add(s.ttl)
	return nil
}

func (s *MemoryStore) Contains(ctx context.Context, token string) (bool, error) {
	sh := s.shard(token)
	sh.mu.RLock()
	exp, ok := sh.expires[token]
	sh.mu.RUnlock()
	return ok && s.now().Before(exp), nil
}

var _ Store = (*MemoryStore)(nil)
