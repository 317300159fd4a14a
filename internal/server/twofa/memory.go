package twofa

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"github.com/mkalvans/authcore/internal/domain"
)

const memoryShards = 16

type memoryEntry struct {
	ch      Challenge
	expires time.Time
}

type memoryShard struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

// MemoryStore is the process-local challenge backend. Expiry is lazy: an
// expired entry reads as absent, and writes drop expired rows in the same
// shard to bound memory.
type MemoryStore struct {
	shards [memoryShards]*memoryShard
	ttl    time.Duration
	now    func() time.Time
}

// NewMemoryStore builds an in-memory store whose challenges live for ttl.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	s := &MemoryStore{ttl: ttl, now: time.Now}
	for i := range s.shards {
		s.shards[i] = &memoryShard{entries: make(map[string]memoryEntry)}
	}
	return s
}

func (s *MemoryStore) shard(key string) *memoryShard {
	h := fnv.New32a()
	h.Write([]byte(key))
	return s.shards[h.Sum32()%memoryShards]
}

func (s *MemoryStore) AddCode(ctx context.Context, email domain.Email, ch Challenge) error {
	now := s.now()
	key := email.Expose()
	sh := s.shard(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	for k, e := range sh.entries {
		if now.After(e.expires) {
			delete(sh.entries, k)
		}
	}
	sh.entries[key] = memoryEntry{ch: ch, expires: now.Add(s.ttl)}
	return nil
}

func (s *MemoryStore) GetCode(ctx context.Context, email domain.Email) (Challenge, error) {
	key := email.Expose()
	sh := s.shard(key)
	sh.mu.RLock()
	e, ok := sh.entries[key]
	sh.mu.RUnlock()
	if !ok || s.now().After(e.expires) {
		return Challenge{}, domain.ErrNotFound
	}
	return e.ch, nil
}

func (s *MemoryStore) RemoveCode(ctx context.Context, email domain.Email) error {
	key := email.Expose()
	sh := s.shard(key)
	sh.mu.Lock()
	delete(sh.entries, key)
	sh.mu.Unlock()
	return nil
}

var _ Store = (*MemoryStore)(nil)
