package credentials

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/mkalvans/authcore/internal/domain"
)

const memoryShards = 16

// memoryShard guards one slice of the key space.
type memoryShard struct {
	mu    sync.RWMutex
	creds map[string]Credential
}

// MemoryRepository is an in-memory Repository, adequate for a single
// instance and for tests. Keys are sharded so operations on different
// identities do not contend on one lock. State is lost on restart.
type MemoryRepository struct {
	shards [memoryShards]*memoryShard
}

// NewMemoryRepository constructs an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	r := &MemoryRepository{}
	for i := range r.shards {
		r.shards[i] = &memoryShard{creds: make(map[string]Credential)}
	}
	return r
}

func (r *MemoryRepository) shard(key string) *memoryShard {
	h := fnv.New32a()
	h.Write([]byte(key))
	return r.shards[h.Sum32()%memoryShards]
}

func (r *MemoryRepository) Create(ctx context.Context, cred *Credential) error {
	key := cred.Email.Expose()
	s := r.shard(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.creds[key]; ok {
		return domain.ErrAlreadyExists
	}
	s.creds[key] = *cred
	return nil
}

func (r *MemoryRepository) Get(ctx context.Context, email domain.Email) (*Credential, error) {
	key := email.Expose()
	s := r.shard(key)
	s.mu.RLock()
	defer s.mu.RUnlock()
	cred, ok := s.creds[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &cred, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, email domain.Email) error {
	key := email.Expose()
	s := r.shard(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.creds[key]; !ok {
		return domain.ErrNotFound
	}
	delete(s.creds, key)
	return nil
}

var _ Repository = (*MemoryRepository)(nil)
