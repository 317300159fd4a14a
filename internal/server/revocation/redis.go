package revocation

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/mkalvans/authcore/internal/domain"
)

// DefaultKeyPrefix namespaces revocation entries in a shared Redis.
const DefaultKeyPrefix = "banned_token:"

// RedisStore is the distributed revocation backend. Expiry is handled by
// Redis itself, so entries vanish without any sweeper on our side.
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisStore builds a store writing entries with the given TTL under
// DefaultKeyPrefix.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return NewRedisStoreWithPrefix(client, ttl, DefaultKeyPrefix)
}

// NewRedisStoreWithPrefix allows an extra prefix, used by tests to isolate
// key spaces.
func NewRedisStoreWithPrefix(client *redis.Client, ttl time.Duration, prefix string) *RedisStore {
	return &RedisStore{client: client, keyPrefix: prefix, ttl: ttl}
}

func (s *RedisStore) key(token string) string {
	return s.keyPrefix + token
}

func (s *RedisStore) Store(ctx context.Context, token string) error {
	if err := s.client.Set(ctx, s.key(token), true, s.ttl).Err(); err != nil {
		return domain.Unexpected(fmt.Errorf("redis set failed: %w", err))
	}
	return nil
}

func (s *RedisStore) Contains(ctx context.Context, token string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(token)).Result()
	if err != nil {
		return false, domain.Unexpected(fmt.Errorf("redis exists failed: %w", err))
	}
	return n > 0, nil
}

var _ Store = (*RedisStore)(nil)
