package twofa

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/mkalvans/authcore/internal/domain"
)

// DefaultKeyPrefix namespaces challenge entries in a shared Redis.
const DefaultKeyPrefix = "two_fa_code:"

type redisChallenge struct {
	AttemptID string `json:"attempt_id"`
	Code      string `json:"code"`
}

// RedisStore is the distributed challenge backend. Redis owns expiry via
// the key TTL; SET replacing the value gives the supersede semantics for
// free.
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

func (s *RedisStore) key(email domain.Email) string {
	return s.keyPrefix + email.Expose()
}

func (s *RedisStore) AddCode(ctx context.Context, email domain.Email, ch Challenge) error {
	payload, err := json.Marshal(redisChallenge{AttemptID: ch.AttemptID, Code: ch.Code})
	if err != nil {
		return domain.Unexpected(fmt.Errorf("marshal challenge: %w", err))
	}
	if err := s.client.Set(ctx, s.key(email), payload, s.ttl).Err(); err != nil {
		return domain.Unexpected(fmt.Errorf("redis set failed: %w", err))
	}
	return nil
}

func (s *RedisStore) GetCode(ctx context.Context, email domain.Email) (Challenge, error) {
	raw, err := s.client.Get(ctx, s.key(email)).Result()
	if errors.Is(err, redis.Nil) {
		return Challenge{}, domain.ErrNotFound
	}
	if err != nil {
		return Challenge{}, domain.Unexpected(fmt.Errorf("redis get failed: %w", err))
	}
	var rc redisChallenge
	if err := json.Unmarshal([]byte(raw), &rc); err != nil {
		return Challenge{}, domain.Unexpected(fmt.Errorf("unmarshal challenge: %w", err))
	}
	return Challenge{AttemptID: rc.AttemptID, Code: rc.Code}, nil
}

func (s *RedisStore) RemoveCode(ctx context.Context, email domain.Email) error {
	if err := s.client.Del(ctx, s.key(email)).Err(); err != nil {
		return domain.Unexpected(fmt.Errorf("redis del failed: %w", err))
	}
	return nil
}

var _ Store = (*RedisStore)(nil)
