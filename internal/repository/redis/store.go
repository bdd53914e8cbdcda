package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	red "github.com/redis/go-redis/v9"

	"github.com/ayatech/muslim-companion-api/internal/core/port"
	"github.com/ayatech/muslim-companion-api/internal/repository"
)

const defaultKeyPrefix = "mca"

// Store implements port.KeyValueStore on top of Redis. All keys are namespaced
// under a configurable prefix so that several deployments can share a server.
// Network failures and timeouts surface as errors wrapping
// repository.ErrStoreUnavailable so callers can apply their degradation policy.
type Store struct {
	client *red.Client
	prefix string
}

// NewStore constructs a Store using the provided Redis client and key prefix.
func NewStore(client *red.Client, keyPrefix string) *Store {
	prefix := strings.TrimSpace(keyPrefix)
	if prefix == "" {
		prefix = defaultKeyPrefix
	}

	return &Store{client: client, prefix: prefix}
}

// Get returns the value stored at key, or repository.ErrNotFound when absent.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, red.Nil) {
		return "", repository.ErrNotFound
	}
	if err != nil {
		return "", unavailable("get", err)
	}
	return val, nil
}

// Set writes value under key with the provided TTL. A zero TTL stores the key
// without expiry.
func (s *Store) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.key(key), value, ttl).Err(); err != nil {
		return unavailable("set", err)
	}
	return nil
}

// Delete removes the key. Deleting an absent key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return unavailable("del", err)
	}
	return nil
}

// DeleteByPrefix removes every key under the provided prefix and returns how
// many were deleted. It scans in batches to avoid blocking the server.
func (s *Store) DeleteByPrefix(ctx context.Context, prefix string) (int, error) {
	pattern := s.key(prefix) + "*"

	deleted := 0
	iter := s.client.Scan(ctx, 0, pattern, 100).Iterator()

	batch := make([]string, 0, 100)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := s.client.Del(ctx, batch...).Result()
		if err != nil {
			return unavailable("del", err)
		}
		deleted += int(n)
		batch = batch[:0]
		return nil
	}

	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == 100 {
			if err := flush(); err != nil {
				return deleted, err
			}
		}
	}
	if err := iter.Err(); err != nil {
		return deleted, unavailable("scan", err)
	}
	if err := flush(); err != nil {
		return deleted, err
	}

	return deleted, nil
}

// Increment atomically increments the counter at key, creating it at 1 when
// absent, and returns the post-increment value.
func (s *Store) Increment(ctx context.Context, key string) (int64, error) {
	count, err := s.client.Incr(ctx, s.key(key)).Result()
	if err != nil {
		return 0, unavailable("incr", err)
	}
	return count, nil
}

// Expire sets or refreshes the TTL on key without touching its value.
func (s *Store) Expire(ctx context.Context, key string, ttl time.Duration) error {
	if err := s.client.Expire(ctx, s.key(key), ttl).Err(); err != nil {
		return unavailable("expire", err)
	}
	return nil
}

// Exists reports whether key is present.
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(key)).Result()
	if err != nil {
		return false, unavailable("exists", err)
	}
	return n > 0, nil
}

// TTL returns the remaining lifetime of key, or zero when the key is absent or
// has no expiry.
func (s *Store) TTL(ctx context.Context, key string) (time.Duration, error) {
	ttl, err := s.client.TTL(ctx, s.key(key)).Result()
	if err != nil {
		return 0, unavailable("ttl", err)
	}
	if ttl < 0 {
		return 0, nil
	}
	return ttl, nil
}

func (s *Store) key(key string) string {
	return fmt.Sprintf("%s:%s", s.prefix, key)
}

func unavailable(op string, err error) error {
	return fmt.Errorf("redis %s: %w: %w", op, repository.ErrStoreUnavailable, err)
}

var _ port.KeyValueStore = (*Store)(nil)
