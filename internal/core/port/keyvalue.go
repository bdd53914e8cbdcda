package port

import (
	"context"
	"time"
)

// KeyValueStore abstracts the distributed store backing caching, rate limiting,
// and lockout tracking. Every operation may fail with an error wrapping
// repository.ErrStoreUnavailable; callers are expected to recover locally and
// apply their own degradation policy instead of propagating the failure.
type KeyValueStore interface {
	// Get returns the value for key. A missing key yields repository.ErrNotFound.
	Get(ctx context.Context, key string) (string, error)
	// Set writes value under key. A zero ttl stores the key without expiry.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	// Delete removes a single key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// DeleteByPrefix removes every key sharing the prefix and reports how many
	// were deleted. Cost is proportional to the number of matching keys.
	DeleteByPrefix(ctx context.Context, prefix string) (int, error)
	// Increment atomically increments the counter at key, creating it at 1 when
	// absent, and returns the post-increment value.
	Increment(ctx context.Context, key string) (int64, error)
	// Expire sets or refreshes the TTL on key without touching its value.
	Expire(ctx context.Context, key string, ttl time.Duration) error
	// Exists reports whether key is present.
	Exists(ctx context.Context, key string) (bool, error)
	// TTL returns the remaining lifetime of key. Absent keys and keys without
	// an expiry report zero.
	TTL(ctx context.Context, key string) (time.Duration, error)
}
