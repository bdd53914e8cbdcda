package governance

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ayatech/muslim-companion-api/internal/core/port"
)

// Scope partitions rate-limit counters by actor class.
type Scope string

const (
	// ScopeAnon limits anonymous clients, identified by IP address.
	ScopeAnon Scope = "anon"
	// ScopeUser limits authenticated users, identified by user id.
	ScopeUser Scope = "user"
)

// Decision is the outcome of a rate-limit check, including the quota metadata
// every response must carry so clients can self-throttle.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter time.Duration
	// Bypassed reports that the identity is whitelisted and no counter was
	// touched; callers skip quota headers for these.
	Bypassed bool
}

// RateLimiterConfig carries the per-scope fixed-window limits.
type RateLimiterConfig struct {
	Window    time.Duration
	AnonLimit int
	UserLimit int
	Whitelist []string
}

// RateLimiter enforces fixed-window counters per (scope, identity). The
// counter's expiry IS the window boundary: the increment that creates the key
// sets the TTL, later increments in the same window leave it untouched. When
// the store is unavailable the limiter fails open; blocking all traffic during
// an infrastructure outage would be worse than briefly not limiting at all.
type RateLimiter struct {
	store     port.KeyValueStore
	abuse     *AbuseTracker
	logger    *zap.Logger
	cfg       RateLimiterConfig
	whitelist map[string]struct{}
	now       func() time.Time
}

// NewRateLimiter constructs a rate limiter over the provided store.
func NewRateLimiter(store port.KeyValueStore, cfg RateLimiterConfig, logger *zap.Logger) *RateLimiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}

	whitelist := make(map[string]struct{}, len(cfg.Whitelist))
	for _, identity := range cfg.Whitelist {
		whitelist[identity] = struct{}{}
	}

	return &RateLimiter{
		store:     store,
		logger:    logger,
		cfg:       cfg,
		whitelist: whitelist,
		now:       time.Now,
	}
}

// WithAbuseTracker wires violation tracking for rejected requests.
func (rl *RateLimiter) WithAbuseTracker(abuse *AbuseTracker) *RateLimiter {
	rl.abuse = abuse
	return rl
}

// WithClock overrides the internal clock, used in tests.
func (rl *RateLimiter) WithClock(now func() time.Time) *RateLimiter {
	if now != nil {
		rl.now = now
	}
	return rl
}

// CheckAndIncrement counts this request against the identity's current window
// and decides whether it may proceed. The request that reaches exactly the
// limit is still allowed; the next one in the same window is the first
// rejection.
func (rl *RateLimiter) CheckAndIncrement(ctx context.Context, scope Scope, identity string) Decision {
	now := rl.now()
	limit := rl.limitFor(scope)

	if _, ok := rl.whitelist[identity]; ok {
		// Whitelisted identities never touch a counter, so their absence from
		// the store doubles as an audit trail of the bypass.
		return Decision{Allowed: true, Limit: limit, Remaining: limit, ResetAt: now.Add(rl.cfg.Window), Bypassed: true}
	}

	key := ThrottleKey(scope, identity)

	count, err := rl.store.Increment(ctx, key)
	if err != nil {
		rl.logger.Warn("rate limiter degraded, failing open",
			zap.String("scope", string(scope)),
			zap.String("identity", identity),
			zap.Error(err),
		)
		return Decision{Allowed: true, Limit: limit, Remaining: limit, ResetAt: now.Add(rl.cfg.Window)}
	}

	if count == 1 {
		// Only the request that created the key sets the TTL; a racing
		// request that lost the creation sees count > 1 and leaves the
		// window boundary alone.
		if err := rl.store.Expire(ctx, key, rl.cfg.Window); err != nil {
			rl.logger.Warn("rate limit window expire failed", zap.String("key", key), zap.Error(err))
		}
	}

	resetAt := now.Add(rl.cfg.Window)
	if remaining, err := rl.store.TTL(ctx, key); err == nil && remaining > 0 {
		resetAt = now.Add(remaining)
	}

	if int(count) > limit {
		decision := Decision{
			Allowed:    false,
			Limit:      limit,
			Remaining:  0,
			ResetAt:    resetAt,
			RetryAfter: resetAt.Sub(now),
		}
		if decision.RetryAfter < 0 {
			decision.RetryAfter = 0
		}

		if rl.abuse != nil {
			rl.abuse.RecordViolation(ctx, scope, identity)
		}

		return decision
	}

	remaining := limit - int(count)
	if remaining < 0 {
		remaining = 0
	}

	return Decision{Allowed: true, Limit: limit, Remaining: remaining, ResetAt: resetAt}
}

func (rl *RateLimiter) limitFor(scope Scope) int {
	switch scope {
	case ScopeUser:
		if rl.cfg.UserLimit > 0 {
			return rl.cfg.UserLimit
		}
		return 100
	default:
		if rl.cfg.AnonLimit > 0 {
			return rl.cfg.AnonLimit
		}
		return 20
	}
}
