package governance

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ayatech/muslim-companion-api/internal/core/domain"
	"github.com/ayatech/muslim-companion-api/internal/core/port"
	"github.com/ayatech/muslim-companion-api/internal/infra/logger"
	"github.com/ayatech/muslim-companion-api/internal/repository"
)

// LockoutTracker counts failed authentication attempts per account and locks
// the account once the threshold is reached. Tracking is keyed by email, not
// IP: per-IP throttling already covers single-source brute force, while this
// catches distributed attacks converging on one account. Each failure refreshes
// the attempt window, so the window slides with activity.
//
// A store failure fails open everywhere here: security accounting being down
// must never become a denial of service against legitimate users.
type LockoutTracker struct {
	store         port.KeyValueStore
	events        port.EventPublisher
	logger        *zap.Logger
	threshold     int
	attemptWindow time.Duration
	lockDuration  time.Duration
	now           func() time.Time
}

// NewLockoutTracker constructs a lockout tracker over the provided store.
func NewLockoutTracker(store port.KeyValueStore, threshold int, attemptWindow, lockDuration time.Duration, log *zap.Logger) *LockoutTracker {
	if log == nil {
		log = zap.NewNop()
	}
	if threshold <= 0 {
		threshold = 10
	}
	if attemptWindow <= 0 {
		attemptWindow = time.Hour
	}
	if lockDuration <= 0 {
		lockDuration = time.Hour
	}

	return &LockoutTracker{
		store:         store,
		logger:        log,
		threshold:     threshold,
		attemptWindow: attemptWindow,
		lockDuration:  lockDuration,
		now:           time.Now,
	}
}

// WithEventPublisher wires security event publication for lockouts.
func (t *LockoutTracker) WithEventPublisher(events port.EventPublisher) *LockoutTracker {
	t.events = events
	return t
}

// WithClock overrides the internal clock, used in tests.
func (t *LockoutTracker) WithClock(now func() time.Time) *LockoutTracker {
	if now != nil {
		t.now = now
	}
	return t
}

// IsLocked reports whether the account is locked and for how much longer.
// Callers check this BEFORE verifying credentials and must reject locked
// accounts with a distinct condition, without touching the password at all.
func (t *LockoutTracker) IsLocked(ctx context.Context, email string) (bool, time.Duration) {
	key := LockoutKey(email)

	exists, err := t.store.Exists(ctx, key)
	if err != nil {
		t.logger.Warn("lockout check degraded, failing open",
			zap.String("email", logger.MaskEmail(email)),
			zap.Error(err),
		)
		return false, 0
	}
	if !exists {
		return false, 0
	}

	remaining, err := t.store.TTL(ctx, key)
	if err != nil || remaining <= 0 {
		// Marker present but expiry unreadable; report the full duration
		// rather than a misleading zero.
		remaining = t.lockDuration
	}
	return true, remaining
}

// RecordFailure registers a failed credential check for the account. Reaching
// the threshold creates the lockout marker and emits a security event with the
// originating IP.
func (t *LockoutTracker) RecordFailure(ctx context.Context, email, ipAddress string) {
	attemptKey := AttemptKey(email)

	count, err := t.store.Increment(ctx, attemptKey)
	if err != nil {
		t.logger.Warn("lockout accounting degraded, failure not recorded",
			zap.String("email", logger.MaskEmail(email)),
			zap.Error(err),
		)
		return
	}

	// Refreshed on every failure: persistent attackers keep the window open
	// instead of earning a reset.
	if err := t.store.Expire(ctx, attemptKey, t.attemptWindow); err != nil {
		t.logger.Warn("attempt window expire failed", zap.Error(err))
	}

	maskedEmail := logger.MaskEmail(email)
	maskedIP := logger.MaskIP(ipAddress)

	t.logger.Info("failed login attempt recorded",
		zap.String("email", maskedEmail),
		zap.String("ip", maskedIP),
		zap.Int64("attempts", count),
		zap.Int("threshold", t.threshold),
	)

	if int(count) < t.threshold {
		return
	}

	now := t.now().UTC()
	lockedUntil := now.Add(t.lockDuration)

	if err := t.store.Set(ctx, LockoutKey(email), strconv.FormatInt(now.Unix(), 10), t.lockDuration); err != nil {
		t.logger.Warn("lockout marker write failed", zap.String("email", maskedEmail), zap.Error(err))
		return
	}

	t.logger.Warn("account locked after repeated failures",
		zap.String("email", maskedEmail),
		zap.String("ip", maskedIP),
		zap.Int64("attempts", count),
		zap.Time("unlocks_at", lockedUntil),
	)

	if t.events != nil {
		event := domain.AccountLockedEvent{
			EventID:      uuid.NewString(),
			Email:        maskedEmail,
			FailureCount: int(count),
			IPAddress:    maskedIP,
			LockedAt:     now,
			UnlocksAt:    lockedUntil,
		}
		if err := t.events.PublishAccountLocked(ctx, event); err != nil {
			t.logger.Warn("publish lockout event failed", zap.Error(err))
		}
	}
}

// Reset clears both the attempt counter and any lockout marker. Called after a
// successful authentication or an administrative unlock; idempotent when
// neither key exists.
func (t *LockoutTracker) Reset(ctx context.Context, email string) {
	for _, key := range []string{AttemptKey(email), LockoutKey(email)} {
		if err := t.store.Delete(ctx, key); err != nil {
			t.logger.Warn("lockout reset failed",
				zap.String("email", logger.MaskEmail(email)),
				zap.String("key", key),
				zap.Error(err),
			)
		}
	}
}

// AttemptCount returns the current failed attempt count, zero when absent or
// when the store is unavailable.
func (t *LockoutTracker) AttemptCount(ctx context.Context, email string) int {
	raw, err := t.store.Get(ctx, AttemptKey(email))
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			t.logger.Debug("attempt count read failed", zap.Error(err))
		}
		return 0
	}

	count, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return count
}
