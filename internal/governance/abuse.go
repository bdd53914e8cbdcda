package governance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ayatech/muslim-companion-api/internal/core/domain"
	"github.com/ayatech/muslim-companion-api/internal/core/port"
)

// AbuseTracker counts rate-limit rejections per identity over a rolling hour.
// Crossing the threshold raises an alert (elevated log plus event); it never
// blocks traffic itself. Blocking belongs to the rate limiter and the lockout
// tracker.
type AbuseTracker struct {
	store     port.KeyValueStore
	events    port.EventPublisher
	logger    *zap.Logger
	threshold int
	window    time.Duration
	now       func() time.Time
}

// NewAbuseTracker constructs an abuse tracker over the provided store.
func NewAbuseTracker(store port.KeyValueStore, threshold int, window time.Duration, logger *zap.Logger) *AbuseTracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if threshold <= 0 {
		threshold = 10
	}
	if window <= 0 {
		window = time.Hour
	}

	return &AbuseTracker{
		store:     store,
		logger:    logger,
		threshold: threshold,
		window:    window,
		now:       time.Now,
	}
}

// WithEventPublisher wires alert event publication.
func (t *AbuseTracker) WithEventPublisher(events port.EventPublisher) *AbuseTracker {
	t.events = events
	return t
}

// RecordViolation notes one rate-limit rejection for the identity. Best-effort:
// a store failure only produces a debug log, never an error for the caller.
func (t *AbuseTracker) RecordViolation(ctx context.Context, scope Scope, identity string) {
	key := ViolationKey(identity)

	count, err := t.store.Increment(ctx, key)
	if err != nil {
		t.logger.Debug("abuse violation increment failed", zap.String("identity", identity), zap.Error(err))
		return
	}

	if count == 1 {
		if err := t.store.Expire(ctx, key, t.window); err != nil {
			t.logger.Debug("abuse violation expire failed", zap.String("identity", identity), zap.Error(err))
		}
	}

	if int(count) < t.threshold {
		t.logger.Info("rate limit violation",
			zap.String("scope", string(scope)),
			zap.String("identity", identity),
			zap.Int64("count", count),
			zap.Int("threshold", t.threshold),
		)
		return
	}

	t.logger.Error("rate limit abuse threshold exceeded",
		zap.String("scope", string(scope)),
		zap.String("identity", identity),
		zap.Int64("count", count),
		zap.Int("threshold", t.threshold),
	)

	if t.events != nil {
		event := domain.AbuseThresholdExceededEvent{
			EventID:        uuid.NewString(),
			Identity:       identity,
			Scope:          string(scope),
			ViolationCount: int(count),
			Threshold:      t.threshold,
			ObservedAt:     t.now().UTC(),
		}
		if err := t.events.PublishAbuseThresholdExceeded(ctx, event); err != nil {
			t.logger.Warn("publish abuse event failed", zap.Error(err))
		}
	}
}
