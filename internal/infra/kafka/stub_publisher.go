package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ayatech/muslim-companion-api/internal/core/domain"
	"github.com/ayatech/muslim-companion-api/internal/core/port"
)

// StubPublisher logs events instead of sending them to Kafka. Useful for development environments.
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a development-friendly event publisher.
func NewStubPublisher(logger *zap.Logger) *StubPublisher {
	return &StubPublisher{logger: logger}
}

func (p *StubPublisher) logEvent(eventType, subject string, at time.Time, payload any) {
	if at.IsZero() {
		at = time.Now().UTC()
	}

	p.logger.Info("Stub event published",
		zap.String("event_type", eventType),
		zap.String("subject", subject),
		zap.Time("timestamp", at.UTC()),
		zap.Any("payload", payload),
	)
}

// PublishAccountLocked logs security.account.locked events.
func (p *StubPublisher) PublishAccountLocked(_ context.Context, event domain.AccountLockedEvent) error {
	payload := map[string]any{
		"email":         event.Email,
		"failure_count": event.FailureCount,
		"ip_address":    event.IPAddress,
		"locked_at":     event.LockedAt,
		"unlocks_at":    event.UnlocksAt,
		"metadata":      event.Metadata,
	}
	p.logEvent("security.account.locked", event.Email, event.LockedAt, payload)
	return nil
}

// PublishAbuseThresholdExceeded logs security.abuse.threshold events.
func (p *StubPublisher) PublishAbuseThresholdExceeded(_ context.Context, event domain.AbuseThresholdExceededEvent) error {
	payload := map[string]any{
		"identity":        event.Identity,
		"scope":           event.Scope,
		"violation_count": event.ViolationCount,
		"threshold":       event.Threshold,
		"observed_at":     event.ObservedAt,
		"metadata":        event.Metadata,
	}
	p.logEvent("security.abuse.threshold", event.Identity, event.ObservedAt, payload)
	return nil
}

// PublishContentUpdated logs content.updated events.
func (p *StubPublisher) PublishContentUpdated(_ context.Context, event domain.ContentUpdatedEvent) error {
	payload := map[string]any{
		"resource_type": event.ResourceType,
		"resource_id":   event.ResourceID,
		"updated_by":    event.UpdatedBy,
		"updated_at":    event.UpdatedAt,
		"metadata":      event.Metadata,
	}
	p.logEvent("content.updated", event.ResourceID, event.UpdatedAt, payload)
	return nil
}

var _ port.EventPublisher = (*StubPublisher)(nil)
