package port

import (
	"context"

	"github.com/ayatech/muslim-companion-api/internal/core/domain"
)

// EventPublisher publishes security and content events to the message bus.
type EventPublisher interface {
	PublishAccountLocked(ctx context.Context, event domain.AccountLockedEvent) error
	PublishAbuseThresholdExceeded(ctx context.Context, event domain.AbuseThresholdExceededEvent) error
	PublishContentUpdated(ctx context.Context, event domain.ContentUpdatedEvent) error
}
