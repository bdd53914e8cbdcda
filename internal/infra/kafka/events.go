package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ayatech/muslim-companion-api/internal/core/domain"
	"github.com/ayatech/muslim-companion-api/internal/core/port"
	"github.com/ayatech/muslim-companion-api/internal/infra/config"
)

const schemaVersion = "1.0"

// EventPublisher implements port.EventPublisher using Kafka.
type EventPublisher struct {
	producer *Producer
	logger   *zap.Logger
	appCfg   config.AppSettings
}

// NewEventPublisher constructs a Kafka-backed event publisher.
func NewEventPublisher(producer *Producer, appCfg config.AppSettings, logger *zap.Logger) *EventPublisher {
	return &EventPublisher{producer: producer, appCfg: appCfg, logger: logger}
}

type envelopeMetadata map[string]string

type eventEnvelope struct {
	EventID   string           `json:"event_id"`
	EventType string           `json:"event_type"`
	Subject   string           `json:"subject,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
	Version   string           `json:"version"`
	Payload   any              `json:"payload"`
	Metadata  envelopeMetadata `json:"metadata,omitempty"`
}

func (p *EventPublisher) publish(ctx context.Context, eventID, eventType, subject string, ts time.Time, payload any) error {
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	id := eventID
	if id == "" {
		id = uuid.NewString()
	}

	metadata := envelopeMetadata{
		"service":     p.appCfg.Name,
		"environment": p.appCfg.Env,
	}

	envelope := eventEnvelope{
		EventID:   id,
		EventType: eventType,
		Subject:   subject,
		Timestamp: ts.UTC(),
		Version:   schemaVersion,
		Payload:   payload,
		Metadata:  metadata,
	}

	bytes, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.producer.TopicName(eventType),
		Value: sarama.ByteEncoder(bytes),
	}

	select {
	case p.producer.Producer().Input() <- message:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PublishAccountLocked publishes security.account.locked events.
func (p *EventPublisher) PublishAccountLocked(ctx context.Context, event domain.AccountLockedEvent) error {
	payload := struct {
		Email        string         `json:"email"`
		FailureCount int            `json:"failure_count"`
		IPAddress    string         `json:"ip_address"`
		LockedAt     time.Time      `json:"locked_at"`
		UnlocksAt    time.Time      `json:"unlocks_at"`
		Metadata     map[string]any `json:"metadata,omitempty"`
	}{
		Email:        event.Email,
		FailureCount: event.FailureCount,
		IPAddress:    event.IPAddress,
		LockedAt:     event.LockedAt.UTC(),
		UnlocksAt:    event.UnlocksAt.UTC(),
		Metadata:     event.Metadata,
	}

	return p.publish(ctx, event.EventID, "security.account.locked", event.Email, event.LockedAt, payload)
}

// PublishAbuseThresholdExceeded publishes security.abuse.threshold events.
func (p *EventPublisher) PublishAbuseThresholdExceeded(ctx context.Context, event domain.AbuseThresholdExceededEvent) error {
	payload := struct {
		Identity       string         `json:"identity"`
		Scope          string         `json:"scope"`
		ViolationCount int            `json:"violation_count"`
		Threshold      int            `json:"threshold"`
		ObservedAt     time.Time      `json:"observed_at"`
		Metadata       map[string]any `json:"metadata,omitempty"`
	}{
		Identity:       event.Identity,
		Scope:          event.Scope,
		ViolationCount: event.ViolationCount,
		Threshold:      event.Threshold,
		ObservedAt:     event.ObservedAt.UTC(),
		Metadata:       event.Metadata,
	}

	return p.publish(ctx, event.EventID, "security.abuse.threshold", event.Identity, event.ObservedAt, payload)
}

// PublishContentUpdated publishes content.updated events.
func (p *EventPublisher) PublishContentUpdated(ctx context.Context, event domain.ContentUpdatedEvent) error {
	payload := struct {
		ResourceType string         `json:"resource_type"`
		ResourceID   string         `json:"resource_id"`
		UpdatedBy    string         `json:"updated_by"`
		UpdatedAt    time.Time      `json:"updated_at"`
		Metadata     map[string]any `json:"metadata,omitempty"`
	}{
		ResourceType: event.ResourceType,
		ResourceID:   event.ResourceID,
		UpdatedBy:    event.UpdatedBy,
		UpdatedAt:    event.UpdatedAt.UTC(),
		Metadata:     event.Metadata,
	}

	return p.publish(ctx, event.EventID, "content.updated", event.ResourceID, event.UpdatedAt, payload)
}

var _ port.EventPublisher = (*EventPublisher)(nil)
