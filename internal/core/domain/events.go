package domain

import "time"

// AccountLockedEvent is emitted when repeated authentication failures trip the
// lockout threshold for an account.
type AccountLockedEvent struct {
	EventID      string
	Email        string
	FailureCount int
	IPAddress    string
	LockedAt     time.Time
	UnlocksAt    time.Time
	Metadata     map[string]any
}

// AbuseThresholdExceededEvent is emitted when an identity accumulates enough
// rate-limit rejections within an hour to indicate abusive traffic. Purely
// observational; it never blocks by itself.
type AbuseThresholdExceededEvent struct {
	EventID        string
	Identity       string
	Scope          string
	ViolationCount int
	Threshold      int
	ObservedAt     time.Time
	Metadata       map[string]any
}

// ContentUpdatedEvent is emitted when authoritative content is mutated, after
// the corresponding cache entries have been invalidated.
type ContentUpdatedEvent struct {
	EventID      string
	ResourceType string
	ResourceID   string
	UpdatedBy    string
	UpdatedAt    time.Time
	Metadata     map[string]any
}
