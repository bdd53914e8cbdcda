package domain

import "time"

// UserStatus enumerates the lifecycle states of an account.
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusPending  UserStatus = "pending"
	UserStatusDisabled UserStatus = "disabled"
)

// User is the authoritative account record backing authentication.
type User struct {
	ID           string
	Email        string
	DisplayName  string
	PasswordHash string
	Status       UserStatus
	IsAdmin      bool
	CreatedAt    time.Time
}
