package port

import (
	"context"

	"github.com/ayatech/muslim-companion-api/internal/core/domain"
)

// UserRepository looks up account records for authentication.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}
