package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ayatech/muslim-companion-api/internal/core/domain"
	"github.com/ayatech/muslim-companion-api/internal/core/port"
	"github.com/ayatech/muslim-companion-api/internal/governance"
	"github.com/ayatech/muslim-companion-api/internal/infra/logger"
	"github.com/ayatech/muslim-companion-api/internal/infra/security"
	"github.com/ayatech/muslim-companion-api/internal/repository"
)

var (
	// ErrInvalidCredentials indicates the provided email or password are incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInactiveAccount indicates the account is disabled or pending verification.
	ErrInactiveAccount = errors.New("account is not active")
	// ErrAccountLocked indicates the account is temporarily locked after repeated failures.
	ErrAccountLocked = errors.New("account temporarily locked")
)

// LoginResult carries the issued token and the authenticated user.
type LoginResult struct {
	AccessToken string
	ExpiresAt   time.Time
	User        domain.User
}

// AuthService coordinates the login flow with lockout enforcement.
type AuthService struct {
	users   port.UserRepository
	lockout *governance.LockoutTracker
	tokens  *security.TokenManager
	logger  *zap.Logger
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(users port.UserRepository, lockout *governance.LockoutTracker, tokens *security.TokenManager, log *zap.Logger) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{
		users:   users,
		lockout: lockout,
		tokens:  tokens,
		logger:  log,
	}
}

// Login validates credentials and issues an access token. The lockout check
// runs before any password work so a locked account is rejected even when the
// submitted password is correct, and the response stays distinguishable from a
// plain credential failure.
func (s *AuthService) Login(ctx context.Context, email, password, ipAddress string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if password == "" {
		return nil, fmt.Errorf("password is required")
	}

	if locked, remaining := s.lockout.IsLocked(ctx, email); locked {
		s.logger.Info("login rejected, account locked",
			zap.String("email", logger.MaskEmail(email)),
			zap.Duration("remaining", remaining),
		)
		return nil, fmt.Errorf("%w: retry in %s", ErrAccountLocked, remaining.Round(time.Second))
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Unknown accounts still count as failures so enumeration attempts
			// trip the same threshold.
			s.lockout.RecordFailure(ctx, email, ipAddress)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		s.lockout.RecordFailure(ctx, email, ipAddress)
		return nil, ErrInvalidCredentials
	}

	if user.Status != domain.UserStatusActive {
		return nil, ErrInactiveAccount
	}

	s.lockout.Reset(ctx, email)

	token, expiresAt, err := s.tokens.Issue(user.ID, user.IsAdmin)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	sanitized := *user
	sanitized.PasswordHash = ""

	return &LoginResult{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		User:        sanitized,
	}, nil
}

// RetryAfter extracts the remaining lock duration for a locked account, zero
// when the account is not locked.
func (s *AuthService) RetryAfter(ctx context.Context, email string) time.Duration {
	_, remaining := s.lockout.IsLocked(ctx, email)
	return remaining
}

// ClearLockout removes lockout state for an account, used by administrators.
func (s *AuthService) ClearLockout(ctx context.Context, email string) {
	s.lockout.Reset(ctx, email)
	s.logger.Info("lockout cleared", zap.String("email", logger.MaskEmail(email)))
}
