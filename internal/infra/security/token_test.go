package security

import (
	"errors"
	"testing"
	"time"

	"github.com/ayatech/muslim-companion-api/internal/infra/config"
)

func newTestManager(t *testing.T) *TokenManager {
	t.Helper()
	manager, err := NewTokenManager(config.JWTSettings{
		Secret:         "test-secret-at-least-32-bytes-long!",
		AccessTokenTTL: 15 * time.Minute,
	}, "muslim-companion-api")
	if err != nil {
		t.Fatalf("NewTokenManager returned error: %v", err)
	}
	return manager
}

func TestTokenRoundTrip(t *testing.T) {
	manager := newTestManager(t)

	signed, expiresAt, err := manager.Issue("user-123", true)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Fatalf("expiry %v should be in the future", expiresAt)
	}

	claims, err := manager.Validate(signed)
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if claims.Subject != "user-123" {
		t.Fatalf("unexpected subject %q", claims.Subject)
	}
	if !claims.IsAdmin {
		t.Fatal("expected admin claim to survive the round trip")
	}
}

func TestTokenRejectsTampering(t *testing.T) {
	manager := newTestManager(t)

	signed, _, err := manager.Issue("user-123", false)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if _, err := manager.Validate(signed + "x"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestTokenRejectsExpired(t *testing.T) {
	manager := newTestManager(t)

	issued := time.Now().Add(-time.Hour)
	manager.now = func() time.Time { return issued }
	signed, _, err := manager.Issue("user-123", false)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	manager.now = time.Now
	if _, err := manager.Validate(signed); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected expired token rejection, got %v", err)
	}
}

func TestTokenRequiresSecret(t *testing.T) {
	if _, err := NewTokenManager(config.JWTSettings{}, "muslim-companion-api"); err == nil {
		t.Fatal("expected error for empty secret")
	}
}
