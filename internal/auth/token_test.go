package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/spec-kit/storage-service/internal/domain"
)

func TestTokenManager_GenerateAndParse(t *testing.T) {
	tm := NewTokenManager([]byte("test-secret"), 30*time.Minute, 24*time.Hour)

	token, meta, err := tm.GenerateToken("stats", domain.ScopeWrite, 0)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if meta.Subject != "stats" {
		t.Errorf("expected subject stats, got %q", meta.Subject)
	}
	if got := meta.ExpiresAt.Sub(meta.IssuedAt); got != 30*time.Minute {
		t.Errorf("expected default 30m lifetime, got %v", got)
	}

	claims, err := tm.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.Subject != "stats" {
		t.Errorf("expected subject stats, got %q", claims.Subject)
	}
	if claims.Scope != domain.ScopeWrite {
		t.Errorf("expected write scope, got %q", claims.Scope)
	}
}

func TestTokenManager_TTLOverrideCapped(t *testing.T) {
	tm := NewTokenManager([]byte("test-secret"), 30*time.Minute, time.Hour)

	_, meta, err := tm.GenerateToken("stats", domain.ScopeRead, 48*time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if got := meta.ExpiresAt.Sub(meta.IssuedAt); got != time.Hour {
		t.Errorf("expected lifetime capped at 1h, got %v", got)
	}

	_, meta, err = tm.GenerateToken("stats", domain.ScopeRead, 5*time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if got := meta.ExpiresAt.Sub(meta.IssuedAt); got != 5*time.Minute {
		t.Errorf("expected requested 5m lifetime, got %v", got)
	}
}

func TestTokenManager_ExpiredToken(t *testing.T) {
	tm := NewTokenManager([]byte("test-secret"), 30*time.Minute, 24*time.Hour)

	token, _, err := tm.GenerateToken("stats", domain.ScopeWrite, time.Nanosecond)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	if _, err := tm.ParseToken(token); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid for expired token, got %v", err)
	}
}

func TestTokenManager_WrongSecret(t *testing.T) {
	issuer := NewTokenManager([]byte("secret-a"), 30*time.Minute, 24*time.Hour)
	verifier := NewTokenManager([]byte("secret-b"), 30*time.Minute, 24*time.Hour)

	token, _, err := issuer.GenerateToken("stats", domain.ScopeWrite, 0)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := verifier.ParseToken(token); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid for wrong secret, got %v", err)
	}
}

func TestTokenManager_MalformedToken(t *testing.T) {
	tm := NewTokenManager([]byte("test-secret"), 30*time.Minute, 24*time.Hour)

	for _, token := range []string{"", "not-a-token", "a.b"} {
		if _, err := tm.ParseToken(token); !errors.Is(err, ErrTokenMalformed) {
			t.Errorf("token %q: expected ErrTokenMalformed, got %v", token, err)
		}
	}
}
