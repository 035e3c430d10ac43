package auth

import (
	"errors"
	"testing"
	"time"
)

const testSecret = "test-secret-at-least-32-chars-long-okay"

func TestTokenManager_IssueAndVerify(t *testing.T) {
	m := NewTokenManager(testSecret, time.Hour)

	token, err := m.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	userID, err := m.Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if userID != "user-123" {
		t.Errorf("expected user-123, got %q", userID)
	}
}

func TestTokenManager_DefaultTTL(t *testing.T) {
	m := NewTokenManager(testSecret, 0)
	if m.ttl != TokenTTL {
		t.Errorf("expected default ttl %v, got %v", TokenTTL, m.ttl)
	}
}

func TestTokenManager_Expired(t *testing.T) {
	m := NewTokenManager(testSecret, -time.Minute)

	token, err := m.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := m.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestTokenManager_WrongSecret(t *testing.T) {
	token, err := NewTokenManager(testSecret, time.Hour).Issue("user-123")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	other := NewTokenManager("another-secret-also-32-chars-long!!", time.Hour)
	if _, err := other.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
}

func TestTokenManager_Authenticate(t *testing.T) {
	m := NewTokenManager(testSecret, time.Hour)

	t.Run("empty credential is missing", func(t *testing.T) {
		if _, err := m.Authenticate(""); !errors.Is(err, ErrMissingToken) {
			t.Errorf("expected ErrMissingToken, got %v", err)
		}
	})

	t.Run("garbage credential is invalid", func(t *testing.T) {
		if _, err := m.Authenticate("not.a.token"); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("valid credential yields user id", func(t *testing.T) {
		token, err := m.Issue("user-456")
		if err != nil {
			t.Fatalf("Issue failed: %v", err)
		}
		userID, err := m.Authenticate(token)
		if err != nil {
			t.Fatalf("Authenticate failed: %v", err)
		}
		if userID != "user-456" {
			t.Errorf("expected user-456, got %q", userID)
		}
	})
}
