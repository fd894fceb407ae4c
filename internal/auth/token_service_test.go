package auth

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestTokenServiceRoundTrip(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)

	token, err := svc.IssueIDToken("u1", "user@example.com")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	claims, err := svc.VerifyIDToken(context.Background(), token)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	if claims.UserID != "u1" {
		t.Fatalf("expected uid u1, got %q", claims.UserID)
	}
	if claims.Subject != "u1" {
		t.Fatalf("expected subject u1, got %q", claims.Subject)
	}
}

func TestTokenServiceRejectsGarbage(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)

	if _, err := svc.VerifyIDToken(context.Background(), "not-a-jwt"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
	if _, err := svc.VerifyIDToken(context.Background(), "  "); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for blank token, got %v", err)
	}
}

func TestTokenServiceRejectsForeignSecret(t *testing.T) {
	issuer := NewTokenService("secret-a", time.Hour)
	verifier := NewTokenService("secret-b", time.Hour)

	token, err := issuer.IssueIDToken("u1", "")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if _, err := verifier.VerifyIDToken(context.Background(), token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestTokenServiceRejectsExpired(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)
	svc.ttl = -time.Minute

	token, err := svc.IssueIDToken("u1", "")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if _, err := svc.VerifyIDToken(context.Background(), token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestTokenServiceRejectsEmptyUID(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)
	if _, err := svc.IssueIDToken("   ", ""); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for empty uid, got %v", err)
	}
}
