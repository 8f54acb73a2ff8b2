package services

import (
	"errors"
	"testing"
	"time"
)

func TestIdentityResolverRoundTrip(t *testing.T) {
	resolver, err := NewIdentityResolver("secret", "fitlover", time.Hour)
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}

	token, err := resolver.Issue(42)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	userID, err := resolver.Resolve(token)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if userID != 42 {
		t.Fatalf("expected user 42, got %d", userID)
	}
}

func TestIdentityResolverRejectsBadTokens(t *testing.T) {
	resolver, _ := NewIdentityResolver("secret", "fitlover", time.Hour)
	other, _ := NewIdentityResolver("another-secret", "fitlover", time.Hour)
	foreignToken, _ := other.Issue(42)

	for name, token := range map[string]string{
		"empty":      "",
		"garbage":    "not-a-jwt",
		"wrong key":  foreignToken,
		"whitespace": "   ",
	} {
		if _, err := resolver.Resolve(token); !errors.Is(err, ErrUnauthenticated) {
			t.Fatalf("%s: expected ErrUnauthenticated, got %v", name, err)
		}
	}
}

func TestNewIdentityResolverRequiresSecret(t *testing.T) {
	if _, err := NewIdentityResolver(" ", "fitlover", time.Hour); err == nil {
		t.Fatal("expected error for empty secret")
	}
	if _, err := NewIdentityResolver("secret", "fitlover", 0); err == nil {
		t.Fatal("expected error for zero ttl")
	}
}
