package utils

import (
	"testing"

	"github.com/xelth-com/matchforgego/internal/models"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("hunter2")
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	if hash == "hunter2" {
		t.Error("Hash must not equal the plain password")
	}

	if !CheckPasswordHash("hunter2", hash) {
		t.Error("Expected matching password to verify")
	}
	if CheckPasswordHash("wrong", hash) {
		t.Error("Expected wrong password to fail verification")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	user := &models.UserAuth{
		ID:       "11111111-2222-3333-4444-555555555555",
		Username: "ops",
		Role:     "operator",
	}

	access, refresh, err := GenerateTokens(user, "test-secret")
	if err != nil {
		t.Fatalf("Failed to generate tokens: %v", err)
	}
	if access == "" || refresh == "" {
		t.Fatal("Expected non-empty tokens")
	}

	claims, err := ValidateToken(access, "test-secret")
	if err != nil {
		t.Fatalf("Failed to validate token: %v", err)
	}
	if claims["username"] != "ops" {
		t.Errorf("Expected username claim ops, got %v", claims["username"])
	}

	if _, err := ValidateToken(access, "other-secret"); err == nil {
		t.Error("Expected validation to fail with the wrong secret")
	}
}
