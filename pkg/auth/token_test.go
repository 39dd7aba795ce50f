package auth

import (
	"testing"
	"time"

	"github.com/HYPERLOOPFIVER/lakes/pkg/config"
)

func devJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "lakes",
		ExpirationMinutes: 60,
	}
}

func TestMintAndParseDevToken(t *testing.T) {
	cfg := devJWTConfig()
	now := time.Now()

	token, err := MintDevToken(cfg, now, TokenPayload{
		UserID: "user-123",
		Email:  "shopper@example.com",
		Name:   "Shopper",
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	claims, err := ParseDevToken(cfg, token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != "user-123" {
		t.Fatalf("unexpected user id %q", claims.UserID)
	}
	if claims.Email != "shopper@example.com" {
		t.Fatalf("unexpected email %q", claims.Email)
	}
	if claims.Subject != "user-123" {
		t.Fatalf("subject should mirror user id, got %q", claims.Subject)
	}
	if claims.ID == "" {
		t.Fatal("expected generated jti")
	}
}

func TestMintDevTokenRequiresUser(t *testing.T) {
	if _, err := MintDevToken(devJWTConfig(), time.Now(), TokenPayload{}); err == nil {
		t.Fatal("expected error for missing user id")
	}
}

func TestParseDevTokenRejectsWrongSecret(t *testing.T) {
	cfg := devJWTConfig()
	token, err := MintDevToken(cfg, time.Now(), TokenPayload{UserID: "user-123"})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	other := cfg
	other.Secret = "different"
	if _, err := ParseDevToken(other, token); err == nil {
		t.Fatal("expected signature validation failure")
	}
}

func TestParseDevTokenRejectsExpired(t *testing.T) {
	cfg := devJWTConfig()
	token, err := MintDevToken(cfg, time.Now().Add(-2*time.Hour), TokenPayload{UserID: "user-123"})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if _, err := ParseDevToken(cfg, token); err == nil {
		t.Fatal("expected expiry validation failure")
	}
}
