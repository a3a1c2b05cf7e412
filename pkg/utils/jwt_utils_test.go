package utils

import (
	"testing"
	"time"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	secret := []byte("s3cret")
	token, expiresAt, err := GenerateSessionToken(secret, "operator", time.Hour)
	if err != nil {
		t.Fatalf("GenerateSessionToken: %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Fatalf("token already expired at %v", expiresAt)
	}

	claims, err := ValidateToken(secret, token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.Operator != "operator" {
		t.Fatalf("operator = %q", claims.Operator)
	}
}

func TestValidateTokenRejects(t *testing.T) {
	secret := []byte("s3cret")
	expired, _, err := GenerateSessionToken(secret, "operator", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateSessionToken: %v", err)
	}
	valid, _, err := GenerateSessionToken(secret, "operator", time.Hour)
	if err != nil {
		t.Fatalf("GenerateSessionToken: %v", err)
	}

	tests := []struct {
		name   string
		secret []byte
		token  string
	}{
		{"expired", secret, expired},
		{"wrong secret", []byte("other"), valid},
		{"garbage", secret, "not.a.token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ValidateToken(tt.secret, tt.token); err == nil {
				t.Fatalf("ValidateToken accepted %s token", tt.name)
			}
		})
	}

	if _, _, err := GenerateSessionToken(nil, "operator", time.Hour); err == nil {
		t.Fatalf("GenerateSessionToken without secret succeeded")
	}
}
