package services

import (
	"errors"
	"testing"
	"time"
)

func TestLogin(t *testing.T) {
	hash, err := HashPIN("1357")
	if err != nil {
		t.Fatalf("HashPIN: %v", err)
	}
	svc := NewAuthService(true, hash, "secret", time.Minute)

	resp, err := svc.Login(LoginRequest{PIN: "1357"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.AccessToken == "" || !resp.ExpiresAt.After(time.Now()) {
		t.Fatalf("unexpected response: %+v", resp)
	}

	tests := []struct {
		name string
		svc  AuthService
		pin  string
		want error
	}{
		{"wrong pin", svc, "0000", ErrInvalidCredentials},
		{"empty pin", svc, "", ErrValidation},
		{"disabled", NewAuthService(false, hash, "secret", time.Minute), "1357", ErrAuthDisabled},
		{"no hash", NewAuthService(true, "", "secret", time.Minute), "1357", ErrInvalidCredentials},
		{"no secret", NewAuthService(true, hash, "", time.Minute), "1357", ErrTokenGeneration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.svc.Login(LoginRequest{PIN: tt.pin}); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestHashPINTooShort(t *testing.T) {
	if _, err := HashPIN("12"); !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}
