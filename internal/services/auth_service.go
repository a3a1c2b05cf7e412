package services

import (
	"errors"
	"fmt"
	"time"

	"poultry_farm_backend/pkg/utils"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid pin")
	ErrAuthDisabled       = errors.New("bridge authentication is disabled")
	ErrTokenGeneration    = errors.New("failed to generate token")
)

// operatorName is the subject of every session token. The store has a single operator.
const operatorName = "operator"

type LoginRequest struct {
	PIN string `json:"pin" validate:"required"`
}

type AuthResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type AuthService interface {
	Enabled() bool
	Login(req LoginRequest) (*AuthResponse, error)
}

type authService struct {
	enabled   bool
	pinHash   string
	jwtSecret []byte
	ttl       time.Duration
}

func NewAuthService(enabled bool, pinHash, jwtSecret string, ttl time.Duration) AuthService {
	return &authService{
		enabled:   enabled,
		pinHash:   pinHash,
		jwtSecret: []byte(jwtSecret),
		ttl:       ttl,
	}
}

func (s *authService) Enabled() bool {
	return s.enabled
}

// Login checks the PIN against the configured bcrypt hash and issues a session token.
func (s *authService) Login(req LoginRequest) (*AuthResponse, error) {
	if !s.enabled {
		return nil, ErrAuthDisabled
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if s.pinHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.pinHash), []byte(req.PIN)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := utils.GenerateSessionToken(s.jwtSecret, operatorName, s.ttl)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenGeneration, err)
	}
	return &AuthResponse{AccessToken: token, ExpiresAt: expiresAt}, nil
}

// HashPIN returns the bcrypt hash to put in AUTH_PIN_HASH.
func HashPIN(pin string) (string, error) {
	if len(pin) < 4 {
		return "", validationError("pin must have at least 4 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash pin: %w", err)
	}
	return string(hash), nil
}
