package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid integration key")

// Authenticator verifies the credential presented by a messaging-platform
// adapter before it may mint tokens for platform users.
type Authenticator interface {
	Authenticate(ctx context.Context, credential string) error
}

// KeyAuthenticator checks integration keys against a bcrypt hash.
type KeyAuthenticator struct {
	hash []byte
}

// NewKeyAuthenticator creates an authenticator for the given bcrypt hash.
func NewKeyAuthenticator(hash string) (*KeyAuthenticator, error) {
	if _, err := bcrypt.Cost([]byte(hash)); err != nil {
		return nil, fmt.Errorf("invalid integration key hash: %w", err)
	}
	return &KeyAuthenticator{hash: []byte(hash)}, nil
}

// Authenticate returns ErrInvalidCredentials unless credential matches the hash.
func (a *KeyAuthenticator) Authenticate(_ context.Context, credential string) error {
	if credential == "" {
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(a.hash, []byte(credential)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// HashKey returns the bcrypt hash to configure for an integration key.
func HashKey(key string) (string, error) {
	if len(key) < 16 {
		return "", errors.New("integration key must be at least 16 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash key: %w", err)
	}
	return string(hash), nil
}
