package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestJWTManager(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)

	token, expiresAt, err := m.Generate("U123")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "U123", claims.UserID)
	assert.Equal(t, "U123", claims.Subject)

	_, _, err = m.Generate("")
	assert.Error(t, err)
}

func TestJWTManager_Rejects(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)
	token, _, err := m.Generate("U123")
	require.NoError(t, err)

	expired := NewJWTManager("test-secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, _, err := expired.Generate("U123")
	require.NoError(t, err)

	tests := []struct {
		name    string
		manager *JWTManager
		token   string
	}{
		{"garbage", m, "not-a-token"},
		{"wrong secret", NewJWTManager("other-secret", time.Hour), token},
		{"expired", m, old},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.manager.Validate(tt.token)
			assert.True(t, errors.Is(err, ErrInvalidToken), "got %v", err)
		})
	}
}

func TestKeyAuthenticator(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("integration-key-0001"), bcrypt.MinCost)
	require.NoError(t, err)

	a, err := NewKeyAuthenticator(string(hash))
	require.NoError(t, err)

	ctx := context.Background()
	assert.NoError(t, a.Authenticate(ctx, "integration-key-0001"))
	assert.ErrorIs(t, a.Authenticate(ctx, "integration-key-0002"), ErrInvalidCredentials)
	assert.ErrorIs(t, a.Authenticate(ctx, ""), ErrInvalidCredentials)

	_, err = NewKeyAuthenticator("plaintext")
	assert.Error(t, err)
}

func TestHashKey(t *testing.T) {
	_, err := HashKey("short")
	assert.Error(t, err)

	hash, err := HashKey("integration-key-0001")
	require.NoError(t, err)

	a, err := NewKeyAuthenticator(hash)
	require.NoError(t, err)
	assert.NoError(t, a.Authenticate(context.Background(), "integration-key-0001"))
}
