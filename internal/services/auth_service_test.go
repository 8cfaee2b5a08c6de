package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vaidyai-backend/internal/auth"
	"vaidyai-backend/internal/config"
	"vaidyai-backend/internal/store/storetest"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:       "test-signing-secret",
		TokenExpiration: 30 * time.Minute,
	}
}

func TestRegister_CreatesUser(t *testing.T) {
	svc := NewAuthService(storetest.New(), testConfig())

	user, err := svc.Register(context.Background(), "alice", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.NotEqual(t, "secret123", user.HashedPassword, "password must be stored hashed")
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc := NewAuthService(storetest.New(), testConfig())

	_, err := svc.Register(context.Background(), "alice", "secret123")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "alice", "another-password")
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestRegister_Validation(t *testing.T) {
	svc := NewAuthService(storetest.New(), testConfig())

	_, err := svc.Register(context.Background(), "", "secret123")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Register(context.Background(), "alice", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestLogin_Scenario(t *testing.T) {
	svc := NewAuthService(storetest.New(), testConfig())

	_, err := svc.Register(context.Background(), "alice", "secret123")
	require.NoError(t, err)

	// Wrong password
	_, err = svc.Login(context.Background(), "alice", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Unknown user is indistinguishable from a wrong password
	_, err = svc.Login(context.Background(), "mallory", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Correct password yields a token for the subject
	token, err := svc.Login(context.Background(), "alice", "secret123")
	require.NoError(t, err)

	username, err := auth.ParseAccessToken(token, "test-signing-secret")
	require.NoError(t, err)
	assert.Equal(t, "alice", username)
}
