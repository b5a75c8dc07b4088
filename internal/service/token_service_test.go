package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Molza01/Communicaton-Web-App/internal/config"
)

func testTokenConfig() config.TokenConfig {
	return config.TokenConfig{
		Secret: "test-secret-key",
		TTL:    24 * time.Hour,
		Issuer: "test-issuer",
	}
}

func TestTokenGenerateAndVerify(t *testing.T) {
	s := NewTokenService(testTokenConfig())

	token, err := s.Generate("user-123", "user@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := s.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, "test-issuer", claims.Issuer)
	assert.Equal(t, "user-123", claims.Subject)
}

func TestTokenExpired(t *testing.T) {
	cfg := testTokenConfig()
	cfg.TTL = -time.Minute
	s := NewTokenService(cfg)

	token, err := s.Generate("user-123", "user@example.com")
	require.NoError(t, err)

	_, err = s.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenWrongSecret(t *testing.T) {
	issuer := NewTokenService(testTokenConfig())

	other := testTokenConfig()
	other.Secret = "a-different-secret"
	verifier := NewTokenService(other)

	token, err := issuer.Generate("user-123", "user@example.com")
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenGarbageInput(t *testing.T) {
	s := NewTokenService(testTokenConfig())

	_, err := s.Verify("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenMissingSecret(t *testing.T) {
	s := NewTokenService(config.TokenConfig{TTL: time.Hour})

	_, err := s.Generate("user-123", "user@example.com")
	assert.ErrorIs(t, err, ErrNoSecret)

	_, err = s.Verify("anything")
	assert.ErrorIs(t, err, ErrNoSecret)
}
