package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/storyhub/internal/config"
	"github.com/storyhub/internal/models"
)

func newTestAuthService(expireHours int) *AuthService {
	return NewAuthService(nil, config.JWTConfig{
		Secret:      "test-secret",
		ExpireHours: expireHours,
	})
}

func TestTokenRoundTrip(t *testing.T) {
	svc := newTestAuthService(1)
	user := &models.User{ID: 42, Username: "ana"}
	user.Bio = "does not belong in the token"

	token, err := svc.GenerateToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)

	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "ana", claims.Username)
	assert.Equal(t, "storyhub", claims.Issuer)
	assert.NotNil(t, claims.ExpiresAt)
}

func TestValidateTokenRejectsTampered(t *testing.T) {
	svc := newTestAuthService(1)
	token, err := svc.GenerateToken(&models.User{ID: 1, Username: "bo"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(token + "x")
	assert.Error(t, err)

	_, err = svc.ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	token, err := newTestAuthService(1).GenerateToken(&models.User{ID: 1, Username: "bo"})
	require.NoError(t, err)

	other := NewAuthService(nil, config.JWTConfig{Secret: "other-secret", ExpireHours: 1})
	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	// Negative expiry puts ExpiresAt in the past
	svc := newTestAuthService(-1)
	token, err := svc.GenerateToken(&models.User{ID: 1, Username: "bo"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}
