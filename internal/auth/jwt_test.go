package auth

import (
	"testing"
	"time"

	"agriconnect/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJWTConfig() *config.JWTConfig {
	return &config.JWTConfig{
		AccessSecret:  "test-access-secret",
		RefreshSecret: "test-refresh-secret",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: 168 * time.Hour,
		Issuer:        "agriconnect-test",
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	cfg := testJWTConfig()
	token, err := GenerateAccessToken(cfg, 42, "admin@agriconnect.com", "ADMIN", true)
	require.NoError(t, err)

	claims, err := ParseAccessToken(cfg, token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "admin@agriconnect.com", claims.Email)
	assert.Equal(t, "ADMIN", claims.Role)
	assert.True(t, claims.IsStaff)
}

func TestClaimsIsAdmin(t *testing.T) {
	assert.True(t, (&Claims{Role: "ADMIN"}).IsAdmin())
	assert.True(t, (&Claims{Role: "FARMER", IsStaff: true}).IsAdmin())
	assert.False(t, (&Claims{Role: "FARMER"}).IsAdmin())
}

func TestParseAccessTokenRejectsBadToken(t *testing.T) {
	cfg := testJWTConfig()
	_, err := ParseAccessToken(cfg, "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	// Token signed with the wrong secret fails too.
	other := testJWTConfig()
	other.AccessSecret = "different-secret"
	token, err := GenerateAccessToken(other, 1, "a@b.c", "CONSUMER", false)
	require.NoError(t, err)
	_, err = ParseAccessToken(cfg, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	cfg := testJWTConfig()
	token, err := GenerateRefreshToken(cfg, 7)
	require.NoError(t, err)

	userID, err := ParseRefreshToken(cfg, token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), userID)
}

func TestRefreshTokenNotValidAsAccessToken(t *testing.T) {
	cfg := testJWTConfig()
	refresh, err := GenerateRefreshToken(cfg, 7)
	require.NoError(t, err)
	_, err = ParseAccessToken(cfg, refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
