package utils

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"servicehub-server/config"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-password")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-password", hash)

	assert.True(t, CheckPasswordHash("s3cret-password", hash))
	assert.False(t, CheckPasswordHash("wrong-password", hash))
}

func TestTokenCarriesIdentityAndRole(t *testing.T) {
	config.Load()

	token, err := GenerateToken(42, "PROVIDER")
	require.NoError(t, err)

	claims, err := VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "PROVIDER", claims.Role)
	assert.Equal(t, "servicehub-server", claims.Issuer)
}

func TestVerifyTokenRejectsTampering(t *testing.T) {
	config.Load()

	token, err := GenerateToken(7, "USER")
	require.NoError(t, err)

	_, err = VerifyToken(token + "x")
	assert.Error(t, err)

	// A token signed with a different key must not verify.
	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": 7})
	signed, err := foreign.SignedString([]byte("some-other-secret"))
	require.NoError(t, err)

	_, err = VerifyToken(signed)
	assert.Error(t, err)
}
