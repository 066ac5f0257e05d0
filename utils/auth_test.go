package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordRoundtrip(t *testing.T) {
	hash, err := HashPassword("rahasia-sekali")
	require.NoError(t, err)
	assert.NotEqual(t, "rahasia-sekali", hash)

	assert.True(t, CheckPassword("rahasia-sekali", hash))
	assert.False(t, CheckPassword("salah", hash))
}

func TestAccessTokenRoundtrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateAccessToken("user-123", "budi@example.com")
	require.NoError(t, err)

	claims, err := ParseAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "budi@example.com", claims.Email)
	assert.Equal(t, "dompetku-api", claims.Issuer)
}

func TestParseAccessToken_WrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret-one")
	token, err := GenerateAccessToken("user-123", "budi@example.com")
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "secret-two")
	_, err = ParseAccessToken(token)
	assert.Error(t, err)
}

func TestGenerateRefreshToken(t *testing.T) {
	a, err := GenerateRefreshToken()
	require.NoError(t, err)
	b, err := GenerateRefreshToken()
	require.NoError(t, err)

	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}

func TestSecretRoundtrip(t *testing.T) {
	t.Setenv("DATA_ENCRYPTION_KEY", "0123456789abcdef0123456789abcdef")

	encrypted, err := EncryptSecret("JBSWY3DPEHPK3PXP")
	require.NoError(t, err)
	assert.NotEqual(t, "JBSWY3DPEHPK3PXP", encrypted)

	decrypted, err := DecryptSecret(encrypted)
	require.NoError(t, err)
	assert.Equal(t, "JBSWY3DPEHPK3PXP", decrypted)
}

func TestEncryptSecret_BadKey(t *testing.T) {
	t.Setenv("DATA_ENCRYPTION_KEY", "too-short")
	_, err := EncryptSecret("x")
	assert.Error(t, err)
}
