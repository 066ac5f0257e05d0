package handlers

import (
	"database/sql"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dompetku/dompetku-api/utils"
)

func TestTOTPPasses(t *testing.T) {
	t.Setenv("DATA_ENCRYPTION_KEY", "0123456789abcdef0123456789abcdef")

	secret := "JBSWY3DPEHPK3PXP"
	encrypted, err := utils.EncryptSecret(secret)
	require.NoError(t, err)

	code, err := totp.GenerateCode(secret, time.Now())
	require.NoError(t, err)

	stored := sql.NullString{String: encrypted, Valid: true}
	assert.True(t, totpPasses(stored, code))
	assert.False(t, totpPasses(stored, "000000"))
}

func TestTOTPPasses_MissingSecret(t *testing.T) {
	// An enabled account whose secret row is NULL must fail closed.
	assert.False(t, totpPasses(sql.NullString{}, "123456"))
}

func TestTOTPPasses_UndecryptableSecret(t *testing.T) {
	t.Setenv("DATA_ENCRYPTION_KEY", "0123456789abcdef0123456789abcdef")

	stored := sql.NullString{String: "not-valid-ciphertext", Valid: true}
	assert.False(t, totpPasses(stored, "123456"))
}
