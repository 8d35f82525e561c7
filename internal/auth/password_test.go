package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.NoError(t, CheckPassword(hash, "s3cret-pass"))
	assert.ErrorIs(t, CheckPassword(hash, "wrong"), ErrInvalidCredentials)
}

func TestCheckPassword_NotAHash(t *testing.T) {
	assert.ErrorIs(t, CheckPassword("plaintext", "plaintext"), ErrInvalidCredentials)
	assert.ErrorIs(t, CheckPassword("", ""), ErrInvalidCredentials)
}
