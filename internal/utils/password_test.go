package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.True(t, VerifyPassword(hash, "s3cret-pass"))
	assert.False(t, VerifyPassword(hash, "wrong-pass"))
}

func TestHashRefreshRawIsStable(t *testing.T) {
	a := HashRefreshRaw("token")
	b := HashRefreshRaw("token")
	assert.Equal(t, a, b)
	assert.Len(t, a, 64) // hex-encoded SHA-256
	assert.NotEqual(t, a, HashRefreshRaw("other"))
}

func TestNewRefreshTokenIsRandom(t *testing.T) {
	t1, err := NewRefreshToken(7)
	require.NoError(t, err)
	t2, err := NewRefreshToken(7)
	require.NoError(t, err)
	assert.NotEqual(t, t1.Raw, t2.Raw)
	assert.Len(t, t1.Raw, 96)
}
