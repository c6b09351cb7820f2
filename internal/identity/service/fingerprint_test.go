package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/danurwenda/identity-service/internal/identity/service"
)

func TestHashSourceAddress(t *testing.T) {
	h1 := service.HashSourceAddress("203.0.113.7")
	h2 := service.HashSourceAddress("203.0.113.7")
	h3 := service.HashSourceAddress("203.0.113.8")

	assert.Equal(t, h1, h2, "same address must group together")
	assert.NotEqual(t, h1, h3)
	assert.NotContains(t, h1, "203.0.113.7", "raw address must never appear")
	assert.Len(t, h1, 64)
}

func TestHashSourceAddress_TrimsWhitespace(t *testing.T) {
	assert.Equal(t,
		service.HashSourceAddress("203.0.113.7"),
		service.HashSourceAddress(" 203.0.113.7 "))
}

func TestDeviceFingerprint(t *testing.T) {
	fp1 := service.DeviceFingerprint("agent", "en-US", "gzip")
	fp2 := service.DeviceFingerprint("agent", "en-US", "gzip")
	fp3 := service.DeviceFingerprint("agent", "fr-FR", "gzip")

	assert.Equal(t, fp1, fp2)
	assert.NotEqual(t, fp1, fp3)
}

func TestNewSessionToken(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := service.NewSessionToken()
		require.NoError(t, err)
		// 32 random bytes base64url-encoded without padding.
		assert.Len(t, token, 43)
		assert.False(t, seen[token], "tokens must not repeat")
		seen[token] = true
	}
}

func TestBcryptHasher(t *testing.T) {
	hasher := service.NewBcryptHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("Abc12345!")
	require.NoError(t, err)
	assert.NotEqual(t, "Abc12345!", hash)

	assert.True(t, hasher.Verify(hash, "Abc12345!"))
	assert.False(t, hasher.Verify(hash, "Wrong12345!"))
}

func TestNewBcryptHasher_ClampsCost(t *testing.T) {
	hasher := service.NewBcryptHasher(99)
	assert.Equal(t, bcrypt.DefaultCost, hasher.Cost)
}
