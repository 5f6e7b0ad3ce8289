package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arjunmehta/stitchbook-backend/pkg/config"
)

func testPasswordConfig() config.PasswordConfig {
	// Small parameters keep the test fast; production values come from env.
	return config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     8,
		ArgonKeyLen:      16,
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("darji-shop-2024", testPasswordConfig())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"))

	ok, err := VerifyPassword("darji-shop-2024", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("wrong-password", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPassword_EmptyRejected(t *testing.T) {
	_, err := HashPassword("", testPasswordConfig())
	require.Error(t, err)
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	cfg := testPasswordConfig()
	first, err := HashPassword("same-input", cfg)
	require.NoError(t, err)
	second, err := HashPassword("same-input", cfg)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	for _, encoded := range []string{
		"",
		"not-a-hash",
		"$argon2i$v=19$m=8,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=8,t=1,p$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=8,t=1,p=1$!!$aGFzaA",
	} {
		_, err := VerifyPassword("anything", encoded)
		assert.ErrorIs(t, err, ErrInvalidHash, "encoded=%q", encoded)
	}
}

func TestGenerateTempPassword(t *testing.T) {
	password, err := GenerateTempPassword(12)
	require.NoError(t, err)
	assert.Len(t, password, 12)

	_, err = GenerateTempPassword(0)
	require.Error(t, err)
}
