package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	t.Parallel()

	passwords := []string{"secret1", "a longer pass phrase", "päss wörd"}

	for _, password := range passwords {
		hash, err := HashPassword(password, 4)
		require.NoError(t, err)
		require.NotEqual(t, password, hash)

		assert.True(t, CheckPassword(hash, password))
		assert.False(t, CheckPassword(hash, password+"x"))
	}
}

func TestHashPassword_DistinctHashes(t *testing.T) {
	t.Parallel()

	// bcrypt salts every hash, so the same password never hashes twice
	// to the same value
	h1, err := HashPassword("secret1", 4)
	require.NoError(t, err)
	h2, err := HashPassword("secret1", 4)
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
	assert.True(t, CheckPassword(h1, "secret1"))
	assert.True(t, CheckPassword(h2, "secret1"))
}

func TestHashPassword_InvalidCostFallsBack(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("secret1", 99)
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "secret1"))
}

func TestCheckPassword_MalformedHash(t *testing.T) {
	t.Parallel()

	assert.False(t, CheckPassword("not-a-bcrypt-hash", "secret1"))
}
