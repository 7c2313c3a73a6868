package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost)

	t.Run("HashAndVerifyRoundTrip", func(t *testing.T) {
		digest, err := hasher.Hash("secret1")
		require.NoError(t, err)
		require.NotEmpty(t, digest)

		assert.True(t, hasher.Verify("secret1", digest))
		assert.False(t, hasher.Verify("secret2", digest))
	})

	t.Run("SamePasswordProducesDistinctDigests", func(t *testing.T) {
		first, err := hasher.Hash("secret1")
		require.NoError(t, err)
		second, err := hasher.Hash("secret1")
		require.NoError(t, err)

		// Salts are random per call
		assert.NotEqual(t, first, second)
		assert.True(t, hasher.Verify("secret1", first))
		assert.True(t, hasher.Verify("secret1", second))
	})

	t.Run("DigestDoesNotContainPassword", func(t *testing.T) {
		digest, err := hasher.Hash("secret1")
		require.NoError(t, err)
		assert.NotContains(t, digest, "secret1")
	})

	t.Run("MalformedDigestVerifiesFalse", func(t *testing.T) {
		assert.False(t, hasher.Verify("secret1", "not-a-bcrypt-digest"))
		assert.False(t, hasher.Verify("secret1", ""))
	})

	t.Run("OutOfRangeCostFallsBackToDefault", func(t *testing.T) {
		h := NewPasswordHasher(99)
		digest, err := h.Hash("secret1")
		require.NoError(t, err)
		assert.True(t, h.Verify("secret1", digest))
	})
}
