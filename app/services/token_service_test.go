package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trackerpro/tracker-backend/utils"
)

const testSecretKey = "test-secret-key-that-is-long-enough-123"

func newTestTokenService(t *testing.T, ttl time.Duration) TokenService {
	t.Helper()
	svc, err := NewTokenService(ttl, "test-issuer", "test-audience", false, "", "", testSecretKey)
	require.NoError(t, err)
	return svc
}

func TestTokenServiceGenerateAndValidate(t *testing.T) {
	svc := newTestTokenService(t, 1*time.Hour)

	t.Run("RoundTripPreservesClaims", func(t *testing.T) {
		token, err := svc.GenerateToken("asha@co.com", 42, "Asha Rao")
		require.NoError(t, err)
		require.NotEmpty(t, token)

		claims, err := svc.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, "asha@co.com", claims.Subject)
		assert.Equal(t, uint(42), claims.AccountID)
		assert.Equal(t, "Asha Rao", claims.FullName)
		assert.NotEmpty(t, claims.TokenID)
		assert.True(t, claims.ExpiresAt.After(claims.IssuedAt))
		assert.False(t, utils.IsExpired(claims.ExpiresAt))
	})

	t.Run("LifetimeMatchesConfiguredTTL", func(t *testing.T) {
		svc := newTestTokenService(t, 2*time.Hour)
		assert.Equal(t, 2*time.Hour, svc.TokenTTL())

		token, err := svc.GenerateToken("asha@co.com", 42, "Asha Rao")
		require.NoError(t, err)
		claims, err := svc.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, 2*time.Hour, claims.ExpiresAt.Sub(claims.IssuedAt))
	})

	t.Run("TokensCarryUniqueIDs", func(t *testing.T) {
		first, err := svc.GenerateToken("asha@co.com", 42, "Asha Rao")
		require.NoError(t, err)
		second, err := svc.GenerateToken("asha@co.com", 42, "Asha Rao")
		require.NoError(t, err)

		firstClaims, err := svc.ValidateToken(first)
		require.NoError(t, err)
		secondClaims, err := svc.ValidateToken(second)
		require.NoError(t, err)
		assert.NotEqual(t, firstClaims.TokenID, secondClaims.TokenID)
	})

	t.Run("GarbageTokenIsInvalid", func(t *testing.T) {
		_, err := svc.ValidateToken("not-a-jwt")
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("TamperedTokenIsInvalid", func(t *testing.T) {
		token, err := svc.GenerateToken("asha@co.com", 42, "Asha Rao")
		require.NoError(t, err)

		// Corrupt the signature segment
		tampered := token[:len(token)-2] + "xx"
		if tampered == token {
			tampered = token[:len(token)-2] + "yy"
		}
		_, err = svc.ValidateToken(tampered)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("TokenSignedWithDifferentKeyIsInvalid", func(t *testing.T) {
		other, err := NewTokenService(1*time.Hour, "test-issuer", "test-audience", false, "", "", "another-secret-key-that-is-long-enough")
		require.NoError(t, err)

		token, err := other.GenerateToken("asha@co.com", 42, "Asha Rao")
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})
}

func TestTokenServiceExpiry(t *testing.T) {
	svc := newTestTokenService(t, 1*time.Second)

	token, err := svc.GenerateToken("asha@co.com", 42, "Asha Rao")
	require.NoError(t, err)

	// Fresh token is inside its validity window
	_, err = svc.ValidateToken(token)
	require.NoError(t, err)

	// Past the window the same token is rejected as expired, not invalid
	time.Sleep(2100 * time.Millisecond)
	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenServiceSubjectCheck(t *testing.T) {
	svc := newTestTokenService(t, 1*time.Hour)

	token, err := svc.GenerateToken("asha@co.com", 42, "Asha Rao")
	require.NoError(t, err)

	t.Run("MatchingSubject", func(t *testing.T) {
		claims, err := svc.ValidateTokenForSubject(token, "asha@co.com")
		require.NoError(t, err)
		assert.Equal(t, uint(42), claims.AccountID)
	})

	t.Run("SubjectComparisonIsCaseInsensitive", func(t *testing.T) {
		_, err := svc.ValidateTokenForSubject(token, strings.ToUpper("asha@co.com"))
		assert.NoError(t, err)
	})

	t.Run("DifferentSubjectIsRejected", func(t *testing.T) {
		_, err := svc.ValidateTokenForSubject(token, "ravi@co.com")
		assert.ErrorIs(t, err, ErrSubjectMismatch)
	})
}

func TestNewTokenServiceValidation(t *testing.T) {
	t.Run("RejectsNonPositiveTTL", func(t *testing.T) {
		_, err := NewTokenService(0, "iss", "aud", false, "", "", testSecretKey)
		assert.Error(t, err)
	})

	t.Run("RejectsMissingSecretKey", func(t *testing.T) {
		_, err := NewTokenService(time.Hour, "iss", "aud", false, "", "", "")
		assert.Error(t, err)
	})

	t.Run("RejectsMissingRSAKeys", func(t *testing.T) {
		_, err := NewTokenService(time.Hour, "iss", "aud", true, "", "", "")
		assert.Error(t, err)
	})
}
