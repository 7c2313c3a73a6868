package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_PASSWORD", "test-password")
	t.Setenv("JWT_SECRET_KEY", "test-secret-key-that-is-long-enough-123")
}

func TestLoadProductionConfigDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadProductionConfig()
	require.NoError(t, err)

	assert.Equal(t, "X-Real-IP", cfg.Server.ProxyHeader)
	assert.True(t, cfg.Server.EnableCompression)
	assert.True(t, cfg.Database.SlowQueryLog)
	assert.Equal(t, 1*time.Second, cfg.Database.SlowQueryTime)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.Logging.EnableAccessLog)
	assert.Equal(t, 24*time.Hour, cfg.JWT.AccessTokenTTL)
	assert.Equal(t, 12, cfg.Security.BcryptCost)
}

func TestLoadProductionConfigOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SERVER_PROXY_HEADER", "X-Forwarded-For")
	t.Setenv("DB_SLOW_QUERY_TIME", "250ms")
	t.Setenv("JWT_ACCESS_TOKEN_TTL", "2h")

	cfg, err := LoadProductionConfig()
	require.NoError(t, err)

	assert.Equal(t, "X-Forwarded-For", cfg.Server.ProxyHeader)
	assert.Equal(t, 250*time.Millisecond, cfg.Database.SlowQueryTime)
	assert.Equal(t, 2*time.Hour, cfg.JWT.AccessTokenTTL)
}

func TestValidateProductionConfig(t *testing.T) {
	t.Run("RejectsWeakBcryptCost", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("BCRYPT_COST", "5")

		_, err := LoadProductionConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "BCRYPT_COST")
	})

	t.Run("RejectsUnknownLogLevel", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("LOG_LEVEL", "verbose")

		_, err := LoadProductionConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "LOG_LEVEL")
	})

	t.Run("RejectsShortJWTSecret", func(t *testing.T) {
		t.Setenv("DB_PASSWORD", "test-password")
		t.Setenv("JWT_SECRET_KEY", "short")

		_, err := LoadProductionConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "JWT_SECRET_KEY")
	})
}
