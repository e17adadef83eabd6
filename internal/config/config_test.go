package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "super-secret-test-key")
	t.Setenv("CHAT_API_KEY", "test-api-key")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 5000, cfg.HTTPPort)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.Equal(t, "vendorconex", cfg.MongoDatabase)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 1, cfg.JWTExpiryHours)
}

func TestLoad_MissingJWTSecret(t *testing.T) {
	t.Setenv("CHAT_API_KEY", "test-api-key")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_ShortJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "short")
	t.Setenv("CHAT_API_KEY", "test-api-key")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoad_EnvOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "8080")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("JWT_EXPIRY_HOURS", "24")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 24, cfg.JWTExpiryHours)
}

func TestLoad_InvalidPort(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "99999")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid HTTP port")
}

func TestLoad_InvalidChatURL(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CHAT_API_URL", "not a url")

	_, err := Load()
	require.Error(t, err)
}

func TestDurationHelpers(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_EXPIRY_HOURS", "2")
	t.Setenv("CHAT_TIMEOUT_SECONDS", "15")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "2h0m0s", cfg.JWTExpiry().String())
	assert.Equal(t, "15s", cfg.ChatTimeout().String())
	assert.Equal(t, "5m0s", cfg.ProductCacheTTL().String())
}
