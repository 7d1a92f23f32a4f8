package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{
		"FISCALCODE_ADDR", "LOG_LEVEL", "LOG_FORMAT", "REGISTRY_FILE", "DATABASE_URL",
		"REDIS_URL", "REGISTRY_CACHE_TTL", "REGISTRY_LRU_SIZE", "BATCH_CONCURRENCY",
	} {
		t.Setenv(key, "")
	}

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 24*time.Hour, cfg.Registry.CacheTTL)
	assert.Equal(t, 1024, cfg.Registry.LRUSize)
	assert.Equal(t, 8, cfg.Batch.Concurrency)
	assert.Empty(t, cfg.Redis.URL)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("FISCALCODE_ADDR", ":9090")
	t.Setenv("LOG_FORMAT", "TEXT")
	t.Setenv("REGISTRY_FILE", "/data/codici.csv")
	t.Setenv("REGISTRY_CACHE_TTL", "1h")
	t.Setenv("REGISTRY_LRU_SIZE", "0")
	t.Setenv("BATCH_CONCURRENCY", "2")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "/data/codici.csv", cfg.Registry.File)
	assert.Equal(t, time.Hour, cfg.Registry.CacheTTL)
	assert.Equal(t, 0, cfg.Registry.LRUSize)
	assert.Equal(t, 2, cfg.Batch.Concurrency)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
}

func TestFromEnvRejectsInvalidValues(t *testing.T) {
	t.Run("malformed numbers and durations are reported together", func(t *testing.T) {
		t.Setenv("BATCH_CONCURRENCY", "many")
		t.Setenv("REGISTRY_CACHE_TTL", "forever")

		_, err := FromEnv()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "BATCH_CONCURRENCY")
		assert.Contains(t, err.Error(), "REGISTRY_CACHE_TTL")
	})

	t.Run("unknown log format", func(t *testing.T) {
		t.Setenv("LOG_FORMAT", "xml")
		_, err := FromEnv()
		assert.ErrorContains(t, err, "LOG_FORMAT")
	})

	t.Run("zero concurrency", func(t *testing.T) {
		t.Setenv("BATCH_CONCURRENCY", "0")
		_, err := FromEnv()
		assert.ErrorContains(t, err, "BATCH_CONCURRENCY")
	})
}
