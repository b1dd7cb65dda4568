package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"SERVER_PORT", "DATABASE_DRIVER", "REDIS_URL", "INFLIGHT_TTL", "LOG_FORMAT", "TIMEZONE", "CORS_ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 30*time.Second, cfg.InflightTTL)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "UTC", cfg.Timezone)
	assert.Empty(t, cfg.RedisURL)
	assert.Empty(t, cfg.AllowedOrigins)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DATABASE_DRIVER", "SQLite")
	t.Setenv("DATABASE_URL", "file::memory:")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("INFLIGHT_TTL", "5s")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("TIMEZONE", "Europe/Lisbon")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr())
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "file::memory:", cfg.DBUrl)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, 5*time.Second, cfg.InflightTTL)
	assert.Equal(t, 2.5, cfg.RateLimitRPS)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, "Europe/Lisbon", cfg.Timezone)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Run("driver", func(t *testing.T) {
		t.Setenv("DATABASE_DRIVER", "mysql")
		_, err := Load()
		assert.ErrorContains(t, err, "database.driver")
	})

	t.Run("ttl", func(t *testing.T) {
		t.Setenv("INFLIGHT_TTL", "soon")
		_, err := Load()
		assert.ErrorContains(t, err, "inflight.ttl")
	})

	t.Run("timezone", func(t *testing.T) {
		t.Setenv("TIMEZONE", "Mars/Olympus")
		_, err := Load()
		assert.ErrorContains(t, err, "timezone")
	})
}
