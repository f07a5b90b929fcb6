package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.Equal(t, 1000, cfg.TokenCache.InitialCapacity)
	assert.Equal(t, 10000, cfg.TokenCache.MaxEntries)
	assert.Equal(t, 12*time.Hour, cfg.TokenCache.TTL())
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL())
	assert.True(t, cfg.Postgres.RunMigrations)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9000")
	t.Setenv("SESSION_TTL_MINUTES", "5")
	t.Setenv("TOKEN_CACHE_TTL_HOURS", "1")
	t.Setenv("POSTGRES_RUN_MIGRATIONS", "false")
	t.Setenv("REDIS_DB", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9000", cfg.App.Addr())
	assert.Equal(t, 5*time.Minute, cfg.Session.TTL())
	assert.Equal(t, time.Hour, cfg.TokenCache.TTL())
	assert.False(t, cfg.Postgres.RunMigrations)
	assert.Equal(t, 3, cfg.Redis.DB)
}

func TestLoadRejectsBadRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")

	_, err := Load()
	assert.Error(t, err)
}

func TestDurationFallbacks(t *testing.T) {
	assert.Equal(t, 30*time.Minute, SessionConfig{}.TTL())
	assert.Equal(t, 12*time.Hour, TokenCacheConfig{}.TTL())
	assert.Equal(t, time.Duration(0), AppConfig{}.RequestTimeout())
}
