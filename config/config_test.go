package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"UPSTREAM_BASE_URL", "UPSTREAM_TIMEOUT", "REDIS_HOST", "AWS_S3_BUCKET", "CONSOLE_SESSION_TTL", "CONSOLE_MAX_SESSIONS"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:5000/api", cfg.Upstream.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Upstream.Timeout)
	assert.False(t, cfg.Redis.Enabled())
	assert.False(t, cfg.S3.Enabled())
	assert.Equal(t, 2*time.Hour, cfg.Console.SessionTTL)
	assert.Equal(t, "@every 5m", cfg.Console.SweepSchedule)
	assert.Equal(t, 1000, cfg.Console.MaxSessions)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("UPSTREAM_BASE_URL", "https://api.caterbazar.in/api")
	t.Setenv("UPSTREAM_TIMEOUT", "5s")
	t.Setenv("REDIS_HOST", "redis")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("AWS_S3_BUCKET", "caterbazar-docs")
	t.Setenv("ALLOWED_ORIGINS", "https://admin.caterbazar.in, http://localhost:3000,")
	t.Setenv("REVIEW_SUBMIT_LOCK_TTL", "not-a-duration")
	t.Setenv("CONSOLE_MAX_SESSIONS", "50")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.caterbazar.in/api", cfg.Upstream.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Upstream.Timeout)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, "redis:6379", cfg.Redis.Addr())
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.True(t, cfg.S3.Enabled())
	assert.Equal(t, []string{"https://admin.caterbazar.in", "http://localhost:3000"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 30*time.Second, cfg.Console.ReviewSubmitLockTTL)
	assert.Equal(t, 50, cfg.Console.MaxSessions)
}
