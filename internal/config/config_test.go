package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 3, cfg.Database.Retry.MaxRetries)
	assert.Equal(t, 400*time.Millisecond, cfg.Database.Retry.BaseDelay())
	assert.Equal(t, "guest_cart_v1", cfg.Cart.CookieName)
	assert.Equal(t, 5, cfg.RateLimit.Login.MaxRequests)
	assert.Contains(t, cfg.CORS.AllowedMethods, "PATCH")
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, 5, cfg.RateLimit.Contact.MaxRequests)
	assert.Empty(t, cfg.Email.ContactTarget)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "postgres")
	t.Setenv("DATABASE_RETRY_BASE_DELAY_MS", "50")
	t.Setenv("REDIS_ENABLED", "false")
	t.Setenv("JWT_EXPIRE_HOURS", "2")

	cfg := Load()

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 50*time.Millisecond, cfg.Database.Retry.BaseDelay())
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 2, cfg.JWT.ExpireHours)
}

func TestLogConfigToLoggerOptions(t *testing.T) {
	opts := LogConfig{Dir: "logs", Filename: "gallery.log", MaxSizeMB: 10, Stdout: true}.ToLoggerOptions()
	assert.Equal(t, "logs", opts.Dir)
	assert.Equal(t, 10, opts.MaxSizeMB)
	assert.True(t, opts.Stdout)
}
