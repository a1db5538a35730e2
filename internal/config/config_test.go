package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "SESSION_BACKEND", "SESSION_TTL", "UPSTREAM_BASE_URL", "JWT_SECRET_KEY",
		"SIGNUP_OTP_LENGTH", "SIGNUP_REDIRECT_ROUTE", "SIGNUP_REDIRECT_DELAY",
		"SIGNUP_REQUIRE_VERIFIED_OTP", "PLANS_CACHE_TTL", "REDIS_DB",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, SessionBackendRedis, cfg.Session.Backend)
	assert.Equal(t, 6, cfg.Signup.OTPLength)
	assert.Equal(t, "/home", cfg.Signup.RedirectRoute)
	assert.Equal(t, time.Second, cfg.Signup.RedirectDelay)
	assert.False(t, cfg.Signup.RequireVerifiedOTP)
	assert.Equal(t, 30*time.Second, cfg.Plans.CacheTTL)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("UPSTREAM_BASE_URL", "https://members.example.com/")
	t.Setenv("SESSION_BACKEND", "DynamoDB")
	t.Setenv("SIGNUP_REQUIRE_VERIFIED_OTP", "true")
	t.Setenv("SIGNUP_REDIRECT_DELAY", "250ms")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://members.example.com", cfg.Upstream.BaseURL)
	assert.Equal(t, SessionBackendDynamoDB, cfg.Session.Backend)
	assert.True(t, cfg.Signup.RequireVerifiedOTP)
	assert.Equal(t, 250*time.Millisecond, cfg.Signup.RedirectDelay)
	assert.Equal(t, 0, cfg.Redis.DB)
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	clearEnv(t)
	t.Run("unknown session backend", func(t *testing.T) {
		t.Setenv("SESSION_BACKEND", "postgres")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("short jwt secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET_KEY", "too-short")
		_, err := Load()
		assert.Error(t, err)
	})
}
