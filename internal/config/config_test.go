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
	assert.Equal(t, 60*time.Minute, cfg.Auth.AccessTokenTTL())
	assert.Equal(t, 30*24*time.Hour, cfg.Auth.RefreshTokenTTL())
	assert.Equal(t, 8, cfg.Auth.PasswordMinLength)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.Equal(t, 100*time.Millisecond, cfg.Streaming.ChunkDelay())
	assert.Contains(t, cfg.Auth.BypassPathPrefixes, "/health")
	assert.Contains(t, cfg.Auth.BypassPathPrefixes, "/api/v1/auth/login")
}

func TestLoadGeneratesSecretWhenUnset(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Auth.GeneratedSecret)
	// 32 random bytes, hex encoded.
	assert.Len(t, cfg.Auth.JWTSecret, 64)
}

func TestLoadKeepsProvidedSecret(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "configured-secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.Auth.GeneratedSecret)
	assert.Equal(t, "configured-secret", cfg.Auth.JWTSecret)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("AUTH_ACCESS_TOKEN_TTL_MINUTES", "15")
	t.Setenv("AUTH_BYPASS_PATH_PREFIXES", "/health, /custom")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTokenTTL())
	assert.Equal(t, []string{"/health", "/custom"}, cfg.Auth.BypassPathPrefixes)
}
