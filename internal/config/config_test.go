package config

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "restoration-tracker.db", cfg.DBPath)
	assert.Equal(t, float64(100), cfg.RateLimitRPS)
	assert.Equal(t, 200, cfg.RateLimitBurst)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "restoration-tracker-api", cfg.ServiceAccountIdentifier)
	assert.False(t, cfg.OIDCEnabled())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9090")
	t.Setenv("DB_PATH", "/data/tracker.db")
	t.Setenv("RATE_LIMIT_RPS", "10")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, "/data/tracker.db", cfg.DBPath)
	assert.Equal(t, float64(10), cfg.RateLimitRPS)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}

func TestLoad_AuthPrefix(t *testing.T) {
	t.Setenv("AUTH_ISSUER_URL", "https://idp.example/realms/standard")
	t.Setenv("AUTH_AUDIENCE", "restoration-tracker")
	t.Setenv("AUTH_ALLOWED_ISSUERS", "https://idp.example/realms/standard")

	cfg, err := Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "https://idp.example/realms/standard", cfg.Auth.IssuerURL)
	assert.Equal(t, "restoration-tracker", cfg.Auth.Audience)
	assert.True(t, cfg.OIDCEnabled())
}

func TestValidate_ClampsRateLimits(t *testing.T) {
	cfg := &Config{RateLimitRPS: -5, RateLimitBurst: 0}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, float64(0), cfg.RateLimitRPS)
	assert.Equal(t, 1, cfg.RateLimitBurst)
}

func TestSlogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		cfg := &Config{LogLevel: in}
		assert.Equal(t, want, cfg.SlogLevel(), in)
	}
}
