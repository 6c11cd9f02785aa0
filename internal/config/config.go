// Package config loads server configuration from the environment.
package config

import (
	"context"
	"log/slog"
	"strings"

	"github.com/sethvargo/go-envconfig"
)

// Config holds all server configuration, populated from environment
// variables.
type Config struct {
	ListenAddr string `env:"LISTEN_ADDR, default=:8080"`
	Env        string `env:"ENV, default=development"`
	LogLevel   string `env:"LOG_LEVEL, default=info"`
	DBPath     string `env:"DB_PATH, default=restoration-tracker.db"`

	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS, default=100"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST, default=200"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS, default=*"`

	// ServiceAccountIdentifier names the seeded service account that
	// first-login provisioning attributes its inserts to.
	ServiceAccountIdentifier string `env:"SERVICE_ACCOUNT_IDENTIFIER, default=restoration-tracker-api"`

	Auth AuthConfig `env:", prefix=AUTH_"`
}

// AuthConfig configures token validation. With an issuer or JWKS URL the
// server validates tokens against the IdP; otherwise it falls back to a
// shared HS256 secret for local development.
type AuthConfig struct {
	IssuerURL      string   `env:"ISSUER_URL"`
	JWKSURL        string   `env:"JWKS_URL"`
	Audience       string   `env:"AUDIENCE"`
	AllowedIssuers []string `env:"ALLOWED_ISSUERS"`
	JWTSecret      string   `env:"JWT_SECRET, default=dev-secret-change-in-production"`
}

// Load reads configuration from environment variables.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints envconfig cannot express.
func (c *Config) Validate() error {
	if c.RateLimitRPS < 0 {
		c.RateLimitRPS = 0
	}
	if c.RateLimitBurst <= 0 {
		c.RateLimitBurst = 1
	}
	return nil
}

// OIDCEnabled reports whether tokens should be validated against an IdP
// rather than the shared dev secret.
func (c *Config) OIDCEnabled() bool {
	return c.Auth.IssuerURL != "" || c.Auth.JWKSURL != ""
}

// SlogLevel maps the configured log level string onto a slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
