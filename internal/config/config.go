// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// DatabaseURL is the Postgres DSN; empty until DB is wired.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// SessionKey is the base64-encoded HMAC-SHA256 key for session tokens.
	// When empty a random per-process key is generated at startup, which
	// invalidates all outstanding session tokens on restart.
	SessionKey string `mapstructure:"SESSION_KEY"`
	// SessionIssuer is the iss claim on session tokens (e.g. "collab-auth").
	SessionIssuer string `mapstructure:"SESSION_ISSUER"`
	// SessionTTL is the session token lifetime (e.g. "10m").
	SessionTTL string `mapstructure:"SESSION_TTL"`
	// BcryptCost is the bcrypt cost factor (4–31); default 12.
	BcryptCost int `mapstructure:"BCRYPT_COST"`
	// InviteBaseURL is the base URL for invitation acceptance links; the
	// invitation token is appended as a query parameter.
	InviteBaseURL string `mapstructure:"INVITE_BASE_URL"`
	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env. Returns an error if required fields are invalid.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("SESSION_KEY", "")
	v.SetDefault("SESSION_ISSUER", "collab-auth")
	v.SetDefault("SESSION_TTL", "10m")
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("INVITE_BASE_URL", "http://localhost:8080/accept_invitation")
	v.SetDefault("APP_ENV", "")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.SessionIssuer == "" {
		return nil, errors.New("config: SESSION_ISSUER must be set")
	}

	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = 12
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return nil, errors.New("config: BCRYPT_COST must be between 4 and 31")
	}

	return &cfg, nil
}

// TokenTTL parses SessionTTL as a time.Duration. Returns 10m if unset or invalid.
func (c *Config) TokenTTL() time.Duration {
	d, err := time.ParseDuration(c.SessionTTL)
	if err != nil || d <= 0 {
		return 10 * time.Minute
	}
	return d
}
