// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, SMTP) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the signup API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis)
	RedisURL string `env:"REDIS_URL,required"`

	// Token signing keys. Either the *_PATH variant or the inline PEM variant is used.
	JWTPrivKeyPath string `env:"JWT_PRIVATE_KEY_PATH"`
	JWTPubKeyPath  string `env:"JWT_PUBLIC_KEY_PATH"`
	JWTPrivKeyPEM  string `env:"JWT_PRIVATE_KEY"`
	JWTPubKeyPEM   string `env:"JWT_PUBLIC_KEY"`
	JWTIssuer      string `env:"JWT_ISSUER" envDefault:"signup.local"`

	// Token lifetimes
	AccessTokenTTL      time.Duration `env:"ACCESS_TOKEN_TTL"       envDefault:"15m"`
	RefreshTokenTTLDays int           `env:"REFRESH_TOKEN_TTL_DAYS" envDefault:"30"`

	// BcryptCost is the work factor for password hashing.
	BcryptCost int `env:"BCRYPT_COST" envDefault:"12"`

	// Outbound mail (verification codes)
	SMTPHost     string `env:"SMTP_HOST,required"`
	SMTPPort     int    `env:"SMTP_PORT"     envDefault:"587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	SMTPFrom     string `env:"SMTP_FROM,required"`
	SMTPTLS      string `env:"SMTP_TLS"      envDefault:"mandatory"`

	// CookieSecure marks the refresh cookie Secure. Disable only for plain-HTTP local setups.
	CookieSecure bool `env:"COOKIE_SECURE" envDefault:"true"`

	// Cross-Origin Resource Sharing
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`

	// Tracing (OTLP over HTTP). Empty endpoint disables tracing.
	OTelEndpoint string `env:"OTEL_ENDPOINT"`
	OTelEnabled  bool   `env:"OTEL_ENABLED" envDefault:"true"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct and validates it.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks cross-field constraints that struct tags cannot express.
func (c *Config) Validate() error {
	var errs []error

	if c.JWTPrivKeyPath == "" && c.JWTPrivKeyPEM == "" {
		errs = append(errs, errors.New("one of JWT_PRIVATE_KEY_PATH or JWT_PRIVATE_KEY is required"))
	}
	if c.JWTPubKeyPath == "" && c.JWTPubKeyPEM == "" {
		errs = append(errs, errors.New("one of JWT_PUBLIC_KEY_PATH or JWT_PUBLIC_KEY is required"))
	}
	if c.AccessTokenTTL <= 0 {
		errs = append(errs, errors.New("ACCESS_TOKEN_TTL must be positive"))
	}
	if c.RefreshTokenTTLDays <= 0 {
		errs = append(errs, errors.New("REFRESH_TOKEN_TTL_DAYS must be positive"))
	}
	if c.SMTPPort < 1 || c.SMTPPort > 65535 {
		errs = append(errs, fmt.Errorf("SMTP_PORT out of range: %d", c.SMTPPort))
	}
	if c.IsProduction() && !c.CookieSecure {
		errs = append(errs, errors.New("COOKIE_SECURE must be true in production"))
	}
	switch strings.ToLower(c.SMTPTLS) {
	case "mandatory", "opportunistic", "none":
	default:
		errs = append(errs, fmt.Errorf("SMTP_TLS must be mandatory, opportunistic or none, got %q", c.SMTPTLS))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// RefreshTokenTTL converts the configured day count into a duration.
func (c *Config) RefreshTokenTTL() time.Duration {
	return time.Duration(c.RefreshTokenTTLDays) * 24 * time.Hour
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// developmentOrigins are the local frontends accepted in development on top of AllowedOrigins.
var developmentOrigins = []string{
	"http://localhost:5173",
	"http://127.0.0.1:3000",
}

// OriginAllowed reports whether a browser origin may call the API with credentials.
func (c *Config) OriginAllowed(origin string) bool {
	if c.IsDevelopment() && containsOrigin(developmentOrigins, origin) {
		return true
	}
	return containsOrigin(c.AllowedOrigins, origin)
}

func containsOrigin(origins []string, origin string) bool {
	for _, allowed := range origins {
		if strings.EqualFold(strings.TrimSpace(allowed), origin) {
			return true
		}
	}
	return false
}
