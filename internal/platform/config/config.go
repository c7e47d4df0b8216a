// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values. A local '.env' file,
when present, is loaded first with 'joho/godotenv'; real environment variables
always win over it.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, mailer) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/netip"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// # Configuration Schema

// Mail backends accepted by MAIL_BACKEND.
const (
	MailBackendLog   = "log"
	MailBackendSMTP  = "smtp"
	MailBackendRedis = "redis"
)

// Config holds all runtime configuration for the YaMDb API server and CLI.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// AutoMigrate applies pending migrations when the API starts.
	AutoMigrate bool `env:"AUTO_MIGRATE" envDefault:"true"`

	// Key-Value store (Redis). Optional; only the mail outbox needs it.
	RedisURL string `env:"REDIS_URL"`

	// SecretKey is the root secret. Confirmation codes and HS256 tokens use
	// subkeys derived from it.
	SecretKey string `env:"SECRET_KEY,required,notEmpty"`

	// RS256 key pair. When both are set they replace HS256 access tokens.
	JWTPrivKeyPath string `env:"JWT_PRIVATE_KEY_PATH"`
	JWTPubKeyPath  string `env:"JWT_PUBLIC_KEY_PATH"`

	// Token lifetimes
	AccessTokenTTL      time.Duration `env:"ACCESS_TOKEN_TTL"      envDefault:"24h"`
	ConfirmationCodeTTL time.Duration `env:"CONFIRMATION_CODE_TTL" envDefault:"72h"`

	// Outbound mail
	MailBackend   string `env:"MAIL_BACKEND"    envDefault:"log"`
	MailFrom      string `env:"MAIL_FROM"       envDefault:"noreply@yamdb.local"`
	SMTPHost      string `env:"SMTP_HOST"       envDefault:"localhost"`
	SMTPPort      string `env:"SMTP_PORT"       envDefault:"25"`
	SMTPUsername  string `env:"SMTP_USERNAME"`
	SMTPPassword  string `env:"SMTP_PASSWORD"`
	MailOutboxKey string `env:"MAIL_OUTBOX_KEY" envDefault:"mail:outbox"`

	// Cross-Origin Resource Sharing
	CORSOriginSuffix string `env:"CORS_ORIGIN_SUFFIX"`

	// Per-IP token bucket
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS"   envDefault:"100"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"150"`

	// TrustedProxies lists the IPs or CIDRs of reverse proxies whose
	// X-Forwarded-For and X-Real-IP headers are believed. Empty means the
	// client address is always the TCP peer.
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`

	trustedProxies []netip.Prefix
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// A missing .env file is normal outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: failed to read .env file: %w", err)
	}

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate checks cross-field rules that struct tags cannot express.
func (c *Config) validate() error {
	switch c.MailBackend {
	case MailBackendLog, MailBackendSMTP:
	case MailBackendRedis:
		if c.RedisURL == "" {
			return errors.New("config: MAIL_BACKEND=redis requires REDIS_URL")
		}
	default:
		return fmt.Errorf("config: unknown MAIL_BACKEND %q", c.MailBackend)
	}

	if c.RateLimitRPS <= 0 || c.RateLimitBurst < 1 {
		return errors.New("config: RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}

	if (c.JWTPrivKeyPath == "") != (c.JWTPubKeyPath == "") {
		return errors.New("config: JWT_PRIVATE_KEY_PATH and JWT_PUBLIC_KEY_PATH must be set together")
	}

	prefixes, err := ParseTrustedProxies(c.TrustedProxies)
	if err != nil {
		return err
	}
	c.trustedProxies = prefixes

	return nil
}

// ParseTrustedProxies accepts bare addresses ("10.0.0.7") and CIDRs
// ("10.0.0.0/8"). Blank entries are ignored.
func ParseTrustedProxies(entries []string) ([]netip.Prefix, error) {
	var prefixes []netip.Prefix
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		if strings.Contains(entry, "/") {
			prefix, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, fmt.Errorf("config: invalid TRUSTED_PROXIES entry %q: %w", entry, err)
			}
			prefixes = append(prefixes, prefix.Masked())
			continue
		}

		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("config: invalid TRUSTED_PROXIES entry %q: %w", entry, err)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

// TrustedProxyPrefixes returns the parsed TRUSTED_PROXIES.
func (c *Config) TrustedProxyPrefixes() []netip.Prefix {
	return c.trustedProxies
}

// UsesRSAKeys reports whether access tokens are signed with the RS256 key pair.
func (c *Config) UsesRSAKeys() bool {
	return c.JWTPrivKeyPath != "" && c.JWTPubKeyPath != ""
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// AllowedOriginSuffix returns the origin suffix accepted by CORS outside development.
func (c *Config) AllowedOriginSuffix() string {
	return c.CORSOriginSuffix
}
