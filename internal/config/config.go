// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// AdminToken is a named bcrypt hash of an admin bearer token.
type AdminToken struct {
	Name string
	Hash string
}

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible cache)
	ValkeyHost      string
	ValkeyPort      string
	ValkeyPassword  string
	CatalogCacheTTL time.Duration

	// Admin API
	AdminTokens        []AdminToken
	RateLimitPerMinute int

	// S3-compatible storage for catalog snapshots (optional)
	S3Endpoint      string
	S3Region        string
	S3AccessKey     string
	S3SecretKey     string
	S3BucketPrivate string
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if critical values
// are missing in production mode.
func Load() (*Config, error) {
	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "ethicsadmin"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "ethicsadmin"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		S3Endpoint:      os.Getenv("S3_ENDPOINT"),
		S3Region:        envOrDefault("S3_REGION", "us-east-1"),
		S3AccessKey:     os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:     os.Getenv("S3_SECRET_KEY"),
		S3BucketPrivate: os.Getenv("S3_BUCKET_PRIVATE"),
	}

	ttl, err := time.ParseDuration(envOrDefault("CATALOG_CACHE_TTL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("CATALOG_CACHE_TTL: %w", err)
	}
	cfg.CatalogCacheTTL = ttl

	limit, err := strconv.Atoi(envOrDefault("RATE_LIMIT_PER_MINUTE", "120"))
	if err != nil || limit <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_PER_MINUTE must be a positive integer")
	}
	cfg.RateLimitPerMinute = limit

	cfg.AdminTokens, err = parseAdminTokens(os.Getenv("ADMIN_TOKENS"))
	if err != nil {
		return nil, err
	}

	if cfg.Env == "production" {
		if cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
		if len(cfg.AdminTokens) == 0 {
			return nil, fmt.Errorf("ADMIN_TOKENS must be set in production")
		}
	}

	return cfg, nil
}

// maxTokenNameLen matches catalog_revisions.actor, where the name is recorded.
const maxTokenNameLen = 100

// parseAdminTokens reads a comma-separated list of name:bcrypt-hash pairs.
func parseAdminTokens(raw string) ([]AdminToken, error) {
	var tokens []AdminToken
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, hash, ok := strings.Cut(entry, ":")
		if !ok || name == "" || !strings.HasPrefix(hash, "$2") {
			return nil, fmt.Errorf("ADMIN_TOKENS: entry %q is not name:bcrypt-hash", name)
		}
		if utf8.RuneCountInString(name) > maxTokenNameLen {
			return nil, fmt.Errorf("ADMIN_TOKENS: name %.20q exceeds %d characters", name, maxTokenNameLen)
		}
		tokens = append(tokens, AdminToken{Name: name, Hash: hash})
	}
	return tokens, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// S3Enabled reports whether snapshot archiving is configured.
func (c *Config) S3Enabled() bool {
	return c.S3Endpoint != "" && c.S3BucketPrivate != ""
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
