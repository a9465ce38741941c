// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
// Required secrets are validated once at load time; nothing reads the
// environment after startup.
package config

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"
)

// DefaultSiteURL is the canonical site origin used when SITE_URL is unset
// or unparseable, and the target that legacy hostnames normalize to.
const DefaultSiteURL = "https://ycjgt.com"

// legacyHostnames are prior domains for the site. Requests arriving on one
// of these are redirected to the canonical origin, and a SITE_URL pointing
// at one is normalized away.
var legacyHostnames = map[string]bool{
	"youcanjustgeneratethings.com":     true,
	"www.youcanjustgeneratethings.com": true,
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

	// Valkey (Redis-compatible page cache). Optional: empty host disables
	// the public page cache.
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// Secrets. All three are required; Load fails without them.
	AdminAPIToken string // shared secret for the privileged mutation API
	SessionSecret string // HS256 signing key for the admin session cookie
	AdminPassword string // admin login password (plaintext or bcrypt hash)

	// AdminTOTPSecret enables a TOTP second factor on admin login when set.
	AdminTOTPSecret string

	// SiteURL is the canonical site origin for absolute URL generation,
	// already normalized by Load.
	SiteURL string

	// S3-compatible storage for featured image uploads. Optional.
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3PublicURL string
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. It returns an error when any required
// secret is missing: a missing secret must fail startup, never degrade into
// "no auth required".
func Load() (*Config, error) {
	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "emberpress"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "emberpress"),

		ValkeyHost:     os.Getenv("VALKEY_HOST"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		AdminAPIToken:   os.Getenv("ADMIN_API_TOKEN"),
		SessionSecret:   os.Getenv("SESSION_SECRET"),
		AdminPassword:   os.Getenv("ADMIN_PASSWORD"),
		AdminTOTPSecret: os.Getenv("ADMIN_TOTP_SECRET"),

		SiteURL: NormalizeSiteURL(os.Getenv("SITE_URL")),

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3Region:    envOrDefault("S3_REGION", "us-east-1"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3Bucket:    os.Getenv("S3_BUCKET"),
		S3PublicURL: os.Getenv("S3_PUBLIC_URL"),
	}

	if cfg.AdminAPIToken == "" {
		return nil, fmt.Errorf("ADMIN_API_TOKEN must be set")
	}
	if cfg.SessionSecret == "" {
		return nil, fmt.Errorf("SESSION_SECRET must be set")
	}
	if cfg.AdminPassword == "" {
		return nil, fmt.Errorf("ADMIN_PASSWORD must be set — admin login is disabled without it")
	}

	if cfg.Env == "production" {
		if cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
	}

	return cfg, nil
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

// CacheEnabled reports whether a Valkey page cache is configured.
func (c *Config) CacheEnabled() bool {
	return c.ValkeyHost != ""
}

// StorageEnabled reports whether S3 uploads are configured.
func (c *Config) StorageEnabled() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3Bucket != ""
}

// hasScheme matches an explicit http(s) scheme prefix.
var hasScheme = regexp.MustCompile(`(?i)^https?://`)

// NormalizeSiteURL turns a raw SITE_URL value into a canonical origin.
// Missing schemes get https, legacy hostnames collapse to the canonical
// default, and anything unparseable falls back to the default.
func NormalizeSiteURL(raw string) string {
	if raw == "" {
		return DefaultSiteURL
	}

	withScheme := raw
	if !hasScheme.MatchString(raw) {
		withScheme = "https://" + raw
	}

	parsed, err := url.Parse(withScheme)
	if err != nil || parsed.Hostname() == "" {
		return DefaultSiteURL
	}
	if legacyHostnames[strings.ToLower(parsed.Hostname())] {
		return DefaultSiteURL
	}
	return parsed.Scheme + "://" + parsed.Host
}

// IsLegacyHost reports whether a request Host header names one of the
// site's retired domains.
func IsLegacyHost(host string) bool {
	// Strip any port before matching.
	if idx := strings.LastIndexByte(host, ':'); idx != -1 && !strings.Contains(host[idx:], "]") {
		host = host[:idx]
	}
	return legacyHostnames[strings.ToLower(host)]
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
