// Package config loads and validates the sitesmith server configuration.
// Configuration lives in a toml file; secrets can be overridden through
// the environment (optionally loaded from a .env file via godotenv).
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Version is the supported config file format version.
const Version = "0.1"

// AuthConfig holds authentication-related configuration.
type AuthConfig struct {
	TokenValidity string `toml:"token_validity"` // session token validity duration
	SigningSecret string `toml:"-"`              // HS256 secret, env only
}

// GetTokenValidity returns the session token validity as a
// time.Duration.
func (a *AuthConfig) GetTokenValidity() (time.Duration, error) {
	return ParseDuration(a.TokenValidity)
}

// GetTokenValidityOrDefault returns the session token validity or panics
// if the configured value is invalid.
func (a *AuthConfig) GetTokenValidityOrDefault() time.Duration {
	d, err := a.GetTokenValidity()
	if err != nil {
		panic(fmt.Sprintf("invalid token validity: %v", err))
	}
	return d
}

// ConfigParam holds all configuration parameters for the sitesmith
// server.
type ConfigParam struct {
	FormatVersion string `toml:"format_version"`

	ServerHostName     string `toml:"server_hostname"`
	ServerPort         string `toml:"server_port"`
	HandleCORS         bool   `toml:"handle_cors"`
	CORSOrigin         string `toml:"cors_origin"`
	RequestTimeout     string `toml:"request_timeout"`
	MaxRequestBodySize int64  `toml:"max_request_body_size"`

	Auth AuthConfig `toml:"auth"`

	DB struct {
		Host     string `toml:"host"`
		Port     int    `toml:"port"`
		DBName   string `toml:"dbname"`
		User     string `toml:"user"`
		Password string `toml:"-"` // env only
		SSLMode  string `toml:"sslmode"`
	} `toml:"db"`
}

var cfg *ConfigParam

// Config returns the current configuration.
func Config() *ConfigParam {
	return cfg
}

// DSN returns the database connection string.
func (c *ConfigParam) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host, c.DB.Port, c.DB.User, c.DB.Password, c.DB.DBName, c.DB.SSLMode)
}

// GetRequestTimeout returns the per-request handler timeout.
func (c *ConfigParam) GetRequestTimeout() time.Duration {
	d, err := ParseDuration(c.RequestTimeout)
	if err != nil {
		panic(fmt.Sprintf("invalid request timeout: %v", err))
	}
	return d
}

// ParseDuration parses a duration string in the format "<number><unit>"
// where unit is one of s, m, h, or d.
func ParseDuration(input string) (time.Duration, error) {
	if len(input) < 2 {
		return 0, fmt.Errorf("invalid duration format")
	}
	unit := input[len(input)-1:]
	value, err := strconv.Atoi(input[:len(input)-1])
	if err != nil {
		return 0, fmt.Errorf("invalid number: %s", err)
	}
	switch unit {
	case "s":
		return time.Duration(value) * time.Second, nil
	case "m":
		return time.Duration(value) * time.Minute, nil
	case "h":
		return time.Duration(value) * time.Hour, nil
	case "d":
		return time.Duration(value) * 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("unknown time unit: %s", unit)
	}
}

// LoadConfig loads configuration from the given toml file, applies
// environment overrides, and validates the result.
func LoadConfig(filename string) error {
	if filename == "" {
		return fmt.Errorf("config filename is required")
	}

	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	cfg = &ConfigParam{}
	if _, err := toml.Decode(string(content), cfg); err != nil {
		return fmt.Errorf("error parsing config file: %v", err)
	}

	applyEnvOverrides(cfg)

	if err := ValidateConfig(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %v", err)
	}
	return nil
}

// applyEnvOverrides pulls secrets from the environment. A .env file next
// to the working directory is honored when present.
func applyEnvOverrides(c *ConfigParam) {
	_ = godotenv.Load()

	if v := os.Getenv("SITESMITH_DB_PASSWORD"); v != "" {
		c.DB.Password = v
	}
	if v := os.Getenv("SITESMITH_SIGNING_SECRET"); v != "" {
		c.Auth.SigningSecret = v
	}
}

// ValidateConfig checks that all required configuration values are
// present and valid.
func ValidateConfig(c *ConfigParam) error {
	if c.FormatVersion != Version {
		return fmt.Errorf("unsupported config file format version: %s", c.FormatVersion)
	}
	if c.ServerPort == "" {
		return fmt.Errorf("server_port is required")
	}
	if c.RequestTimeout == "" {
		c.RequestTimeout = "30s"
	}
	if _, err := ParseDuration(c.RequestTimeout); err != nil {
		return fmt.Errorf("invalid request_timeout: %v", err)
	}
	if c.MaxRequestBodySize <= 0 {
		c.MaxRequestBodySize = 1 << 20
	}
	if c.HandleCORS && c.CORSOrigin == "" {
		return fmt.Errorf("cors_origin is required when handle_cors is set")
	}
	if c.Auth.TokenValidity == "" {
		return fmt.Errorf("auth.token_validity is required")
	}
	if _, err := ParseDuration(c.Auth.TokenValidity); err != nil {
		return fmt.Errorf("invalid auth.token_validity: %v", err)
	}
	if c.Auth.SigningSecret == "" {
		// Intended for local preview only. Production deployments must
		// set SITESMITH_SIGNING_SECRET.
		c.Auth.SigningSecret = "sitesmith-dev-secret"
	}
	return nil
}

var isTest = false

// IsTest reports whether the process runs under the test configuration.
func IsTest() bool {
	return isTest
}

// TestInit installs an in-process configuration for unit tests. Tests use
// the in-memory store, so no DB block is required.
func TestInit() {
	isTest = true
	cfg = &ConfigParam{
		FormatVersion:      Version,
		ServerHostName:     "localhost",
		ServerPort:         "8678",
		RequestTimeout:     "30s",
		MaxRequestBodySize: 1 << 20,
		Auth: AuthConfig{
			TokenValidity: "1h",
			SigningSecret: "sitesmith-test-secret",
		},
	}
}
