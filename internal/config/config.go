package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Plaid     PlaidConfig     `yaml:"plaid"`
	Finnhub   FinnhubConfig   `yaml:"finnhub"`
	Simulator SimulatorConfig `yaml:"simulator"`
	LogLevel  string          `yaml:"log_level"`
}

type ServerConfig struct {
	Port        int `yaml:"port"`
	MetricsPort int `yaml:"metrics_port"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite3 or postgres
	DSN    string `yaml:"dsn"`
}

// AuthConfig selects and configures the authentication provider. Exactly one
// provider is active per deployment; the two wirings are never mixed.
type AuthConfig struct {
	Provider   string        `yaml:"provider"` // "jwt" or "session"
	JWTSecret  string        `yaml:"jwt_secret"`
	LoginURL   string        `yaml:"login_url"`  // identity provider login page (jwt provider)
	LogoutURL  string        `yaml:"logout_url"` // identity provider logout page (jwt provider)
	SessionTTL time.Duration `yaml:"session_ttl"`
}

type PlaidConfig struct {
	Environment string        `yaml:"environment"` // sandbox, development or production
	ClientID    string        `yaml:"client_id"`
	Secret      string        `yaml:"secret"`
	Timeout     time.Duration `yaml:"timeout"`
}

type FinnhubConfig struct {
	APIKey  string        `yaml:"api_key"`
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type SimulatorConfig struct {
	Delay time.Duration `yaml:"delay"`
}

// Load reads the YAML configuration file, applies defaults and overlays
// secrets from the environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyEnv()
	return cfg, nil
}

// Default returns the configuration used when no file value is set.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        8080,
			MetricsPort: 9090,
		},
		Database: DatabaseConfig{
			Driver: "sqlite3",
			DSN:    "financeos.db",
		},
		Auth: AuthConfig{
			Provider:   "session",
			SessionTTL: 24 * time.Hour,
		},
		Plaid: PlaidConfig{
			Environment: "sandbox",
			Timeout:     15 * time.Second,
		},
		Finnhub: FinnhubConfig{
			BaseURL: "https://finnhub.io/api/v1",
			Timeout: 15 * time.Second,
		},
		Simulator: SimulatorConfig{
			Delay: 2 * time.Second,
		},
		LogLevel: "info",
	}
}

// applyEnv overlays secrets from the environment so credentials never have to
// live in the config file.
func (c *Config) applyEnv() {
	if v := os.Getenv("PLAID_CLIENT_ID"); v != "" {
		c.Plaid.ClientID = v
	}
	if v := os.Getenv("PLAID_SECRET"); v != "" {
		c.Plaid.Secret = v
	}
	if v := os.Getenv("PLAID_ENV"); v != "" {
		c.Plaid.Environment = v
	}
	if v := os.Getenv("FINNHUB_API_KEY"); v != "" {
		c.Finnhub.APIKey = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		c.Database.DSN = v
	}
}

// PlaidBaseURL resolves the Plaid environment to its API base URL. Unknown
// environments fall back to sandbox.
func (c *Config) PlaidBaseURL() string {
	switch c.Plaid.Environment {
	case "production":
		return "https://production.plaid.com"
	case "development":
		return "https://development.plaid.com"
	default:
		return "https://sandbox.plaid.com"
	}
}
