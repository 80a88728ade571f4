package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 9090, cfg.Server.MetricsPort)
	assert.Equal(t, "sqlite3", cfg.Database.Driver)
	assert.Equal(t, "session", cfg.Auth.Provider)
	assert.Equal(t, 24*time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, "sandbox", cfg.Plaid.Environment)
	assert.Equal(t, 2*time.Second, cfg.Simulator.Delay)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 9000
auth:
  provider: jwt
  jwt_secret: file-secret
plaid:
  environment: development
simulator:
  delay: 50ms
log_level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 9090, cfg.Server.MetricsPort, "unset values keep their defaults")
	assert.Equal(t, "jwt", cfg.Auth.Provider)
	assert.Equal(t, "file-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, "development", cfg.Plaid.Environment)
	assert.Equal(t, 50*time.Millisecond, cfg.Simulator.Delay)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadAppliesEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: info\n"), 0o644))

	t.Setenv("PLAID_CLIENT_ID", "env-client")
	t.Setenv("PLAID_SECRET", "env-secret")
	t.Setenv("FINNHUB_API_KEY", "env-finnhub")
	t.Setenv("JWT_SECRET", "env-jwt")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env-client", cfg.Plaid.ClientID)
	assert.Equal(t, "env-secret", cfg.Plaid.Secret)
	assert.Equal(t, "env-finnhub", cfg.Finnhub.APIKey)
	assert.Equal(t, "env-jwt", cfg.Auth.JWTSecret)
}

func TestPlaidBaseURL(t *testing.T) {
	tests := []struct {
		environment string
		want        string
	}{
		{"production", "https://production.plaid.com"},
		{"development", "https://development.plaid.com"},
		{"sandbox", "https://sandbox.plaid.com"},
		{"", "https://sandbox.plaid.com"},
		{"bogus", "https://sandbox.plaid.com"},
	}

	for _, tt := range tests {
		cfg := Default()
		cfg.Plaid.Environment = tt.environment
		assert.Equal(t, tt.want, cfg.PlaidBaseURL(), "environment %q", tt.environment)
	}
}
