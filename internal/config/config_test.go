package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "dev-secret")
	t.Setenv("ADMIN_API_KEY", "k")
	t.Setenv("DB_DSN", "")
	t.Setenv("DB_HOST", "")
	t.Setenv("DB_NAME", "")
	t.Setenv("POSTGRES_DB", "")
	t.Setenv("PORT", "")

	cfg := Load()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 30*time.Minute, cfg.Grid.SessionIdleTimeout)
	assert.Equal(t, "300-M", cfg.RateLimit.Public)
	assert.Contains(t, cfg.Database.DSNString(), "host=localhost")
	assert.Contains(t, cfg.Database.DSNString(), "dbname=cabinetry")
}

func TestLoad_OverridesAndFallbacks(t *testing.T) {
	t.Setenv("DB_DSN", "")
	t.Setenv("DB_NAME", "")
	t.Setenv("POSTGRES_DB", "legacy")
	t.Setenv("GRID_SESSION_IDLE_TIMEOUT", "5m")
	t.Setenv("SERVER_READ_TIMEOUT", "nope")
	t.Setenv("ADMIN_ALLOWED_EMAILS", "Ana@Example.com, ops@example.com ,")

	cfg := Load()
	assert.Equal(t, "legacy", cfg.Database.Name)
	assert.Equal(t, 5*time.Minute, cfg.Grid.SessionIdleTimeout)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout, "un valor inválido cae al default")
	assert.Equal(t, []string{"Ana@Example.com", "ops@example.com"}, cfg.Admin.AllowedEmails)
	assert.True(t, cfg.Admin.AdminAllowed("ana@example.com"))
	assert.False(t, cfg.Admin.AdminAllowed("otro@example.com"))

	t.Setenv("DB_DSN", "postgres://u:p@db/x")
	assert.Equal(t, "postgres://u:p@db/x", Load().Database.DSNString())
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:  ServerConfig{Port: "8080", Environment: "development"},
			Admin:   AdminConfig{APIKey: "k", JWTSecret: "s"},
			Grid:    GridConfig{SessionIdleTimeout: time.Minute, SweepInterval: time.Second},
			Logging: LoggingConfig{Level: "info"},
		}
	}
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"bad port", func(c *Config) { c.Server.Port = "http" }, true},
		{"missing jwt secret", func(c *Config) { c.Admin.JWTSecret = "" }, true},
		{"short secret in production", func(c *Config) { c.Server.Environment = "production" }, true},
		{"missing api key", func(c *Config) { c.Admin.APIKey = "" }, true},
		{"zero idle timeout", func(c *Config) { c.Grid.SessionIdleTimeout = 0 }, true},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			if tt.wantErr {
				assert.Error(t, c.Validate())
			} else {
				assert.NoError(t, c.Validate())
			}
		})
	}
}
