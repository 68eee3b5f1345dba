package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: https://api.trellone.test/v1
  timeout: 3s
realtime:
  transport: redis
redis:
  url: redis://localhost:6379/2
server:
  enabled: false
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://api.trellone.test/v1", cfg.API.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.API.Timeout)
	assert.Equal(t, TransportRedis, cfg.Realtime.Transport)
	assert.False(t, cfg.Server.Enabled)
	// untouched sections keep defaults
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 60*time.Second, cfg.Socket.PongWait)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "8090", cfg.Server.Port)
	assert.Equal(t, TransportWebSocket, cfg.Realtime.Transport)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("API_BASE_URL", "https://env.trellone.test/v1")
	t.Setenv("API_ACCESS_TOKEN", "token-123")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("RESYNC_SCHEDULE", "@every 1m")
	t.Setenv("CORS_ORIGINS", "http://a.test,http://b.test")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "https://env.trellone.test/v1", cfg.API.BaseURL)
	assert.Equal(t, "token-123", cfg.API.AccessToken)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "@every 1m", cfg.Resync.Schedule)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.CORSOrigins)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:   "defaults with secret are valid",
			mutate: func(c *Config) { c.JWT.Secret = "s" },
		},
		{
			name:    "unknown transport",
			mutate:  func(c *Config) { c.JWT.Secret = "s"; c.Realtime.Transport = "carrier-pigeon" },
			wantErr: "invalid configuration",
		},
		{
			name:    "websocket transport needs url",
			mutate:  func(c *Config) { c.JWT.Secret = "s"; c.Socket.URL = "" },
			wantErr: "socket.url",
		},
		{
			name:    "redis transport needs address",
			mutate:  func(c *Config) { c.JWT.Secret = "s"; c.Realtime.Transport = TransportRedis; c.Redis.Addr = "" },
			wantErr: "redis.url",
		},
		{
			name:    "local api needs secret",
			mutate:  func(c *Config) {},
			wantErr: "jwt.secret",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.JWT.Secret = "s"; c.Logger.Level = "verbose" },
			wantErr: "invalid configuration",
		},
		{
			name:    "api url required",
			mutate:  func(c *Config) { c.JWT.Secret = "s"; c.API.BaseURL = "" },
			wantErr: "invalid configuration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
