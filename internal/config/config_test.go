package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, BackendCookie, cfg.PreferenceBackend)
	assert.Equal(t, EventBusMemory, cfg.EventBus)
	assert.Equal(t, "/", cfg.Cookies.Path)
	assert.Equal(t, 8760*time.Hour, cfg.Cookies.MaxAge)
	assert.Equal(t, "wdcsim_sid", cfg.Cookies.SessionCookie)
	assert.Equal(t, 10, cfg.Cookies.MaxRecentURLs)
	assert.Equal(t, 30*time.Minute, cfg.Timeouts.SessionIdleTimeout)
	assert.False(t, cfg.UsesRedis())
	assert.Empty(t, cfg.CORSOrigins)
	assert.Equal(t, ":8080", cfg.GetHTTPAddr())
	assert.Equal(t, ":9090", cfg.GetGRPCAddr())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("WDCSIM_HTTP_PORT", "9000")
	t.Setenv("WDCSIM_PREFERENCE_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("WDCSIM_MAX_RECENT_URLS", "3")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("WDCSIM_CORS_ORIGINS", "http://localhost:3000,https://sim.example")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.HTTPPort)
	assert.True(t, cfg.UsesRedis())
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, 3, cfg.Cookies.MaxRecentURLs)
	assert.Equal(t, []string{"http://localhost:3000", "https://sim.example"}, cfg.CORSOrigins)
}

func TestLoad_RedisBackendNeedsAddr(t *testing.T) {
	t.Setenv("WDCSIM_EVENT_BUS", "redis")

	_, err := Load()
	assert.ErrorContains(t, err, "redis address is required")
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, err := Load()
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"bad http port", func(c *Config) { c.HTTPPort = 0 }, "invalid HTTP port"},
		{"bad grpc port", func(c *Config) { c.GRPCPort = 70000 }, "invalid gRPC port"},
		{"bad backend", func(c *Config) { c.PreferenceBackend = "file" }, "unsupported preference backend"},
		{"bad bus", func(c *Config) { c.EventBus = "kafka" }, "unsupported event bus"},
		{"no session cookie", func(c *Config) { c.Cookies.SessionCookie = "" }, "session cookie name"},
		{"no recent urls", func(c *Config) { c.Cookies.MaxRecentURLs = 0 }, "max recent URLs"},
		{"wildcard origin", func(c *Config) { c.CORSOrigins = []string{"*"} }, "invalid CORS origin"},
		{"bad log level", func(c *Config) { c.LogLevel = "trace" }, "invalid log level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.errMsg)
		})
	}
}
