package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Preference backends
const (
	BackendCookie = "cookie"
	BackendRedis  = "redis"
)

// Event bus implementations
const (
	EventBusMemory = "memory"
	EventBusRedis  = "redis"
)

// Config holds all configuration for the simulator backend
type Config struct {
	// Server configuration
	HTTPPort int    `env:"WDCSIM_HTTP_PORT" envDefault:"8080"`
	GRPCPort int    `env:"WDCSIM_GRPC_PORT" envDefault:"9090"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Origins allowed to call the API with credentials. Empty means same-origin only.
	CORSOrigins []string `env:"WDCSIM_CORS_ORIGINS" envSeparator:","`

	// Where user preferences (showAdvanced, mostRecentUrls) live
	PreferenceBackend string `env:"WDCSIM_PREFERENCE_BACKEND" envDefault:"cookie"`

	// Which bus relays connector messages
	EventBus string `env:"WDCSIM_EVENT_BUS" envDefault:"memory"`

	// Cookie configuration
	Cookies CookieConfig

	// Relay configuration
	Relay RelayConfig

	// Redis configuration
	Redis RedisConfig

	// Timeouts
	Timeouts TimeoutConfig
}

// CookieConfig holds the attributes of cookies written by the simulator
type CookieConfig struct {
	Path          string        `env:"WDCSIM_COOKIE_PATH" envDefault:"/"`
	Domain        string        `env:"WDCSIM_COOKIE_DOMAIN"`
	MaxAge        time.Duration `env:"WDCSIM_COOKIE_MAX_AGE" envDefault:"8760h"`
	Secure        bool          `env:"WDCSIM_COOKIE_SECURE" envDefault:"false"`
	SessionCookie string        `env:"WDCSIM_SESSION_COOKIE" envDefault:"wdcsim_sid"`
	MaxRecentURLs int           `env:"WDCSIM_MAX_RECENT_URLS" envDefault:"10"`
	PreferenceTTL time.Duration `env:"WDCSIM_PREFERENCE_TTL" envDefault:"720h"`
}

// RelayConfig holds connector message relay configuration
type RelayConfig struct {
	MaxPayloadBytes int           `env:"WDCSIM_MAX_PAYLOAD_BYTES" envDefault:"1048576"`
	StreamMaxLen    int64         `env:"WDCSIM_STREAM_MAX_LEN" envDefault:"10000"`
	SweepInterval   time.Duration `env:"WDCSIM_SESSION_SWEEP_INTERVAL" envDefault:"1m"`
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASS"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`

	// Connection pool settings
	PoolSize     int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	MaxRetries   int           `env:"REDIS_MAX_RETRIES" envDefault:"3"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"3s"`
}

// TimeoutConfig holds various timeout configurations
type TimeoutConfig struct {
	SessionIdleTimeout time.Duration `env:"WDCSIM_SESSION_IDLE_TIMEOUT" envDefault:"30m"`
	ShutdownTimeout    time.Duration `env:"TIMEOUT_SHUTDOWN" envDefault:"30s"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate server ports
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.GRPCPort < 1 || c.GRPCPort > 65535 {
		return fmt.Errorf("invalid gRPC port: %d", c.GRPCPort)
	}

	switch c.PreferenceBackend {
	case BackendCookie, BackendRedis:
	default:
		return fmt.Errorf("unsupported preference backend: %s (must be cookie or redis)", c.PreferenceBackend)
	}

	switch c.EventBus {
	case EventBusMemory, EventBusRedis:
	default:
		return fmt.Errorf("unsupported event bus: %s (must be memory or redis)", c.EventBus)
	}

	// Redis is only needed when a redis-backed component is selected
	if c.UsesRedis() && c.Redis.Addr == "" {
		return fmt.Errorf("redis address is required when a redis backend is selected")
	}

	for _, origin := range c.CORSOrigins {
		if origin == "" || origin == "*" {
			return fmt.Errorf("invalid CORS origin: %q (must be an explicit origin)", origin)
		}
	}

	if c.Cookies.SessionCookie == "" {
		return fmt.Errorf("session cookie name is required")
	}
	if c.Cookies.MaxRecentURLs < 1 {
		return fmt.Errorf("max recent URLs must be at least 1")
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// UsesRedis reports whether any component needs a Redis connection
func (c *Config) UsesRedis() bool {
	return c.PreferenceBackend == BackendRedis || c.EventBus == EventBusRedis
}

// GetHTTPAddr returns the HTTP server address
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// GetGRPCAddr returns the gRPC server address
func (c *Config) GetGRPCAddr() string {
	return fmt.Sprintf(":%d", c.GRPCPort)
}
