package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/ulule/limiter/v3"
)

// Config holds application configuration
type Config struct {
	BackendURL        string
	BackendTimeout    time.Duration
	TimestampTimezone string
	Location          *time.Location
	ServerPort        string
	FrontendURL       string
	EnableHSTS        bool
	RedisURL          string
	SnapshotCacheTTL  time.Duration
	RateLimit         string
	RabbitMQURL       string
	RabbitMQPrefetch  int
	ReportTTL         time.Duration
	WorkerDebugMode   bool
	ServerDebugMode   bool
	OTELEnabled       bool
	OTELEndpoint      string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		BackendURL:        getEnv("BACKEND_URL", "http://127.0.0.1:3010"),
		BackendTimeout:    getEnvDuration("BACKEND_TIMEOUT", 10*time.Second),
		TimestampTimezone: getEnv("TIMESTAMP_TIMEZONE", "UTC"),
		ServerPort:        getEnv("SERVER_PORT", "8080"),
		FrontendURL:       getEnv("FRONTEND_URL", "http://localhost:5173"),
		EnableHSTS:        getEnvBool("ENABLE_HSTS", false),
		RedisURL:          getEnv("REDIS_URL", ""),
		SnapshotCacheTTL:  getEnvDuration("SNAPSHOT_CACHE_TTL", 15*time.Second),
		RateLimit:         getEnv("RATE_LIMIT", "20-S"),
		RabbitMQURL:       getEnv("RABBITMQ_URL", ""),
		RabbitMQPrefetch:  getEnvInt("RABBITMQ_PREFETCH", 1),
		ReportTTL:         getEnvDuration("REPORT_TTL", 24*time.Hour),
		WorkerDebugMode:   getEnvBool("WORKER_DEBUG_MODE", false),
		ServerDebugMode:   getEnvBool("SERVER_DEBUG_MODE", false),
		OTELEnabled:       getEnvBool("OTEL_ENABLED", false),
		OTELEndpoint:      getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	u, err := url.Parse(c.BackendURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("BACKEND_URL must be an absolute http(s) URL, got %q", c.BackendURL)
	}

	loc, err := time.LoadLocation(c.TimestampTimezone)
	if err != nil {
		return fmt.Errorf("invalid TIMESTAMP_TIMEZONE: %w", err)
	}
	c.Location = loc

	if _, err := limiter.NewRateFromFormatted(c.RateLimit); err != nil {
		return fmt.Errorf("invalid RATE_LIMIT: %w", err)
	}

	if c.BackendTimeout <= 0 {
		return fmt.Errorf("BACKEND_TIMEOUT must be positive")
	}
	if c.RabbitMQPrefetch < 1 {
		return fmt.Errorf("RABBITMQ_PREFETCH must be at least 1")
	}
	if c.ReportTTL <= 0 {
		return fmt.Errorf("REPORT_TTL must be positive")
	}
	return nil
}

// RequireQueue returns an error unless RabbitMQ is configured. The worker cannot run without it.
func (c *Config) RequireQueue() error {
	if c.RabbitMQURL == "" {
		return fmt.Errorf("RABBITMQ_URL is required for report processing")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("30s") or a plain number of seconds
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
