package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	API     APIOptions
	Breaker BreakerOptions
	Cache   CacheOptions
	Server  ServerOptions
}

// APIOptions configure the client side of the remote API.
type APIOptions struct {
	BaseURL           string        `env:"API_BASE_URL" envDefault:"http://localhost:8080"`
	RequestTimeout    time.Duration `env:"API_REQUEST_TIMEOUT" envDefault:"30s"`
	SessionFile       string        `env:"SESSION_FILE"`
	SessionCookieName string        `env:"SESSION_COOKIE_NAME" envDefault:"token"`
}

// BreakerOptions configure the gateway circuit breaker. A zero threshold disables it.
type BreakerOptions struct {
	FailureThreshold int           `env:"BREAKER_FAILURE_THRESHOLD" envDefault:"5"`
	SuccessThreshold int           `env:"BREAKER_SUCCESS_THRESHOLD" envDefault:"1"`
	OpenTimeout      time.Duration `env:"BREAKER_OPEN_TIMEOUT" envDefault:"15s"`
}

// CacheOptions select where the employee-name directory is kept.
type CacheOptions struct {
	Backend      string        `env:"CACHE_BACKEND" envDefault:"memory"` // memory or redis
	RedisURL     string        `env:"REDIS_URL" envDefault:"redis://localhost:6379"`
	DirectoryTTL time.Duration `env:"DIRECTORY_TTL" envDefault:"2m"`
}

// ServerOptions configure the development API server.
type ServerOptions struct {
	Port               int           `env:"SERVER_PORT" envDefault:"8080"`
	JWTSecret          string        `env:"JWT_SECRET"`
	CORSAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://localhost:5173"`
	RateLimitPerMinute int           `env:"RATE_LIMIT_PER_MINUTE" envDefault:"300"`
	SeedDemoData       bool          `env:"SEED_DEMO_DATA" envDefault:"true"`
	DemoPassword       string        `env:"DEMO_PASSWORD" envDefault:"changeme"`
	SessionTTL         time.Duration `env:"SESSION_TTL" envDefault:"8h"`
	ExpiryInterval     time.Duration `env:"EXPIRY_INTERVAL" envDefault:"1h"`
}

// Load reads .env files (when present) and then environment variables.
func Load() (*Config, error) {
	if err := loadEnvFiles(".env", ".env.local"); err != nil {
		return nil, fmt.Errorf("failed to load env files: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if cfg.API.SessionFile == "" {
		cfg.API.SessionFile = defaultSessionFile()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for errors
func (c *Config) Validate() error {
	if err := c.API.Validate(); err != nil {
		return err
	}
	if c.Breaker.FailureThreshold < 0 || c.Breaker.SuccessThreshold < 0 {
		return fmt.Errorf("breaker thresholds must be non-negative")
	}
	if c.Cache.Backend != "memory" && c.Cache.Backend != "redis" {
		return fmt.Errorf("CACHE_BACKEND must be 'memory' or 'redis', got '%s'", c.Cache.Backend)
	}
	if c.Cache.Backend == "redis" && c.Cache.RedisURL == "" {
		return fmt.Errorf("REDIS_URL is required when CACHE_BACKEND is 'redis'")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid SERVER_PORT: %d", c.Server.Port)
	}
	if c.Server.SeedDemoData && len(c.Server.DemoPassword) < 6 {
		return fmt.Errorf("DEMO_PASSWORD must be at least 6 characters when SEED_DEMO_DATA is set")
	}
	if c.Server.RateLimitPerMinute < 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be non-negative, got %d", c.Server.RateLimitPerMinute)
	}
	return nil
}

// Validate checks that the base URL is absolute.
func (a *APIOptions) Validate() error {
	u, err := url.Parse(strings.TrimSpace(a.BaseURL))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid API_BASE_URL: %q", a.BaseURL)
	}
	if a.RequestTimeout <= 0 {
		return fmt.Errorf("API_REQUEST_TIMEOUT must be positive")
	}
	if a.SessionCookieName == "" {
		return fmt.Errorf("SESSION_COOKIE_NAME must not be empty")
	}
	return nil
}

func loadEnvFiles(files ...string) error {
	existing := make([]string, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".allocdesk", "session")
	}
	return filepath.Join(home, ".allocdesk", "session")
}
