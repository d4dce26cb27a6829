package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	Port string
	Env  string

	// Read model. DatabaseURL selects PostgreSQL; otherwise SQLite at
	// SQLitePath is used.
	DatabaseURL string
	SQLitePath  string
	RedisURL    string

	// Upstream services
	CategorizerURL string // POST /refresh
	DrafterURL     string // POST /draft-email, POST /email-draft

	// Simulated worker-location search latency window
	SearchDelayMin time.Duration
	SearchDelayMax time.Duration

	// Outbound HTTP policy for the categorizer/drafter calls
	UpstreamTimeout time.Duration
	RetryAttempts   int
	RetryBackoff    time.Duration
}

// Load reads configuration from environment variables.
// In development, it loads from .env file if present.
// In production, it panics on missing required variables.
func Load() *Config {
	// Load .env file if it exists (for development)
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		SQLitePath:  getEnv("SQLITE_PATH", "./data/lagent.db"),
		RedisURL:    os.Getenv("REDIS_URL"),

		CategorizerURL: getEnv("CATEGORIZER_URL", "http://localhost:8000"),
		DrafterURL:     getEnv("DRAFTER_URL", "http://localhost:8000"),

		SearchDelayMin: getEnvDuration("SEARCH_DELAY_MIN", 2*time.Second),
		SearchDelayMax: getEnvDuration("SEARCH_DELAY_MAX", 4*time.Second),

		UpstreamTimeout: getEnvDuration("UPSTREAM_TIMEOUT", 10*time.Second),
		RetryAttempts:   getEnvInt("RETRY_ATTEMPTS", 3),
		RetryBackoff:    getEnvDuration("RETRY_BACKOFF", 500*time.Millisecond),
	}

	// In production, require the upstream endpoints and a real read model
	if cfg.Env == "production" {
		if cfg.DatabaseURL == "" {
			panic("DATABASE_URL is required in production")
		}
		if os.Getenv("CATEGORIZER_URL") == "" {
			panic("CATEGORIZER_URL is required in production")
		}
		if os.Getenv("DRAFTER_URL") == "" {
			panic("DRAFTER_URL is required in production")
		}
	}

	return cfg
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
