package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the runtime settings, read from the environment
type Config struct {
	DashboardPath string

	QuoteAPIURL  string
	CoinID       string
	VsCurrency   string
	QuoteTimeout time.Duration

	UpdateInterval time.Duration

	HTTPAddr string
	GRPCAddr string
	APIToken string

	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	QuoteCacheTTL time.Duration
}

// Load builds the configuration from environment variables, filling defaults for unset ones
func Load() (*Config, error) {
	cfg := &Config{
		DashboardPath: getEnv("DASHBOARD_PATH", "xrp_consolidated_dashboard.json"),
		QuoteAPIURL:   getEnv("QUOTE_API_URL", "https://api.coingecko.com/api/v3"),
		CoinID:        getEnv("QUOTE_COIN_ID", "ripple"),
		VsCurrency:    strings.ToLower(strings.TrimSpace(getEnv("QUOTE_VS_CURRENCY", "usd"))),
		HTTPAddr:      getEnv("HTTP_ADDR", ":8081"),
		GRPCAddr:      getEnv("GRPC_ADDR", ":8080"),
		APIToken:      getEnv("API_TOKEN", "dev-token"),
		RedisHost:     os.Getenv("REDIS_HOST"), // empty disables the quote cache
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
	}

	timeoutSeconds, err := getInt("QUOTE_TIMEOUT_SECONDS", 10)
	if err != nil {
		return nil, err
	}
	cfg.QuoteTimeout = time.Duration(timeoutSeconds) * time.Second

	intervalMinutes, err := getInt("UPDATE_INTERVAL_MINUTES", 15)
	if err != nil {
		return nil, err
	}
	if intervalMinutes <= 0 {
		return nil, fmt.Errorf("invalid UPDATE_INTERVAL_MINUTES value: must be positive, got %d", intervalMinutes)
	}
	cfg.UpdateInterval = time.Duration(intervalMinutes) * time.Minute

	cfg.RedisDB, err = getInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}

	ttlMinutes, err := getInt("QUOTE_CACHE_TTL_MINUTES", 30)
	if err != nil {
		return nil, err
	}
	cfg.QuoteCacheTTL = time.Duration(ttlMinutes) * time.Minute

	return cfg, nil
}

// CacheEnabled reports whether a Redis host was configured
func (c *Config) CacheEnabled() bool {
	return c.RedisHost != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("invalid %s value: must not be negative, got %d", key, n)
	}
	return n, nil
}
