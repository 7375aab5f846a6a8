// Package config loads and validates environment variables at startup.
// Fail-fast: a malformed value is an error, never silently defaulted.
package config

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"jobmate/search-service/internal/upstream"
)

// Config holds all runtime configuration for the search service.
type Config struct {
	Port     string
	GRPCPort string

	UpstreamURL string
	PageSize    int
	HTTPTimeout time.Duration

	DatabaseURL  string        // optional: enables the local listing catalog
	RedisURL     string        // optional: enables the page cache
	PageCacheTTL time.Duration

	SessionIdleTTL   time.Duration
	SessionSweepSpec string // cron spec, e.g. "@every 5m"
	ProbeSpec        string

	FilterOptionsPath string // optional YAML, embedded defaults otherwise
	LogLevel          slog.Level
	GinMode           string
}

// Load reads .env (when present) and environment variables and returns a
// validated Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[config] .env not loaded: %v", err)
	}

	cfg := &Config{
		Port:              getEnv("SEARCH_PORT", "8083"),
		GRPCPort:          getEnv("GRPC_PORT", "9093"),
		UpstreamURL:       getEnv("UPSTREAM_URL", upstream.DefaultURL),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		RedisURL:          os.Getenv("REDIS_URL"),
		SessionSweepSpec:  getEnv("SESSION_SWEEP_SPEC", "@every 5m"),
		ProbeSpec:         getEnv("UPSTREAM_PROBE_SPEC", "@every 1m"),
		FilterOptionsPath: os.Getenv("FILTER_OPTIONS_PATH"),
		GinMode:           getEnv("GIN_MODE", "release"),
	}

	var err error
	if cfg.PageSize, err = positiveInt("PAGE_SIZE", 5); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = positiveDuration("HTTP_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.PageCacheTTL, err = positiveDuration("PAGE_CACHE_TTL", 2*time.Minute); err != nil {
		return nil, err
	}
	if cfg.SessionIdleTTL, err = positiveDuration("SESSION_IDLE_TTL", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.LogLevel, err = logLevel(getEnv("LOG_LEVEL", "info")); err != nil {
		return nil, err
	}

	if !strings.HasPrefix(cfg.UpstreamURL, "http://") && !strings.HasPrefix(cfg.UpstreamURL, "https://") {
		return nil, fmt.Errorf("UPSTREAM_URL must be an http(s) URL, got %q", cfg.UpstreamURL)
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func positiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, s)
	}
	return v, nil
}

func positiveDuration(key string, def time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration, got %q", key, s)
	}
	return d, nil
}

func logLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return lvl, nil
}
