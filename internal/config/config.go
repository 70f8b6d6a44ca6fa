package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	BackendDisk   = "disk"
	BackendBolt   = "bolt"
	BackendMemory = "memory"
)

type Config struct {
	APIAddr      string
	UploadsPath  string
	Backend      string
	DBFile       string
	CacheTTL     time.Duration
	CacheEntries int
	ServerURL    string
}

func Load() (*Config, error) {
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL: %w", err)
	}

	cacheEntries, err := strconv.Atoi(getEnv("CACHE_ENTRIES", "64"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_ENTRIES: %w", err)
	}

	cfg := &Config{
		APIAddr:      getEnv("API_ADDR", "0.0.0.0:7870"),
		UploadsPath:  getEnv("UPLOADS_PATH", "/tmp/uploads"),
		Backend:      getEnv("STORE_BACKEND", BackendDisk),
		DBFile:       getEnv("HASHBOX_DB", "hashbox.db"),
		CacheTTL:     cacheTTL,
		CacheEntries: cacheEntries,
		ServerURL:    getEnv("SERVER_URL", "http://localhost:7870"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.APIAddr == "" {
		return fmt.Errorf("API_ADDR is required")
	}

	if c.CacheTTL < 0 {
		return fmt.Errorf("CACHE_TTL must not be negative")
	}

	if c.CacheEntries < 0 {
		return fmt.Errorf("CACHE_ENTRIES must not be negative")
	}

	switch c.Backend {
	case BackendDisk:
		if c.UploadsPath == "" {
			return fmt.Errorf("UPLOADS_PATH is required for the %s backend", c.Backend)
		}
	case BackendBolt:
		if c.DBFile == "" {
			return fmt.Errorf("HASHBOX_DB is required for the %s backend", c.Backend)
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.Backend)
	}

	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
