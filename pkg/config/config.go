// Package config loads batch-driver configuration from environment
// variables, with an optional .env file for development.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds driver configuration. Tier, paths, and batching are driver
// concerns; the oracle core itself takes no configuration beyond its call
// arguments.
type Config struct {
	// Application
	AppEnv   string
	LogLevel string

	// Oracle driver
	Tier          int
	WorldPath     string
	InstancesPath string
	OutputPath    string
	ArchivePath   string
	Workers       int
}

// Load loads configuration from environment variables. CLI flags override
// these values where both are given.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("SLOTWISE_LOG_LEVEL", "info"),

		Tier:          getIntEnv("SLOTWISE_TIER", 1),
		WorldPath:     getEnv("SLOTWISE_WORLD", ""),
		InstancesPath: getEnv("SLOTWISE_INSTANCES", ""),
		OutputPath:    getEnv("SLOTWISE_OUTPUT", ""),
		ArchivePath:   getEnv("SLOTWISE_ARCHIVE", ""),
		Workers:       getIntEnv("SLOTWISE_WORKERS", 1),
	}

	return cfg, nil
}

// IsDevelopment reports whether the app runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}
