package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers selectable via STORE_DRIVER.
const (
	StoreDriverMemory = "memory"
	StoreDriverSQLite = "sqlite"
)

type AppConfig struct {
	// OpenAQAPIKey enables the outbound OpenAQ provider when set.
	OpenAQAPIKey string

	// FetchInterval controls how often we sample each region.
	FetchInterval time.Duration

	// Snapshot store selection and retention.
	StoreDriver     string
	SQLitePath      string
	StoreMaxHistory int           // max number of snapshots per region (0 = unlimited)
	StoreMaxAge     time.Duration // max age of snapshots (0 = unlimited)

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.OpenAQAPIKey = os.Getenv("OPENAQ_API_KEY")

	// Sampling interval: default 15 minutes.
	intervalStr := getenvDefault("FETCH_INTERVAL", "15m")
	interval, err := time.ParseDuration(intervalStr)
	if err != nil {
		return nil, fmt.Errorf("invalid FETCH_INTERVAL: %w", err)
	}
	cfg.FetchInterval = interval

	cfg.StoreDriver = getenvDefault("STORE_DRIVER", StoreDriverMemory)
	switch cfg.StoreDriver {
	case StoreDriverMemory, StoreDriverSQLite:
	default:
		return nil, fmt.Errorf("invalid STORE_DRIVER %q: must be %q or %q", cfg.StoreDriver, StoreDriverMemory, StoreDriverSQLite)
	}
	cfg.SQLitePath = getenvDefault("SQLITE_PATH", "data/aqllm.db")

	// Store retention.
	cfg.StoreMaxHistory = getenvInt("STORE_MAX_HISTORY", 96) // roughly 24h at 15-minute intervals

	maxAgeStr := getenvDefault("STORE_MAX_AGE", "24h")
	maxAge, err := time.ParseDuration(maxAgeStr)
	if err != nil {
		return nil, fmt.Errorf("invalid STORE_MAX_AGE: %w", err)
	}
	cfg.StoreMaxAge = maxAge
	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}
