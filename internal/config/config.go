// Package config loads runtime configuration from the environment.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application runtime configuration.
type Config struct {
	DataDir  string
	HTTPPort string

	// Remote endpoint for cloud replication. Sync stays disabled when the
	// URL is empty; local CRUD never depends on it.
	RemoteURL    string
	RemoteAPIKey string

	SyncInterval  time.Duration
	PushInterval  time.Duration
	RemoteTimeout time.Duration
	PushBatchSize int

	LogLevel string
	LogFile  string
}

// Load reads environment variables and .env (if present).
func Load() Config {
	_ = godotenv.Load()

	return Config{
		DataDir:       getEnv("DATA_DIR", "./data"),
		HTTPPort:      getEnv("HTTP_PORT", "8090"),
		RemoteURL:     os.Getenv("REMOTE_URL"),
		RemoteAPIKey:  os.Getenv("REMOTE_API_KEY"),
		SyncInterval:  getDuration("SYNC_INTERVAL", 5*time.Minute),
		PushInterval:  getDuration("PUSH_INTERVAL", 1*time.Minute),
		RemoteTimeout: getDuration("REMOTE_TIMEOUT", 30*time.Second),
		PushBatchSize: getInt("PUSH_BATCH_SIZE", 100),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFile:       os.Getenv("LOG_FILE"),
	}
}

// SyncConfigured reports whether a remote endpoint is configured.
func (c Config) SyncConfigured() bool {
	return c.RemoteURL != "" && c.RemoteAPIKey != ""
}

func getEnv(key, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}

func getInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		// Accept bare seconds for convenience.
		if secs, convErr := strconv.Atoi(val); convErr == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
		return fallback
	}
	return d
}
