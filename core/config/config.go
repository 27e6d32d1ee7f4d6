package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config is the node configuration, loaded from environment variables.
// A local .env file is honored for development.
type Config struct {
	ListenAddr     string // SERVER_PORT
	DBPath         string // DB_PATH; empty runs on the in-memory store
	JWTSecret      string // JWT_SECRET
	APIKey         string // API_KEY; optional admin key for ops tooling
	RangeScanLimit int    // RANGE_SCAN_LIMIT
	NotifyFeedSize int    // NOTIFY_FEED_SIZE
	Env            string // ENV: development/production
}

// FromEnv loads the optional .env file and reads the configuration.
func FromEnv() Config {
	godotenv.Load()

	cfg := Config{
		ListenAddr:     ":" + envOr("SERVER_PORT", "8080"),
		DBPath:         os.Getenv("DB_PATH"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		APIKey:         os.Getenv("API_KEY"),
		RangeScanLimit: envInt("RANGE_SCAN_LIMIT", 1000),
		NotifyFeedSize: envInt("NOTIFY_FEED_SIZE", 256),
		Env:            envOr("ENV", "development"),
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
