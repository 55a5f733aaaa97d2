// Package config provides application configuration.
package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	// Server settings
	Port string
	Host string

	// Base URL used in outward-facing links (e.g. the mobile QR code).
	BaseURL string

	// Database settings
	DBPath string

	// Session settings
	SessionMaxAge int // in seconds

	// Market data provider settings
	MarketAPIKey string
	MarketAPIURL string

	// Search debounce quiescence window in milliseconds.
	SearchDebounceMs int

	// Environment
	IsDevelopment bool
}

// New creates a new Config with values from environment variables or defaults.
// A .env file in the working directory is loaded first if present.
func New() *Config {
	// Missing .env is fine; real environments set variables directly.
	_ = godotenv.Load()

	return &Config{
		Port:             getEnv("PORT", "8080"),
		Host:             getEnv("HOST", "localhost"),
		BaseURL:          getEnv("BASE_URL", ""),
		DBPath:           getEnv("DB_PATH", filepath.Join("data", "investpro.db")),
		SessionMaxAge:    86400 * 7, // 7 days
		MarketAPIKey:     getEnv("MARKET_API_KEY", ""),
		MarketAPIURL:     getEnv("MARKET_API_URL", "https://www.alphavantage.co/query"),
		SearchDebounceMs: getEnvInt("SEARCH_DEBOUNCE_MS", 500),
		IsDevelopment:    getEnv("ENV", "development") == "development",
	}
}

// Address returns the full address to bind the server to.
func (c *Config) Address() string {
	return c.Host + ":" + c.Port
}

// PublicURL returns the externally reachable URL of the application.
func (c *Config) PublicURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return "http://" + c.Address()
}

// getEnv returns the value of an environment variable or a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
