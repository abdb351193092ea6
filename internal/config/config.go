// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// History backend selection values for HistoryBackend.
const (
	HistoryBackendMemory = "memory"
	HistoryBackendSQLite = "sqlite"
)

// Config holds application configuration
type Config struct {
	DataDir         string // Base directory for the client-data cache and optional history DB
	Port            int
	DevMode         bool
	LogLevel        string
	GeminiAPIKey    string
	GeminiModel     string
	FirecrawlAPIKey string
	Simulate        bool    // Force simulated collaborators even when API keys are present
	DiscountRate    float64 // Real discount rate used by the coverage formula
	CompareWorkers  int     // Bounded concurrency for batch comparisons
	UpstreamTimeout int     // Per-collaborator-call timeout in seconds
	HistoryBackend  string  // "memory" or "sqlite"
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Determine data directory, always resolved to an absolute path
	dataDir := getEnv("ADVISOR_DATA_DIR", "./data")
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:         absDataDir,
		Port:            getEnvAsInt("ADVISOR_PORT", 8080),
		DevMode:         getEnvAsBool("DEV_MODE", false),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
		GeminiModel:     getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		FirecrawlAPIKey: getEnv("FIRECRAWL_API_KEY", ""),
		Simulate:        getEnvAsBool("ADVISOR_SIMULATE", false),
		DiscountRate:    getEnvAsFloat("ADVISOR_DISCOUNT_RATE", 0.02),
		CompareWorkers:  getEnvAsInt("ADVISOR_COMPARE_WORKERS", 4),
		UpstreamTimeout: getEnvAsInt("ADVISOR_UPSTREAM_TIMEOUT_SECONDS", 20),
		HistoryBackend:  getEnv("ADVISOR_HISTORY_BACKEND", HistoryBackendMemory),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SimulateReasoning reports whether the reasoning collaborator should run in
// simulated mode. Missing credentials imply simulation - the service stays
// usable for local development without any keys.
func (c *Config) SimulateReasoning() bool {
	return c.Simulate || c.GeminiAPIKey == ""
}

// SimulateResearch reports whether the research collaborator should run in
// simulated mode.
func (c *Config) SimulateResearch() bool {
	return c.Simulate || c.FirecrawlAPIKey == ""
}

// Validate checks if the configuration is usable
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.CompareWorkers <= 0 {
		return fmt.Errorf("compare workers must be positive, got %d", c.CompareWorkers)
	}
	if c.UpstreamTimeout <= 0 {
		return fmt.Errorf("upstream timeout must be positive, got %d", c.UpstreamTimeout)
	}
	if c.HistoryBackend != HistoryBackendMemory && c.HistoryBackend != HistoryBackendSQLite {
		return fmt.Errorf("unknown history backend: %q", c.HistoryBackend)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}
