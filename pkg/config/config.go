package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all process-level configuration for the engine.
// Numeric policy tables (weights, premium steps, tier thresholds) are NOT
// here; they live in the decision config YAML.
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// External providers
	Gemini GeminiConfig
	Yahoo  YahooConfig

	// Decision policy file
	DecisionConfigPath string

	// Pipeline
	SnapshotYears int

	// Logging
	LogLevel  string
	LogFormat string
}

// GeminiConfig holds the reasoning-agent provider configuration.
type GeminiConfig struct {
	APIKey  string
	BaseURL string
	Model   string

	// Free-tier pacing: requests per minute and the minimum delay the
	// orchestrator enforces between agent invocations in one run.
	RequestsPerMinute int
	MinCallDelay      time.Duration
	Timeout           time.Duration
}

// YahooConfig holds the market-data provider configuration.
type YahooConfig struct {
	BaseURL string
	Timeout time.Duration
}

// Load reads configuration from environment variables.
// Only this function calls os.Getenv.
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8090"),
		Env:  getEnv("ENV", "development"),

		Gemini: GeminiConfig{
			APIKey:            getEnv("GEMINI_API_KEY", ""),
			BaseURL:           getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
			Model:             getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			RequestsPerMinute: getEnvAsInt("GEMINI_RPM", 10),
			MinCallDelay:      getEnvAsDuration("GEMINI_MIN_CALL_DELAY", "10s"),
			Timeout:           getEnvAsDuration("GEMINI_TIMEOUT", "120s"),
		},

		Yahoo: YahooConfig{
			BaseURL: getEnv("YAHOO_BASE_URL", "https://query1.finance.yahoo.com"),
			Timeout: getEnvAsDuration("YAHOO_TIMEOUT", "30s"),
		},

		DecisionConfigPath: getEnv("DECISION_CONFIG", "config/decision.yaml"),

		SnapshotYears: getEnvAsInt("SNAPSHOT_YEARS", 5),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}
	if c.SnapshotYears < 1 {
		return fmt.Errorf("SNAPSHOT_YEARS must be >= 1")
	}
	if c.Gemini.RequestsPerMinute < 1 {
		return fmt.Errorf("GEMINI_RPM must be >= 1")
	}
	return nil
}

// loadEnvFile tries to load .env from a few likely locations.
func loadEnvFile() {
	paths := []string{".env"}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
