// Package config provides configuration for the assistant backend.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the backend configuration.
type Config struct {
	// Server settings
	HTTPPort int

	// Database. Empty disables persistence (memory tools return a
	// structured error, history lives only in the session cache).
	DatabaseURL string

	// LLM provider (OpenRouter, OpenAI-compatible)
	OpenRouterAPIKey  string
	OpenRouterModel   string
	OpenRouterBaseURL string

	// Search providers
	SerperAPIKey  string
	SerperBaseURL string
	GNewsAPIKey   string
	GNewsBaseURL  string

	// Timeouts
	LLMTimeout  time.Duration
	ToolTimeout time.Duration

	// Session cache
	SessionCacheSize int

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables.
func Load() *Config {
	cfg := &Config{
		HTTPPort:          getEnvInt("HTTP_PORT", 8080),
		DatabaseURL:       getEnv("DATABASE_URL", "file:aide.db?cache=shared&mode=rwc"),
		OpenRouterAPIKey:  getEnv("OPENROUTER_API_KEY", ""),
		OpenRouterModel:   getEnv("OPENROUTER_MODEL", "mistralai/mixtral-8x7b-instruct"),
		OpenRouterBaseURL: getEnv("OPENROUTER_BASE_URL", "https://openrouter.ai/api"),
		SerperAPIKey:      getEnv("SERPER_API_KEY", ""),
		SerperBaseURL:     getEnv("SERPER_BASE_URL", "https://google.serper.dev"),
		GNewsAPIKey:       getEnv("GNEWS_API_KEY", ""),
		GNewsBaseURL:      getEnv("GNEWS_BASE_URL", "https://gnews.io"),
		LLMTimeout:        time.Duration(getEnvInt("LLM_TIMEOUT_MS", 60000)) * time.Millisecond,
		ToolTimeout:       time.Duration(getEnvInt("TOOL_TIMEOUT_MS", 10000)) * time.Millisecond,
		SessionCacheSize:  getEnvInt("SESSION_CACHE_SIZE", 256),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
	}
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}
