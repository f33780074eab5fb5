package config

import (
	"log/slog"
	"os"
	"strings"
)

const (
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level

	// LLM provider settings
	LLMProvider     string
	AnthropicAPIKey string
	ModelName       string
	OllamaURL       string

	// Share storage
	RedisURL string
	BaseURL  string
}

func Load() *Config {
	return &Config{
		Port:            getEnv("PORT", "8080"),
		Environment:     getEnv("ENVIRONMENT", "development"),
		LogLevel:        parseLogLevel(getEnv("LOG_LEVEL", "info")),
		LLMProvider:     getEnv("LLM_PROVIDER", ProviderAnthropic),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		ModelName:       getEnv("MODEL_NAME", "claude-sonnet-4-20250514"),
		OllamaURL:       getEnv("OLLAMA_URL", "http://localhost:11434"),
		RedisURL:        getEnv("REDIS_URL", "localhost:6379"),
		BaseURL:         getEnv("BASE_URL", "http://localhost:8080"),
	}
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
