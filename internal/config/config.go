// Package config provides configuration for the chat server.
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the server configuration.
type Config struct {
	// Server settings
	HTTPPort int

	// Database
	DatabaseURL string

	// Character catalog seeded at startup
	CharacterDataDir string

	// Generation backend (any OpenAI-compatible endpoint)
	OpenAIBaseURL   string
	OpenAIAPIKey    string
	DefaultModel    string
	HotTemperature  float64
	ColdTemperature float64
	MaxTokens       int

	// Streaming
	StreamBufferSize  int
	GenerationTimeout time.Duration

	// WebSocket
	WSPingInterval time.Duration
	WSWriteTimeout time.Duration
	WSReadTimeout  time.Duration

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables. A .env file in the
// working directory is read first when present.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("WARN: failed to load .env: %v", err)
	}

	cfg := &Config{
		HTTPPort:          getEnvInt("HTTP_PORT", 8080),
		DatabaseURL:       getEnv("DATABASE_URL", "file:guruchat.db?cache=shared&mode=rwc"),
		CharacterDataDir:  getEnv("CHARACTER_DATA_DIR", "data"),
		OpenAIBaseURL:     getEnv("OPENAI_BASE_URL", ""),
		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
		DefaultModel:      getEnv("DEFAULT_MODEL", "qwen3-235b-a22b-thinking-2507"),
		HotTemperature:    getEnvFloat("HOT_TEMPERATURE", 1.1),
		ColdTemperature:   getEnvFloat("COLD_TEMPERATURE", 0.4),
		MaxTokens:         getEnvInt("MAX_TOKENS", 1024),
		StreamBufferSize:  getEnvInt("STREAM_BUFFER_SIZE", 64),
		GenerationTimeout: time.Duration(getEnvInt("GENERATION_TIMEOUT_MS", 0)) * time.Millisecond,
		WSPingInterval:    time.Duration(getEnvInt("WS_PING_INTERVAL_MS", 30000)) * time.Millisecond,
		WSWriteTimeout:    time.Duration(getEnvInt("WS_WRITE_TIMEOUT_MS", 10000)) * time.Millisecond,
		WSReadTimeout:     time.Duration(getEnvInt("WS_READ_TIMEOUT_MS", 60000)) * time.Millisecond,
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

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
