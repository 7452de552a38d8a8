package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	ServerHost      string
	ServerPort      string
	GinMode         string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// SeedFile overrides the embedded question dataset when set.
	SeedFile string

	// AllowedOrigins controls HTTP CORS and WebSocket origin validation.
	// Empty slice means all origins are permitted.
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string

	// RedisURL enables the cross-instance question feed relay.
	// Empty keeps the feed in-process.
	RedisURL    string
	FeedChannel string

	// WriteRateLimit is the number of POST /questions allowed per client
	// IP per minute. Zero disables the limiter.
	WriteRateLimit  int
	BrotliMinLength int
}

// Load reads configuration from environment variables with sensible defaults.
// It loads .env file if present but does not fail if missing.
func Load() *Config {
	_ = godotenv.Load() // .env is optional

	return &Config{
		ServerHost:      getEnv("SERVER_HOST", "127.0.0.1"),
		ServerPort:      getEnv("SERVER_PORT", "3030"),
		GinMode:         getEnv("GIN_MODE", "debug"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "pretty"),
		ShutdownTimeout: time.Duration(getEnvInt("SHUTDOWN_TIMEOUT_SECONDS", 5)) * time.Second,
		SeedFile:        getEnv("SEED_FILE", ""),
		AllowedOrigins:  parseList(getEnv("ALLOWED_ORIGINS", "")),
		AllowedMethods:  parseList(getEnv("CORS_ALLOWED_METHODS", "GET,POST,PUT,DELETE")),
		AllowedHeaders:  parseList(getEnv("CORS_ALLOWED_HEADERS", "Content-Type")),
		RedisURL:        getEnv("REDIS_URL", ""),
		FeedChannel:     getEnv("FEED_CHANNEL", CacheKey.QuestionFeedChannel()),
		WriteRateLimit:  getEnvInt("WRITE_RATE_LIMIT", 0),
		BrotliMinLength: getEnvInt("BROTLI_MIN_LENGTH", 1024),
	}
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// parseList splits a comma-separated string into a trimmed slice.
// Returns nil if the input is empty.
func parseList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
