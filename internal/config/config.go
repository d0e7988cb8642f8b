package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port        string
	LogMode     string
	CORSOrigins []string

	// Database configuration
	DBType            string // mysql, postgres, sqlite, sqlite-pure, sqlserver
	DBHost            string
	DBPort            string
	DBDatabase        string
	DBUser            string
	DBPassword        string
	DBConnectionLimit int
	DBLogLevel        string

	// Session configuration
	SessionSecret string
	SessionTTL    time.Duration
	BcryptCost    int

	// External collaborators
	RedisAddr            string
	TranslationURL       string
	TranslationToken     string
	TranslationCacheSize int
	TranslationCacheTTL  time.Duration
	DictionaryURL        string
	ScoringURL           string
	ExternalTimeout      time.Duration
	OtelEnabled          bool
}

// Load loads configuration from environment variables.
// A .env file in the working directory is read first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	cfg := &Config{
		Port:                 getEnv("PORT", "3000"),
		LogMode:              getEnv("LOG_MODE", "development"),
		CORSOrigins:          getEnvAsList("CORS_ORIGINS", []string{"*"}),
		DBType:               getEnv("DB_TYPE", "postgres"),
		DBHost:               getEnv("DB_HOST", "localhost"),
		DBPort:               getEnv("DB_PORT", "5432"),
		DBDatabase:           getEnv("DB_DATABASE", ""),
		DBUser:               getEnv("DB_USER", ""),
		DBPassword:           getEnv("DB_PASSWORD", ""),
		DBConnectionLimit:    getEnvAsInt("DB_CONNECTION_LIMIT", 10),
		DBLogLevel:           getEnv("DB_LOG_LEVEL", "warn"),
		SessionSecret:        getEnv("SESSION_SECRET", ""),
		SessionTTL:           getEnvAsDuration("SESSION_TTL", 24*time.Hour),
		BcryptCost:           getEnvAsInt("BCRYPT_COST", 10),
		RedisAddr:            getEnv("REDIS_ADDR", ""),
		TranslationURL:       getEnv("TRANSLATION_URL", "https://api-inference.huggingface.co/models/alpaca3000/en-vi-translation-model"),
		TranslationToken:     getEnv("TRANSLATION_TOKEN", ""),
		TranslationCacheSize: getEnvAsInt("TRANSLATION_CACHE_SIZE", 2048),
		TranslationCacheTTL:  getEnvAsDuration("TRANSLATION_CACHE_TTL", 7*24*time.Hour),
		DictionaryURL:        getEnv("DICTIONARY_URL", "https://api.dictionaryapi.dev/api/v2/entries/en"),
		ScoringURL:           getEnv("SCORING_URL", ""),
		ExternalTimeout:      getEnvAsDuration("EXTERNAL_TIMEOUT", 30*time.Second),
		OtelEnabled:          getEnvAsBool("OTEL_ENABLED", false),
	}

	// Validate required fields
	if cfg.DBDatabase == "" {
		return nil, fmt.Errorf("DB_DATABASE is required")
	}
	if cfg.SessionSecret == "" {
		return nil, fmt.Errorf("SESSION_SECRET is required")
	}
	if cfg.requiresCredentials() && cfg.DBUser == "" {
		return nil, fmt.Errorf("DB_USER is required for DB_TYPE %s", cfg.DBType)
	}

	return cfg, nil
}

// requiresCredentials reports whether the database type connects over the network
func (c *Config) requiresCredentials() bool {
	switch c.DBType {
	case "sqlite", "sqlite-pure":
		return false
	}
	return true
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer or returns a default value
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

// getEnvAsDuration accepts Go duration strings ("90s", "24h")
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsList splits a comma-separated variable, dropping blanks
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, v := range strings.Split(valueStr, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
