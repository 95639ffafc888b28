package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const devSecretFallback = "your-secret-key-change-in-production"

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port string

	// Token signing
	JWTSecret string

	// Database configuration
	DBType            string // sqlite, mysql, postgres, sqlserver
	DBHost            string
	DBPort            string
	DBDatabase        string // file path for sqlite, database name otherwise
	DBUser            string
	DBPassword        string
	DBConnectionLimit int

	// Dialogue source directory
	DialoguesDir string
}

// Load loads configuration from environment variables, honoring a local
// .env file when present.
func Load() (*Config, error) {
	// Missing .env is fine; the environment may carry everything.
	_ = godotenv.Load()

	cfg := &Config{
		Port:              getEnv("PORT", "5001"),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		DBType:            getEnv("DB_TYPE", "sqlite"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "3306"),
		DBDatabase:        getEnv("DB_DATABASE", "database.sqlite"),
		DBUser:            getEnv("DB_USER", ""),
		DBPassword:        getEnv("DB_PASSWORD", ""),
		DBConnectionLimit: getEnvAsInt("DB_CONNECTION_LIMIT", 5),
		DialoguesDir:      getEnv("DIALOGUES_DIR", "llm_generated_dialogues"),
	}

	if cfg.JWTSecret == "" {
		log.Printf("WARNING: JWT_SECRET not set, using development fallback")
		cfg.JWTSecret = devSecretFallback
	}

	return cfg, nil
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
