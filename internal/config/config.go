package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all configuration for our application
type Config struct {
	Port            string
	Origin          string
	Environment     string
	Database        DatabaseConfig
	Redis           RedisConfig
	Classifier      ClassifierConfig
	SessionTTLHours int
}

// DatabaseConfig holds database connection details
type DatabaseConfig struct {
	Host       string
	Port       string
	Username   string
	Password   string
	Name       string
	DSN        string
	SQLitePath string
}

// RedisConfig holds the session store connection details
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// ClassifierConfig holds the AI symptom classifier connection details
type ClassifierConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load database configuration. When DB_HOST is unset the server falls
	// back to a local SQLite file.
	dbConfig := DatabaseConfig{
		Host:       getEnv("DB_HOST", ""),
		Port:       getEnv("DB_PORT", "3306"),
		Username:   getEnv("DB_USERNAME", "root"),
		Password:   getEnv("DB_PASSWORD", ""),
		Name:       getEnv("DB_NAME", "triage"),
		SQLitePath: getEnv("SQLITE_PATH", "triage.db"),
	}

	if dbConfig.Host != "" {
		// Build DSN (Data Source Name) for MySQL connection
		dbConfig.DSN = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			dbConfig.Username, dbConfig.Password, dbConfig.Host, dbConfig.Port, dbConfig.Name)
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	sessionTTLHours, err := strconv.Atoi(getEnv("SESSION_TTL_HOURS", "24"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL_HOURS: %w", err)
	}

	// Return complete configuration
	return &Config{
		Port:        getEnv("PORT", "3001"),
		Origin:      getEnv("ORIGIN", "http://localhost:5173"),
		Environment: getEnv("NODE_ENV", "development"),
		Database:    dbConfig,
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Classifier: ClassifierConfig{
			BaseURL: getEnv("AI_BASE_URL", "https://api.openai.com/v1"),
			APIKey:  getEnv("AI_API_KEY", ""),
			Model:   getEnv("AI_MODEL", "gpt-4o-mini"),
		},
		SessionTTLHours: sessionTTLHours,
	}, nil
}

// Helper function to get environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
