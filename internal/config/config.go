package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	apperrors "zyra/internal/errors"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Storage  StorageConfig
	Analysis AnalysisConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds postgres connection settings
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// StorageConfig holds object store settings
type StorageConfig struct {
	RootDir       string
	DefaultBucket string
}

// AnalysisConfig bounds the cost of core operations
type AnalysisConfig struct {
	MaxRows           int
	MaxUploadBytes    int64
	DefaultAlpha      float64
	RequestTimeout    time.Duration
	InsightsAvailable bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnvIntOrDefault("PORT", 8080),
			ReadTimeout:     getEnvDurationOrDefault("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getEnvDurationOrDefault("SERVER_WRITE_TIMEOUT", 120*time.Second),
			ShutdownTimeout: getEnvDurationOrDefault("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			Host:     getEnvOrDefault("DB_HOST", "localhost"),
			Port:     getEnvIntOrDefault("DB_PORT", 5432),
			User:     getEnvOrDefault("DB_USER", "zyra"),
			Password: getEnvOrDefault("DB_PASSWORD", ""),
			Name:     getEnvOrDefault("DB_NAME", "zyra"),
			SSLMode:  getEnvOrDefault("DB_SSLMODE", "disable"),
		},
		Storage: StorageConfig{
			RootDir:       getEnvOrDefault("STORAGE_ROOT", "./data"),
			DefaultBucket: getEnvOrDefault("STORAGE_BUCKET", "datasets"),
		},
		Analysis: AnalysisConfig{
			MaxRows:           getEnvIntOrDefault("ANALYSIS_MAX_ROWS", 100000),
			MaxUploadBytes:    int64(getEnvIntOrDefault("ANALYSIS_MAX_UPLOAD_MB", 64)) * 1024 * 1024,
			DefaultAlpha:      getEnvFloatOrDefault("ANALYSIS_DEFAULT_ALPHA", 0.05),
			RequestTimeout:    getEnvDurationOrDefault("ANALYSIS_REQUEST_TIMEOUT", 60*time.Second),
			InsightsAvailable: getEnvBoolOrDefault("ANALYSIS_INSIGHTS_ENABLED", true),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return apperrors.ConfigInvalid(fmt.Sprintf("invalid server port %d", c.Server.Port))
	}
	if c.Analysis.MaxRows <= 0 {
		return apperrors.ConfigInvalid("ANALYSIS_MAX_ROWS must be positive")
	}
	if c.Analysis.DefaultAlpha <= 0 || c.Analysis.DefaultAlpha >= 1 {
		return apperrors.ConfigInvalid("ANALYSIS_DEFAULT_ALPHA must be in (0, 1)")
	}
	return nil
}

// DSN builds the postgres connection string
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
