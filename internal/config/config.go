package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"powerplants/domain/plant"
	"powerplants/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig
	Data    DataConfig
	Logging LoggingConfig
	Metrics MetricsConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port            string
	GinMode         string
	ShutdownTimeout time.Duration
}

// DataConfig holds the workbook location and sheet names
type DataConfig struct {
	File          string
	PlantSheet    string
	StateSheet    string
	DefaultMetric string
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level string
}

// MetricsConfig holds Prometheus settings
type MetricsConfig struct {
	Enabled bool
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	shutdownTimeout, err := getEnvDurationOrDefault("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load server configuration")
	}

	config := &Config{
		Server: ServerConfig{
			Port:            getEnvOrDefault("PORT", "8080"),
			GinMode:         getEnvOrDefault("GIN_MODE", "release"),
			ShutdownTimeout: shutdownTimeout,
		},
		Data: DataConfig{
			File:          getEnvOrDefault("DATA_FILE", "data/eGRID2021_data.xlsx"),
			PlantSheet:    getEnvOrDefault("PLANT_SHEET", "PLNT21"),
			StateSheet:    getEnvOrDefault("STATE_SHEET", "ST21"),
			DefaultMetric: getEnvOrDefault("DEFAULT_METRIC", plant.DefaultMetric),
		},
		Logging: LoggingConfig{
			Level: getEnvOrDefault("LOG_LEVEL", "INFO"),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvBoolOrDefault("METRICS_ENABLED", true),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if _, err := strconv.Atoi(config.Server.Port); err != nil {
		return errors.ConfigInvalid("PORT must be a number")
	}
	switch config.Server.GinMode {
	case "debug", "release", "test":
	default:
		return errors.ConfigInvalid("GIN_MODE must be one of debug, release, test")
	}
	if config.Server.ShutdownTimeout <= 0 {
		return errors.ConfigInvalid("SHUTDOWN_TIMEOUT must be positive")
	}
	if strings.TrimSpace(config.Data.File) == "" {
		return errors.ConfigInvalid("DATA_FILE is required")
	}
	if config.Data.PlantSheet == "" || config.Data.StateSheet == "" {
		return errors.ConfigInvalid("PLANT_SHEET and STATE_SHEET are required")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return 0, errors.ConfigInvalid("invalid " + key + ": " + value)
	}
	return duration, nil
}
