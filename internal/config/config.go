package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"tribodash/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig
	Data      DataConfig
	Dashboard DashboardConfig
	Ledger    LedgerConfig
	Profiling ProfilingConfig
	LogLevel  string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// DataConfig holds the dataset source settings
type DataConfig struct {
	File     string
	CacheTTL time.Duration
}

// DashboardConfig holds the bounds of the top-N slider and page text
type DashboardConfig struct {
	Title       string
	DefaultTopN int
	MinTopN     int
	MaxTopN     int
}

// LedgerConfig selects where dataset loads are recorded. An empty driver disables the ledger.
type LedgerConfig struct {
	Driver string
	DSN    string
}

// Enabled reports whether a ledger backend is configured
func (c LedgerConfig) Enabled() bool {
	return c.Driver != ""
}

// ProfilingConfig holds performance profiling settings
type ProfilingConfig struct {
	Port    string
	Enabled bool
}

// ClampTopN bounds n to the slider range
func (c DashboardConfig) ClampTopN(n int) int {
	if n < c.MinTopN {
		return c.MinTopN
	}
	if n > c.MaxTopN {
		return c.MaxTopN
	}
	return n
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:    *loadServerConfig(),
		Data:      *loadDataConfig(),
		Dashboard: *loadDashboardConfig(),
		Ledger:    *loadLedgerConfig(),
		Profiling: *loadProfilingConfig(),
		LogLevel:  getEnvOrDefault("LOG_LEVEL", "INFO"),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),
	}
}

func loadDataConfig() *DataConfig {
	return &DataConfig{
		File:     getEnvOrDefault("DATA_FILE", "results.txt"),
		CacheTTL: getEnvDurationOrDefault("DATASET_CACHE_TTL", 5*time.Minute),
	}
}

func loadDashboardConfig() *DashboardConfig {
	return &DashboardConfig{
		Title:       getEnvOrDefault("DASHBOARD_TITLE", "Tribology Analysis Dashboard"),
		DefaultTopN: getEnvIntOrDefault("DASHBOARD_TOP_N_DEFAULT", 10),
		MinTopN:     getEnvIntOrDefault("DASHBOARD_TOP_N_MIN", 3),
		MaxTopN:     getEnvIntOrDefault("DASHBOARD_TOP_N_MAX", 20),
	}
}

func loadLedgerConfig() *LedgerConfig {
	return &LedgerConfig{
		Driver: strings.ToLower(getEnvOrDefault("LEDGER_DRIVER", "")),
		DSN:    getEnvOrDefault("LEDGER_DSN", ""),
	}
}

func loadProfilingConfig() *ProfilingConfig {
	return &ProfilingConfig{
		Port:    getEnvOrDefault("PPROF_PORT", "6060"),
		Enabled: getEnvBoolOrDefault("PPROF_ENABLED", false),
	}
}

func validateConfig(config *Config) error {
	if strings.TrimSpace(config.Data.File) == "" {
		return errors.ConfigInvalid("DATA_FILE is required")
	}
	d := config.Dashboard
	if d.MinTopN < 1 {
		return errors.ConfigInvalid("DASHBOARD_TOP_N_MIN must be at least 1")
	}
	if d.MaxTopN < d.MinTopN {
		return errors.ConfigInvalid("DASHBOARD_TOP_N_MAX must not be below DASHBOARD_TOP_N_MIN")
	}
	if d.DefaultTopN < d.MinTopN || d.DefaultTopN > d.MaxTopN {
		return errors.ConfigInvalid("DASHBOARD_TOP_N_DEFAULT must lie within [min, max]")
	}
	switch config.Ledger.Driver {
	case "":
	case "postgres", "sqlite":
		if config.Ledger.DSN == "" {
			return errors.ConfigInvalid("LEDGER_DSN is required when LEDGER_DRIVER is set")
		}
	default:
		return errors.ConfigInvalid("LEDGER_DRIVER must be postgres or sqlite")
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

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
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

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
