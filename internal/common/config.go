package common

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Provider ProviderConfig
	Pipeline PipelineConfig
	Ingest   IngestConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	DSN              string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	GRPCAddr string
}

// ProviderConfig holds layout-analysis service configuration
type ProviderConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// PipelineConfig holds extraction pipeline configuration
type PipelineConfig struct {
	RegistryPath    string // JSON registry config, empty when Postgres-backed
	MultiPage       bool
	MaxPollAttempts int
	PollInterval    time.Duration
	TableHeaders    []string
	SQLitePath      string // local-mode sink, empty when Postgres-backed
}

// IngestConfig holds inbox watcher configuration
type IngestConfig struct {
	InboxDir string
	Workers  int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			DSN:              getEnv("DB_URL", ""),
			MaxConns:         getEnvAsInt32("DB_MAX_CONNS", 20),
			MinConns:         getEnvAsInt32("DB_MIN_CONNS", 5),
			MaxConnLifetime:  getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime:  getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:      getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
			StatementTimeout: getEnvAsDuration("DB_STATEMENT_TIMEOUT", 0),
		},
		Server: ServerConfig{
			GRPCAddr: getEnv("GRPC_ADDR", ":8080"),
		},
		Provider: ProviderConfig{
			BaseURL: getEnv("ANALYZER_URL", ""),
			APIKey:  getEnv("ANALYZER_API_KEY", ""),
			Timeout: getEnvAsDuration("ANALYZER_TIMEOUT", 60*time.Second),
		},
		Pipeline: PipelineConfig{
			RegistryPath:    getEnv("REGISTRY_CONFIG", ""),
			MultiPage:       getEnvAsBool("MULTI_PAGE", false),
			MaxPollAttempts: getEnvAsInt("MAX_POLL_ATTEMPTS", 60),
			PollInterval:    getEnvAsDuration("POLL_INTERVAL", 2*time.Second),
			TableHeaders:    getEnvAsList("TABLE_HEADERS"),
			SQLitePath:      getEnv("SQLITE_PATH", ""),
		},
		Ingest: IngestConfig{
			InboxDir: getEnv("INBOX_DIR", "./inbox"),
			Workers:  getEnvAsInt("WORKERS", 4),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated variable, dropping empty entries.
func getEnvAsList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Provider.BaseURL == "" {
		return NewAppError("CONFIG_ERROR", "ANALYZER_URL is required", ErrInvalidInput)
	}
	if c.Database.DSN == "" && c.Pipeline.RegistryPath == "" {
		return NewAppError("CONFIG_ERROR", "either DB_URL or REGISTRY_CONFIG is required", ErrInvalidInput)
	}
	if c.Server.GRPCAddr == "" {
		return NewAppError("CONFIG_ERROR", "GRPC_ADDR is required", ErrInvalidInput)
	}
	return nil
}
