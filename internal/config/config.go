package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Store backend names accepted by STORE_BACKEND.
const (
	BackendMemory  = "memory"
	BackendBadger  = "badger"
	BackendSurreal = "surreal"
)

// Config holds all graph client configuration
type Config struct {
	Env       string
	Store     StoreConfig
	Surreal   SurrealConfig
	Badger    BadgerConfig
	Reconcile ReconcileConfig
}

// StoreConfig selects the graph store backend
type StoreConfig struct {
	Backend string
}

// SurrealConfig holds SurrealDB connection settings
type SurrealConfig struct {
	Host      string
	Port      string
	Namespace string
	Database  string
	User      string
	Password  string
}

// URL returns the websocket endpoint for the configured server.
func (s SurrealConfig) URL() string {
	return "ws://" + s.Host + ":" + s.Port
}

// BadgerConfig holds the embedded store settings
type BadgerConfig struct {
	Path       string
	InMemory   bool
	SyncWrites bool
}

// ReconcileConfig holds write reconciler timing settings
type ReconcileConfig struct {
	AckTimeout     time.Duration
	VerifyDelay    time.Duration
	ReadRetryDelay time.Duration
}

// Load reads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	return &Config{
		Env: getEnv("GRAPH_ENV", "development"),
		Store: StoreConfig{
			Backend: getEnv("STORE_BACKEND", BackendMemory),
		},
		Surreal: SurrealConfig{
			Host:      getEnv("DB_HOST", "localhost"),
			Port:      getEnv("DB_PORT", "8000"),
			Namespace: getEnv("DB_NAMESPACE", "gamegraph"),
			Database:  getEnv("DB_DATABASE", "main"),
			User:      getEnv("DB_USER", "root"),
			Password:  getEnv("DB_PASSWORD", "root"),
		},
		Badger: BadgerConfig{
			Path:       getEnv("BADGER_PATH", "./data/graph"),
			InMemory:   getBoolEnv("BADGER_IN_MEMORY", false),
			SyncWrites: getBoolEnv("BADGER_SYNC_WRITES", false),
		},
		Reconcile: ReconcileConfig{
			AckTimeout:     getDurationEnv("WRITE_ACK_TIMEOUT", 650*time.Millisecond),
			VerifyDelay:    getDurationEnv("WRITE_VERIFY_DELAY", 800*time.Millisecond),
			ReadRetryDelay: getDurationEnv("READ_RETRY_DELAY", 250*time.Millisecond),
		},
	}, nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks that all required configuration values are present and valid.
// It returns an error describing all validation failures, or nil if valid.
func (c *Config) Validate() error {
	var errs []error

	if c.Env != "development" && c.Env != "production" && c.Env != "test" {
		errs = append(errs, fmt.Errorf("GRAPH_ENV must be 'development', 'production', or 'test', got '%s'", c.Env))
	}

	switch c.Store.Backend {
	case BackendMemory:
		if c.IsProduction() {
			errs = append(errs, errors.New("STORE_BACKEND 'memory' is not allowed in production"))
		}
	case BackendBadger:
		if c.Badger.Path == "" && !c.Badger.InMemory {
			errs = append(errs, errors.New("BADGER_PATH is required unless BADGER_IN_MEMORY is true"))
		}
	case BackendSurreal:
		if err := c.Surreal.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("SurrealDB: %w", err))
		}
	default:
		errs = append(errs, fmt.Errorf("STORE_BACKEND must be '%s', '%s', or '%s', got '%s'",
			BackendMemory, BackendBadger, BackendSurreal, c.Store.Backend))
	}

	if c.Reconcile.AckTimeout <= 0 {
		errs = append(errs, errors.New("WRITE_ACK_TIMEOUT must be positive"))
	}
	if c.Reconcile.VerifyDelay <= 0 {
		errs = append(errs, errors.New("WRITE_VERIFY_DELAY must be positive"))
	}
	if c.Reconcile.ReadRetryDelay < 0 {
		errs = append(errs, errors.New("READ_RETRY_DELAY must not be negative"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Validate checks that all required SurrealDB fields are present
func (s SurrealConfig) Validate() error {
	var missing []string
	if s.Host == "" {
		missing = append(missing, "DB_HOST")
	}
	if s.Port == "" {
		missing = append(missing, "DB_PORT")
	}
	if s.Namespace == "" {
		missing = append(missing, "DB_NAMESPACE")
	}
	if s.Database == "" {
		missing = append(missing, "DB_DATABASE")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
