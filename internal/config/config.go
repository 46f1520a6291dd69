// Package config contains everything related to configuration
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Backend names.
const (
	BackendSnowflake = "snowflake"
	BackendSQLite    = "sqlite"
)

// Config holds the application configuration.
type Config struct {
	Snowflake          SnowflakeConfig
	Backend            string
	DatabasePath       string
	ConnectionFile     string
	DashboardsPath     string
	LogLevel           string
	LogFile            string
	CreditPriceUSD     float64
	CostAlertThreshold float64
	CacheTTL           time.Duration
	RefreshInterval    time.Duration
	DefaultRangeDays   int
	EntityLookbackDays int
	NotifyCostIncrease bool
}

// Default values
const (
	defaultCreditPrice        = 2.0
	defaultCacheTTL           = time.Hour
	defaultRangeDays          = 30
	defaultEntityLookbackDays = 90
	defaultCostAlertThreshold = 0.10
)

// Load reads configuration from .env files, environment variables and the
// Snowflake connection file.
func Load() (*Config, error) {
	// Try loading .env from multiple locations
	envPaths := getEnvPaths()
	for _, path := range envPaths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	cfg := &Config{
		Snowflake: SnowflakeConfig{
			Account:   os.Getenv("SNOWFLAKE_ACCOUNT"),
			User:      os.Getenv("SNOWFLAKE_USER"),
			Password:  os.Getenv("SNOWFLAKE_PASSWORD"),
			Role:      os.Getenv("SNOWFLAKE_ROLE"),
			Warehouse: os.Getenv("SNOWFLAKE_WAREHOUSE"),
			Database:  os.Getenv("SNOWFLAKE_DATABASE"),
			Schema:    os.Getenv("SNOWFLAKE_SCHEMA"),
		},
		Backend:            strings.ToLower(os.Getenv("FINOPS_BACKEND")),
		DatabasePath:       getEnvString("DATABASE_PATH", getDefaultDatabasePath()),
		ConnectionFile:     getEnvString("SNOWFLAKE_CONNECTION_FILE", getDefaultConnectionFile()),
		DashboardsPath:     os.Getenv("DASHBOARDS_PATH"),
		LogLevel:           getEnvString("LOG_LEVEL", "info"),
		LogFile:            os.Getenv("LOG_FILE"),
		CreditPriceUSD:     getEnvFloat("CREDIT_PRICE_USD", defaultCreditPrice),
		CostAlertThreshold: getEnvFloat("COST_ALERT_THRESHOLD", defaultCostAlertThreshold),
		CacheTTL:           getEnvDuration("CACHE_TTL", defaultCacheTTL),
		RefreshInterval:    getEnvDuration("REFRESH_INTERVAL", 0),
		DefaultRangeDays:   getEnvInt("DEFAULT_RANGE_DAYS", defaultRangeDays),
		EntityLookbackDays: getEnvInt("ENTITY_LOOKBACK_DAYS", defaultEntityLookbackDays),
		NotifyCostIncrease: getEnvBool("NOTIFY_COST_INCREASE", false),
	}

	if cfg.ConnectionFile != "" {
		file, err := LoadConnectionFile(cfg.ConnectionFile)
		switch {
		case err == nil:
			cfg.Snowflake = cfg.Snowflake.Merge(file)
		case !errors.Is(err, fs.ErrNotExist):
			return nil, err
		}
	}
	cfg.Snowflake = cfg.Snowflake.Merge(SnowflakeConfig{Database: "SNOWFLAKE", Schema: "ACCOUNT_USAGE"})

	if cfg.Backend == "" {
		cfg.Backend = BackendSQLite
		if cfg.Snowflake.Account != "" {
			cfg.Backend = BackendSnowflake
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Ensure database directory exists
	if cfg.Backend == BackendSQLite {
		if err := ensureDir(filepath.Dir(cfg.DatabasePath)); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendSQLite:
		if c.DatabasePath == "" {
			return fmt.Errorf("DATABASE_PATH is required for the sqlite backend")
		}
	case BackendSnowflake:
		if c.Snowflake.Account == "" || c.Snowflake.User == "" {
			return fmt.Errorf(
				"SNOWFLAKE_ACCOUNT and SNOWFLAKE_USER are required (set via env or %s)", c.ConnectionFile)
		}
	default:
		return fmt.Errorf("unknown FINOPS_BACKEND %q (want %s or %s)", c.Backend, BackendSnowflake, BackendSQLite)
	}

	if c.CreditPriceUSD < 0 {
		return fmt.Errorf("CREDIT_PRICE_USD must not be negative")
	}
	if c.DefaultRangeDays <= 0 || c.EntityLookbackDays <= 0 {
		return fmt.Errorf("DEFAULT_RANGE_DAYS and ENTITY_LOOKBACK_DAYS must be positive")
	}
	return nil
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	// Current directory
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	// Home directory locations
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "warehouse-finops", ".env"),
			filepath.Join(home, ".warehouse-finops", ".env"),
		)
	}

	// Parent directories (useful for development)
	if cwd, err := os.Getwd(); err == nil {
		parent := filepath.Dir(cwd)
		paths = append(paths, filepath.Join(parent, ".env"))
		grandparent := filepath.Dir(parent)
		paths = append(paths, filepath.Join(grandparent, ".env"))
	}

	return paths
}

// getDefaultDatabasePath returns the default path for the SQLite mirror.
func getDefaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "usage.db"
	}
	return filepath.Join(home, ".config", "warehouse-finops", "usage.db")
}

// getDefaultConnectionFile returns the default path for connection.toml.
func getDefaultConnectionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "connection.toml"
	}
	return filepath.Join(home, ".config", "warehouse-finops", "connection.toml")
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns the default.
// Accepts values like "30s", "1m", "500ms".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		// Try parsing as seconds if no unit specified
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return b
		}
	}
	return defaultValue
}

// ensureDir creates a directory and all parent directories if they don't exist.
func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o750)
}
