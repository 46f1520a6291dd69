package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/snowflakedb/gosnowflake"

	"github.com/j-veylop/warehouse-finops-tui/internal/catalog"
	"github.com/j-veylop/warehouse-finops-tui/internal/config"
	"github.com/j-veylop/warehouse-finops-tui/internal/db"
)

const loginTimeout = 30 * time.Second

// Backend is an open connection to one of the supported data sources.
type Backend struct {
	DB *sql.DB
	// Mirror is set for the local SQLite backend only.
	Mirror  *db.DB
	Dialect catalog.Dialect
	// Source describes the connection for display, without credentials.
	Source string
}

// Open connects to the backend selected in cfg.
func Open(ctx context.Context, cfg *config.Config) (*Backend, error) {
	switch cfg.Backend {
	case config.BackendSnowflake:
		return OpenSnowflake(ctx, cfg.Snowflake)
	case config.BackendSQLite:
		return OpenSQLite(cfg.DatabasePath)
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

// SnowflakeDSN builds a driver DSN from the connection settings.
func SnowflakeDSN(sc config.SnowflakeConfig) (string, error) {
	dsn, err := gosnowflake.DSN(&gosnowflake.Config{
		Account:      sc.Account,
		User:         sc.User,
		Password:     sc.Password,
		Role:         sc.Role,
		Warehouse:    sc.Warehouse,
		Database:     sc.Database,
		Schema:       sc.Schema,
		Application:  "warehouse-finops-tui",
		LoginTimeout: loginTimeout,
	})
	if err != nil {
		return "", fmt.Errorf("failed to build snowflake DSN: %w", err)
	}
	return dsn, nil
}

// OpenSnowflake connects to the Snowflake account and verifies the session.
func OpenSnowflake(ctx context.Context, sc config.SnowflakeConfig) (*Backend, error) {
	dsn, err := SnowflakeDSN(sc)
	if err != nil {
		return nil, err
	}

	sqlDB, err := sql.Open("snowflake", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open snowflake connection: %w", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to snowflake: %w", err)
	}

	return &Backend{
		DB:      sqlDB,
		Dialect: catalog.Snowflake,
		Source:  fmt.Sprintf("snowflake://%s@%s/%s.%s", sc.User, sc.Account, sc.Database, sc.Schema),
	}, nil
}

// OpenSQLite opens the local usage mirror at path.
func OpenSQLite(path string) (*Backend, error) {
	mirror, err := db.New(path)
	if err != nil {
		return nil, err
	}
	return &Backend{
		DB:      mirror.DB,
		Mirror:  mirror,
		Dialect: catalog.SQLite,
		Source:  "sqlite://" + mirror.Path(),
	}, nil
}

// Close releases the connection.
func (b *Backend) Close() error {
	if b.Mirror != nil {
		return b.Mirror.Close()
	}
	return b.DB.Close()
}
