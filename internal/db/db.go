// Package db manages the local SQLite mirror of the warehouse usage views.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	// Import modernc.org/sqlite as a blank import to register the driver
	_ "modernc.org/sqlite"
)

// DB wraps the SQL database connection with mirror-specific methods.
type DB struct {
	*sql.DB
	path string
}

// New opens the mirror at path, creating the file and schema if needed.
func New(path string) (*DB, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := sqlDB.PingContext(context.Background()); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := &DB{
		DB:   sqlDB,
		path: path,
	}

	if err := db.configure(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to configure database: %w", err)
	}

	if err := db.createSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	if err := db.NormalizeTimestamps(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}

func (db *DB) configure() error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA cache_size=-64000", // 64MB cache
		"PRAGMA busy_timeout=5000",
		"PRAGMA temp_store=MEMORY",
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(context.Background(), pragma); err != nil {
			return fmt.Errorf("failed to execute %s: %w", pragma, err)
		}
	}

	return nil
}

func (db *DB) createSchema() error {
	for _, create := range []func() error{
		db.createQueryHistoryTable,
		db.createWarehousesTable,
		db.createWarehouseMeteringTable,
		db.createMeteringHistoryTable,
	} {
		if err := create(); err != nil {
			return err
		}
	}
	return nil
}

func (db *DB) createQueryHistoryTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS query_history (
		query_id TEXT PRIMARY KEY,
		query_text TEXT,
		query_type TEXT,
		user_name TEXT NOT NULL,
		role_name TEXT,
		warehouse_id INTEGER,
		warehouse_name TEXT,
		start_time TEXT NOT NULL,
		total_elapsed_time INTEGER DEFAULT 0,
		execution_time INTEGER DEFAULT 0,
		compilation_time INTEGER DEFAULT 0,
		queued_overload_time INTEGER DEFAULT 0,
		credits_used REAL,
		bytes_scanned INTEGER DEFAULT 0,
		bytes_spilled_to_local_storage INTEGER DEFAULT 0,
		bytes_spilled_to_remote_storage INTEGER DEFAULT 0,
		error_message TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_query_history_start ON query_history(start_time);
	CREATE INDEX IF NOT EXISTS idx_query_history_user ON query_history(user_name, start_time);
	CREATE INDEX IF NOT EXISTS idx_query_history_warehouse ON query_history(warehouse_name, start_time);
	`
	_, err := db.ExecContext(context.Background(), query)
	return err
}

func (db *DB) createWarehousesTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS warehouses (
		warehouse_id INTEGER PRIMARY KEY,
		warehouse_name TEXT NOT NULL UNIQUE,
		size TEXT,
		auto_suspend INTEGER,
		auto_resume INTEGER DEFAULT 1
	);
	`
	_, err := db.ExecContext(context.Background(), query)
	return err
}

func (db *DB) createWarehouseMeteringTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS warehouse_metering_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		warehouse_id INTEGER NOT NULL,
		warehouse_name TEXT NOT NULL,
		warehouse_type TEXT DEFAULT 'STANDARD',
		start_time TEXT NOT NULL,
		credits_used REAL DEFAULT 0,
		credits_used_compute REAL DEFAULT 0,
		credits_used_cloud_services REAL DEFAULT 0,
		UNIQUE(warehouse_id, start_time)
	);
	CREATE INDEX IF NOT EXISTS idx_wmh_start ON warehouse_metering_history(start_time);
	CREATE INDEX IF NOT EXISTS idx_wmh_name ON warehouse_metering_history(warehouse_name, start_time);
	`
	_, err := db.ExecContext(context.Background(), query)
	return err
}

func (db *DB) createMeteringHistoryTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS metering_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		service_type TEXT NOT NULL,
		usage_date TEXT NOT NULL,
		credits_used REAL DEFAULT 0,
		UNIQUE(service_type, usage_date)
	);
	CREATE INDEX IF NOT EXISTS idx_metering_date ON metering_history(usage_date);
	`
	_, err := db.ExecContext(context.Background(), query)
	return err
}

// Close checkpoints the WAL and closes the connection.
func (db *DB) Close() error {
	_, _ = db.ExecContext(context.Background(), "PRAGMA wal_checkpoint(TRUNCATE)")
	return db.DB.Close()
}
