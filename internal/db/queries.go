package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// TableCounts returns the row count of every mirror table.
func (db *DB) TableCounts(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64, len(Tables))
	for _, table := range Tables {
		var n int64
		// table names come from the fixed Tables list
		if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}

// LatestActivity returns the most recent query start time in the mirror.
func (db *DB) LatestActivity(ctx context.Context) (time.Time, error) {
	var ts sql.NullString
	if err := db.QueryRowContext(ctx, "SELECT MAX(start_time) FROM query_history").Scan(&ts); err != nil {
		return time.Time{}, fmt.Errorf("failed to query latest activity: %w", err)
	}
	if !ts.Valid {
		return time.Time{}, nil
	}
	return time.ParseInLocation(time.DateTime, ts.String, time.UTC)
}

func (db *DB) inTx(ctx context.Context, query string, n int, exec func(*sql.Stmt, int) error) (int, error) {
	if n == 0 {
		return 0, nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range n {
		if err := exec(stmt, i); err != nil {
			return 0, fmt.Errorf("failed to insert row %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit: %w", err)
	}
	return n, nil
}
