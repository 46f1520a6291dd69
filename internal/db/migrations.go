package db

import (
	"context"
	"fmt"
)

// NormalizeTimestamps rewrites imported timestamps to "YYYY-MM-DD HH:MM:SS".
// Account usage exports carry ISO-8601 values with a T separator, fractional
// seconds and a zone suffix, none of which compare correctly as text.
func (db *DB) NormalizeTimestamps(ctx context.Context) error {
	queries := []string{
		`UPDATE query_history
		 SET start_time = REPLACE(SUBSTR(start_time, 1, 19), 'T', ' ')
		 WHERE length(start_time) > 19 OR start_time LIKE '%T%'`,

		`UPDATE warehouse_metering_history
		 SET start_time = REPLACE(SUBSTR(start_time, 1, 19), 'T', ' ')
		 WHERE length(start_time) > 19 OR start_time LIKE '%T%'`,

		`UPDATE metering_history
		 SET usage_date = SUBSTR(usage_date, 1, 10)
		 WHERE length(usage_date) > 10`,
	}

	for _, query := range queries {
		if _, err := db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to normalize timestamps: %w", err)
		}
	}

	return nil
}
