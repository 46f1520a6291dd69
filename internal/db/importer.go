package db

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
)

// importColumns lists the columns accepted per table, in insert order.
var importColumns = map[string][]string{
	TableQueryHistory: {
		"query_id", "query_text", "query_type", "user_name", "role_name", "warehouse_id",
		"warehouse_name", "start_time", "total_elapsed_time", "execution_time",
		"compilation_time", "queued_overload_time", "credits_used", "bytes_scanned",
		"bytes_spilled_to_local_storage", "bytes_spilled_to_remote_storage", "error_message",
	},
	TableWarehouses: {"warehouse_id", "warehouse_name", "size", "auto_suspend", "auto_resume"},
	TableWarehouseMetering: {
		"warehouse_id", "warehouse_name", "warehouse_type", "start_time",
		"credits_used", "credits_used_compute", "credits_used_cloud_services",
	},
	TableMeteringHistory: {"service_type", "usage_date", "credits_used"},
}

var requiredColumns = map[string][]string{
	TableQueryHistory:      {"query_id", "user_name", "start_time"},
	TableWarehouses:        {"warehouse_id", "warehouse_name"},
	TableWarehouseMetering: {"warehouse_id", "warehouse_name", "start_time"},
	TableMeteringHistory:   {"service_type", "usage_date"},
}

// headerAliases maps export column names that differ from the mirror schema.
var headerAliases = map[string]map[string]string{
	TableMeteringHistory: {"start_time": "usage_date"},
	TableWarehouses:      {"name": "warehouse_name", "id": "warehouse_id"},
}

// ErrUnknownTable is returned when importing into a table outside the mirror.
var ErrUnknownTable = errors.New("unknown mirror table")

// ImportCSV loads a CSV export of an account usage view into table.
// Headers are matched case-insensitively against the mirror columns;
// unrecognized columns are ignored and empty cells are stored as NULL.
func (db *DB) ImportCSV(ctx context.Context, table string, r io.Reader) (int, error) {
	allowed, ok := importColumns[table]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("failed to read CSV headers: %w", err)
	}

	var (
		cols    []string
		indexes []int
	)
	for i, h := range headers {
		name := normalizeHeader(h)
		if alias, ok := headerAliases[table][name]; ok {
			name = alias
		}
		if slices.Contains(allowed, name) && !slices.Contains(cols, name) {
			cols = append(cols, name)
			indexes = append(indexes, i)
		}
	}

	for _, req := range requiredColumns[table] {
		if !slices.Contains(cols, req) {
			return 0, fmt.Errorf("CSV for %s is missing column %s", table, strings.ToUpper(req))
		}
	}

	var rows [][]any
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("failed to read CSV line %d: %w", line, err)
		}

		row := make([]any, len(indexes))
		for j, idx := range indexes {
			if idx < len(record) && strings.TrimSpace(record[idx]) != "" {
				row[j] = strings.TrimSpace(record[idx])
			}
		}
		rows = append(rows, row)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	// table and column names come from the fixed import lists
	query := fmt.Sprintf("INSERT OR REPLACE INTO %s (%s) VALUES (%s)",
		table, strings.Join(cols, ", "), placeholders)

	n, err := db.inTx(ctx, query, len(rows), func(stmt *sql.Stmt, i int) error {
		_, err := stmt.ExecContext(ctx, rows[i]...)
		return err
	})
	if err != nil {
		return 0, err
	}

	if err := db.NormalizeTimestamps(ctx); err != nil {
		return n, err
	}
	return n, nil
}

func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\uFEFF")
	h = strings.Trim(strings.TrimSpace(h), `"`)
	return strings.ToLower(h)
}
