package warehouse

import (
	"database/sql"
	"fmt"

	"github.com/j-veylop/warehouse-finops-tui/internal/models"
)

// scanRows reads every row into a QueryResult. Byte slices are copied into
// strings since the driver may reuse their backing arrays.
func scanRows(rows *sql.Rows) (*models.QueryResult, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	var out [][]any
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		out = append(out, values)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return models.NewQueryResult(cols, out), nil
}
