package db

import (
	"context"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "usage.db"))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return db
}

func columnsOf(t *testing.T, db *DB, table string) []string {
	t.Helper()
	rows, err := db.QueryContext(context.Background(), "SELECT name FROM pragma_table_info(?)", table)
	if err != nil {
		t.Fatalf("table_info(%s) failed: %v", table, err)
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("scan failed: %v", err)
		}
		cols = append(cols, name)
	}
	return cols
}

func TestNew_NestedMirrorPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "finops", "mirror", "usage.db")

	db, err := New(path)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer db.Close()

	if db.Path() != path {
		t.Errorf("Path() = %s, want %s", db.Path(), path)
	}

	var mode string
	if err := db.QueryRowContext(context.Background(), "PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("journal_mode failed: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}
}

// Every column the import accepts must exist in the schema, since the
// catalog's sqlite dialect reads them by name.
func TestSchema_MatchesImportColumns(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	for _, table := range Tables {
		cols := columnsOf(t, db, table)
		if len(cols) == 0 {
			t.Errorf("table %s missing", table)
			continue
		}
		for _, want := range importColumns[table] {
			if !slices.Contains(cols, want) {
				t.Errorf("%s has no column %s (have %v)", table, want, cols)
			}
		}
	}

	qh := columnsOf(t, db, TableQueryHistory)
	for _, want := range []string{"queued_overload_time", "bytes_scanned", "error_message", "credits_used"} {
		if !slices.Contains(qh, want) {
			t.Errorf("query_history lacks %s", want)
		}
	}
}

func TestSchema_WarehouseKeys(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()
	ctx := context.Background()

	first := "WAREHOUSE_ID,WAREHOUSE_NAME,SIZE,AUTO_SUSPEND\n1,WH_XS,X-Small,60\n2,WH_L,Large,600\n"
	if _, err := db.ImportCSV(ctx, TableWarehouses, strings.NewReader(first)); err != nil {
		t.Fatalf("ImportCSV() failed: %v", err)
	}

	// Same id, new settings: replaced in place.
	resize := "WAREHOUSE_ID,WAREHOUSE_NAME,SIZE,AUTO_SUSPEND\n1,WH_XS,Small,300\n"
	if _, err := db.ImportCSV(ctx, TableWarehouses, strings.NewReader(resize)); err != nil {
		t.Fatalf("ImportCSV() resize failed: %v", err)
	}

	// A recreated warehouse reuses the name with a new id; the old row goes.
	recreate := "WAREHOUSE_ID,WAREHOUSE_NAME,SIZE,AUTO_SUSPEND\n7,WH_L,Medium,120\n"
	if _, err := db.ImportCSV(ctx, TableWarehouses, strings.NewReader(recreate)); err != nil {
		t.Fatalf("ImportCSV() recreate failed: %v", err)
	}

	var n int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM warehouses").Scan(&n); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if n != 2 {
		t.Errorf("warehouses = %d rows, want 2", n)
	}

	var size string
	var suspend int
	err := db.QueryRowContext(ctx, "SELECT size, auto_suspend FROM warehouses WHERE warehouse_id = 1").Scan(&size, &suspend)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if size != "Small" || suspend != 300 {
		t.Errorf("WH_XS = %s/%d, want Small/300", size, suspend)
	}

	var id int
	if err := db.QueryRowContext(ctx, "SELECT warehouse_id FROM warehouses WHERE warehouse_name = 'WH_L'").Scan(&id); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if id != 7 {
		t.Errorf("WH_L id = %d, want 7", id)
	}
}

func TestSchema_MeteringKeyedByHour(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()
	ctx := context.Background()

	data := "WAREHOUSE_ID,WAREHOUSE_NAME,START_TIME,CREDITS_USED\n" +
		"1,WH_XS,2024-03-01 00:00:00,1\n" +
		"1,WH_XS,2024-03-01 01:00:00,2\n" +
		"1,WH_XS,2024-03-01 00:00:00,5\n"
	if _, err := db.ImportCSV(ctx, TableWarehouseMetering, strings.NewReader(data)); err != nil {
		t.Fatalf("ImportCSV() failed: %v", err)
	}

	var rows int
	var total float64
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*), SUM(credits_used) FROM warehouse_metering_history").Scan(&rows, &total); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if rows != 2 || total != 7 {
		t.Errorf("got %d rows totalling %v, want 2 rows totalling 7", rows, total)
	}

	var whType string
	if err := db.QueryRowContext(ctx, "SELECT warehouse_type FROM warehouse_metering_history LIMIT 1").Scan(&whType); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if whType != "STANDARD" {
		t.Errorf("warehouse_type = %q, want the STANDARD default", whType)
	}
}

func TestNew_NormalizesExistingTimestamps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "usage.db")
	db, err := New(path)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	_, err = db.ExecContext(context.Background(),
		"INSERT INTO query_history (query_id, user_name, start_time) VALUES ('q', 'ALICE', '2024-03-10T14:30:00.123Z')")
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	db, err = New(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer db.Close()

	var start string
	if err := db.QueryRowContext(context.Background(), "SELECT start_time FROM query_history").Scan(&start); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if start != "2024-03-10 14:30:00" {
		t.Errorf("start_time = %q, want 2024-03-10 14:30:00", start)
	}
}

func TestClose(t *testing.T) {
	db := newTestDB(t)
	if err := db.Close(); err != nil {
		t.Errorf("Close() failed: %v", err)
	}
	if _, err := db.TableCounts(context.Background()); err == nil {
		t.Error("expected error on a closed mirror")
	}
}
