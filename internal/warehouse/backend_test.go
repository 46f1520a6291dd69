package warehouse

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/j-veylop/warehouse-finops-tui/internal/catalog"
	"github.com/j-veylop/warehouse-finops-tui/internal/config"
	"github.com/j-veylop/warehouse-finops-tui/internal/db"
	"github.com/j-veylop/warehouse-finops-tui/internal/models"
	"github.com/j-veylop/warehouse-finops-tui/internal/period"
)

func seededMirror(t *testing.T) *Backend {
	t.Helper()
	b, err := OpenSQLite(filepath.Join(t.TempDir(), "usage.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	ctx := context.Background()

	queries := "QUERY_ID,USER_NAME,WAREHOUSE_NAME,WAREHOUSE_ID,START_TIME,CREDITS_USED,TOTAL_ELAPSED_TIME,ERROR_MESSAGE\n" +
		// previous period: Mar 1-5
		"p1,ALICE,WH_XS,1,2024-03-03 09:00:00,40,1000,\n" +
		// current period: Mar 6-10
		"c1,ALICE,WH_XS,1,2024-03-06 09:00:00,30,2000,\n" +
		"c2,ALICE,WH_L,2,2024-03-10 23:00:00,20,4000,timeout\n" +
		"c3,BOB,WH_L,2,2024-03-08 12:00:00,10,0,\n" +
		// outside both
		"x1,BOB,WH_L,2,2024-03-11 00:00:00,999,0,\n"
	_, err = b.Mirror.ImportCSV(ctx, db.TableQueryHistory, strings.NewReader(queries))
	require.NoError(t, err)

	warehouses := "WAREHOUSE_ID,WAREHOUSE_NAME,SIZE,AUTO_SUSPEND,AUTO_RESUME\n" +
		"1,WH_XS,X-Small,60,1\n" +
		"2,WH_L,Large,600,1\n"
	_, err = b.Mirror.ImportCSV(ctx, db.TableWarehouses, strings.NewReader(warehouses))
	require.NoError(t, err)
	return b
}

func marchRange(t *testing.T) period.Range {
	t.Helper()
	r, err := period.New(period.Date(2024, 3, 6), period.Date(2024, 3, 10))
	require.NoError(t, err)
	return r
}

func TestOpenSQLite(t *testing.T) {
	b, err := OpenSQLite(filepath.Join(t.TempDir(), "usage.db"))
	require.NoError(t, err)
	defer b.Close()

	assert.Equal(t, catalog.SQLite, b.Dialect)
	assert.NotNil(t, b.Mirror)
	assert.Contains(t, b.Source, "sqlite://")
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), &config.Config{Backend: "oracle"})
	assert.Error(t, err)
}

func TestMirror_TotalCostOverview(t *testing.T) {
	b := seededMirror(t)
	e := NewExecutor(b.DB, catalog.Default(), Options{Dialect: b.Dialect, CreditPrice: 2})

	r, err := e.Execute(context.Background(), catalog.TotalCostAndCreditsOverview, marchRange(t).Params())
	require.NoError(t, err)
	require.Equal(t, 1, r.Len())

	credits, _ := r.Float(0, "TOTAL_CREDITS")
	cost, _ := r.Float(0, "ESTIMATED_COST_USD")
	prev, _ := r.Float(0, "PREV_TOTAL_CREDITS")
	assert.Equal(t, 60.0, credits, "Mar 10 23:00 is inside the end-inclusive range")
	assert.Equal(t, 120.0, cost)
	assert.Equal(t, 40.0, prev)
}

func TestMirror_UserSummary(t *testing.T) {
	b := seededMirror(t)
	e := NewExecutor(b.DB, catalog.Default(), Options{Dialect: b.Dialect})

	params := marchRange(t).Params().Clone(models.Params{"selected_user_name": "ALICE"})
	r, err := e.Execute(context.Background(), catalog.User360SummaryMetrics, params)
	require.NoError(t, err)

	total, _ := r.Float(0, "TOTAL_QUERY_COUNT")
	failed, _ := r.Float(0, "FAILED_QUERY_COUNT")
	avg, _ := r.Float(0, "AVG_QUERY_DURATION_SEC")
	assert.Equal(t, 2.0, total)
	assert.Equal(t, 1.0, failed)
	assert.Equal(t, 3.0, avg)
}

func TestMirror_ListActiveUsers(t *testing.T) {
	b := seededMirror(t)
	e := NewExecutor(b.DB, catalog.Default(), Options{Dialect: b.Dialect, LookbackDays: 100000})

	r, err := e.Execute(context.Background(), catalog.ListActiveUsersByCost, nil)
	require.NoError(t, err)
	require.Equal(t, 2, r.Len())
	assert.Equal(t, "BOB", r.String(0, "USER_NAME"), "ordered by cost")
}

func TestMirror_EveryQueryRuns(t *testing.T) {
	b := seededMirror(t)
	e := NewExecutor(b.DB, catalog.Default(), Options{Dialect: b.Dialect})

	params := marchRange(t).Params().Clone(models.Params{
		"selected_user_name":      "ALICE",
		"selected_warehouse_name": "WH_L",
	})
	for _, id := range catalog.Default().IDs() {
		t.Run(id, func(t *testing.T) {
			_, err := e.Execute(context.Background(), id, params)
			assert.NoError(t, err)
		})
	}
}
