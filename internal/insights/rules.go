package insights

import (
	"context"
	"fmt"
	"strings"

	"github.com/j-veylop/warehouse-finops-tui/internal/catalog"
	"github.com/j-veylop/warehouse-finops-tui/internal/format"
	"github.com/j-veylop/warehouse-finops-tui/internal/models"
)

// Thresholds. Idle percentages arrive from the queries on a 0-100 scale.
// The rightsizing baseline is 10% of activeBaselinePerDay per day in range.
const (
	idlePercentThreshold    = 20.0
	costIncreaseThreshold   = 0.10
	longQuerySeconds        = 300.0
	highCreditsPerQuery     = 1.0
	failedRatioThreshold    = 0.05
	autoSuspendSeconds      = 300.0
	queuedOverloadSeconds   = 1800.0
	lowActiveUsageShare     = 0.1
	percentDecimals         = 1
	durationDecimals        = format.DefaultDurationDecimals
	creditsPerQueryDecimals = 2
	activeBaselinePerDay    = 60.0
)

// smallSizes never trigger the rightsizing rule.
var smallSizes = []string{"XSMALL", "X-SMALL", "SMALL"}

func defaultRules() []rule {
	return []rule{
		{name: "warehouse-idle", scope: models.ScopeAccount, subject: "warehouse data", eval: idleWarehouses},
		{name: "cost-trend", scope: models.ScopeAccount, subject: "total cost data", eval: costTrend},
		{name: "user-queries", scope: models.ScopeUser, subject: "user data", eval: userQueries},
		{name: "user-idle-warehouses", scope: models.ScopeUser, subject: "user warehouse data", eval: userIdleWarehouses},
		{name: "auto-suspend", scope: models.ScopeWarehouse, subject: "warehouse data", eval: autoSuspend},
		{name: "queued-overload", scope: models.ScopeWarehouse, subject: "warehouse queue data", eval: queuedOverload},
		{name: "rightsizing", scope: models.ScopeWarehouse, subject: "warehouse data", eval: rightsizing},
	}
}

func idlePercent(v float64) string {
	return format.Percentage(v/100, percentDecimals)
}

func idleWarehouses(ctx context.Context, f Fetcher, sel Selection) ([]string, error) {
	r, err := f.Execute(ctx, catalog.WarehouseIdleSummary, sel.currentParams())
	if err != nil {
		return nil, err
	}

	var out []string
	for i := range r.Len() {
		idle, ok := r.Float(i, "IDLE_PERCENTAGE")
		credits, _ := r.Float(i, "TOTAL_CREDITS_USED")
		if !ok || idle <= idlePercentThreshold || !(credits > 0) {
			continue
		}
		out = append(out, fmt.Sprintf(
			"Consider adjusting auto-suspend for warehouse %s (Size: %s) due to %s idle time. "+
				"A shorter auto-suspend period can reduce costs.",
			r.String(i, "WAREHOUSE_NAME"), r.String(i, "SIZE"), idlePercent(idle)))
	}
	return out, nil
}

func costTrend(ctx context.Context, f Fetcher, sel Selection) ([]string, error) {
	r, err := f.Execute(ctx, catalog.TotalCostAndCreditsOverview, sel.params())
	if err != nil {
		return nil, err
	}
	if r.Empty() {
		return nil, nil
	}

	current, _ := r.Float(0, "ESTIMATED_COST_USD")
	previous, _ := r.Float(0, "PREV_ESTIMATED_COST_USD")
	delta, ok := format.Delta(current, previous)
	if !ok || delta <= costIncreaseThreshold {
		return nil, nil
	}

	return []string{fmt.Sprintf(
		"Overall estimated cost increased by %s compared to the previous period. "+
			"Investigate top cost drivers (warehouses, users, services) for potential optimizations.",
		format.Percentage(delta, percentDecimals))}, nil
}

func userQueries(ctx context.Context, f Fetcher, sel Selection) ([]string, error) {
	r, err := f.Execute(ctx, catalog.User360SummaryMetrics, sel.params())
	if err != nil {
		return nil, err
	}
	if r.Empty() {
		return nil, nil
	}

	var out []string
	if avg, ok := r.Float(0, "AVG_QUERY_DURATION_SEC"); ok && avg > longQuerySeconds {
		out = append(out, fmt.Sprintf(
			"User %s has an average query duration of %s. "+
				"Review long-running queries for optimization (e.g., using better filters, indexing, or materialized views).",
			sel.Entity, format.Duration(avg, durationDecimals)))
	}

	if credits, ok := r.Float(0, "AVG_CREDITS_PER_QUERY"); ok && credits > highCreditsPerQuery {
		out = append(out, fmt.Sprintf(
			"User %s shows high average credits per query (%s). "+
				"Suggest reviewing query patterns for potential inefficiencies, especially large scans or joins.",
			sel.Entity, format.Grouped(credits, creditsPerQueryDecimals)))
	}

	failed, _ := r.Float(0, "FAILED_QUERY_COUNT")
	total, ok := r.Float(0, "TOTAL_QUERY_COUNT")
	if ok && total > 0 {
		if ratio := format.Ratio(failed, total); ratio > failedRatioThreshold {
			out = append(out, fmt.Sprintf(
				"User %s has a %s failed query rate. "+
					"Investigate common errors or complex queries failing frequently to improve user experience and reduce retries.",
				sel.Entity, format.Percentage(ratio, percentDecimals)))
		}
	}
	return out, nil
}

func userIdleWarehouses(ctx context.Context, f Fetcher, sel Selection) ([]string, error) {
	r, err := f.Execute(ctx, catalog.UserWarehouseUtilizationOverview, sel.currentParams())
	if err != nil {
		return nil, err
	}

	var out []string
	for i := range r.Len() {
		idle, ok := r.Float(i, "IDLE_PERCENTAGE_ON_WH_USER_USED")
		if !ok || idle <= idlePercentThreshold {
			continue
		}
		out = append(out, fmt.Sprintf(
			"User %s frequently uses warehouse %s which has %s idle time. "+
				"Ensure the user is selecting the most appropriate warehouse size and auto-suspend settings.",
			sel.Entity, r.String(i, "WAREHOUSE_NAME"), idlePercent(idle)))
	}
	return out, nil
}

func autoSuspend(ctx context.Context, f Fetcher, sel Selection) ([]string, error) {
	r, err := f.Execute(ctx, catalog.WarehouseSummaryMetrics, sel.params())
	if err != nil {
		return nil, err
	}
	if r.Empty() {
		return nil, nil
	}

	idle, idleOK := r.Float(0, "IDLE_PERCENTAGE")
	suspend, suspendOK := r.Float(0, "AUTO_SUSPEND")
	if !idleOK || !suspendOK || idle <= idlePercentThreshold || suspend <= autoSuspendSeconds {
		return nil, nil
	}

	return []string{fmt.Sprintf(
		"Warehouse %s has %s idle time and an auto-suspend setting of %s. "+
			"Consider reducing auto-suspend to 1 or 5 minutes to optimize cost.",
		sel.Entity, idlePercent(idle), format.Duration(suspend, durationDecimals))}, nil
}

func queuedOverload(ctx context.Context, f Fetcher, sel Selection) ([]string, error) {
	r, err := f.Execute(ctx, catalog.WarehouseQueuedOverloadTimeTrend, sel.currentParams())
	if err != nil {
		return nil, err
	}

	queued := r.Sum("TOTAL_QUEUED_OVERLOAD_TIME_SEC")
	if queued <= queuedOverloadSeconds {
		return nil, nil
	}

	return []string{fmt.Sprintf(
		"Warehouse %s experienced %s in queued overload time. "+
			"This may indicate the warehouse is undersized for peak loads. "+
			"Consider temporarily or permanently increasing its size during high usage periods.",
		sel.Entity, format.Duration(queued, durationDecimals))}, nil
}

func rightsizing(ctx context.Context, f Fetcher, sel Selection) ([]string, error) {
	r, err := f.Execute(ctx, catalog.WarehouseSummaryMetrics, sel.params())
	if err != nil {
		return nil, err
	}
	if r.Empty() {
		return nil, nil
	}

	active, ok := r.Float(0, "ACTIVE_MINUTES")
	size := strings.TrimSpace(r.String(0, "SIZE"))
	if !ok || size == "" || isSmall(size) {
		return nil, nil
	}
	if active >= float64(sel.Range.Span())*activeBaselinePerDay*lowActiveUsageShare {
		return nil, nil
	}

	return []string{fmt.Sprintf(
		"Warehouse %s has relatively low active usage (%s minutes) for its size (%s). "+
			"If this pattern persists, consider rightsizing to a smaller warehouse.",
		sel.Entity, format.Grouped(active, 0), size)}, nil
}

func isSmall(size string) bool {
	s := strings.ToUpper(strings.ReplaceAll(size, " ", ""))
	for _, small := range smallSizes {
		if s == small {
			return true
		}
	}
	return false
}
