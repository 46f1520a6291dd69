package dashboards

import (
	"github.com/j-veylop/warehouse-finops-tui/internal/catalog"
	"github.com/j-veylop/warehouse-finops-tui/internal/models"
)

var (
	creditsFormat  = models.FormatSpec{Kind: models.FormatNumber, Decimals: 0}
	costFormat     = models.FormatSpec{Kind: models.FormatCurrency, Decimals: 2}
	countFormat    = models.FormatSpec{Kind: models.FormatNumber, Decimals: 0}
	durationFormat = models.FormatSpec{Kind: models.FormatDuration, Decimals: 1}
	rateFormat     = models.FormatSpec{Kind: models.FormatPercentage, Decimals: 1}
)

func axes(x, y string) map[models.AxisRole]string {
	return map[models.AxisRole]string{models.RoleX: x, models.RoleY: y}
}

func pieAxes(name, value string) map[models.AxisRole]string {
	return map[models.AxisRole]string{models.RoleName: name, models.RoleValue: value}
}

func overviewMetrics() []models.MetricDefinition {
	return []models.MetricDefinition{
		{
			Label:       "Total Credits Used",
			QueryID:     catalog.TotalCostAndCreditsOverview,
			ValueColumn: "TOTAL_CREDITS",
			DeltaColumn: "PREV_TOTAL_CREDITS",
			Value:       creditsFormat,
			HelpText:    "Total Snowflake credits consumed in the selected period.",
		},
		{
			Label:       "Estimated Total Cost",
			QueryID:     catalog.TotalCostAndCreditsOverview,
			ValueColumn: "ESTIMATED_COST_USD",
			DeltaColumn: "PREV_ESTIMATED_COST_USD",
			Value:       costFormat,
			HelpText:    "Estimated cost based on consumed credits and the configured credit price.",
		},
	}
}

func overviewCharts() []models.ChartDefinition {
	return []models.ChartDefinition{
		{
			Title:       "Daily Credit Consumption Trend",
			Description: "Total daily credit consumption across all services.",
			QueryID:     catalog.DailyCreditConsumptionTrend,
			Kind:        models.ChartLine,
			Axes:        axes("USAGE_DAY", "DAILY_CREDITS_USED"),
			XAxisTitle:  "Date",
			YAxisTitle:  "Credits Used",
		},
		{
			Title:          "Estimated Cost by Service Type",
			Description:    "Cost breakdown by Snowflake service type (e.g., Compute, Storage, Cloud Services).",
			QueryID:        catalog.CostByServiceType,
			Kind:           models.ChartBar,
			Axes:           axes("SERVICE_TYPE", "ESTIMATED_COST_USD"),
			XAxisTitle:     "Service Type",
			YAxisTitle:     "Estimated Cost (USD)",
			SortDescending: true,
		},
		{
			Title:          "Top 10 Warehouses by Cost",
			Description:    "The warehouses incurring the highest costs.",
			QueryID:        catalog.Top10WarehousesByCost,
			Kind:           models.ChartBar,
			Axes:           axes("WAREHOUSE_NAME", "ESTIMATED_COST_USD"),
			XAxisTitle:     "Warehouse Name",
			YAxisTitle:     "Estimated Cost (USD)",
			SortDescending: true,
		},
		{
			Title:          "Top 10 Users by Cost",
			Description:    "The users incurring the highest costs.",
			QueryID:        catalog.Top10UsersByCost,
			Kind:           models.ChartBar,
			Axes:           axes("USER_NAME", "ESTIMATED_COST_USD"),
			XAxisTitle:     "User Name",
			YAxisTitle:     "Estimated Cost (USD)",
			SortDescending: true,
		},
	}
}

func userMetrics() []models.MetricDefinition {
	return []models.MetricDefinition{
		{
			Label:       "Total Credits (User)",
			QueryID:     catalog.User360SummaryMetrics,
			ValueColumn: "TOTAL_CREDITS",
			DeltaColumn: "PREV_TOTAL_CREDITS",
			Value:       creditsFormat,
			HelpText:    "Total Snowflake credits consumed by this user in the selected period.",
		},
		{
			Label:       "Estimated Cost (User)",
			QueryID:     catalog.User360SummaryMetrics,
			ValueColumn: "ESTIMATED_COST_USD",
			DeltaColumn: "PREV_ESTIMATED_COST_USD",
			Value:       costFormat,
			HelpText:    "Estimated cost for this user.",
		},
		{
			Label:       "Avg. Query Duration",
			QueryID:     catalog.User360SummaryMetrics,
			ValueColumn: "AVG_QUERY_DURATION_SEC",
			Value:       durationFormat,
			HelpText:    "Average execution time of queries run by this user.",
		},
		{
			Label:       "Avg. Credits/Query",
			QueryID:     catalog.User360SummaryMetrics,
			ValueColumn: "AVG_CREDITS_PER_QUERY",
			Value:       models.FormatSpec{Kind: models.FormatNumber, Decimals: 3},
			HelpText:    "Average credits consumed per query by this user. High value might indicate inefficient queries.",
		},
		{
			Label:       "Total Query Count",
			QueryID:     catalog.User360SummaryMetrics,
			ValueColumn: "TOTAL_QUERY_COUNT",
			Value:       countFormat,
			HelpText:    "Total number of queries executed by this user.",
		},
		{
			Label:      "Failed Query Rate",
			QueryID:    catalog.User360SummaryMetrics,
			Derivation: models.RatioOf("FAILED_QUERY_COUNT", "TOTAL_QUERY_COUNT"),
			Value:      rateFormat,
			HelpText:   "Percentage of queries that failed for this user. High rate indicates issues.",
		},
		{
			Label:       "Total Data Scanned",
			QueryID:     catalog.User360SummaryMetrics,
			ValueColumn: "TOTAL_BYTES_SCANNED",
			Value:       models.FormatSpec{Kind: models.FormatBytes, Unit: "GB", Decimals: 2},
			HelpText:    "Total data scanned by user's queries. High volume can lead to high cost.",
		},
	}
}

func userCharts() []models.ChartDefinition {
	return []models.ChartDefinition{
		{
			Title:       "User's Daily Credit Consumption Trend",
			Description: "Visualizes daily credit consumption by the selected user to identify personal trends.",
			QueryID:     catalog.UserDailyCreditConsumption,
			Kind:        models.ChartLine,
			Axes:        axes("USAGE_DAY", "DAILY_CREDITS_USED"),
			XAxisTitle:  "Date",
			YAxisTitle:  "Credits Used",
		},
		{
			Title:          "User's Estimated Cost by Query Type",
			Description:    "Breakdown of estimated costs by the types of queries run by this user (e.g., SELECT, DML, DDL).",
			QueryID:        catalog.UserQueryTypeDistribution,
			Kind:           models.ChartBar,
			Axes:           axes("QUERY_TYPE", "ESTIMATED_COST_USD"),
			XAxisTitle:     "Query Type",
			YAxisTitle:     "Estimated Cost (USD)",
			SortDescending: true,
		},
		{
			Title:          "User's Top 10 Warehouses by Estimated Cost",
			Description:    "Warehouses where the user incurred the highest estimated costs. Consider if the right warehouse size/type is being used.",
			QueryID:        catalog.UserWarehouseCostBreakdown,
			Kind:           models.ChartBar,
			Axes:           axes("WAREHOUSE_NAME", "ESTIMATED_COST_USD"),
			XAxisTitle:     "Warehouse Name",
			YAxisTitle:     "Estimated Cost (USD)",
			SortDescending: true,
		},
		{
			Title:          "User's Top 10 Roles by Estimated Cost",
			Description:    "Snowflake roles the user frequently assumed that incurred the highest estimated costs. Review role privileges and usage patterns.",
			QueryID:        catalog.UserRoleCostBreakdown,
			Kind:           models.ChartBar,
			Axes:           axes("ROLE_NAME", "ESTIMATED_COST_USD"),
			XAxisTitle:     "Role Name",
			YAxisTitle:     "Estimated Cost (USD)",
			SortDescending: true,
		},
		{
			Title:       "Underutilized Warehouses (Used by User)",
			Description: "Warehouses used by this user that exhibit significant idle time. Opportunities to adjust AUTO_SUSPEND.",
			QueryID:     catalog.UserWarehouseUtilizationOverview,
			Kind:        models.ChartTable,
		},
		{
			Title:       "User's Top 20 Most Expensive Queries",
			Description: "The user's queries that consumed the most credits. Prioritize these for optimization, examining QUERY_TEXT.",
			QueryID:     catalog.UserTopExpensiveQueries,
			Kind:        models.ChartTable,
		},
		{
			Title:       "User's Top 20 Longest Running Queries",
			Description: "The user's queries with the longest execution times. Analyze QUEUED_OVERLOAD_TIME and COMPILATION_TIME for bottlenecks.",
			QueryID:     catalog.UserTopLongRunningQueries,
			Kind:        models.ChartTable,
		},
	}
}

func warehouseMetrics() []models.MetricDefinition {
	return []models.MetricDefinition{
		{
			Label:       "Total Credits (Warehouse)",
			QueryID:     catalog.WarehouseSummaryMetrics,
			ValueColumn: "TOTAL_CREDITS_USED",
			DeltaColumn: "PREV_TOTAL_CREDITS_USED",
			Value:       creditsFormat,
			HelpText:    "Total Snowflake credits consumed by this warehouse in the selected period.",
		},
		{
			Label:       "Estimated Cost (Warehouse)",
			QueryID:     catalog.WarehouseSummaryMetrics,
			ValueColumn: "ESTIMATED_COST_USD",
			DeltaColumn: "PREV_ESTIMATED_COST_USD",
			Value:       costFormat,
			HelpText:    "Estimated cost for this warehouse.",
		},
		// IDLE_PERCENTAGE is reported on a 0-100 scale.
		{
			Label:       "Idle Percentage",
			QueryID:     catalog.WarehouseSummaryMetrics,
			ValueColumn: "IDLE_PERCENTAGE",
			Value:       models.FormatSpec{Kind: models.FormatPercentage, Decimals: 1, Scale: 0.01},
			HelpText:    "Percentage of time the warehouse was running but idle. High value indicates over-provisioning or poor auto-suspend settings.",
		},
		{
			Label:       "Total Active Minutes",
			QueryID:     catalog.WarehouseSummaryMetrics,
			ValueColumn: "ACTIVE_MINUTES",
			Value:       models.FormatSpec{Kind: models.FormatNumber, Decimals: 0, Suffix: " min"},
			HelpText:    "Total minutes the warehouse was actively processing queries.",
		},
		{
			Label:       "Auto Suspend",
			QueryID:     catalog.WarehouseSummaryMetrics,
			ValueColumn: "AUTO_SUSPEND",
			Value:       models.FormatSpec{Kind: models.FormatNumber, Decimals: 0, Suffix: " s"},
			HelpText:    "Current AUTO_SUSPEND setting for the warehouse.",
		},
	}
}

func warehouseCharts() []models.ChartDefinition {
	return []models.ChartDefinition{
		{
			Title:       "Warehouse Daily Credit Consumption",
			Description: "Trend of daily credit consumption for the selected warehouse.",
			QueryID:     catalog.WarehouseDailyCreditConsumption,
			Kind:        models.ChartLine,
			Axes:        axes("USAGE_DAY", "DAILY_CREDITS_USED"),
			XAxisTitle:  "Date",
			YAxisTitle:  "Credits Used",
		},
		{
			Title:       "Warehouse Query Completion Status",
			Description: "Breakdown of query success vs. failure rates for this warehouse.",
			QueryID:     catalog.WarehouseQueryCompletionStatus,
			Kind:        models.ChartPie,
			Axes:        pieAxes("STATUS", "QUERY_COUNT"),
			XAxisTitle:  "Status",
			YAxisTitle:  "Query Count",
		},
		{
			Title:       "Warehouse Query Completion Cost",
			Description: "Cost breakdown by query success vs. failure rates for this warehouse.",
			QueryID:     catalog.WarehouseQueryCompletionStatus,
			Kind:        models.ChartPie,
			Axes:        pieAxes("STATUS", "ESTIMATED_COST_USD"),
			XAxisTitle:  "Status",
			YAxisTitle:  "Estimated Cost (USD)",
		},
		{
			Title:          "Top 10 Users on this Warehouse by Cost",
			Description:    "Users who incurred the most cost on this specific warehouse.",
			QueryID:        catalog.WarehouseTopUsersByCost,
			Kind:           models.ChartBar,
			Axes:           axes("USER_NAME", "ESTIMATED_COST_USD"),
			XAxisTitle:     "User Name",
			YAxisTitle:     "Estimated Cost (USD)",
			SortDescending: true,
		},
		{
			Title:          "Top 10 Roles on this Warehouse by Cost",
			Description:    "Roles that incurred the most cost on this specific warehouse.",
			QueryID:        catalog.WarehouseTopRolesByCost,
			Kind:           models.ChartBar,
			Axes:           axes("ROLE_NAME", "ESTIMATED_COST_USD"),
			XAxisTitle:     "Role Name",
			YAxisTitle:     "Estimated Cost (USD)",
			SortDescending: true,
		},
		{
			Title:       "Warehouse Queued Overload Time Trend",
			Description: "Daily trend of time queries spent queued due to warehouse overload. High values indicate undersized warehouse.",
			QueryID:     catalog.WarehouseQueuedOverloadTimeTrend,
			Kind:        models.ChartLine,
			Axes:        axes("USAGE_DAY", "TOTAL_QUEUED_OVERLOAD_TIME_SEC"),
			XAxisTitle:  "Date",
			YAxisTitle:  "Total Queued Time (seconds)",
		},
	}
}
