// Package catalog maps query identifiers to parameterized SQL for each
// supported backend dialect. Named parameters use the :name syntax.
package catalog

import (
	"fmt"
	"slices"
	"strings"
)

// Dialect identifies the SQL flavour of a backend.
type Dialect string

const (
	// Snowflake queries SNOWFLAKE.ACCOUNT_USAGE directly.
	Snowflake Dialect = "snowflake"
	// SQLite queries the local usage mirror.
	SQLite Dialect = "sqlite"
)

// Query identifiers.
const (
	TotalCostAndCreditsOverview      = "TOTAL_COST_AND_CREDITS_OVERVIEW"
	DailyCreditConsumptionTrend      = "DAILY_CREDIT_CONSUMPTION_TREND"
	CostByServiceType                = "COST_BY_SERVICE_TYPE"
	CostByWarehouseType              = "COST_BY_WAREHOUSE_TYPE"
	Top10WarehousesByCost            = "TOP_10_WAREHOUSES_BY_COST"
	Top10UsersByCost                 = "TOP_10_USERS_BY_COST"
	ListActiveUsersByCost            = "LIST_ACTIVE_USERS_BY_COST"
	ListActiveWarehousesByCost       = "LIST_ACTIVE_WAREHOUSES_BY_COST"
	User360SummaryMetrics            = "USER_360_SUMMARY_METRICS"
	UserDailyCreditConsumption       = "USER_DAILY_CREDIT_CONSUMPTION"
	UserWarehouseCostBreakdown       = "USER_WAREHOUSE_COST_BREAKDOWN"
	UserRoleCostBreakdown            = "USER_ROLE_COST_BREAKDOWN"
	UserQueryTypeDistribution        = "USER_QUERY_TYPE_DISTRIBUTION"
	UserTopExpensiveQueries          = "USER_TOP_EXPENSIVE_QUERIES"
	UserTopLongRunningQueries        = "USER_TOP_LONG_RUNNING_QUERIES"
	UserWarehouseUtilizationOverview = "USER_WAREHOUSE_UTILIZATION_OVERVIEW"
	WarehouseSummaryMetrics          = "WAREHOUSE_SUMMARY_METRICS"
	WarehouseIdleSummary             = "WAREHOUSE_IDLE_SUMMARY"
	WarehouseDailyCreditConsumption  = "WAREHOUSE_DAILY_CREDIT_CONSUMPTION"
	WarehouseQueryCompletionStatus   = "WAREHOUSE_QUERY_COMPLETION_STATUS"
	WarehouseTopUsersByCost          = "WAREHOUSE_TOP_USERS_BY_COST"
	WarehouseTopRolesByCost          = "WAREHOUSE_TOP_ROLES_BY_COST"
	WarehouseQueuedOverloadTimeTrend = "WAREHOUSE_QUEUED_OVERLOAD_TIME_TREND"
)

// Parameters supplied by the executor rather than the caller.
const (
	ParamCreditPrice  = "credit_price"
	ParamLookbackDays = "lookback_days"
)

// Query is one named query.
type Query struct {
	SQL         map[Dialect]string
	ID          string
	Description string
	// Columns lists the result columns, upper case.
	Columns []string
}

// Text returns the SQL for dialect.
func (q Query) Text(d Dialect) (string, bool) {
	s, ok := q.SQL[d]
	return s, ok
}

// HasColumn reports whether the query declares col.
func (q Query) HasColumn(col string) bool {
	return slices.Contains(q.Columns, strings.ToUpper(col))
}

// Catalog is a read-only set of queries.
type Catalog struct {
	queries map[string]Query
}

// New builds a catalog from queries. Duplicate identifiers are rejected.
func New(queries ...Query) (*Catalog, error) {
	c := &Catalog{queries: make(map[string]Query, len(queries))}
	for _, q := range queries {
		if q.ID == "" {
			return nil, fmt.Errorf("query without identifier")
		}
		if _, dup := c.queries[q.ID]; dup {
			return nil, fmt.Errorf("duplicate query identifier %s", q.ID)
		}
		c.queries[q.ID] = q
	}
	return c, nil
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := New(builtin()...)
	if err != nil {
		panic(err)
	}
	return c
}

// Lookup returns the query with the given identifier.
func (c *Catalog) Lookup(id string) (Query, bool) {
	q, ok := c.queries[id]
	return q, ok
}

// IDs returns every identifier in sorted order.
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.queries))
	for id := range c.queries {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func builtin() []Query {
	qs := make([]Query, 0, len(descriptions))
	for id, desc := range descriptions {
		qs = append(qs, Query{
			ID:          id,
			Description: desc,
			Columns:     columns[id],
			SQL: map[Dialect]string{
				Snowflake: snowflakeQueries[id],
				SQLite:    sqliteQueries[id],
			},
		})
	}
	return qs
}

var descriptions = map[string]string{
	TotalCostAndCreditsOverview:      "Account credits and estimated cost for the current and previous period",
	DailyCreditConsumptionTrend:      "Daily account credit consumption",
	CostByServiceType:                "Estimated cost per service type",
	CostByWarehouseType:              "Estimated cost per warehouse type",
	Top10WarehousesByCost:            "Ten most expensive warehouses",
	Top10UsersByCost:                 "Ten most expensive users",
	ListActiveUsersByCost:            "Users active within the lookback window",
	ListActiveWarehousesByCost:       "Warehouses active within the lookback window",
	User360SummaryMetrics:            "Summary figures for one user",
	UserDailyCreditConsumption:       "Daily credit consumption for one user",
	UserWarehouseCostBreakdown:       "Estimated cost per warehouse for one user",
	UserRoleCostBreakdown:            "Estimated cost per role for one user",
	UserQueryTypeDistribution:        "Query counts and cost per query type for one user",
	UserTopExpensiveQueries:          "Twenty most expensive queries of one user",
	UserTopLongRunningQueries:        "Twenty longest running queries of one user",
	UserWarehouseUtilizationOverview: "Idle figures of the warehouses one user ran on",
	WarehouseSummaryMetrics:          "Summary figures for one warehouse",
	WarehouseIdleSummary:             "Idle figures for every warehouse",
	WarehouseDailyCreditConsumption:  "Daily credit consumption for one warehouse",
	WarehouseQueryCompletionStatus:   "Succeeded and failed queries on one warehouse",
	WarehouseTopUsersByCost:          "Ten most expensive users on one warehouse",
	WarehouseTopRolesByCost:          "Ten most expensive roles on one warehouse",
	WarehouseQueuedOverloadTimeTrend: "Daily queued overload time on one warehouse",
}

var columns = map[string][]string{
	TotalCostAndCreditsOverview:      {"TOTAL_CREDITS", "ESTIMATED_COST_USD", "PREV_TOTAL_CREDITS", "PREV_ESTIMATED_COST_USD"},
	DailyCreditConsumptionTrend:      {"USAGE_DAY", "DAILY_CREDITS_USED", "DAILY_ESTIMATED_COST_USD"},
	CostByServiceType:                {"SERVICE_TYPE", "ESTIMATED_COST_USD"},
	CostByWarehouseType:              {"WAREHOUSE_TYPE", "ESTIMATED_COST_USD"},
	Top10WarehousesByCost:            {"WAREHOUSE_NAME", "ESTIMATED_COST_USD", "TOTAL_CREDITS"},
	Top10UsersByCost:                 {"USER_NAME", "ESTIMATED_COST_USD", "TOTAL_CREDITS"},
	ListActiveUsersByCost:            {"USER_NAME", "ESTIMATED_COST_USD"},
	ListActiveWarehousesByCost:       {"WAREHOUSE_NAME", "ESTIMATED_COST_USD"},
	User360SummaryMetrics: {
		"TOTAL_CREDITS", "ESTIMATED_COST_USD", "PREV_TOTAL_CREDITS", "PREV_ESTIMATED_COST_USD",
		"AVG_QUERY_DURATION_SEC", "AVG_CREDITS_PER_QUERY", "TOTAL_QUERY_COUNT", "FAILED_QUERY_COUNT",
		"TOTAL_BYTES_SCANNED", "TOTAL_COMPILATION_TIME_SEC",
	},
	UserDailyCreditConsumption: {"USAGE_DAY", "DAILY_CREDITS_USED", "DAILY_ESTIMATED_COST_USD"},
	UserWarehouseCostBreakdown: {"WAREHOUSE_NAME", "ESTIMATED_COST_USD", "TOTAL_CREDITS"},
	UserRoleCostBreakdown:      {"ROLE_NAME", "ESTIMATED_COST_USD", "TOTAL_CREDITS"},
	UserQueryTypeDistribution:  {"QUERY_TYPE", "QUERY_COUNT", "TOTAL_CREDITS", "ESTIMATED_COST_USD"},
	UserTopExpensiveQueries: {
		"QUERY_ID", "QUERY_TEXT", "WAREHOUSE_NAME", "ROLE_NAME", "TOTAL_ELAPSED_TIME_SEC", "CREDITS_USED",
		"ESTIMATED_COST_USD", "BYTES_SCANNED_GB", "LOCAL_SPILL_GB", "REMOTE_SPILL_GB", "START_TIME",
	},
	UserTopLongRunningQueries: {
		"QUERY_ID", "QUERY_TEXT", "WAREHOUSE_NAME", "ROLE_NAME", "TOTAL_ELAPSED_TIME_SEC", "EXECUTION_TIME_SEC",
		"QUEUED_OVERLOAD_TIME_SEC", "COMPILATION_TIME_SEC", "CREDITS_USED", "ESTIMATED_COST_USD", "START_TIME",
	},
	UserWarehouseUtilizationOverview: {
		"WAREHOUSE_NAME", "SIZE", "AUTO_SUSPEND", "TOTAL_CREDITS", "COMPUTE_CREDIT_RATIO",
		"IDLE_MINUTES_ON_WH_USER_USED", "TOTAL_MINUTES_ON_WH_USER_USED", "IDLE_PERCENTAGE_ON_WH_USER_USED",
	},
	WarehouseSummaryMetrics: {
		"WAREHOUSE_NAME", "SIZE", "AUTO_SUSPEND", "AUTO_RESUME", "TOTAL_CREDITS_USED", "ESTIMATED_COST_USD",
		"PREV_TOTAL_CREDITS_USED", "PREV_ESTIMATED_COST_USD", "ACTIVE_MINUTES", "IDLE_MINUTES",
		"TOTAL_MINUTES_ON", "IDLE_PERCENTAGE",
	},
	WarehouseIdleSummary: {
		"WAREHOUSE_NAME", "SIZE", "AUTO_SUSPEND", "TOTAL_CREDITS_USED", "ACTIVE_MINUTES", "IDLE_MINUTES",
		"TOTAL_MINUTES_ON", "IDLE_PERCENTAGE",
	},
	WarehouseDailyCreditConsumption: {"USAGE_DAY", "DAILY_CREDITS_USED", "DAILY_ESTIMATED_COST_USD"},
	WarehouseQueryCompletionStatus: {
		"STATUS", "QUERY_COUNT", "TOTAL_ELAPSED_TIME_SEC", "TOTAL_CREDITS_USED", "ESTIMATED_COST_USD",
	},
	WarehouseTopUsersByCost:          {"USER_NAME", "ESTIMATED_COST_USD", "TOTAL_CREDITS"},
	WarehouseTopRolesByCost:          {"ROLE_NAME", "ESTIMATED_COST_USD", "TOTAL_CREDITS"},
	WarehouseQueuedOverloadTimeTrend: {"USAGE_DAY", "TOTAL_QUEUED_OVERLOAD_TIME_SEC", "AVG_QUEUED_OVERLOAD_TIME_SEC_PER_QUERY"},
}
