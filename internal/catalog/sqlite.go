package catalog

// Mirror timestamps are stored as "YYYY-MM-DD HH:MM:SS" text, so range
// filters compare strings against the day after :end_date.
const (
	liteInRange     = `start_time >= :start_date AND start_time < date(:end_date, '+1 day')`
	liteInPrevRange = `start_time >= :prev_start_date AND start_time < date(:prev_end_date, '+1 day')`
	liteWmhInRange  = `wmh.start_time >= :start_date AND wmh.start_time < date(:end_date, '+1 day')`
	liteWmhInPrev   = `wmh.start_time >= :prev_start_date AND wmh.start_time < date(:prev_end_date, '+1 day')`
	liteLookback    = `date('now', '-' || :lookback_days || ' days')`
	liteGiB         = `1073741824.0`
)

var sqliteQueries = map[string]string{
	TotalCostAndCreditsOverview: `
SELECT
    COALESCE(SUM(CASE WHEN ` + liteInRange + ` THEN credits_used ELSE 0 END), 0) AS TOTAL_CREDITS,
    COALESCE(SUM(CASE WHEN ` + liteInRange + ` THEN credits_used * :credit_price ELSE 0 END), 0) AS ESTIMATED_COST_USD,
    COALESCE(SUM(CASE WHEN ` + liteInPrevRange + ` THEN credits_used ELSE 0 END), 0) AS PREV_TOTAL_CREDITS,
    COALESCE(SUM(CASE WHEN ` + liteInPrevRange + ` THEN credits_used * :credit_price ELSE 0 END), 0) AS PREV_ESTIMATED_COST_USD
FROM query_history`,

	DailyCreditConsumptionTrend: `
SELECT
    date(start_time) AS USAGE_DAY,
    SUM(credits_used) AS DAILY_CREDITS_USED,
    SUM(credits_used * :credit_price) AS DAILY_ESTIMATED_COST_USD
FROM query_history
WHERE ` + liteInRange + `
GROUP BY 1
ORDER BY 1`,

	CostByServiceType: `
SELECT
    service_type AS SERVICE_TYPE,
    SUM(credits_used * :credit_price) AS ESTIMATED_COST_USD
FROM metering_history
WHERE usage_date >= :start_date AND usage_date <= :end_date
GROUP BY service_type
ORDER BY ESTIMATED_COST_USD DESC`,

	CostByWarehouseType: `
SELECT
    warehouse_type AS WAREHOUSE_TYPE,
    SUM(credits_used * :credit_price) AS ESTIMATED_COST_USD
FROM warehouse_metering_history
WHERE ` + liteInRange + `
GROUP BY warehouse_type
ORDER BY ESTIMATED_COST_USD DESC`,

	Top10WarehousesByCost: `
SELECT
    warehouse_name AS WAREHOUSE_NAME,
    SUM(credits_used * :credit_price) AS ESTIMATED_COST_USD,
    SUM(credits_used) AS TOTAL_CREDITS
FROM query_history
WHERE ` + liteInRange + `
GROUP BY warehouse_name
ORDER BY ESTIMATED_COST_USD DESC
LIMIT 10`,

	Top10UsersByCost: `
SELECT
    user_name AS USER_NAME,
    SUM(credits_used * :credit_price) AS ESTIMATED_COST_USD,
    SUM(credits_used) AS TOTAL_CREDITS
FROM query_history
WHERE ` + liteInRange + `
GROUP BY user_name
ORDER BY ESTIMATED_COST_USD DESC
LIMIT 10`,

	ListActiveUsersByCost: `
SELECT
    user_name AS USER_NAME,
    SUM(credits_used * :credit_price) AS ESTIMATED_COST_USD
FROM query_history
WHERE start_time >= ` + liteLookback + `
GROUP BY user_name
ORDER BY ESTIMATED_COST_USD DESC`,

	ListActiveWarehousesByCost: `
SELECT
    warehouse_name AS WAREHOUSE_NAME,
    SUM(credits_used * :credit_price) AS ESTIMATED_COST_USD
FROM warehouse_metering_history
WHERE start_time >= ` + liteLookback + `
GROUP BY warehouse_name
ORDER BY ESTIMATED_COST_USD DESC`,

	User360SummaryMetrics: `
SELECT
    COALESCE(SUM(CASE WHEN ` + liteInRange + ` THEN credits_used ELSE 0 END), 0) AS TOTAL_CREDITS,
    COALESCE(SUM(CASE WHEN ` + liteInRange + ` THEN credits_used * :credit_price ELSE 0 END), 0) AS ESTIMATED_COST_USD,
    COALESCE(SUM(CASE WHEN ` + liteInPrevRange + ` THEN credits_used ELSE 0 END), 0) AS PREV_TOTAL_CREDITS,
    COALESCE(SUM(CASE WHEN ` + liteInPrevRange + ` THEN credits_used * :credit_price ELSE 0 END), 0) AS PREV_ESTIMATED_COST_USD,
    AVG(CASE WHEN ` + liteInRange + ` THEN total_elapsed_time ELSE NULL END) / 1000.0 AS AVG_QUERY_DURATION_SEC,
    AVG(CASE WHEN ` + liteInRange + ` THEN credits_used ELSE NULL END) AS AVG_CREDITS_PER_QUERY,
    COUNT(CASE WHEN ` + liteInRange + ` THEN query_id ELSE NULL END) AS TOTAL_QUERY_COUNT,
    COUNT(CASE WHEN ` + liteInRange + ` AND error_message IS NOT NULL THEN query_id ELSE NULL END) AS FAILED_QUERY_COUNT,
    COALESCE(SUM(CASE WHEN ` + liteInRange + ` THEN bytes_scanned ELSE 0 END), 0) AS TOTAL_BYTES_SCANNED,
    COALESCE(SUM(CASE WHEN ` + liteInRange + ` THEN compilation_time ELSE 0 END), 0) / 1000.0 AS TOTAL_COMPILATION_TIME_SEC
FROM query_history
WHERE user_name = :selected_user_name`,

	UserDailyCreditConsumption: `
SELECT
    date(start_time) AS USAGE_DAY,
    SUM(credits_used) AS DAILY_CREDITS_USED,
    SUM(credits_used * :credit_price) AS DAILY_ESTIMATED_COST_USD
FROM query_history
WHERE user_name = :selected_user_name AND ` + liteInRange + `
GROUP BY 1
ORDER BY 1`,

	UserWarehouseCostBreakdown: `
SELECT
    warehouse_name AS WAREHOUSE_NAME,
    SUM(credits_used * :credit_price) AS ESTIMATED_COST_USD,
    SUM(credits_used) AS TOTAL_CREDITS
FROM query_history
WHERE user_name = :selected_user_name AND ` + liteInRange + `
GROUP BY warehouse_name
ORDER BY ESTIMATED_COST_USD DESC
LIMIT 10`,

	UserRoleCostBreakdown: `
SELECT
    role_name AS ROLE_NAME,
    SUM(credits_used * :credit_price) AS ESTIMATED_COST_USD,
    SUM(credits_used) AS TOTAL_CREDITS
FROM query_history
WHERE user_name = :selected_user_name AND ` + liteInRange + `
GROUP BY role_name
ORDER BY ESTIMATED_COST_USD DESC
LIMIT 10`,

	UserQueryTypeDistribution: `
SELECT
    query_type AS QUERY_TYPE,
    COUNT(*) AS QUERY_COUNT,
    SUM(credits_used) AS TOTAL_CREDITS,
    SUM(credits_used * :credit_price) AS ESTIMATED_COST_USD
FROM query_history
WHERE user_name = :selected_user_name AND ` + liteInRange + `
GROUP BY query_type
ORDER BY ESTIMATED_COST_USD DESC
LIMIT 10`,

	UserTopExpensiveQueries: `
SELECT
    query_id AS QUERY_ID,
    query_text AS QUERY_TEXT,
    warehouse_name AS WAREHOUSE_NAME,
    role_name AS ROLE_NAME,
    total_elapsed_time / 1000.0 AS TOTAL_ELAPSED_TIME_SEC,
    credits_used AS CREDITS_USED,
    credits_used * :credit_price AS ESTIMATED_COST_USD,
    bytes_scanned / ` + liteGiB + ` AS BYTES_SCANNED_GB,
    bytes_spilled_to_local_storage / ` + liteGiB + ` AS LOCAL_SPILL_GB,
    bytes_spilled_to_remote_storage / ` + liteGiB + ` AS REMOTE_SPILL_GB,
    start_time AS START_TIME
FROM query_history
WHERE user_name = :selected_user_name AND ` + liteInRange + `
    AND credits_used IS NOT NULL
ORDER BY credits_used DESC
LIMIT 20`,

	UserTopLongRunningQueries: `
SELECT
    query_id AS QUERY_ID,
    query_text AS QUERY_TEXT,
    warehouse_name AS WAREHOUSE_NAME,
    role_name AS ROLE_NAME,
    total_elapsed_time / 1000.0 AS TOTAL_ELAPSED_TIME_SEC,
    execution_time / 1000.0 AS EXECUTION_TIME_SEC,
    queued_overload_time / 1000.0 AS QUEUED_OVERLOAD_TIME_SEC,
    compilation_time / 1000.0 AS COMPILATION_TIME_SEC,
    credits_used AS CREDITS_USED,
    credits_used * :credit_price AS ESTIMATED_COST_USD,
    start_time AS START_TIME
FROM query_history
WHERE user_name = :selected_user_name AND ` + liteInRange + `
    AND total_elapsed_time IS NOT NULL
ORDER BY total_elapsed_time DESC
LIMIT 20`,

	UserWarehouseUtilizationOverview: `
SELECT
    wh.warehouse_name AS WAREHOUSE_NAME,
    wh.size AS SIZE,
    wh.auto_suspend AS AUTO_SUSPEND,
    SUM(wmh.credits_used) AS TOTAL_CREDITS,
    SUM(wmh.credits_used_compute) * 100.0 / NULLIF(SUM(wmh.credits_used), 0) AS COMPUTE_CREDIT_RATIO,
    SUM(CASE WHEN wmh.credits_used = 0 THEN 1 ELSE 0 END) AS IDLE_MINUTES_ON_WH_USER_USED,
    COUNT(wmh.warehouse_id) AS TOTAL_MINUTES_ON_WH_USER_USED,
    SUM(CASE WHEN wmh.credits_used = 0 THEN 1 ELSE 0 END) * 100.0 / NULLIF(COUNT(wmh.warehouse_id), 0) AS IDLE_PERCENTAGE_ON_WH_USER_USED
FROM warehouses wh
JOIN warehouse_metering_history wmh ON wh.warehouse_id = wmh.warehouse_id
WHERE ` + liteWmhInRange + `
    AND wh.warehouse_id IN (
        SELECT DISTINCT warehouse_id
        FROM query_history
        WHERE user_name = :selected_user_name AND ` + liteInRange + `
    )
GROUP BY wh.warehouse_name, wh.size, wh.auto_suspend
ORDER BY IDLE_PERCENTAGE_ON_WH_USER_USED DESC
LIMIT 5`,

	WarehouseSummaryMetrics: `
SELECT
    wh.warehouse_name AS WAREHOUSE_NAME,
    wh.size AS SIZE,
    wh.auto_suspend AS AUTO_SUSPEND,
    wh.auto_resume AS AUTO_RESUME,
    SUM(CASE WHEN ` + liteWmhInRange + ` THEN wmh.credits_used ELSE 0 END) AS TOTAL_CREDITS_USED,
    SUM(CASE WHEN ` + liteWmhInRange + ` THEN wmh.credits_used * :credit_price ELSE 0 END) AS ESTIMATED_COST_USD,
    SUM(CASE WHEN ` + liteWmhInPrev + ` THEN wmh.credits_used ELSE 0 END) AS PREV_TOTAL_CREDITS_USED,
    SUM(CASE WHEN ` + liteWmhInPrev + ` THEN wmh.credits_used * :credit_price ELSE 0 END) AS PREV_ESTIMATED_COST_USD,
    SUM(CASE WHEN ` + liteWmhInRange + ` AND wmh.credits_used > 0 THEN 1 ELSE 0 END) AS ACTIVE_MINUTES,
    SUM(CASE WHEN ` + liteWmhInRange + ` AND wmh.credits_used = 0 THEN 1 ELSE 0 END) AS IDLE_MINUTES,
    SUM(CASE WHEN ` + liteWmhInRange + ` THEN 1 ELSE 0 END) AS TOTAL_MINUTES_ON,
    SUM(CASE WHEN ` + liteWmhInRange + ` AND wmh.credits_used = 0 THEN 1 ELSE 0 END) * 100.0
        / NULLIF(SUM(CASE WHEN ` + liteWmhInRange + ` THEN 1 ELSE 0 END), 0) AS IDLE_PERCENTAGE
FROM warehouses wh
JOIN warehouse_metering_history wmh ON wh.warehouse_id = wmh.warehouse_id
WHERE wh.warehouse_name = :selected_warehouse_name
    AND ((` + liteWmhInRange + `) OR (` + liteWmhInPrev + `))
GROUP BY wh.warehouse_name, wh.size, wh.auto_suspend, wh.auto_resume`,

	WarehouseIdleSummary: `
SELECT
    wh.warehouse_name AS WAREHOUSE_NAME,
    wh.size AS SIZE,
    wh.auto_suspend AS AUTO_SUSPEND,
    SUM(wmh.credits_used) AS TOTAL_CREDITS_USED,
    SUM(CASE WHEN wmh.credits_used > 0 THEN 1 ELSE 0 END) AS ACTIVE_MINUTES,
    SUM(CASE WHEN wmh.credits_used = 0 THEN 1 ELSE 0 END) AS IDLE_MINUTES,
    COUNT(wmh.warehouse_id) AS TOTAL_MINUTES_ON,
    SUM(CASE WHEN wmh.credits_used = 0 THEN 1 ELSE 0 END) * 100.0 / NULLIF(COUNT(wmh.warehouse_id), 0) AS IDLE_PERCENTAGE
FROM warehouses wh
JOIN warehouse_metering_history wmh ON wh.warehouse_id = wmh.warehouse_id
WHERE ` + liteWmhInRange + `
GROUP BY wh.warehouse_name, wh.size, wh.auto_suspend
ORDER BY IDLE_PERCENTAGE DESC`,

	WarehouseDailyCreditConsumption: `
SELECT
    date(start_time) AS USAGE_DAY,
    SUM(credits_used) AS DAILY_CREDITS_USED,
    SUM(credits_used * :credit_price) AS DAILY_ESTIMATED_COST_USD
FROM warehouse_metering_history
WHERE warehouse_name = :selected_warehouse_name AND ` + liteInRange + `
GROUP BY 1
ORDER BY 1`,

	WarehouseQueryCompletionStatus: `
SELECT
    CASE WHEN error_message IS NOT NULL THEN 'Failed' ELSE 'Succeeded' END AS STATUS,
    COUNT(query_id) AS QUERY_COUNT,
    SUM(total_elapsed_time) / 1000.0 AS TOTAL_ELAPSED_TIME_SEC,
    SUM(credits_used) AS TOTAL_CREDITS_USED,
    SUM(credits_used * :credit_price) AS ESTIMATED_COST_USD
FROM query_history
WHERE warehouse_name = :selected_warehouse_name AND ` + liteInRange + `
GROUP BY 1`,

	WarehouseTopUsersByCost: `
SELECT
    user_name AS USER_NAME,
    SUM(credits_used * :credit_price) AS ESTIMATED_COST_USD,
    SUM(credits_used) AS TOTAL_CREDITS
FROM query_history
WHERE warehouse_name = :selected_warehouse_name AND ` + liteInRange + `
GROUP BY user_name
ORDER BY ESTIMATED_COST_USD DESC
LIMIT 10`,

	WarehouseTopRolesByCost: `
SELECT
    role_name AS ROLE_NAME,
    SUM(credits_used * :credit_price) AS ESTIMATED_COST_USD,
    SUM(credits_used) AS TOTAL_CREDITS
FROM query_history
WHERE warehouse_name = :selected_warehouse_name AND ` + liteInRange + `
GROUP BY role_name
ORDER BY ESTIMATED_COST_USD DESC
LIMIT 10`,

	WarehouseQueuedOverloadTimeTrend: `
SELECT
    date(start_time) AS USAGE_DAY,
    SUM(queued_overload_time) / 1000.0 AS TOTAL_QUEUED_OVERLOAD_TIME_SEC,
    AVG(queued_overload_time) / 1000.0 AS AVG_QUEUED_OVERLOAD_TIME_SEC_PER_QUERY
FROM query_history
WHERE warehouse_name = :selected_warehouse_name AND ` + liteInRange + `
    AND queued_overload_time > 0
GROUP BY 1
ORDER BY 1`,
}
