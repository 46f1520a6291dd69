package catalog

// Date filters are end-exclusive on the day after :end_date so that the
// whole end date is included for timestamp columns.
const (
	sfInRange     = `START_TIME >= TO_DATE(:start_date) AND START_TIME < DATEADD(day, 1, TO_DATE(:end_date))`
	sfInPrevRange = `START_TIME >= TO_DATE(:prev_start_date) AND START_TIME < DATEADD(day, 1, TO_DATE(:prev_end_date))`
	sfWmhInRange  = `WMH.START_TIME >= TO_DATE(:start_date) AND WMH.START_TIME < DATEADD(day, 1, TO_DATE(:end_date))`
	sfWmhInPrev   = `WMH.START_TIME >= TO_DATE(:prev_start_date) AND WMH.START_TIME < DATEADD(day, 1, TO_DATE(:prev_end_date))`
)

var snowflakeQueries = map[string]string{
	TotalCostAndCreditsOverview: `
SELECT
    SUM(CASE WHEN ` + sfInRange + ` THEN CREDITS_USED ELSE 0 END) AS TOTAL_CREDITS,
    SUM(CASE WHEN ` + sfInRange + ` THEN CREDITS_USED * :credit_price ELSE 0 END) AS ESTIMATED_COST_USD,
    SUM(CASE WHEN ` + sfInPrevRange + ` THEN CREDITS_USED ELSE 0 END) AS PREV_TOTAL_CREDITS,
    SUM(CASE WHEN ` + sfInPrevRange + ` THEN CREDITS_USED * :credit_price ELSE 0 END) AS PREV_ESTIMATED_COST_USD
FROM SNOWFLAKE.ACCOUNT_USAGE.QUERY_HISTORY
WHERE (` + sfInRange + `) OR (` + sfInPrevRange + `)`,

	DailyCreditConsumptionTrend: `
SELECT
    TO_DATE(START_TIME) AS USAGE_DAY,
    SUM(CREDITS_USED) AS DAILY_CREDITS_USED,
    SUM(CREDITS_USED * :credit_price) AS DAILY_ESTIMATED_COST_USD
FROM SNOWFLAKE.ACCOUNT_USAGE.QUERY_HISTORY
WHERE ` + sfInRange + `
GROUP BY 1
ORDER BY 1`,

	CostByServiceType: `
SELECT
    SERVICE_TYPE,
    SUM(CREDITS_USED * :credit_price) AS ESTIMATED_COST_USD
FROM SNOWFLAKE.ACCOUNT_USAGE.METERING_HISTORY
WHERE USAGE_DATE >= TO_DATE(:start_date) AND USAGE_DATE <= TO_DATE(:end_date)
GROUP BY SERVICE_TYPE
ORDER BY ESTIMATED_COST_USD DESC`,

	CostByWarehouseType: `
SELECT
    WAREHOUSE_TYPE,
    SUM(CREDITS_USED * :credit_price) AS ESTIMATED_COST_USD
FROM SNOWFLAKE.ACCOUNT_USAGE.WAREHOUSE_METERING_HISTORY
WHERE ` + sfInRange + `
GROUP BY WAREHOUSE_TYPE
ORDER BY ESTIMATED_COST_USD DESC`,

	Top10WarehousesByCost: `
SELECT
    WAREHOUSE_NAME,
    SUM(CREDITS_USED * :credit_price) AS ESTIMATED_COST_USD,
    SUM(CREDITS_USED) AS TOTAL_CREDITS
FROM SNOWFLAKE.ACCOUNT_USAGE.QUERY_HISTORY
WHERE ` + sfInRange + `
GROUP BY WAREHOUSE_NAME
ORDER BY ESTIMATED_COST_USD DESC
LIMIT 10`,

	Top10UsersByCost: `
SELECT
    USER_NAME,
    SUM(CREDITS_USED * :credit_price) AS ESTIMATED_COST_USD,
    SUM(CREDITS_USED) AS TOTAL_CREDITS
FROM SNOWFLAKE.ACCOUNT_USAGE.QUERY_HISTORY
WHERE ` + sfInRange + `
GROUP BY USER_NAME
ORDER BY ESTIMATED_COST_USD DESC
LIMIT 10`,

	ListActiveUsersByCost: `
SELECT
    USER_NAME,
    SUM(CREDITS_USED * :credit_price) AS ESTIMATED_COST_USD
FROM SNOWFLAKE.ACCOUNT_USAGE.QUERY_HISTORY
WHERE START_TIME >= DATEADD(day, -1 * :lookback_days, CURRENT_DATE())
GROUP BY USER_NAME
ORDER BY ESTIMATED_COST_USD DESC`,

	ListActiveWarehousesByCost: `
SELECT
    WAREHOUSE_NAME,
    SUM(CREDITS_USED * :credit_price) AS ESTIMATED_COST_USD
FROM SNOWFLAKE.ACCOUNT_USAGE.WAREHOUSE_METERING_HISTORY
WHERE START_TIME >= DATEADD(day, -1 * :lookback_days, CURRENT_DATE())
GROUP BY WAREHOUSE_NAME
ORDER BY ESTIMATED_COST_USD DESC`,

	User360SummaryMetrics: `
SELECT
    SUM(CASE WHEN ` + sfInRange + ` THEN CREDITS_USED ELSE 0 END) AS TOTAL_CREDITS,
    SUM(CASE WHEN ` + sfInRange + ` THEN CREDITS_USED * :credit_price ELSE 0 END) AS ESTIMATED_COST_USD,
    SUM(CASE WHEN ` + sfInPrevRange + ` THEN CREDITS_USED ELSE 0 END) AS PREV_TOTAL_CREDITS,
    SUM(CASE WHEN ` + sfInPrevRange + ` THEN CREDITS_USED * :credit_price ELSE 0 END) AS PREV_ESTIMATED_COST_USD,
    AVG(CASE WHEN ` + sfInRange + ` THEN TOTAL_ELAPSED_TIME ELSE NULL END) / 1000 AS AVG_QUERY_DURATION_SEC,
    AVG(CASE WHEN ` + sfInRange + ` THEN CREDITS_USED ELSE NULL END) AS AVG_CREDITS_PER_QUERY,
    COUNT(CASE WHEN ` + sfInRange + ` THEN QUERY_ID ELSE NULL END) AS TOTAL_QUERY_COUNT,
    COUNT(CASE WHEN ` + sfInRange + ` AND ERROR_MESSAGE IS NOT NULL THEN QUERY_ID ELSE NULL END) AS FAILED_QUERY_COUNT,
    SUM(CASE WHEN ` + sfInRange + ` THEN BYTES_SCANNED ELSE 0 END) AS TOTAL_BYTES_SCANNED,
    SUM(CASE WHEN ` + sfInRange + ` THEN COMPILATION_TIME ELSE 0 END) / 1000 AS TOTAL_COMPILATION_TIME_SEC
FROM SNOWFLAKE.ACCOUNT_USAGE.QUERY_HISTORY
WHERE USER_NAME = :selected_user_name`,

	UserDailyCreditConsumption: `
SELECT
    TO_DATE(START_TIME) AS USAGE_DAY,
    SUM(CREDITS_USED) AS DAILY_CREDITS_USED,
    SUM(CREDITS_USED * :credit_price) AS DAILY_ESTIMATED_COST_USD
FROM SNOWFLAKE.ACCOUNT_USAGE.QUERY_HISTORY
WHERE USER_NAME = :selected_user_name AND ` + sfInRange + `
GROUP BY 1
ORDER BY 1`,

	UserWarehouseCostBreakdown: `
SELECT
    WAREHOUSE_NAME,
    SUM(CREDITS_USED * :credit_price) AS ESTIMATED_COST_USD,
    SUM(CREDITS_USED) AS TOTAL_CREDITS
FROM SNOWFLAKE.ACCOUNT_USAGE.QUERY_HISTORY
WHERE USER_NAME = :selected_user_name AND ` + sfInRange + `
GROUP BY WAREHOUSE_NAME
ORDER BY ESTIMATED_COST_USD DESC
LIMIT 10`,

	UserRoleCostBreakdown: `
SELECT
    ROLE_NAME,
    SUM(CREDITS_USED * :credit_price) AS ESTIMATED_COST_USD,
    SUM(CREDITS_USED) AS TOTAL_CREDITS
FROM SNOWFLAKE.ACCOUNT_USAGE.QUERY_HISTORY
WHERE USER_NAME = :selected_user_name AND ` + sfInRange + `
GROUP BY ROLE_NAME
ORDER BY ESTIMATED_COST_USD DESC
LIMIT 10`,

	UserQueryTypeDistribution: `
SELECT
    QUERY_TYPE,
    COUNT(*) AS QUERY_COUNT,
    SUM(CREDITS_USED) AS TOTAL_CREDITS,
    SUM(CREDITS_USED * :credit_price) AS ESTIMATED_COST_USD
FROM SNOWFLAKE.ACCOUNT_USAGE.QUERY_HISTORY
WHERE USER_NAME = :selected_user_name AND ` + sfInRange + `
GROUP BY QUERY_TYPE
ORDER BY ESTIMATED_COST_USD DESC
LIMIT 10`,

	UserTopExpensiveQueries: `
SELECT
    QUERY_ID,
    QUERY_TEXT,
    WAREHOUSE_NAME,
    ROLE_NAME,
    TOTAL_ELAPSED_TIME / 1000 AS TOTAL_ELAPSED_TIME_SEC,
    CREDITS_USED,
    CREDITS_USED * :credit_price AS ESTIMATED_COST_USD,
    BYTES_SCANNED / POW(1024, 3) AS BYTES_SCANNED_GB,
    BYTES_SPILLED_TO_LOCAL_STORAGE / POW(1024, 3) AS LOCAL_SPILL_GB,
    BYTES_SPILLED_TO_REMOTE_STORAGE / POW(1024, 3) AS REMOTE_SPILL_GB,
    START_TIME
FROM SNOWFLAKE.ACCOUNT_USAGE.QUERY_HISTORY
WHERE USER_NAME = :selected_user_name AND ` + sfInRange + `
    AND CREDITS_USED IS NOT NULL
ORDER BY CREDITS_USED DESC
LIMIT 20`,

	UserTopLongRunningQueries: `
SELECT
    QUERY_ID,
    QUERY_TEXT,
    WAREHOUSE_NAME,
    ROLE_NAME,
    TOTAL_ELAPSED_TIME / 1000 AS TOTAL_ELAPSED_TIME_SEC,
    EXECUTION_TIME / 1000 AS EXECUTION_TIME_SEC,
    QUEUED_OVERLOAD_TIME / 1000 AS QUEUED_OVERLOAD_TIME_SEC,
    COMPILATION_TIME / 1000 AS COMPILATION_TIME_SEC,
    CREDITS_USED,
    CREDITS_USED * :credit_price AS ESTIMATED_COST_USD,
    START_TIME
FROM SNOWFLAKE.ACCOUNT_USAGE.QUERY_HISTORY
WHERE USER_NAME = :selected_user_name AND ` + sfInRange + `
    AND TOTAL_ELAPSED_TIME IS NOT NULL
ORDER BY TOTAL_ELAPSED_TIME DESC
LIMIT 20`,

	UserWarehouseUtilizationOverview: `
SELECT
    WH.WAREHOUSE_NAME,
    WH.SIZE,
    WH.AUTO_SUSPEND,
    SUM(WMH.CREDITS_USED) AS TOTAL_CREDITS,
    (SUM(WMH.CREDITS_USED_COMPUTE) / NULLIF(SUM(WMH.CREDITS_USED), 0)) * 100 AS COMPUTE_CREDIT_RATIO,
    SUM(CASE WHEN WMH.CREDITS_USED = 0 THEN 1 ELSE 0 END) AS IDLE_MINUTES_ON_WH_USER_USED,
    COUNT(WMH.WAREHOUSE_ID) AS TOTAL_MINUTES_ON_WH_USER_USED,
    (IDLE_MINUTES_ON_WH_USER_USED * 100.0 / NULLIF(TOTAL_MINUTES_ON_WH_USER_USED, 0)) AS IDLE_PERCENTAGE_ON_WH_USER_USED
FROM SNOWFLAKE.ACCOUNT_USAGE.WAREHOUSES WH
JOIN SNOWFLAKE.ACCOUNT_USAGE.WAREHOUSE_METERING_HISTORY WMH
    ON WH.WAREHOUSE_ID = WMH.WAREHOUSE_ID
WHERE ` + sfWmhInRange + `
    AND WH.WAREHOUSE_ID IN (
        SELECT DISTINCT WAREHOUSE_ID
        FROM SNOWFLAKE.ACCOUNT_USAGE.QUERY_HISTORY
        WHERE USER_NAME = :selected_user_name AND ` + sfInRange + `
    )
GROUP BY WH.WAREHOUSE_NAME, WH.SIZE, WH.AUTO_SUSPEND
ORDER BY IDLE_PERCENTAGE_ON_WH_USER_USED DESC
LIMIT 5`,

	WarehouseSummaryMetrics: `
SELECT
    WH.WAREHOUSE_NAME,
    WH.SIZE,
    WH.AUTO_SUSPEND,
    WH.AUTO_RESUME,
    SUM(CASE WHEN ` + sfWmhInRange + ` THEN WMH.CREDITS_USED ELSE 0 END) AS TOTAL_CREDITS_USED,
    SUM(CASE WHEN ` + sfWmhInRange + ` THEN WMH.CREDITS_USED * :credit_price ELSE 0 END) AS ESTIMATED_COST_USD,
    SUM(CASE WHEN ` + sfWmhInPrev + ` THEN WMH.CREDITS_USED ELSE 0 END) AS PREV_TOTAL_CREDITS_USED,
    SUM(CASE WHEN ` + sfWmhInPrev + ` THEN WMH.CREDITS_USED * :credit_price ELSE 0 END) AS PREV_ESTIMATED_COST_USD,
    SUM(CASE WHEN ` + sfWmhInRange + ` AND WMH.CREDITS_USED > 0 THEN 1 ELSE 0 END) AS ACTIVE_MINUTES,
    SUM(CASE WHEN ` + sfWmhInRange + ` AND WMH.CREDITS_USED = 0 THEN 1 ELSE 0 END) AS IDLE_MINUTES,
    SUM(CASE WHEN ` + sfWmhInRange + ` THEN 1 ELSE 0 END) AS TOTAL_MINUTES_ON,
    (IDLE_MINUTES * 100.0 / NULLIF(TOTAL_MINUTES_ON, 0)) AS IDLE_PERCENTAGE
FROM SNOWFLAKE.ACCOUNT_USAGE.WAREHOUSES WH
JOIN SNOWFLAKE.ACCOUNT_USAGE.WAREHOUSE_METERING_HISTORY WMH
    ON WH.WAREHOUSE_ID = WMH.WAREHOUSE_ID
WHERE WH.WAREHOUSE_NAME = :selected_warehouse_name
    AND ((` + sfWmhInRange + `) OR (` + sfWmhInPrev + `))
GROUP BY WH.WAREHOUSE_NAME, WH.SIZE, WH.AUTO_SUSPEND, WH.AUTO_RESUME`,

	WarehouseIdleSummary: `
SELECT
    WH.WAREHOUSE_NAME,
    WH.SIZE,
    WH.AUTO_SUSPEND,
    SUM(WMH.CREDITS_USED) AS TOTAL_CREDITS_USED,
    SUM(CASE WHEN WMH.CREDITS_USED > 0 THEN 1 ELSE 0 END) AS ACTIVE_MINUTES,
    SUM(CASE WHEN WMH.CREDITS_USED = 0 THEN 1 ELSE 0 END) AS IDLE_MINUTES,
    COUNT(WMH.WAREHOUSE_ID) AS TOTAL_MINUTES_ON,
    (IDLE_MINUTES * 100.0 / NULLIF(TOTAL_MINUTES_ON, 0)) AS IDLE_PERCENTAGE
FROM SNOWFLAKE.ACCOUNT_USAGE.WAREHOUSES WH
JOIN SNOWFLAKE.ACCOUNT_USAGE.WAREHOUSE_METERING_HISTORY WMH
    ON WH.WAREHOUSE_ID = WMH.WAREHOUSE_ID
WHERE ` + sfWmhInRange + `
GROUP BY WH.WAREHOUSE_NAME, WH.SIZE, WH.AUTO_SUSPEND
ORDER BY IDLE_PERCENTAGE DESC`,

	WarehouseDailyCreditConsumption: `
SELECT
    TO_DATE(START_TIME) AS USAGE_DAY,
    SUM(CREDITS_USED) AS DAILY_CREDITS_USED,
    SUM(CREDITS_USED * :credit_price) AS DAILY_ESTIMATED_COST_USD
FROM SNOWFLAKE.ACCOUNT_USAGE.WAREHOUSE_METERING_HISTORY
WHERE WAREHOUSE_NAME = :selected_warehouse_name AND ` + sfInRange + `
GROUP BY 1
ORDER BY 1`,

	WarehouseQueryCompletionStatus: `
SELECT
    CASE WHEN ERROR_MESSAGE IS NOT NULL THEN 'Failed' ELSE 'Succeeded' END AS STATUS,
    COUNT(QUERY_ID) AS QUERY_COUNT,
    SUM(TOTAL_ELAPSED_TIME) / 1000 AS TOTAL_ELAPSED_TIME_SEC,
    SUM(CREDITS_USED) AS TOTAL_CREDITS_USED,
    SUM(CREDITS_USED * :credit_price) AS ESTIMATED_COST_USD
FROM SNOWFLAKE.ACCOUNT_USAGE.QUERY_HISTORY
WHERE WAREHOUSE_NAME = :selected_warehouse_name AND ` + sfInRange + `
GROUP BY STATUS`,

	WarehouseTopUsersByCost: `
SELECT
    USER_NAME,
    SUM(CREDITS_USED * :credit_price) AS ESTIMATED_COST_USD,
    SUM(CREDITS_USED) AS TOTAL_CREDITS
FROM SNOWFLAKE.ACCOUNT_USAGE.QUERY_HISTORY
WHERE WAREHOUSE_NAME = :selected_warehouse_name AND ` + sfInRange + `
GROUP BY USER_NAME
ORDER BY ESTIMATED_COST_USD DESC
LIMIT 10`,

	WarehouseTopRolesByCost: `
SELECT
    ROLE_NAME,
    SUM(CREDITS_USED * :credit_price) AS ESTIMATED_COST_USD,
    SUM(CREDITS_USED) AS TOTAL_CREDITS
FROM SNOWFLAKE.ACCOUNT_USAGE.QUERY_HISTORY
WHERE WAREHOUSE_NAME = :selected_warehouse_name AND ` + sfInRange + `
GROUP BY ROLE_NAME
ORDER BY ESTIMATED_COST_USD DESC
LIMIT 10`,

	WarehouseQueuedOverloadTimeTrend: `
SELECT
    TO_DATE(START_TIME) AS USAGE_DAY,
    SUM(QUEUED_OVERLOAD_TIME) / 1000 AS TOTAL_QUEUED_OVERLOAD_TIME_SEC,
    AVG(QUEUED_OVERLOAD_TIME) / 1000 AS AVG_QUEUED_OVERLOAD_TIME_SEC_PER_QUERY
FROM SNOWFLAKE.ACCOUNT_USAGE.QUERY_HISTORY
WHERE WAREHOUSE_NAME = :selected_warehouse_name AND ` + sfInRange + `
    AND QUEUED_OVERLOAD_TIME > 0
GROUP BY 1
ORDER BY 1`,
}
