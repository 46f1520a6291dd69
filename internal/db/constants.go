package db

// Mirror table names.
const (
	TableQueryHistory      = "query_history"
	TableWarehouses        = "warehouses"
	TableWarehouseMetering = "warehouse_metering_history"
	TableMeteringHistory   = "metering_history"
)

// Tables lists every mirror table.
var Tables = []string{
	TableQueryHistory,
	TableWarehouses,
	TableWarehouseMetering,
	TableMeteringHistory,
}
