package app

import "rk-textiles/internal/core"

// CustomerListResult is returned by ListCustomers.
type CustomerListResult struct {
	Customers []core.Customer
}

// InventoryListResult is returned by ListInventory and LowStock.
type InventoryListResult struct {
	Items []core.InventoryItem
}

// StockResult is returned by AddStock. Created is true when the receipt opened a new line.
type StockResult struct {
	Item    *core.InventoryItem `json:"item"`
	Created bool                `json:"created"`
}

// OrderListResult is returned by ListOrders.
type OrderListResult struct {
	Orders []core.Order
}

// BillListResult is returned by ListBills.
type BillListResult struct {
	Bills []core.Bill
}

// MillListResult is returned by ListMills.
type MillListResult struct {
	Mills []core.Mill
}

// ShipmentListResult is returned by ListShipments.
type ShipmentListResult struct {
	Shipments []core.RawMaterialShipment
}

// MillPerformanceResult is returned by MillPerformance.
type MillPerformanceResult struct {
	Mills []core.MillPerformance
}

// SeedResult counts what SeedDemoData inserted. Rows that already existed are skipped.
type SeedResult struct {
	Customers      int `json:"customers"`
	InventoryItems int `json:"inventory_items"`
	Mills          int `json:"mills"`
}
