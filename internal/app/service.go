package app

import (
	"context"

	"rk-textiles/internal/core"
)

// ApplicationService is the single interface all UI adapters (CLI, Web) call.
// It decouples presentation from business logic. Implementations must contain
// no fmt.Println, no ANSI codes, and no display logic of any kind.
type ApplicationService interface {
	// ── Customers ────────────────────────────────────────────────────────────

	RegisterCustomer(ctx context.Context, req RegisterCustomerRequest) (*core.Customer, error)
	ListCustomers(ctx context.Context, filter core.CustomerFilter) (*CustomerListResult, error)
	GetCustomer(ctx context.Context, id int) (*core.Customer, error)
	UpdateCustomer(ctx context.Context, id int, req UpdateCustomerRequest) (*core.Customer, error)
	DeleteCustomer(ctx context.Context, id int) error

	// LookupCustomerByPhone returns Found=false rather than an error for an unknown phone.
	LookupCustomerByPhone(ctx context.Context, phone string) (*core.CustomerLookup, error)

	// ── Inventory ────────────────────────────────────────────────────────────

	ListInventory(ctx context.Context, filter core.InventoryFilter) (*InventoryListResult, error)
	GetInventoryItem(ctx context.Context, id int) (*core.InventoryItem, error)

	// AddStock receives fabric into the (type, color) line, creating it on first receipt.
	AddStock(ctx context.Context, req AddStockRequest) (*StockResult, error)

	UpdateInventoryItem(ctx context.Context, id int, req UpdateInventoryRequest) (*core.InventoryItem, error)
	DeleteInventoryItem(ctx context.Context, id int) error
	LowStock(ctx context.Context) (*InventoryListResult, error)
	InventorySummary(ctx context.Context) (*core.InventorySummary, error)

	// ── Orders ───────────────────────────────────────────────────────────────

	// CreateOrder places an order and consumes its stock atomically.
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*core.Order, error)

	ListOrders(ctx context.Context, filter core.OrderFilter) (*OrderListResult, error)
	GetOrder(ctx context.Context, id int) (*core.Order, error)
	UpdateOrder(ctx context.Context, id int, req UpdateOrderRequest) (*core.Order, error)

	// CancelOrder deletes an order, restoring stock only when it was still Pending.
	CancelOrder(ctx context.Context, id int) (*core.Cancellation, error)

	// CheckAvailability is a read-only pre-flight check; it reserves nothing.
	CheckAvailability(ctx context.Context, req CheckAvailabilityRequest) (*core.Availability, error)

	// ── Bills ────────────────────────────────────────────────────────────────

	// GenerateBill bills an order once and marks it Completed.
	GenerateBill(ctx context.Context, req GenerateBillRequest) (*core.Bill, error)

	ListBills(ctx context.Context, filter core.BillFilter) (*BillListResult, error)
	GetBill(ctx context.Context, id int) (*core.BillDetail, error)
	SetPaymentStatus(ctx context.Context, id int, req PaymentStatusRequest) (*core.Bill, error)
	BillSummary(ctx context.Context) (*core.BillSummary, error)

	// ── Mills & production ───────────────────────────────────────────────────

	CreateMill(ctx context.Context, req CreateMillRequest) (*core.Mill, error)
	ListMills(ctx context.Context) (*MillListResult, error)
	GetMill(ctx context.Context, id int) (*core.Mill, error)
	SendToMill(ctx context.Context, req SendToMillRequest) (*core.RawMaterialShipment, error)
	ListShipments(ctx context.Context, filter core.ShipmentFilter) (*ShipmentListResult, error)

	// RecordProduction completes a shipment and adds the fabric to inventory.
	RecordProduction(ctx context.Context, shipmentID int, req RecordProductionRequest) (*core.ProductionResult, error)

	MillPerformance(ctx context.Context) (*MillPerformanceResult, error)

	// ── Reports ──────────────────────────────────────────────────────────────

	SalesReport(ctx context.Context, req SalesReportRequest) (*core.SalesReport, error)
	InventoryReport(ctx context.Context) (*core.InventoryReport, error)
	CustomerReport(ctx context.Context) (*core.CustomerReport, error)
	Dashboard(ctx context.Context) (*core.Dashboard, error)

	// ExportSalesReport renders the sales report as an .xlsx workbook.
	ExportSalesReport(ctx context.Context, req SalesReportRequest) ([]byte, error)
	// ExportInventoryReport renders the inventory report as an .xlsx workbook.
	ExportInventoryReport(ctx context.Context) ([]byte, error)

	// SeedDemoData loads a small idempotent demo dataset.
	SeedDemoData(ctx context.Context) (*SeedResult, error)
}
