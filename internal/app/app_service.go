package app

import (
	"context"

	"rk-textiles/internal/core"
	"rk-textiles/internal/export"

	"github.com/bsm/redislock"
)

type appService struct {
	customers  core.CustomerService
	inventory  core.InventoryService
	orders     core.OrderService
	billing    core.BillingService
	production core.ProductionService
	reports    core.ReportingService
	locker     *redislock.Client
}

// Services bundles the core workflows the application facade delegates to.
type Services struct {
	Customers  core.CustomerService
	Inventory  core.InventoryService
	Orders     core.OrderService
	Billing    core.BillingService
	Production core.ProductionService
	Reports    core.ReportingService

	// Locker serialises demo seeding across processes. Nil skips locking.
	Locker *redislock.Client
}

// NewAppService constructs an appService that satisfies ApplicationService.
func NewAppService(svc Services) ApplicationService {
	return &appService{
		customers:  svc.Customers,
		inventory:  svc.Inventory,
		orders:     svc.Orders,
		billing:    svc.Billing,
		production: svc.Production,
		reports:    svc.Reports,
		locker:     svc.Locker,
	}
}

// ── Customers ────────────────────────────────────────────────────────────────

func (s *appService) RegisterCustomer(ctx context.Context, req RegisterCustomerRequest) (*core.Customer, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	return s.customers.RegisterCustomer(ctx, core.CustomerInput{
		Name:         req.Name,
		Phone:        normalizePhone(req.Phone),
		BusinessType: req.BusinessType,
		Address:      req.Address,
	})
}

func (s *appService) ListCustomers(ctx context.Context, filter core.CustomerFilter) (*CustomerListResult, error) {
	customers, err := s.customers.ListCustomers(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &CustomerListResult{Customers: customers}, nil
}

func (s *appService) GetCustomer(ctx context.Context, id int) (*core.Customer, error) {
	return s.customers.GetCustomer(ctx, id)
}

func (s *appService) UpdateCustomer(ctx context.Context, id int, req UpdateCustomerRequest) (*core.Customer, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if req.Phone != nil {
		p := normalizePhone(*req.Phone)
		req.Phone = &p
	}
	return s.customers.UpdateCustomer(ctx, id, core.CustomerUpdate{
		Name:         req.Name,
		Phone:        req.Phone,
		BusinessType: req.BusinessType,
		Address:      req.Address,
	})
}

func (s *appService) DeleteCustomer(ctx context.Context, id int) error {
	return s.customers.DeleteCustomer(ctx, id)
}

func (s *appService) LookupCustomerByPhone(ctx context.Context, phone string) (*core.CustomerLookup, error) {
	return s.customers.LookupByPhone(ctx, normalizePhone(phone))
}

// ── Inventory ────────────────────────────────────────────────────────────────

func (s *appService) ListInventory(ctx context.Context, filter core.InventoryFilter) (*InventoryListResult, error) {
	items, err := s.inventory.ListItems(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &InventoryListResult{Items: items}, nil
}

func (s *appService) GetInventoryItem(ctx context.Context, id int) (*core.InventoryItem, error) {
	return s.inventory.GetItem(ctx, id)
}

func (s *appService) AddStock(ctx context.Context, req AddStockRequest) (*StockResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	item, created, err := s.inventory.AddStock(ctx, core.StockReceipt{
		FabricType:     req.FabricType,
		FabricColor:    req.FabricColor,
		QuantityMeters: req.QuantityMeters,
		RatePerMeter:   req.RatePerMeter,
		Location:       req.Location,
	})
	if err != nil {
		return nil, err
	}
	return &StockResult{Item: item, Created: created}, nil
}

func (s *appService) UpdateInventoryItem(ctx context.Context, id int, req UpdateInventoryRequest) (*core.InventoryItem, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	return s.inventory.UpdateItem(ctx, id, core.InventoryItemUpdate{
		FabricColor:  req.FabricColor,
		RatePerMeter: req.RatePerMeter,
		Location:     req.Location,
	})
}

func (s *appService) DeleteInventoryItem(ctx context.Context, id int) error {
	return s.inventory.DeleteItem(ctx, id)
}

func (s *appService) LowStock(ctx context.Context) (*InventoryListResult, error) {
	items, err := s.inventory.LowStock(ctx)
	if err != nil {
		return nil, err
	}
	return &InventoryListResult{Items: items}, nil
}

func (s *appService) InventorySummary(ctx context.Context) (*core.InventorySummary, error) {
	return s.inventory.Summary(ctx)
}

// ── Orders ───────────────────────────────────────────────────────────────────

func (s *appService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*core.Order, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	return s.orders.CreateOrder(ctx, core.OrderInput{
		CustomerID:     req.CustomerID,
		FabricType:     req.FabricType,
		QuantityMeters: req.QuantityMeters,
		RatePerMeter:   req.RatePerMeter,
		Notes:          req.Notes,
	})
}

func (s *appService) ListOrders(ctx context.Context, filter core.OrderFilter) (*OrderListResult, error) {
	orders, err := s.orders.ListOrders(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &OrderListResult{Orders: orders}, nil
}

func (s *appService) GetOrder(ctx context.Context, id int) (*core.Order, error) {
	return s.orders.GetOrder(ctx, id)
}

func (s *appService) UpdateOrder(ctx context.Context, id int, req UpdateOrderRequest) (*core.Order, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	return s.orders.UpdateOrder(ctx, id, core.OrderUpdate{Status: req.Status, Notes: req.Notes})
}

func (s *appService) CancelOrder(ctx context.Context, id int) (*core.Cancellation, error) {
	return s.orders.CancelOrder(ctx, id)
}

func (s *appService) CheckAvailability(ctx context.Context, req CheckAvailabilityRequest) (*core.Availability, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	return s.orders.CheckAvailability(ctx, req.FabricType, req.QuantityMeters)
}

// ── Bills ────────────────────────────────────────────────────────────────────

func (s *appService) GenerateBill(ctx context.Context, req GenerateBillRequest) (*core.Bill, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	return s.billing.GenerateBill(ctx, core.BillInput{
		OrderID:    req.OrderID,
		CustomerID: req.CustomerID,
		GSTRate:    req.GSTRate,
	})
}

func (s *appService) ListBills(ctx context.Context, filter core.BillFilter) (*BillListResult, error) {
	bills, err := s.billing.ListBills(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &BillListResult{Bills: bills}, nil
}

func (s *appService) GetBill(ctx context.Context, id int) (*core.BillDetail, error) {
	return s.billing.GetBill(ctx, id)
}

func (s *appService) SetPaymentStatus(ctx context.Context, id int, req PaymentStatusRequest) (*core.Bill, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	return s.billing.SetPaymentStatus(ctx, id, req.PaymentStatus)
}

func (s *appService) BillSummary(ctx context.Context) (*core.BillSummary, error) {
	return s.billing.Summary(ctx)
}

// ── Mills & production ───────────────────────────────────────────────────────

func (s *appService) CreateMill(ctx context.Context, req CreateMillRequest) (*core.Mill, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	return s.production.CreateMill(ctx, core.MillInput{
		MillName:      req.MillName,
		Location:      req.Location,
		ContactPerson: req.ContactPerson,
		Phone:         req.Phone,
	})
}

func (s *appService) ListMills(ctx context.Context) (*MillListResult, error) {
	mills, err := s.production.ListMills(ctx)
	if err != nil {
		return nil, err
	}
	return &MillListResult{Mills: mills}, nil
}

func (s *appService) GetMill(ctx context.Context, id int) (*core.Mill, error) {
	return s.production.GetMill(ctx, id)
}

func (s *appService) SendToMill(ctx context.Context, req SendToMillRequest) (*core.RawMaterialShipment, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	return s.production.SendToMill(ctx, core.ShipmentInput{
		MillID:       req.MillID,
		MaterialType: req.MaterialType,
		QuantityKg:   req.QuantityKg,
	})
}

func (s *appService) ListShipments(ctx context.Context, filter core.ShipmentFilter) (*ShipmentListResult, error) {
	shipments, err := s.production.ListShipments(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &ShipmentListResult{Shipments: shipments}, nil
}

func (s *appService) RecordProduction(ctx context.Context, shipmentID int, req RecordProductionRequest) (*core.ProductionResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	return s.production.RecordProduction(ctx, shipmentID, core.ProductionReceipt{
		FabricReceivedMeters: req.FabricReceivedMeters,
		FabricType:           req.FabricType,
		FabricColor:          req.FabricColor,
		RatePerMeter:         req.RatePerMeter,
	})
}

func (s *appService) MillPerformance(ctx context.Context) (*MillPerformanceResult, error) {
	perf, err := s.production.MillPerformance(ctx)
	if err != nil {
		return nil, err
	}
	return &MillPerformanceResult{Mills: perf}, nil
}

// ── Reports ──────────────────────────────────────────────────────────────────

func (s *appService) SalesReport(ctx context.Context, req SalesReportRequest) (*core.SalesReport, error) {
	return s.reports.SalesReport(ctx, req.From, req.To)
}

func (s *appService) InventoryReport(ctx context.Context) (*core.InventoryReport, error) {
	return s.reports.InventoryReport(ctx)
}

func (s *appService) CustomerReport(ctx context.Context) (*core.CustomerReport, error) {
	return s.reports.CustomerReport(ctx)
}

func (s *appService) Dashboard(ctx context.Context) (*core.Dashboard, error) {
	return s.reports.Dashboard(ctx)
}

func (s *appService) ExportSalesReport(ctx context.Context, req SalesReportRequest) ([]byte, error) {
	report, err := s.reports.SalesReport(ctx, req.From, req.To)
	if err != nil {
		return nil, err
	}
	f, err := export.SalesWorkbook(report)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return export.Bytes(f)
}

func (s *appService) ExportInventoryReport(ctx context.Context) ([]byte, error) {
	report, err := s.reports.InventoryReport(ctx)
	if err != nil {
		return nil, err
	}
	f, err := export.InventoryWorkbook(report)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return export.Bytes(f)
}
