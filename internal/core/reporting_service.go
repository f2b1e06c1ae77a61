package core

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// DefaultSalesWindow is the sales report period when no bounds are given.
const DefaultSalesWindow = 30 * 24 * time.Hour

const (
	topCustomersLimit = 10
	dashboardRecent   = 5
	unknownBusiness   = "Unknown"
)

// ── Report types ──────────────────────────────────────────────────────────────

// Period is an inclusive time range.
type Period struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// SalesReport aggregates orders placed within Period.
type SalesReport struct {
	Period            Period          `json:"period"`
	Summary           SalesSummary    `json:"summary"`
	FabricBreakdown   []FabricSales   `json:"fabric_breakdown"`   // revenue descending
	BusinessBreakdown []BusinessSales `json:"business_breakdown"` // revenue descending
}

// SalesSummary totals the orders inside a report period.
type SalesSummary struct {
	TotalOrders       int             `json:"total_orders"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
}

// FabricSales is one fabric type's share of a period's sales.
type FabricSales struct {
	FabricType     string          `json:"fabric_type"`
	QuantityMeters decimal.Decimal `json:"quantity_meters"`
	Revenue        decimal.Decimal `json:"revenue"`
	Orders         int             `json:"orders"`
}

// BusinessSales is one business type's share of a period's sales.
type BusinessSales struct {
	BusinessType string          `json:"business_type"`
	Orders       int             `json:"orders"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// InventoryReport is the stock position bucketed by level and color.
type InventoryReport struct {
	Summary         InventorySummary `json:"summary"`
	StockLevels     StockLevelCounts `json:"stock_levels"`
	ColorBreakdown  []ColorStock     `json:"color_breakdown"`
	Items           []InventoryItem  `json:"items"`
	LowStockItems   []InventoryItem  `json:"low_stock_items"`
	OutOfStockItems []InventoryItem  `json:"out_of_stock_items"`
}

// StockLevelCounts counts inventory rows per stock level.
type StockLevelCounts struct {
	InStock    int `json:"in_stock"`
	LowStock   int `json:"low_stock"`
	OutOfStock int `json:"out_of_stock"`
}

// ColorStock is the meters and value held in one fabric color.
type ColorStock struct {
	Color          string          `json:"color"`
	QuantityMeters decimal.Decimal `json:"quantity_meters"`
	Value          decimal.Decimal `json:"value"`
}

// CustomerReport ranks customers by order value.
type CustomerReport struct {
	TotalCustomers       int             `json:"total_customers"`
	TopCustomers         []CustomerValue `json:"top_customers"`
	BusinessDistribution []BusinessCount `json:"business_distribution"`
}

// CustomerValue is a customer's lifetime order count and spend.
type CustomerValue struct {
	CustomerID        int             `json:"customer_id"`
	Name              string          `json:"name"`
	Phone             string          `json:"phone"`
	BusinessType      string          `json:"business_type"`
	TotalOrders       int             `json:"total_orders"`
	TotalSpent        decimal.Decimal `json:"total_spent"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
}

// BusinessCount is the number of customers with one business type.
type BusinessCount struct {
	BusinessType string `json:"business_type"`
	Count        int    `json:"count"`
}

// Dashboard is the landing-page snapshot.
type Dashboard struct {
	TotalCustomers  int             `json:"total_customers"`
	TotalOrders     int             `json:"total_orders"`
	PendingOrders   int             `json:"pending_orders"`
	TotalRevenue    decimal.Decimal `json:"total_revenue"`
	PendingPayments decimal.Decimal `json:"pending_payments"`
	InventoryValue  decimal.Decimal `json:"inventory_value"`
	LowStockItems   int             `json:"low_stock_items"`
	RecentOrders    []Order         `json:"recent_orders"`
}

// ── Interface ─────────────────────────────────────────────────────────────────

// ReportingService provides read-only aggregate views.
type ReportingService interface {
	// SalesReport covers orders with order_date in [from, to]. Zero bounds default to the
	// DefaultSalesWindow ending now.
	SalesReport(ctx context.Context, from, to time.Time) (*SalesReport, error)
	InventoryReport(ctx context.Context) (*InventoryReport, error)
	CustomerReport(ctx context.Context) (*CustomerReport, error)
	Dashboard(ctx context.Context) (*Dashboard, error)
}

type reportingService struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

func NewReportingService(pool *pgxpool.Pool) ReportingService {
	return &reportingService{pool: pool, now: time.Now}
}

// ── Sales ─────────────────────────────────────────────────────────────────────

func (s *reportingService) SalesReport(ctx context.Context, from, to time.Time) (*SalesReport, error) {
	period, err := resolvePeriod(from, to, s.now())
	if err != nil {
		return nil, err
	}

	report := &SalesReport{
		Period:            period,
		FabricBreakdown:   []FabricSales{},
		BusinessBreakdown: []BusinessSales{},
	}

	err = s.pool.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(total_amount), 0)
		FROM orders
		WHERE order_date BETWEEN $1 AND $2
	`, period.From, period.To).Scan(&report.Summary.TotalOrders, &report.Summary.TotalRevenue)
	if err != nil {
		return nil, fmt.Errorf("failed to total sales: %w", err)
	}
	report.Summary.TotalRevenue = report.Summary.TotalRevenue.Round(2)
	report.Summary.AverageOrderValue = average(report.Summary.TotalRevenue, report.Summary.TotalOrders)

	rows, err := s.pool.Query(ctx, `
		SELECT fabric_type, SUM(quantity_meters), SUM(total_amount), COUNT(*)
		FROM orders
		WHERE order_date BETWEEN $1 AND $2
		GROUP BY fabric_type
		ORDER BY SUM(total_amount) DESC, fabric_type
	`, period.From, period.To)
	if err != nil {
		return nil, fmt.Errorf("failed to group sales by fabric: %w", err)
	}
	for rows.Next() {
		var f FabricSales
		if err := rows.Scan(&f.FabricType, &f.QuantityMeters, &f.Revenue, &f.Orders); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan fabric sales: %w", err)
		}
		f.QuantityMeters = f.QuantityMeters.Round(2)
		f.Revenue = f.Revenue.Round(2)
		report.FabricBreakdown = append(report.FabricBreakdown, f)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = s.pool.Query(ctx, `
		SELECT COALESCE(NULLIF(c.business_type, ''), $3), COUNT(*), SUM(o.total_amount)
		FROM orders o
		LEFT JOIN customers c ON c.id = o.customer_id
		WHERE o.order_date BETWEEN $1 AND $2
		GROUP BY 1
		ORDER BY 3 DESC, 1
	`, period.From, period.To, unknownBusiness)
	if err != nil {
		return nil, fmt.Errorf("failed to group sales by business type: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var b BusinessSales
		if err := rows.Scan(&b.BusinessType, &b.Orders, &b.Revenue); err != nil {
			return nil, fmt.Errorf("failed to scan business sales: %w", err)
		}
		b.Revenue = b.Revenue.Round(2)
		report.BusinessBreakdown = append(report.BusinessBreakdown, b)
	}
	return report, rows.Err()
}

// resolvePeriod fills zero bounds relative to now and rejects inverted ranges.
func resolvePeriod(from, to, now time.Time) (Period, error) {
	if to.IsZero() {
		to = now
	}
	if from.IsZero() {
		from = to.Add(-DefaultSalesWindow)
	}
	if from.After(to) {
		return Period{}, invalid("from_date", "must not be after to_date")
	}
	return Period{From: from, To: to}, nil
}

// ── Inventory ─────────────────────────────────────────────────────────────────

func (s *reportingService) InventoryReport(ctx context.Context) (*InventoryReport, error) {
	rows, err := s.pool.Query(ctx, "SELECT "+inventoryColumns+" FROM inventory ORDER BY fabric_type, fabric_color")
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory: %w", err)
	}
	defer rows.Close()

	var items []InventoryItem
	for rows.Next() {
		it, err := scanInventoryItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan inventory item: %w", err)
		}
		items = append(items, *it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return BuildInventoryReport(items), nil
}

// BuildInventoryReport aggregates items into totals, stock-level buckets and a per-color breakdown.
// Colors appear in first-seen order.
func BuildInventoryReport(items []InventoryItem) *InventoryReport {
	report := &InventoryReport{
		Items:           []InventoryItem{},
		ColorBreakdown:  []ColorStock{},
		LowStockItems:   []InventoryItem{},
		OutOfStockItems: []InventoryItem{},
	}

	colorIndex := map[string]int{}
	for _, it := range items {
		value := it.Value()
		report.Items = append(report.Items, it)
		report.Summary.TotalItems++
		report.Summary.TotalMeters = report.Summary.TotalMeters.Add(it.QuantityMeters)
		report.Summary.TotalValue = report.Summary.TotalValue.Add(value)
		if it.QuantityMeters.LessThan(LowStockThreshold) {
			report.Summary.LowStockCount++
		}

		switch ClassifyStock(it.QuantityMeters) {
		case StockLevelIn:
			report.StockLevels.InStock++
		case StockLevelLow:
			report.StockLevels.LowStock++
			report.LowStockItems = append(report.LowStockItems, it)
		case StockLevelOut:
			report.StockLevels.OutOfStock++
			report.OutOfStockItems = append(report.OutOfStockItems, it)
		}

		i, ok := colorIndex[it.FabricColor]
		if !ok {
			i = len(report.ColorBreakdown)
			colorIndex[it.FabricColor] = i
			report.ColorBreakdown = append(report.ColorBreakdown, ColorStock{Color: it.FabricColor})
		}
		report.ColorBreakdown[i].QuantityMeters = report.ColorBreakdown[i].QuantityMeters.Add(it.QuantityMeters)
		report.ColorBreakdown[i].Value = report.ColorBreakdown[i].Value.Add(value)
	}

	report.Summary.TotalMeters = report.Summary.TotalMeters.Round(2)
	report.Summary.TotalValue = report.Summary.TotalValue.Round(2)
	for i := range report.ColorBreakdown {
		report.ColorBreakdown[i].QuantityMeters = report.ColorBreakdown[i].QuantityMeters.Round(2)
		report.ColorBreakdown[i].Value = report.ColorBreakdown[i].Value.Round(2)
	}
	return report
}

// ── Customers ─────────────────────────────────────────────────────────────────

func (s *reportingService) CustomerReport(ctx context.Context) (*CustomerReport, error) {
	report := &CustomerReport{
		TopCustomers:         []CustomerValue{},
		BusinessDistribution: []BusinessCount{},
	}

	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM customers").Scan(&report.TotalCustomers); err != nil {
		return nil, fmt.Errorf("failed to count customers: %w", err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT c.id, c.name, c.phone, c.business_type,
		       COUNT(o.id), COALESCE(SUM(o.total_amount), 0) AS spent
		FROM customers c
		LEFT JOIN orders o ON o.customer_id = c.id
		GROUP BY c.id
		ORDER BY spent DESC, c.id
		LIMIT $1
	`, topCustomersLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to rank customers: %w", err)
	}
	for rows.Next() {
		var cv CustomerValue
		if err := rows.Scan(&cv.CustomerID, &cv.Name, &cv.Phone, &cv.BusinessType,
			&cv.TotalOrders, &cv.TotalSpent); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan customer value: %w", err)
		}
		cv.TotalSpent = cv.TotalSpent.Round(2)
		cv.AverageOrderValue = average(cv.TotalSpent, cv.TotalOrders)
		report.TopCustomers = append(report.TopCustomers, cv)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = s.pool.Query(ctx, `
		SELECT COALESCE(NULLIF(business_type, ''), $1), COUNT(*)
		FROM customers
		GROUP BY 1
		ORDER BY 2 DESC, 1
	`, unknownBusiness)
	if err != nil {
		return nil, fmt.Errorf("failed to group customers by business type: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var bc BusinessCount
		if err := rows.Scan(&bc.BusinessType, &bc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan business count: %w", err)
		}
		report.BusinessDistribution = append(report.BusinessDistribution, bc)
	}
	return report, rows.Err()
}

// ── Dashboard ─────────────────────────────────────────────────────────────────

func (s *reportingService) Dashboard(ctx context.Context) (*Dashboard, error) {
	var d Dashboard
	err := s.pool.QueryRow(ctx, `
		SELECT
		    (SELECT COUNT(*) FROM customers),
		    (SELECT COUNT(*) FROM orders),
		    (SELECT COUNT(*) FROM orders WHERE status = $1),
		    (SELECT COALESCE(SUM(total_amount), 0) FROM bills),
		    (SELECT COALESCE(SUM(total_amount), 0) FROM bills WHERE payment_status = $2),
		    (SELECT COALESCE(SUM(quantity_meters * rate_per_meter), 0) FROM inventory),
		    (SELECT COUNT(*) FROM inventory WHERE quantity_meters < $3)
	`, OrderStatusPending, PaymentStatusPending, LowStockThreshold).Scan(
		&d.TotalCustomers, &d.TotalOrders, &d.PendingOrders,
		&d.TotalRevenue, &d.PendingPayments, &d.InventoryValue, &d.LowStockItems,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load dashboard: %w", err)
	}
	d.TotalRevenue = d.TotalRevenue.Round(2)
	d.PendingPayments = d.PendingPayments.Round(2)
	d.InventoryValue = d.InventoryValue.Round(2)

	d.RecentOrders, err = queryOrders(ctx, s.pool,
		orderSelect+" ORDER BY o.order_date DESC, o.id DESC LIMIT $1", dashboardRecent)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// average is total / count at 2dp, or zero for an empty set.
func average(total decimal.Decimal, count int) decimal.Decimal {
	if count == 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(count))).Round(2)
}
