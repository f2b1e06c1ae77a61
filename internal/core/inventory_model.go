package core

import (
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Stock thresholds in meters.
var (
	LowStockThreshold   = decimal.NewFromInt(50)
	OutOfStockThreshold = decimal.NewFromInt(10)
)

// DefaultProductionLocation is where fabric returned by a mill is shelved.
const DefaultProductionLocation = "Main Warehouse"

// InventoryItem is one (fabric_type, fabric_color) line of stock.
type InventoryItem struct {
	ID             int             `json:"id"`
	FabricType     string          `json:"fabric_type"`
	FabricColor    string          `json:"fabric_color"`
	QuantityMeters decimal.Decimal `json:"quantity_meters"`
	RatePerMeter   decimal.Decimal `json:"rate_per_meter"`
	Location       string          `json:"location"`
	LastUpdated    time.Time       `json:"last_updated"`
}

// Value is quantity × rate at the current rate.
func (i InventoryItem) Value() decimal.Decimal {
	return i.QuantityMeters.Mul(i.RatePerMeter)
}

// StockReceipt is the input to AddStock. Rate overwrites the item's current rate.
type StockReceipt struct {
	FabricType     string
	FabricColor    string
	QuantityMeters decimal.Decimal
	RatePerMeter   decimal.Decimal
	Location       string
}

// InventoryItemUpdate is a partial update of an item's descriptive fields.
// Quantity is deliberately absent: it only moves through AddStock, ConsumeStock and RestoreStock.
type InventoryItemUpdate struct {
	FabricColor  *string
	RatePerMeter *decimal.Decimal
	Location     *string
}

// InventoryFilter narrows ListItems.
type InventoryFilter struct {
	FabricType string
	LowStock   bool
}

// InventorySummary aggregates the whole ledger.
type InventorySummary struct {
	TotalItems    int             `json:"total_items"`
	LowStockCount int             `json:"low_stock_count"`
	TotalMeters   decimal.Decimal `json:"total_meters"`
	TotalValue    decimal.Decimal `json:"total_value"`
}

// Availability is the advisory pre-flight answer for a prospective order.
type Availability struct {
	Available         bool            `json:"available"`
	FabricType        string          `json:"fabric_type"`
	AvailableQuantity decimal.Decimal `json:"available_quantity"`
	RequestedQuantity decimal.Decimal `json:"requested_quantity"`
	RatePerMeter      decimal.Decimal `json:"rate_per_meter"`
	EstimatedAmount   decimal.Decimal `json:"estimated_amount"`
	Message           string          `json:"message,omitempty"`
}

// StockLevel buckets an item for the inventory report.
type StockLevel string

const (
	StockLevelIn  StockLevel = "in_stock"
	StockLevelLow StockLevel = "low_stock"
	StockLevelOut StockLevel = "out_of_stock"
)

// ClassifyStock places qty into in (>= 50), low (10 to 50) or out (< 10).
func ClassifyStock(qty decimal.Decimal) StockLevel {
	switch {
	case qty.GreaterThanOrEqual(LowStockThreshold):
		return StockLevelIn
	case qty.GreaterThanOrEqual(OutOfStockThreshold):
		return StockLevelLow
	default:
		return StockLevelOut
	}
}

const inventoryColumns = "id, fabric_type, fabric_color, quantity_meters, rate_per_meter, location, last_updated"

func scanInventoryItem(row pgx.Row) (*InventoryItem, error) {
	var it InventoryItem
	if err := row.Scan(&it.ID, &it.FabricType, &it.FabricColor, &it.QuantityMeters,
		&it.RatePerMeter, &it.Location, &it.LastUpdated); err != nil {
		return nil, err
	}
	return &it, nil
}

func validateReceipt(in StockReceipt) error {
	if in.FabricType == "" {
		return invalid("fabric_type", "is required")
	}
	if in.FabricColor == "" {
		return invalid("fabric_color", "is required")
	}
	if !in.QuantityMeters.IsPositive() {
		return invalid("quantity_meters", "must be positive, got %s", in.QuantityMeters)
	}
	if in.RatePerMeter.IsNegative() {
		return invalid("rate_per_meter", "cannot be negative, got %s", in.RatePerMeter)
	}
	if err := checkScale("quantity_meters", in.QuantityMeters); err != nil {
		return err
	}
	return checkScale("rate_per_meter", in.RatePerMeter)
}
