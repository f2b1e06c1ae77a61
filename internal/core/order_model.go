package core

import (
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Order is a single-fabric sales order.
//
// FabricType matches inventory by type only; the color of the consumed item is whichever
// line of that type the ledger holds first.
type Order struct {
	ID             int             `json:"id"`
	CustomerID     int             `json:"customer_id"`
	CustomerName   string          `json:"customer_name,omitempty"`  // joined from customers
	CustomerPhone  string          `json:"customer_phone,omitempty"` // joined from customers
	FabricType     string          `json:"fabric_type"`
	QuantityMeters decimal.Decimal `json:"quantity_meters"`
	RatePerMeter   decimal.Decimal `json:"rate_per_meter"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	Status         string          `json:"status"`
	Notes          string          `json:"notes"`
	OrderDate      time.Time       `json:"order_date"`
}

// OrderInput is used when creating a new order.
type OrderInput struct {
	CustomerID     int
	FabricType     string
	QuantityMeters decimal.Decimal
	RatePerMeter   decimal.Decimal
	Notes          string
}

// OrderUpdate is a partial update; nil fields are left unchanged.
type OrderUpdate struct {
	Status *string
	Notes  *string
}

// OrderFilter narrows ListOrders.
type OrderFilter struct {
	CustomerID int
	Status     string
}

// OrderTotal is quantity × rate at storage precision (2 decimal places).
func OrderTotal(quantity, rate decimal.Decimal) decimal.Decimal {
	return quantity.Mul(rate).Round(2)
}

func validateOrderInput(in OrderInput) error {
	if in.CustomerID <= 0 {
		return invalid("customer_id", "is required")
	}
	if in.FabricType == "" {
		return invalid("fabric_type", "is required")
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

const orderSelect = `
	SELECT o.id, o.customer_id, COALESCE(c.name, ''), COALESCE(c.phone, ''),
	       o.fabric_type, o.quantity_meters, o.rate_per_meter, o.total_amount,
	       o.status, o.notes, o.order_date
	FROM orders o
	LEFT JOIN customers c ON c.id = o.customer_id`

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	if err := row.Scan(&o.ID, &o.CustomerID, &o.CustomerName, &o.CustomerPhone,
		&o.FabricType, &o.QuantityMeters, &o.RatePerMeter, &o.TotalAmount,
		&o.Status, &o.Notes, &o.OrderDate); err != nil {
		return nil, err
	}
	return &o, nil
}
