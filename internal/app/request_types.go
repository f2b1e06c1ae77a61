package app

import (
	"time"

	"github.com/shopspring/decimal"
)

// Request types are decoded straight from JSON bodies. Struct tags carry the
// shape checks; amount and quantity rules live in core.

// RegisterCustomerRequest is the input for registering a customer.
type RegisterCustomerRequest struct {
	Name         string `json:"name" validate:"required,max=200"`
	Phone        string `json:"phone" validate:"required,max=20"`
	BusinessType string `json:"business_type" validate:"max=100"`
	Address      string `json:"address" validate:"max=500"`
}

// UpdateCustomerRequest is a partial update; absent fields are left unchanged.
type UpdateCustomerRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=1,max=200"`
	Phone        *string `json:"phone" validate:"omitempty,min=1,max=20"`
	BusinessType *string `json:"business_type" validate:"omitempty,max=100"`
	Address      *string `json:"address" validate:"omitempty,max=500"`
}

// AddStockRequest receives fabric into inventory.
type AddStockRequest struct {
	FabricType     string          `json:"fabric_type" validate:"required,max=100"`
	FabricColor    string          `json:"fabric_color" validate:"required,max=50"`
	QuantityMeters decimal.Decimal `json:"quantity_meters"`
	RatePerMeter   decimal.Decimal `json:"rate_per_meter"`
	Location       string          `json:"location" validate:"max=100"`
}

// UpdateInventoryRequest changes an item's descriptive fields. Quantity is not accepted here.
type UpdateInventoryRequest struct {
	FabricColor  *string          `json:"fabric_color" validate:"omitempty,min=1,max=50"`
	RatePerMeter *decimal.Decimal `json:"rate_per_meter"`
	Location     *string          `json:"location" validate:"omitempty,max=100"`
}

// CreateOrderRequest is the input for placing an order.
type CreateOrderRequest struct {
	CustomerID     int             `json:"customer_id" validate:"required,gt=0"`
	FabricType     string          `json:"fabric_type" validate:"required,max=100"`
	QuantityMeters decimal.Decimal `json:"quantity_meters"`
	RatePerMeter   decimal.Decimal `json:"rate_per_meter"`
	Notes          string          `json:"notes" validate:"max=1000"`
}

// UpdateOrderRequest changes an order's status (Pending → Completed only) or notes.
type UpdateOrderRequest struct {
	Status *string `json:"status" validate:"omitempty,oneof=Pending Completed"`
	Notes  *string `json:"notes" validate:"omitempty,max=1000"`
}

// CheckAvailabilityRequest asks whether an order could be placed right now.
type CheckAvailabilityRequest struct {
	FabricType     string          `json:"fabric_type" validate:"required"`
	QuantityMeters decimal.Decimal `json:"quantity_meters"`
}

// GenerateBillRequest bills an order. CustomerID 0 means the order's customer;
// GSTRate is a percentage and defaults to 0.
type GenerateBillRequest struct {
	OrderID    int             `json:"order_id" validate:"required,gt=0"`
	CustomerID int             `json:"customer_id" validate:"gte=0"`
	GSTRate    decimal.Decimal `json:"gst_rate"`
}

// PaymentStatusRequest sets a bill's payment status.
type PaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" validate:"required,oneof=Pending Paid"`
}

// CreateMillRequest is the input for registering a mill.
type CreateMillRequest struct {
	MillName      string `json:"mill_name" validate:"required,max=200"`
	Location      string `json:"location" validate:"max=200"`
	ContactPerson string `json:"contact_person" validate:"max=200"`
	Phone         string `json:"phone" validate:"max=20"`
}

// SendToMillRequest records raw material leaving for a mill.
type SendToMillRequest struct {
	MillID       int             `json:"mill_id" validate:"required,gt=0"`
	MaterialType string          `json:"material_type" validate:"required,max=100"`
	QuantityKg   decimal.Decimal `json:"quantity_kg"`
}

// RecordProductionRequest records fabric returned by a mill. Omitted type, color
// and rate fall back to the production defaults.
type RecordProductionRequest struct {
	FabricReceivedMeters decimal.Decimal `json:"fabric_received_meters"`
	FabricType           string          `json:"fabric_type" validate:"max=100"`
	FabricColor          string          `json:"fabric_color" validate:"max=50"`
	RatePerMeter         decimal.Decimal `json:"rate_per_meter"`
}

// SalesReportRequest bounds the sales report. Zero values select the last 30 days.
type SalesReportRequest struct {
	From time.Time
	To   time.Time
}
