package core

import (
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// DefaultBillPrefix is the leading segment of every bill number.
const DefaultBillPrefix = "RKT"

var hundred = decimal.NewFromInt(100)

// Bill is issued once per order. Only PaymentStatus changes after creation.
type Bill struct {
	ID             int             `json:"id"`
	BillNumber     string          `json:"bill_number"`
	OrderID        *int            `json:"order_id"`
	CustomerID     int             `json:"customer_id"`
	CustomerName   string          `json:"customer_name,omitempty"`  // joined from customers
	CustomerPhone  string          `json:"customer_phone,omitempty"` // joined from customers
	FabricType     string          `json:"fabric_type,omitempty"`    // joined from orders
	QuantityMeters decimal.Decimal `json:"quantity_meters"`          // joined from orders
	Subtotal       decimal.Decimal `json:"subtotal"`
	GSTRate        decimal.Decimal `json:"gst_rate"`
	GSTAmount      decimal.Decimal `json:"gst_amount"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	PaymentStatus  string          `json:"payment_status"`
	BillDate       time.Time       `json:"bill_date"`
}

// BillDetail is a bill with its customer and order embedded, as a document renderer needs it.
type BillDetail struct {
	Bill
	Customer *Customer `json:"customer"`
	Order    *Order    `json:"order,omitempty"`
}

// BillFilter narrows ListBills.
type BillFilter struct {
	CustomerID    int
	PaymentStatus string
}

// BillSummary aggregates all bills.
type BillSummary struct {
	TotalBills    int             `json:"total_bills"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	PaidBills     int             `json:"paid_bills"`
	PendingBills  int             `json:"pending_bills"`
	PendingAmount decimal.Decimal `json:"pending_amount"`
}

// BillAmounts is the arithmetic part of a bill.
type BillAmounts struct {
	Subtotal    decimal.Decimal
	GSTRate     decimal.Decimal
	GSTAmount   decimal.Decimal
	TotalAmount decimal.Decimal
}

// ComputeBillAmounts applies gstRate percent to subtotal. GST is rounded to paise so that
// TotalAmount equals Subtotal + GSTAmount exactly as stored.
func ComputeBillAmounts(subtotal, gstRate decimal.Decimal) (BillAmounts, error) {
	if err := validateGSTRate(gstRate); err != nil {
		return BillAmounts{}, err
	}
	gst := decimal.Zero
	if gstRate.IsPositive() {
		gst = subtotal.Mul(gstRate).Div(hundred).Round(2)
	}
	return BillAmounts{
		Subtotal:    subtotal,
		GSTRate:     gstRate,
		GSTAmount:   gst,
		TotalAmount: subtotal.Add(gst),
	}, nil
}

// FormatBillNumber renders PREFIX-YEAR-NNNN.
func FormatBillNumber(prefix string, year int, seq int64) string {
	if prefix == "" {
		prefix = DefaultBillPrefix
	}
	return fmt.Sprintf("%s-%d-%04d", prefix, year, seq)
}

// ValidPaymentStatus reports whether s is a recognised payment status.
func ValidPaymentStatus(s string) bool {
	return s == PaymentStatusPending || s == PaymentStatusPaid
}

const billSelect = `
	SELECT b.id, b.bill_number, b.order_id, b.customer_id,
	       COALESCE(c.name, ''), COALESCE(c.phone, ''),
	       COALESCE(o.fabric_type, ''), COALESCE(o.quantity_meters, 0),
	       b.subtotal, b.gst_rate, b.gst_amount, b.total_amount, b.payment_status, b.bill_date
	FROM bills b
	LEFT JOIN customers c ON c.id = b.customer_id
	LEFT JOIN orders o    ON o.id = b.order_id`

func scanBill(row pgx.Row) (*Bill, error) {
	var b Bill
	if err := row.Scan(&b.ID, &b.BillNumber, &b.OrderID, &b.CustomerID,
		&b.CustomerName, &b.CustomerPhone, &b.FabricType, &b.QuantityMeters,
		&b.Subtotal, &b.GSTRate, &b.GSTAmount, &b.TotalAmount, &b.PaymentStatus, &b.BillDate); err != nil {
		return nil, err
	}
	return &b, nil
}

// BillInput is the input to GenerateBill. A zero CustomerID means the order's customer.
type BillInput struct {
	OrderID    int
	CustomerID int
	GSTRate    decimal.Decimal
}
