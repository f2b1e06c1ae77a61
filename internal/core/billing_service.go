package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rk-textiles/internal/db"
	"rk-textiles/internal/logger"
	"rk-textiles/internal/metrics"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BillingService issues bills for orders and tracks their payment.
type BillingService interface {
	// GenerateBill bills an order once: numbers the bill, stores the amounts and marks the order Completed,
	// all in one transaction.
	GenerateBill(ctx context.Context, in BillInput) (*Bill, error)
	SetPaymentStatus(ctx context.Context, billID int, status string) (*Bill, error)
	Summary(ctx context.Context) (*BillSummary, error)
	ListBills(ctx context.Context, filter BillFilter) ([]Bill, error)
	// GetBill returns the bill with its customer and order embedded.
	GetBill(ctx context.Context, billID int) (*BillDetail, error)
}

type billingService struct {
	pool   *pgxpool.Pool
	prefix string
	now    func() time.Time
}

// NewBillingService returns a BillingService numbering bills as prefix-YEAR-NNNN.
// An empty prefix selects DefaultBillPrefix.
func NewBillingService(pool *pgxpool.Pool, prefix string) BillingService {
	if prefix == "" {
		prefix = DefaultBillPrefix
	}
	return &billingService{pool: pool, prefix: prefix, now: time.Now}
}

func (s *billingService) GenerateBill(ctx context.Context, in BillInput) (*Bill, error) {
	if in.OrderID <= 0 {
		return nil, invalid("order_id", "is required")
	}
	if err := validateGSTRate(in.GSTRate); err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	order, err := lockOrder(ctx, tx, in.OrderID)
	if err != nil {
		return nil, err
	}

	customerID := in.CustomerID
	if customerID == 0 {
		customerID = order.CustomerID
	} else if customerID != order.CustomerID {
		return nil, invalid("customer_id", "order %d belongs to customer %d, not %d", order.ID, order.CustomerID, customerID)
	}

	var billed bool
	if err := tx.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM bills WHERE order_id = $1)", order.ID).Scan(&billed); err != nil {
		return nil, fmt.Errorf("failed to check existing bill for order %d: %w", order.ID, err)
	}
	if billed {
		return nil, conflict("order %d has already been billed", order.ID)
	}

	amounts, err := ComputeBillAmounts(order.TotalAmount, in.GSTRate)
	if err != nil {
		return nil, err
	}

	billDate := s.now()
	year := billDate.Year()

	// Per-year counter row; the upsert serialises concurrent bills and never reuses a number.
	var seq int64
	err = tx.QueryRow(ctx, `
		INSERT INTO bill_sequences (year, last_number)
		VALUES ($1, 1)
		ON CONFLICT (year) DO UPDATE SET last_number = bill_sequences.last_number + 1
		RETURNING last_number
	`, year).Scan(&seq)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate bill number: %w", err)
	}
	billNumber := FormatBillNumber(s.prefix, year, seq)

	var billID int
	err = tx.QueryRow(ctx, `
		INSERT INTO bills (bill_number, order_id, customer_id, subtotal, gst_rate, gst_amount, total_amount, payment_status, bill_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`, billNumber, order.ID, customerID, amounts.Subtotal, amounts.GSTRate, amounts.GSTAmount,
		amounts.TotalAmount, PaymentStatusPending, billDate).Scan(&billID)
	if err != nil {
		return nil, billInsertError(err, order.ID, billNumber)
	}

	if _, err := tx.Exec(ctx, "UPDATE orders SET status = $1 WHERE id = $2", OrderStatusCompleted, order.ID); err != nil {
		return nil, fmt.Errorf("failed to complete order %d: %w", order.ID, err)
	}

	bill, err := scanBill(tx.QueryRow(ctx, billSelect+" WHERE b.id = $1", billID))
	if err != nil {
		return nil, fmt.Errorf("failed to reload bill %d: %w", billID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit bill: %w", err)
	}

	metrics.BillsGenerated.Inc()
	logger.Info(ctx).Str("bill_number", bill.BillNumber).Int("order_id", order.ID).
		Str("total_amount", bill.TotalAmount.String()).Msg("bill generated")
	return bill, nil
}

func (s *billingService) SetPaymentStatus(ctx context.Context, billID int, status string) (*Bill, error) {
	if !ValidPaymentStatus(status) {
		return nil, invalid("payment_status", "must be %s or %s, got %q", PaymentStatusPending, PaymentStatusPaid, status)
	}

	tag, err := s.pool.Exec(ctx, "UPDATE bills SET payment_status = $1 WHERE id = $2", status, billID)
	if err != nil {
		return nil, fmt.Errorf("failed to update payment status of bill %d: %w", billID, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, notFound("bill", billID)
	}

	bill, err := scanBill(s.pool.QueryRow(ctx, billSelect+" WHERE b.id = $1", billID))
	if err != nil {
		return nil, fmt.Errorf("failed to reload bill %d: %w", billID, err)
	}
	return bill, nil
}

func (s *billingService) Summary(ctx context.Context) (*BillSummary, error) {
	var sum BillSummary
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(total_amount), 0),
		       COUNT(*) FILTER (WHERE payment_status = $1),
		       COUNT(*) FILTER (WHERE payment_status = $2),
		       COALESCE(SUM(total_amount) FILTER (WHERE payment_status = $2), 0)
		FROM bills
	`, PaymentStatusPaid, PaymentStatusPending).Scan(
		&sum.TotalBills, &sum.TotalRevenue, &sum.PaidBills, &sum.PendingBills, &sum.PendingAmount,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to summarise bills: %w", err)
	}
	sum.TotalRevenue = sum.TotalRevenue.Round(2)
	sum.PendingAmount = sum.PendingAmount.Round(2)
	return &sum, nil
}

func (s *billingService) ListBills(ctx context.Context, filter BillFilter) ([]Bill, error) {
	var conds conditions
	if filter.CustomerID > 0 {
		conds.add("b.customer_id = $%d", filter.CustomerID)
	}
	if filter.PaymentStatus != "" {
		conds.add("b.payment_status = $%d", filter.PaymentStatus)
	}

	rows, err := s.pool.Query(ctx, billSelect+conds.where()+" ORDER BY b.bill_date DESC, b.id DESC", conds.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bills: %w", err)
	}
	defer rows.Close()

	bills := []Bill{}
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}
		bills = append(bills, *b)
	}
	return bills, rows.Err()
}

func (s *billingService) GetBill(ctx context.Context, billID int) (*BillDetail, error) {
	bill, err := scanBill(s.pool.QueryRow(ctx, billSelect+" WHERE b.id = $1", billID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("bill", billID)
		}
		return nil, fmt.Errorf("failed to fetch bill %d: %w", billID, err)
	}

	detail := &BillDetail{Bill: *bill}

	detail.Customer, err = scanCustomer(s.pool.QueryRow(ctx,
		"SELECT "+customerColumns+" FROM customers WHERE id = $1", bill.CustomerID))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch customer %d for bill %d: %w", bill.CustomerID, billID, err)
	}

	// The order is gone when it was cancelled after billing.
	if bill.OrderID != nil {
		detail.Order, err = scanOrder(s.pool.QueryRow(ctx, orderSelect+" WHERE o.id = $1", *bill.OrderID))
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("failed to fetch order %d for bill %d: %w", *bill.OrderID, billID, err)
		}
	}
	return detail, nil
}

// billInsertError classifies a failed bills INSERT by the unique constraint it hit.
func billInsertError(err error, orderID int, billNumber string) error {
	if !db.IsUniqueViolation(err) {
		return fmt.Errorf("failed to insert bill: %w", err)
	}
	switch db.ConstraintName(err) {
	case "bills_order_id_key":
		return conflict("order %d has already been billed", orderID)
	case "bills_bill_number_key":
		return conflict("bill number %s is already in use", billNumber)
	default:
		return conflict("bill for order %d conflicts with an existing bill", orderID)
	}
}
