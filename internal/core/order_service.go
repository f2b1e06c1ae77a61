package core

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"rk-textiles/internal/logger"
	"rk-textiles/internal/metrics"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// OrderService places orders against inventory and reverses them on cancellation.
type OrderService interface {
	// Order lifecycle
	// CreateOrder consumes stock and inserts the order in one transaction.
	CreateOrder(ctx context.Context, in OrderInput) (*Order, error)
	// CancelOrder deletes the order, restoring its stock first when it is still Pending.
	CancelOrder(ctx context.Context, orderID int) (*Cancellation, error)
	UpdateOrder(ctx context.Context, orderID int, upd OrderUpdate) (*Order, error)

	// Queries
	// CheckAvailability is advisory only: nothing is held between it and CreateOrder.
	CheckAvailability(ctx context.Context, fabricType string, qty decimal.Decimal) (*Availability, error)
	GetOrder(ctx context.Context, orderID int) (*Order, error)
	ListOrders(ctx context.Context, filter OrderFilter) ([]Order, error)
}

// Cancellation reports a cancelled order and whether its meters went back into stock.
type Cancellation struct {
	Order         *Order `json:"order"`
	StockRestored bool   `json:"stock_restored"`
}

type orderService struct {
	pool      *pgxpool.Pool
	inventory InventoryService
}

func NewOrderService(pool *pgxpool.Pool, inventory InventoryService) OrderService {
	return &orderService{pool: pool, inventory: inventory}
}

// ── Order lifecycle ──────────────────────────────────────────────────────────

func (s *orderService) CreateOrder(ctx context.Context, in OrderInput) (*Order, error) {
	if err := validateOrderInput(in); err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var exists bool
	if err := tx.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM customers WHERE id = $1)", in.CustomerID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check customer %d: %w", in.CustomerID, err)
	}
	if !exists {
		return nil, notFound("customer", in.CustomerID)
	}

	// Lock, check and decrement. The row lock is held until commit, so a concurrent
	// order for the same fabric waits here and then sees the reduced balance.
	if _, err := s.inventory.ConsumeStockTx(ctx, tx, in.FabricType, in.QuantityMeters); err != nil {
		return nil, err
	}

	var orderID int
	err = tx.QueryRow(ctx, `
		INSERT INTO orders (customer_id, fabric_type, quantity_meters, rate_per_meter, total_amount, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, in.CustomerID, in.FabricType, in.QuantityMeters, in.RatePerMeter,
		OrderTotal(in.QuantityMeters, in.RatePerMeter), OrderStatusPending, in.Notes).Scan(&orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}

	order, err := scanOrder(tx.QueryRow(ctx, orderSelect+" WHERE o.id = $1", orderID))
	if err != nil {
		return nil, fmt.Errorf("failed to reload order %d: %w", orderID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit order: %w", err)
	}

	metrics.OrdersCreated.Inc()
	metrics.MetersConsumed.Add(in.QuantityMeters.InexactFloat64())
	logger.Info(ctx).Int("order_id", order.ID).Str("fabric_type", order.FabricType).
		Str("quantity_meters", order.QuantityMeters.String()).Msg("order created")
	return order, nil
}

func (s *orderService) CancelOrder(ctx context.Context, orderID int) (*Cancellation, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	order, err := lockOrder(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}

	restored := false
	if order.Status == OrderStatusPending {
		_, err := s.inventory.RestoreStockTx(ctx, tx, order.FabricType, order.QuantityMeters)
		var nf *NotFoundError
		switch {
		case err == nil:
			restored = true
		case errors.As(err, &nf):
			logger.Warn(ctx).Int("order_id", order.ID).Str("fabric_type", order.FabricType).
				Str("quantity_meters", order.QuantityMeters.String()).
				Msg("inventory item missing on cancel; stock not restored")
		default:
			return nil, err
		}
	}

	if _, err := tx.Exec(ctx, "DELETE FROM orders WHERE id = $1", orderID); err != nil {
		return nil, fmt.Errorf("failed to delete order %d: %w", orderID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit cancellation: %w", err)
	}

	metrics.OrdersCancelled.WithLabelValues(strconv.FormatBool(restored)).Inc()
	return &Cancellation{Order: order, StockRestored: restored}, nil
}

func (s *orderService) UpdateOrder(ctx context.Context, orderID int, upd OrderUpdate) (*Order, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	order, err := lockOrder(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}

	if upd.Status != nil && *upd.Status != order.Status {
		if *upd.Status != OrderStatusCompleted {
			if *upd.Status != OrderStatusPending {
				return nil, invalid("status", "must be %s or %s, got %q", OrderStatusPending, OrderStatusCompleted, *upd.Status)
			}
			return nil, conflict("order %d is %s and cannot return to %s", orderID, order.Status, *upd.Status)
		}
	}

	if _, err := tx.Exec(ctx, `
		UPDATE orders
		SET status = COALESCE($1, status),
		    notes  = COALESCE($2, notes)
		WHERE id = $3
	`, upd.Status, upd.Notes, orderID); err != nil {
		return nil, fmt.Errorf("failed to update order %d: %w", orderID, err)
	}

	updated, err := scanOrder(tx.QueryRow(ctx, orderSelect+" WHERE o.id = $1", orderID))
	if err != nil {
		return nil, fmt.Errorf("failed to reload order %d: %w", orderID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit order update: %w", err)
	}
	return updated, nil
}

// ── Queries ──────────────────────────────────────────────────────────────────

func (s *orderService) CheckAvailability(ctx context.Context, fabricType string, qty decimal.Decimal) (*Availability, error) {
	if fabricType == "" {
		return nil, invalid("fabric_type", "is required")
	}
	if !qty.IsPositive() {
		return nil, invalid("quantity_meters", "must be positive, got %s", qty)
	}
	if err := checkScale("quantity_meters", qty); err != nil {
		return nil, err
	}

	result := &Availability{FabricType: fabricType, RequestedQuantity: qty}

	item, err := s.inventory.FindItem(ctx, fabricType, "")
	if err != nil {
		var nf *NotFoundError
		if errors.As(err, &nf) {
			result.Message = fmt.Sprintf("fabric type %s not found in inventory", fabricType)
			return result, nil
		}
		return nil, err
	}

	result.AvailableQuantity = item.QuantityMeters
	result.RatePerMeter = item.RatePerMeter
	result.EstimatedAmount = OrderTotal(qty, item.RatePerMeter)
	result.Available = item.QuantityMeters.GreaterThanOrEqual(qty)
	if !result.Available {
		result.Message = fmt.Sprintf("only %s meters of %s available", item.QuantityMeters, fabricType)
	}
	return result, nil
}

func (s *orderService) GetOrder(ctx context.Context, orderID int) (*Order, error) {
	order, err := scanOrder(s.pool.QueryRow(ctx, orderSelect+" WHERE o.id = $1", orderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("order", orderID)
		}
		return nil, fmt.Errorf("failed to fetch order %d: %w", orderID, err)
	}
	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, filter OrderFilter) ([]Order, error) {
	var conds conditions
	if filter.CustomerID > 0 {
		conds.add("o.customer_id = $%d", filter.CustomerID)
	}
	if filter.Status != "" {
		conds.add("o.status = $%d", filter.Status)
	}
	return queryOrders(ctx, s.pool, orderSelect+conds.where()+" ORDER BY o.order_date DESC, o.id DESC", conds.args...)
}

// lockOrder reads an order FOR UPDATE inside tx.
func lockOrder(ctx context.Context, tx pgx.Tx, orderID int) (*Order, error) {
	order, err := scanOrder(tx.QueryRow(ctx, orderSelect+" WHERE o.id = $1 FOR UPDATE OF o", orderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("order", orderID)
		}
		return nil, fmt.Errorf("failed to lock order %d: %w", orderID, err)
	}
	return order, nil
}

func queryOrders(ctx context.Context, q querier, sql string, args ...any) ([]Order, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := []Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}
