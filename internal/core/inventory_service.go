package core

import (
	"context"
	"errors"
	"fmt"

	"rk-textiles/internal/db"
	"rk-textiles/internal/metrics"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// InventoryService is the inventory ledger: per (fabric_type, fabric_color) stock and rate.
// Quantity only moves through AddStock, ConsumeStock and RestoreStock, and never goes below zero.
type InventoryService interface {
	// Standalone operations (manage their own transactions).
	ListItems(ctx context.Context, filter InventoryFilter) ([]InventoryItem, error)
	GetItem(ctx context.Context, id int) (*InventoryItem, error)
	// FindItem looks an item up by type, narrowed by color when fabricColor is non-empty.
	FindItem(ctx context.Context, fabricType, fabricColor string) (*InventoryItem, error)
	// AddStock accumulates quantity onto the (type, color) item, creating it on first receipt.
	// The returned bool is true when the item was created.
	AddStock(ctx context.Context, in StockReceipt) (*InventoryItem, bool, error)
	ConsumeStock(ctx context.Context, fabricType string, qty decimal.Decimal) (*InventoryItem, error)
	RestoreStock(ctx context.Context, fabricType string, qty decimal.Decimal) (*InventoryItem, error)
	UpdateItem(ctx context.Context, id int, upd InventoryItemUpdate) (*InventoryItem, error)
	DeleteItem(ctx context.Context, id int) error
	LowStock(ctx context.Context) ([]InventoryItem, error)
	Summary(ctx context.Context) (*InventorySummary, error)

	// TX-scoped operations: work within a caller-provided transaction.
	// Used by the order and production workflows to keep stock movements atomic with their own writes.
	AddStockTx(ctx context.Context, tx pgx.Tx, in StockReceipt) (*InventoryItem, bool, error)
	// ConsumeStockTx locks the first item of fabricType and decrements it.
	// Fails with *NotFoundError when no item of that type exists and
	// *InsufficientStockError when the item holds less than qty.
	ConsumeStockTx(ctx context.Context, tx pgx.Tx, fabricType string, qty decimal.Decimal) (*InventoryItem, error)
	// RestoreStockTx increments the first item of fabricType. Fails with *NotFoundError when it is gone.
	RestoreStockTx(ctx context.Context, tx pgx.Tx, fabricType string, qty decimal.Decimal) (*InventoryItem, error)
}

type inventoryService struct {
	pool *pgxpool.Pool
}

func NewInventoryService(pool *pgxpool.Pool) InventoryService {
	return &inventoryService{pool: pool}
}

// ── Standalone operations ─────────────────────────────────────────────────────

func (s *inventoryService) ListItems(ctx context.Context, filter InventoryFilter) ([]InventoryItem, error) {
	var conds conditions
	if filter.FabricType != "" {
		conds.add("fabric_type = $%d", filter.FabricType)
	}
	if filter.LowStock {
		conds.add("quantity_meters < $%d", LowStockThreshold)
	}

	return s.queryItems(ctx,
		"SELECT "+inventoryColumns+" FROM inventory"+conds.where()+" ORDER BY last_updated DESC, id",
		conds.args...)
}

func (s *inventoryService) GetItem(ctx context.Context, id int) (*InventoryItem, error) {
	item, err := scanInventoryItem(s.pool.QueryRow(ctx,
		"SELECT "+inventoryColumns+" FROM inventory WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("inventory item", id)
		}
		return nil, fmt.Errorf("failed to fetch inventory item %d: %w", id, err)
	}
	return item, nil
}

func (s *inventoryService) FindItem(ctx context.Context, fabricType, fabricColor string) (*InventoryItem, error) {
	var (
		item *InventoryItem
		err  error
	)
	if fabricColor == "" {
		item, err = scanInventoryItem(s.pool.QueryRow(ctx,
			"SELECT "+inventoryColumns+" FROM inventory WHERE fabric_type = $1 ORDER BY id LIMIT 1",
			fabricType))
	} else {
		item, err = scanInventoryItem(s.pool.QueryRow(ctx,
			"SELECT "+inventoryColumns+" FROM inventory WHERE fabric_type = $1 AND fabric_color = $2",
			fabricType, fabricColor))
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("fabric type", fabricKey(fabricType, fabricColor))
		}
		return nil, fmt.Errorf("failed to look up fabric %s: %w", fabricType, err)
	}
	return item, nil
}

func (s *inventoryService) AddStock(ctx context.Context, in StockReceipt) (*InventoryItem, bool, error) {
	var (
		item    *InventoryItem
		created bool
	)
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		var err error
		item, created, err = s.AddStockTx(ctx, tx, in)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	metrics.MetersReceived.WithLabelValues("manual").Add(in.QuantityMeters.InexactFloat64())
	return item, created, nil
}

func (s *inventoryService) ConsumeStock(ctx context.Context, fabricType string, qty decimal.Decimal) (*InventoryItem, error) {
	var item *InventoryItem
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		var err error
		item, err = s.ConsumeStockTx(ctx, tx, fabricType, qty)
		return err
	})
	if err != nil {
		return nil, err
	}
	metrics.MetersConsumed.Add(qty.InexactFloat64())
	return item, nil
}

func (s *inventoryService) RestoreStock(ctx context.Context, fabricType string, qty decimal.Decimal) (*InventoryItem, error) {
	var item *InventoryItem
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		var err error
		item, err = s.RestoreStockTx(ctx, tx, fabricType, qty)
		return err
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *inventoryService) UpdateItem(ctx context.Context, id int, upd InventoryItemUpdate) (*InventoryItem, error) {
	if upd.FabricColor != nil && *upd.FabricColor == "" {
		return nil, invalid("fabric_color", "cannot be empty")
	}
	if upd.RatePerMeter != nil && upd.RatePerMeter.IsNegative() {
		return nil, invalid("rate_per_meter", "cannot be negative, got %s", *upd.RatePerMeter)
	}
	if upd.RatePerMeter != nil {
		if err := checkScale("rate_per_meter", *upd.RatePerMeter); err != nil {
			return nil, err
		}
	}

	item, err := scanInventoryItem(s.pool.QueryRow(ctx, `
		UPDATE inventory
		SET fabric_color   = COALESCE($1, fabric_color),
		    rate_per_meter = COALESCE($2, rate_per_meter),
		    location       = COALESCE($3, location),
		    last_updated   = NOW()
		WHERE id = $4
		RETURNING `+inventoryColumns,
		upd.FabricColor, nullableDecimal(upd.RatePerMeter), upd.Location, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("inventory item", id)
		}
		if db.IsUniqueViolation(err) {
			return nil, conflict("an inventory item with that fabric type and color already exists")
		}
		return nil, fmt.Errorf("failed to update inventory item %d: %w", id, err)
	}
	return item, nil
}

func (s *inventoryService) DeleteItem(ctx context.Context, id int) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM inventory WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete inventory item %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("inventory item", id)
	}
	return nil
}

func (s *inventoryService) LowStock(ctx context.Context) ([]InventoryItem, error) {
	return s.ListItems(ctx, InventoryFilter{LowStock: true})
}

func (s *inventoryService) Summary(ctx context.Context) (*InventorySummary, error) {
	var sum InventorySummary
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE quantity_meters < $1),
		       COALESCE(SUM(quantity_meters), 0),
		       COALESCE(SUM(quantity_meters * rate_per_meter), 0)
		FROM inventory
	`, LowStockThreshold).Scan(&sum.TotalItems, &sum.LowStockCount, &sum.TotalMeters, &sum.TotalValue)
	if err != nil {
		return nil, fmt.Errorf("failed to summarise inventory: %w", err)
	}
	sum.TotalMeters = sum.TotalMeters.Round(2)
	sum.TotalValue = sum.TotalValue.Round(2)
	return &sum, nil
}

// ── TX-scoped operations ──────────────────────────────────────────────────────

func (s *inventoryService) AddStockTx(ctx context.Context, tx pgx.Tx, in StockReceipt) (*InventoryItem, bool, error) {
	if err := validateReceipt(in); err != nil {
		return nil, false, err
	}

	// A single upsert: concurrent receipts for the same key serialise on the unique index.
	var it InventoryItem
	var created bool
	err := tx.QueryRow(ctx, `
		INSERT INTO inventory (fabric_type, fabric_color, quantity_meters, rate_per_meter, location)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (fabric_type, fabric_color) DO UPDATE
		SET quantity_meters = inventory.quantity_meters + EXCLUDED.quantity_meters,
		    rate_per_meter  = EXCLUDED.rate_per_meter,
		    location        = CASE WHEN inventory.location = '' THEN EXCLUDED.location ELSE inventory.location END,
		    last_updated    = NOW()
		RETURNING `+inventoryColumns+`, (xmax = 0)
	`, in.FabricType, in.FabricColor, in.QuantityMeters, in.RatePerMeter, in.Location).Scan(
		&it.ID, &it.FabricType, &it.FabricColor, &it.QuantityMeters,
		&it.RatePerMeter, &it.Location, &it.LastUpdated, &created,
	)
	if err != nil {
		return nil, false, fmt.Errorf("failed to add stock for %s: %w", fabricKey(in.FabricType, in.FabricColor), err)
	}
	return &it, created, nil
}

func (s *inventoryService) ConsumeStockTx(ctx context.Context, tx pgx.Tx, fabricType string, qty decimal.Decimal) (*InventoryItem, error) {
	if !qty.IsPositive() {
		return nil, invalid("quantity_meters", "must be positive, got %s", qty)
	}
	if err := checkScale("quantity_meters", qty); err != nil {
		return nil, err
	}

	item, err := lockFirstOfType(ctx, tx, fabricType)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			metrics.StockRejections.WithLabelValues("not_found").Inc()
			return nil, notFound("fabric type", fabricType)
		}
		return nil, fmt.Errorf("failed to lock inventory for %s: %w", fabricType, err)
	}

	if item.QuantityMeters.LessThan(qty) {
		metrics.StockRejections.WithLabelValues("insufficient").Inc()
		return nil, &InsufficientStockError{FabricType: fabricType, Available: item.QuantityMeters, Requested: qty}
	}

	// Conditional decrement: the row lock makes the guard redundant under normal operation,
	// and the CHECK constraint backs both.
	updated, err := scanInventoryItem(tx.QueryRow(ctx, `
		UPDATE inventory
		SET quantity_meters = quantity_meters - $1, last_updated = NOW()
		WHERE id = $2 AND quantity_meters >= $1
		RETURNING `+inventoryColumns,
		qty, item.ID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || db.IsCheckViolation(err) {
			metrics.StockRejections.WithLabelValues("insufficient").Inc()
			return nil, &InsufficientStockError{FabricType: fabricType, Available: item.QuantityMeters, Requested: qty}
		}
		return nil, fmt.Errorf("failed to consume stock for %s: %w", fabricType, err)
	}
	return updated, nil
}

func (s *inventoryService) RestoreStockTx(ctx context.Context, tx pgx.Tx, fabricType string, qty decimal.Decimal) (*InventoryItem, error) {
	if !qty.IsPositive() {
		return nil, invalid("quantity_meters", "must be positive, got %s", qty)
	}
	if err := checkScale("quantity_meters", qty); err != nil {
		return nil, err
	}

	item, err := lockFirstOfType(ctx, tx, fabricType)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("fabric type", fabricType)
		}
		return nil, fmt.Errorf("failed to lock inventory for %s: %w", fabricType, err)
	}

	restored, err := scanInventoryItem(tx.QueryRow(ctx, `
		UPDATE inventory
		SET quantity_meters = quantity_meters + $1, last_updated = NOW()
		WHERE id = $2
		RETURNING `+inventoryColumns,
		qty, item.ID))
	if err != nil {
		return nil, fmt.Errorf("failed to restore stock for %s: %w", fabricType, err)
	}
	return restored, nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

// lockFirstOfType selects the lowest-id item of fabricType FOR UPDATE.
// Orders match inventory by type only, so this is the single line they draw from.
func lockFirstOfType(ctx context.Context, q querier, fabricType string) (*InventoryItem, error) {
	return scanInventoryItem(q.QueryRow(ctx, `
		SELECT `+inventoryColumns+`
		FROM inventory
		WHERE fabric_type = $1
		ORDER BY id
		LIMIT 1
		FOR UPDATE
	`, fabricType))
}

func (s *inventoryService) queryItems(ctx context.Context, sql string, args ...any) ([]InventoryItem, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory: %w", err)
	}
	defer rows.Close()

	items := []InventoryItem{}
	for rows.Next() {
		it, err := scanInventoryItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan inventory item: %w", err)
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

func fabricKey(fabricType, fabricColor string) string {
	if fabricColor == "" {
		return fabricType
	}
	return fabricType + "/" + fabricColor
}

func nullableDecimal(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return *d
}
