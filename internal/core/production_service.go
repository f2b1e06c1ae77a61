package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"rk-textiles/internal/logger"
	"rk-textiles/internal/metrics"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProductionService tracks mills and the raw material sent to them, and feeds
// finished fabric back into inventory.
type ProductionService interface {
	// Mills
	CreateMill(ctx context.Context, in MillInput) (*Mill, error)
	ListMills(ctx context.Context) ([]Mill, error)
	GetMill(ctx context.Context, id int) (*Mill, error)

	// Shipments
	SendToMill(ctx context.Context, in ShipmentInput) (*RawMaterialShipment, error)
	// RecordProduction completes a shipment and adds the received fabric to inventory
	// in the same transaction. A shipment can only be completed once.
	RecordProduction(ctx context.Context, shipmentID int, receipt ProductionReceipt) (*ProductionResult, error)
	ListShipments(ctx context.Context, filter ShipmentFilter) ([]RawMaterialShipment, error)
	MillPerformance(ctx context.Context) ([]MillPerformance, error)
}

type productionService struct {
	pool      *pgxpool.Pool
	inventory InventoryService
}

func NewProductionService(pool *pgxpool.Pool, inventory InventoryService) ProductionService {
	return &productionService{pool: pool, inventory: inventory}
}

// ── Mills ────────────────────────────────────────────────────────────────────

func (s *productionService) CreateMill(ctx context.Context, in MillInput) (*Mill, error) {
	in.MillName = strings.TrimSpace(in.MillName)
	if in.MillName == "" {
		return nil, invalid("mill_name", "is required")
	}

	m, err := scanMill(s.pool.QueryRow(ctx, `
		INSERT INTO mills (mill_name, location, contact_person, phone)
		VALUES ($1, $2, $3, $4)
		RETURNING `+millColumns,
		in.MillName, in.Location, in.ContactPerson, in.Phone))
	if err != nil {
		return nil, fmt.Errorf("create mill %q: %w", in.MillName, err)
	}
	return m, nil
}

func (s *productionService) ListMills(ctx context.Context) ([]Mill, error) {
	rows, err := s.pool.Query(ctx, "SELECT "+millColumns+" FROM mills ORDER BY mill_name, id")
	if err != nil {
		return nil, fmt.Errorf("list mills: %w", err)
	}
	defer rows.Close()

	mills := []Mill{}
	for rows.Next() {
		m, err := scanMill(rows)
		if err != nil {
			return nil, fmt.Errorf("scan mill: %w", err)
		}
		mills = append(mills, *m)
	}
	return mills, rows.Err()
}

func (s *productionService) GetMill(ctx context.Context, id int) (*Mill, error) {
	m, err := scanMill(s.pool.QueryRow(ctx, "SELECT "+millColumns+" FROM mills WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("mill", id)
		}
		return nil, fmt.Errorf("get mill %d: %w", id, err)
	}
	return m, nil
}

// ── Shipments ────────────────────────────────────────────────────────────────

func (s *productionService) SendToMill(ctx context.Context, in ShipmentInput) (*RawMaterialShipment, error) {
	if in.MillID <= 0 {
		return nil, invalid("mill_id", "is required")
	}
	if strings.TrimSpace(in.MaterialType) == "" {
		return nil, invalid("material_type", "is required")
	}
	if !in.QuantityKg.IsPositive() {
		return nil, invalid("quantity_kg", "must be positive, got %s", in.QuantityKg)
	}
	if err := checkScale("quantity_kg", in.QuantityKg); err != nil {
		return nil, err
	}

	if _, err := s.GetMill(ctx, in.MillID); err != nil {
		return nil, err
	}

	var id int
	err := s.pool.QueryRow(ctx, `
		INSERT INTO raw_materials (mill_id, material_type, quantity_kg, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, in.MillID, in.MaterialType, in.QuantityKg, ShipmentStatusInProduction).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("send raw material to mill %d: %w", in.MillID, err)
	}

	shipment, err := scanShipment(s.pool.QueryRow(ctx, shipmentSelect+" WHERE r.id = $1", id))
	if err != nil {
		return nil, fmt.Errorf("reload shipment %d: %w", id, err)
	}
	return shipment, nil
}

func (s *productionService) RecordProduction(ctx context.Context, shipmentID int, receipt ProductionReceipt) (*ProductionResult, error) {
	if !receipt.FabricReceivedMeters.IsPositive() {
		return nil, invalid("fabric_received_meters", "must be positive, got %s", receipt.FabricReceivedMeters)
	}
	if receipt.RatePerMeter.IsNegative() {
		return nil, invalid("rate_per_meter", "cannot be negative, got %s", receipt.RatePerMeter)
	}
	if err := checkScale("fabric_received_meters", receipt.FabricReceivedMeters); err != nil {
		return nil, err
	}
	if err := checkScale("rate_per_meter", receipt.RatePerMeter); err != nil {
		return nil, err
	}
	receipt = receipt.withDefaults()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	shipment, err := scanShipment(tx.QueryRow(ctx, shipmentSelect+" WHERE r.id = $1 FOR UPDATE OF r", shipmentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("shipment", shipmentID)
		}
		return nil, fmt.Errorf("lock shipment %d: %w", shipmentID, err)
	}
	if shipment.Status == ShipmentStatusCompleted {
		return nil, conflict("shipment %d has already been received", shipmentID)
	}

	_, err = tx.Exec(ctx, `
		UPDATE raw_materials
		SET status = $1,
		    fabric_received_meters = $2,
		    fabric_type = $3,
		    fabric_color = $4,
		    received_date = NOW()
		WHERE id = $5
	`, ShipmentStatusCompleted, receipt.FabricReceivedMeters, receipt.FabricType, receipt.FabricColor, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("complete shipment %d: %w", shipmentID, err)
	}

	item, _, err := s.inventory.AddStockTx(ctx, tx, StockReceipt{
		FabricType:     receipt.FabricType,
		FabricColor:    receipt.FabricColor,
		QuantityMeters: receipt.FabricReceivedMeters,
		RatePerMeter:   receipt.RatePerMeter,
		Location:       DefaultProductionLocation,
	})
	if err != nil {
		return nil, err
	}

	completed, err := scanShipment(tx.QueryRow(ctx, shipmentSelect+" WHERE r.id = $1", shipmentID))
	if err != nil {
		return nil, fmt.Errorf("reload shipment %d: %w", shipmentID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit production receipt: %w", err)
	}

	metrics.MetersReceived.WithLabelValues("production").Add(receipt.FabricReceivedMeters.InexactFloat64())
	logger.Info(ctx).Int("shipment_id", shipmentID).Int("inventory_id", item.ID).
		Str("fabric_received_meters", receipt.FabricReceivedMeters.String()).Msg("production received")
	return &ProductionResult{Shipment: completed, Item: item}, nil
}

func (s *productionService) ListShipments(ctx context.Context, filter ShipmentFilter) ([]RawMaterialShipment, error) {
	var conds conditions
	if filter.MillID > 0 {
		conds.add("r.mill_id = $%d", filter.MillID)
	}
	if filter.Status != "" {
		conds.add("r.status = $%d", filter.Status)
	}

	rows, err := s.pool.Query(ctx, shipmentSelect+conds.where()+" ORDER BY r.sent_date DESC, r.id DESC", conds.args...)
	if err != nil {
		return nil, fmt.Errorf("list shipments: %w", err)
	}
	defer rows.Close()

	shipments := []RawMaterialShipment{}
	for rows.Next() {
		sh, err := scanShipment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan shipment: %w", err)
		}
		shipments = append(shipments, *sh)
	}
	return shipments, rows.Err()
}

func (s *productionService) MillPerformance(ctx context.Context) ([]MillPerformance, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT m.id, m.mill_name,
		       COALESCE(SUM(r.quantity_kg), 0),
		       COALESCE(SUM(r.fabric_received_meters), 0),
		       COUNT(r.id) FILTER (WHERE r.status = $1),
		       COUNT(r.id) FILTER (WHERE r.status = $2)
		FROM mills m
		LEFT JOIN raw_materials r ON r.mill_id = m.id
		GROUP BY m.id, m.mill_name
		ORDER BY m.mill_name, m.id
	`, ShipmentStatusInProduction, ShipmentStatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("mill performance: %w", err)
	}
	defer rows.Close()

	perf := []MillPerformance{}
	for rows.Next() {
		var p MillPerformance
		if err := rows.Scan(&p.MillID, &p.MillName, &p.TotalRawMaterialKg, &p.TotalFabricReceivedMeters,
			&p.PendingProductionCount, &p.CompletedCount); err != nil {
			return nil, fmt.Errorf("scan mill performance: %w", err)
		}
		perf = append(perf, p)
	}
	return perf, rows.Err()
}
