package core

import (
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Defaults applied when a production receipt omits the fabric description.
var (
	DefaultProducedFabricType  = "Cotton Fabric"
	DefaultProducedFabricColor = "White"
	DefaultProducedRate        = decimal.NewFromInt(100)
)

// RawMaterialShipment tracks raw material sent to a mill and the fabric that came back.
type RawMaterialShipment struct {
	ID                   int                 `json:"id"`
	MillID               int                 `json:"mill_id"`
	MillName             string              `json:"mill_name,omitempty"` // joined from mills
	MaterialType         string              `json:"material_type"`
	QuantityKg           decimal.Decimal     `json:"quantity_kg"`
	Status               string              `json:"status"`
	FabricReceivedMeters decimal.NullDecimal `json:"fabric_received_meters"`
	FabricType           *string             `json:"fabric_type"`
	FabricColor          *string             `json:"fabric_color"`
	SentDate             time.Time           `json:"sent_date"`
	ReceivedDate         *time.Time          `json:"received_date"`
}

// ShipmentInput is the input to SendToMill.
type ShipmentInput struct {
	MillID       int
	MaterialType string
	QuantityKg   decimal.Decimal
}

// ProductionReceipt records finished fabric coming back from a mill.
// Empty FabricType/FabricColor and a zero RatePerMeter fall back to the production defaults.
type ProductionReceipt struct {
	FabricReceivedMeters decimal.Decimal
	FabricType           string
	FabricColor          string
	RatePerMeter         decimal.Decimal
}

// ProductionResult is the completed shipment and the inventory line it fed.
type ProductionResult struct {
	Shipment *RawMaterialShipment `json:"shipment"`
	Item     *InventoryItem       `json:"inventory_item"`
}

// ShipmentFilter narrows ListShipments.
type ShipmentFilter struct {
	MillID int
	Status string
}

// MillPerformance aggregates every shipment sent to one mill.
type MillPerformance struct {
	MillID                    int             `json:"mill_id"`
	MillName                  string          `json:"mill_name"`
	TotalRawMaterialKg        decimal.Decimal `json:"total_raw_material_kg"`
	TotalFabricReceivedMeters decimal.Decimal `json:"total_fabric_received_meters"`
	PendingProductionCount    int             `json:"pending_production_count"`
	CompletedCount            int             `json:"completed_count"`
}

func (r ProductionReceipt) withDefaults() ProductionReceipt {
	if r.FabricType == "" {
		r.FabricType = DefaultProducedFabricType
	}
	if r.FabricColor == "" {
		r.FabricColor = DefaultProducedFabricColor
	}
	if r.RatePerMeter.IsZero() {
		r.RatePerMeter = DefaultProducedRate
	}
	return r
}

const shipmentSelect = `
	SELECT r.id, r.mill_id, COALESCE(m.mill_name, ''), r.material_type, r.quantity_kg, r.status,
	       r.fabric_received_meters, r.fabric_type, r.fabric_color, r.sent_date, r.received_date
	FROM raw_materials r
	LEFT JOIN mills m ON m.id = r.mill_id`

func scanShipment(row pgx.Row) (*RawMaterialShipment, error) {
	var s RawMaterialShipment
	if err := row.Scan(&s.ID, &s.MillID, &s.MillName, &s.MaterialType, &s.QuantityKg, &s.Status,
		&s.FabricReceivedMeters, &s.FabricType, &s.FabricColor, &s.SentDate, &s.ReceivedDate); err != nil {
		return nil, err
	}
	return &s, nil
}
