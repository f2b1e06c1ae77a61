package core_test

import (
	"testing"

	"rk-textiles/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProduction_SendAndReceive(t *testing.T) {
	svc, ctx := setupTestDB(t)

	mill, err := svc.production.CreateMill(ctx, core.MillInput{MillName: "Arvind Mills", Location: "Ahmedabad"})
	require.NoError(t, err)

	shipment, err := svc.production.SendToMill(ctx, core.ShipmentInput{
		MillID: mill.ID, MaterialType: "Cotton Yarn", QuantityKg: dec("500"),
	})
	require.NoError(t, err)
	assert.Equal(t, core.ShipmentStatusInProduction, shipment.Status)
	assert.False(t, shipment.FabricReceivedMeters.Valid)
	assert.Nil(t, shipment.ReceivedDate)
	assert.Equal(t, "Arvind Mills", shipment.MillName)

	// Defaults apply when the description is omitted.
	res, err := svc.production.RecordProduction(ctx, shipment.ID, core.ProductionReceipt{
		FabricReceivedMeters: dec("1200"),
	})
	require.NoError(t, err)
	assert.Equal(t, core.ShipmentStatusCompleted, res.Shipment.Status)
	assert.NotNil(t, res.Shipment.ReceivedDate)
	assert.True(t, res.Shipment.FabricReceivedMeters.Decimal.Equal(dec("1200")))
	assert.Equal(t, core.DefaultProducedFabricType, res.Item.FabricType)
	assert.Equal(t, core.DefaultProducedFabricColor, res.Item.FabricColor)
	assert.True(t, res.Item.RatePerMeter.Equal(core.DefaultProducedRate))
	assert.Equal(t, core.DefaultProductionLocation, res.Item.Location)
	assert.True(t, res.Item.QuantityMeters.Equal(dec("1200")))

	// A second receipt for the same shipment is refused and inventory is unchanged.
	_, err = svc.production.RecordProduction(ctx, shipment.ID, core.ProductionReceipt{FabricReceivedMeters: dec("10")})
	var ce *core.ConflictError
	require.ErrorAs(t, err, &ce)
	assert.True(t, stockOf(t, ctx, svc, core.DefaultProducedFabricType).Equal(dec("1200")))
}

func TestProduction_ReceiptAccumulatesOntoExistingItem(t *testing.T) {
	svc, ctx := setupTestDB(t)
	seedCottonAndCustomer(t, ctx, svc)

	mill, err := svc.production.CreateMill(ctx, core.MillInput{MillName: "Raymond"})
	require.NoError(t, err)
	shipment, err := svc.production.SendToMill(ctx, core.ShipmentInput{MillID: mill.ID, MaterialType: "Cotton Yarn", QuantityKg: dec("50")})
	require.NoError(t, err)

	res, err := svc.production.RecordProduction(ctx, shipment.ID, core.ProductionReceipt{
		FabricReceivedMeters: dec("40"),
		FabricType:           "Cotton Fabric",
		FabricColor:          "White",
		RatePerMeter:         dec("110"),
	})
	require.NoError(t, err)
	assert.True(t, res.Item.QuantityMeters.Equal(dec("140")))
	assert.True(t, res.Item.RatePerMeter.Equal(dec("110")))
	assert.Equal(t, "Rack A", res.Item.Location)
}

func TestProduction_Validation(t *testing.T) {
	svc, ctx := setupTestDB(t)

	var nf *core.NotFoundError
	_, err := svc.production.SendToMill(ctx, core.ShipmentInput{MillID: 77, MaterialType: "Yarn", QuantityKg: dec("1")})
	require.ErrorAs(t, err, &nf)

	var ve *core.ValidationError
	_, err = svc.production.SendToMill(ctx, core.ShipmentInput{MillID: 77, MaterialType: "Yarn", QuantityKg: dec("0")})
	require.ErrorAs(t, err, &ve)

	_, err = svc.production.RecordProduction(ctx, 77, core.ProductionReceipt{FabricReceivedMeters: dec("5")})
	require.ErrorAs(t, err, &nf)

	_, err = svc.production.CreateMill(ctx, core.MillInput{})
	require.ErrorAs(t, err, &ve)
}

func TestProduction_MillPerformance(t *testing.T) {
	svc, ctx := setupTestDB(t)

	a, err := svc.production.CreateMill(ctx, core.MillInput{MillName: "Alpha Mills"})
	require.NoError(t, err)
	b, err := svc.production.CreateMill(ctx, core.MillInput{MillName: "Beta Mills"})
	require.NoError(t, err)

	s1, err := svc.production.SendToMill(ctx, core.ShipmentInput{MillID: a.ID, MaterialType: "Yarn", QuantityKg: dec("100")})
	require.NoError(t, err)
	_, err = svc.production.SendToMill(ctx, core.ShipmentInput{MillID: a.ID, MaterialType: "Yarn", QuantityKg: dec("60")})
	require.NoError(t, err)
	_, err = svc.production.RecordProduction(ctx, s1.ID, core.ProductionReceipt{FabricReceivedMeters: dec("300")})
	require.NoError(t, err)

	perf, err := svc.production.MillPerformance(ctx)
	require.NoError(t, err)
	require.Len(t, perf, 2)

	assert.Equal(t, a.ID, perf[0].MillID)
	assert.True(t, perf[0].TotalRawMaterialKg.Equal(dec("160")))
	assert.True(t, perf[0].TotalFabricReceivedMeters.Equal(dec("300")))
	assert.Equal(t, 1, perf[0].PendingProductionCount)
	assert.Equal(t, 1, perf[0].CompletedCount)

	assert.Equal(t, b.ID, perf[1].MillID)
	assert.True(t, perf[1].TotalRawMaterialKg.IsZero())

	pending, err := svc.production.ListShipments(ctx, core.ShipmentFilter{Status: core.ShipmentStatusInProduction})
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	mills, err := svc.production.ListMills(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Alpha Mills", mills[0].MillName)
}
