package core

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestClassifyStock(t *testing.T) {
	assert.Equal(t, StockLevelIn, ClassifyStock(d("50")))
	assert.Equal(t, StockLevelIn, ClassifyStock(d("1000")))
	assert.Equal(t, StockLevelLow, ClassifyStock(d("49.99")))
	assert.Equal(t, StockLevelLow, ClassifyStock(d("10")))
	assert.Equal(t, StockLevelOut, ClassifyStock(d("9.99")))
	assert.Equal(t, StockLevelOut, ClassifyStock(decimal.Zero))
}

func TestOrderTotal(t *testing.T) {
	assert.True(t, OrderTotal(d("30"), d("130")).Equal(d("3900")))
	assert.True(t, OrderTotal(d("2.5"), d("99.99")).Equal(d("249.98")))
	assert.True(t, OrderTotal(d("1"), decimal.Zero).IsZero())
}

func TestValidateOrderInput(t *testing.T) {
	valid := OrderInput{CustomerID: 1, FabricType: "Cotton Fabric", QuantityMeters: d("1"), RatePerMeter: d("0")}
	require.NoError(t, validateOrderInput(valid))

	cases := map[string]func(in *OrderInput){
		"customer_id":     func(in *OrderInput) { in.CustomerID = 0 },
		"fabric_type":     func(in *OrderInput) { in.FabricType = "" },
		"quantity_meters": func(in *OrderInput) { in.QuantityMeters = d("-1") },
		"rate_per_meter":  func(in *OrderInput) { in.RatePerMeter = d("-0.01") },
	}
	for field, mutate := range cases {
		t.Run(field, func(t *testing.T) {
			in := valid
			mutate(&in)
			var ve *ValidationError
			require.ErrorAs(t, validateOrderInput(in), &ve)
			assert.Equal(t, field, ve.Field)
		})
	}
}

func TestValidateOrderInput_Scale(t *testing.T) {
	valid := OrderInput{CustomerID: 1, FabricType: "Cotton Fabric", QuantityMeters: d("30.01"), RatePerMeter: d("99.99")}
	require.NoError(t, validateOrderInput(valid))

	tests := []struct {
		name   string
		field  string
		mutate func(in *OrderInput)
	}{
		{"sub-cent quantity", "quantity_meters", func(in *OrderInput) { in.QuantityMeters = d("30.005") }},
		{"tiny quantity", "quantity_meters", func(in *OrderInput) { in.QuantityMeters = d("0.004") }},
		{"overflowing quantity", "quantity_meters", func(in *OrderInput) { in.QuantityMeters = d("1000000000000") }},
		{"sub-cent rate", "rate_per_meter", func(in *OrderInput) { in.RatePerMeter = d("12.345") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			var ve *ValidationError
			require.ErrorAs(t, validateOrderInput(in), &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestValidateReceipt(t *testing.T) {
	require.NoError(t, validateReceipt(StockReceipt{FabricType: "Silk", FabricColor: "Red", QuantityMeters: d("1")}))

	var ve *ValidationError
	require.ErrorAs(t, validateReceipt(StockReceipt{FabricType: "Silk", QuantityMeters: d("1")}), &ve)
	assert.Equal(t, "fabric_color", ve.Field)
	require.ErrorAs(t, validateReceipt(StockReceipt{FabricType: "Silk", FabricColor: "Red"}), &ve)
	assert.Equal(t, "quantity_meters", ve.Field)

	require.ErrorAs(t, validateReceipt(StockReceipt{FabricType: "Silk", FabricColor: "Red", QuantityMeters: d("0.004")}), &ve)
	assert.Equal(t, "quantity_meters", ve.Field)
	require.ErrorAs(t, validateReceipt(StockReceipt{FabricType: "Silk", FabricColor: "Red", QuantityMeters: d("1"), RatePerMeter: d("12.345")}), &ve)
	assert.Equal(t, "rate_per_meter", ve.Field)
}

func TestProductionReceiptDefaults(t *testing.T) {
	r := ProductionReceipt{FabricReceivedMeters: d("10")}.withDefaults()
	assert.Equal(t, "Cotton Fabric", r.FabricType)
	assert.Equal(t, "White", r.FabricColor)
	assert.True(t, r.RatePerMeter.Equal(d("100")))

	r = ProductionReceipt{FabricType: "Silk", FabricColor: "Red", RatePerMeter: d("250")}.withDefaults()
	assert.Equal(t, "Silk", r.FabricType)
	assert.True(t, r.RatePerMeter.Equal(d("250")))
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "phone: is required", invalid("phone", "is required").Error())
	assert.Equal(t, "order 7 not found", notFound("order", 7).Error())
	assert.Equal(t, "insufficient stock for Silk: available 10 meters, requested 15 meters",
		(&InsufficientStockError{FabricType: "Silk", Available: d("10"), Requested: d("15")}).Error())

	wrapped := fmt.Errorf("create order: %w", conflict("order %d has already been billed", 3))
	var ce *ConflictError
	require.True(t, errors.As(wrapped, &ce))
	assert.Equal(t, "order 3 has already been billed", ce.Message)
}

func TestConditions(t *testing.T) {
	var c conditions
	assert.Equal(t, "", c.where())

	c.add("fabric_type = $%d", "Silk")
	c.add("(name ILIKE $%[1]d OR phone ILIKE $%[1]d)", "%x%")
	assert.Equal(t, " WHERE fabric_type = $1 AND (name ILIKE $2 OR phone ILIKE $2)", c.where())
	assert.Equal(t, []any{"Silk", "%x%"}, c.args)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\%\_off\\`, escapeLike(`50%_off\`))
	assert.Equal(t, "plain", escapeLike("plain"))
}

func TestResolvePeriod(t *testing.T) {
	now := time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)

	p, err := resolvePeriod(time.Time{}, time.Time{}, now)
	require.NoError(t, err)
	assert.Equal(t, now, p.To)
	assert.Equal(t, now.Add(-DefaultSalesWindow), p.From)

	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	p, err = resolvePeriod(from, time.Time{}, now)
	require.NoError(t, err)
	assert.Equal(t, from, p.From)

	_, err = resolvePeriod(now, from, now)
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestBuildInventoryReport(t *testing.T) {
	items := []InventoryItem{
		{ID: 1, FabricType: "Cotton", FabricColor: "White", QuantityMeters: d("100"), RatePerMeter: d("120")},
		{ID: 2, FabricType: "Silk", FabricColor: "Red", QuantityMeters: d("20"), RatePerMeter: d("300")},
		{ID: 3, FabricType: "Linen", FabricColor: "White", QuantityMeters: d("5"), RatePerMeter: d("200")},
	}

	rep := BuildInventoryReport(items)
	assert.Equal(t, 3, rep.Summary.TotalItems)
	assert.Equal(t, 2, rep.Summary.LowStockCount)
	assert.True(t, rep.Summary.TotalMeters.Equal(d("125")))
	assert.True(t, rep.Summary.TotalValue.Equal(d("19000")))
	assert.Equal(t, StockLevelCounts{InStock: 1, LowStock: 1, OutOfStock: 1}, rep.StockLevels)
	require.Len(t, rep.LowStockItems, 1)
	assert.Equal(t, 2, rep.LowStockItems[0].ID)
	require.Len(t, rep.OutOfStockItems, 1)
	assert.Equal(t, 3, rep.OutOfStockItems[0].ID)

	require.Len(t, rep.ColorBreakdown, 2)
	assert.Equal(t, "White", rep.ColorBreakdown[0].Color)
	assert.True(t, rep.ColorBreakdown[0].QuantityMeters.Equal(d("105")))
	assert.True(t, rep.ColorBreakdown[0].Value.Equal(d("13000")))

	empty := BuildInventoryReport(nil)
	assert.Zero(t, empty.Summary.TotalItems)
	assert.NotNil(t, empty.ColorBreakdown)
}

func TestAverage(t *testing.T) {
	assert.True(t, average(d("1000"), 3).Equal(d("333.33")))
	assert.True(t, average(d("1000"), 0).IsZero())
}
