package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"rk-textiles/internal/app"
	"rk-textiles/internal/core"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	app.ApplicationService
	checked app.CheckAvailabilityRequest
}

func (f *fakeService) ListInventory(context.Context, core.InventoryFilter) (*app.InventoryListResult, error) {
	return &app.InventoryListResult{Items: []core.InventoryItem{
		{ID: 1, FabricType: "Cotton Bedsheet", FabricColor: "White", QuantityMeters: decimal.NewFromInt(500), RatePerMeter: decimal.NewFromInt(120), Location: "Warehouse A"},
		{ID: 2, FabricType: "Silk Cotton", FabricColor: "Cream", QuantityMeters: decimal.NewFromInt(8), RatePerMeter: decimal.NewFromInt(250)},
	}}, nil
}

func (f *fakeService) CheckAvailability(_ context.Context, req app.CheckAvailabilityRequest) (*core.Availability, error) {
	f.checked = req
	return &core.Availability{Available: false, FabricType: req.FabricType, Message: "Only 8 meters available"}, nil
}

func (f *fakeService) ExportInventoryReport(context.Context) ([]byte, error) {
	return []byte("xlsx-bytes"), nil
}

func TestRun_Stock(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, Run(context.Background(), &fakeService{}, []string{"stock"}, &out))
	assert.Contains(t, out.String(), "Cotton Bedsheet")
	assert.Contains(t, out.String(), "500.00")
	assert.Contains(t, out.String(), string(core.StockLevelLow))
}

func TestRun_Check(t *testing.T) {
	svc := &fakeService{}
	var out bytes.Buffer
	require.NoError(t, Run(context.Background(), svc, []string{"check", "Silk Cotton", "12.5"}, &out))
	assert.Equal(t, "Silk Cotton", svc.checked.FabricType)
	assert.True(t, svc.checked.QuantityMeters.Equal(decimal.RequireFromString("12.5")))
	assert.Contains(t, out.String(), "NOT available")

	err := Run(context.Background(), svc, []string{"check", "Silk Cotton", "lots"}, &out)
	assert.ErrorIs(t, err, ErrUsage)
}

func TestRun_ExportWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.xlsx")
	var out bytes.Buffer
	require.NoError(t, Run(context.Background(), &fakeService{}, []string{"export", "inventory", path}, &out))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "xlsx-bytes", string(data))

	assert.ErrorIs(t, Run(context.Background(), &fakeService{}, []string{"export", "customers", path}, &out), ErrUsage)
}

func TestRun_Unknown(t *testing.T) {
	var out bytes.Buffer
	assert.ErrorIs(t, Run(context.Background(), &fakeService{}, nil, &out), ErrUsage)
	assert.ErrorIs(t, Run(context.Background(), &fakeService{}, []string{"balances"}, &out), ErrUsage)
}
