package core_test

import (
	"context"
	"os"
	"testing"

	"rk-textiles/internal/core"
	"rk-textiles/migrations"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// services bundles every workflow wired to one test pool.
type services struct {
	pool       *pgxpool.Pool
	inventory  core.InventoryService
	orders     core.OrderService
	billing    core.BillingService
	customers  core.CustomerService
	production core.ProductionService
	reports    core.ReportingService
}

func setupTestDB(t *testing.T) (*services, context.Context) {
	t.Helper()
	_ = godotenv.Load("../../.env")

	// Use a dedicated TEST database; every run truncates all tables.
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	require.NoError(t, err, "connect to test database")
	t.Cleanup(pool.Close)

	_, err = migrations.Apply(ctx, pool)
	require.NoError(t, err, "apply migrations")

	_, err = pool.Exec(ctx, `
		TRUNCATE TABLE bills, bill_sequences, orders, raw_materials, mills, inventory, customers RESTART IDENTITY CASCADE;
	`)
	require.NoError(t, err, "truncate test database")

	inv := core.NewInventoryService(pool)
	return &services{
		pool:       pool,
		inventory:  inv,
		orders:     core.NewOrderService(pool, inv),
		billing:    core.NewBillingService(pool, ""),
		customers:  core.NewCustomerService(pool),
		production: core.NewProductionService(pool, inv),
		reports:    core.NewReportingService(pool),
	}, ctx
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// seedCottonAndCustomer stocks Cotton Fabric/White 100 m @ 120 and registers one customer.
func seedCottonAndCustomer(t *testing.T, ctx context.Context, svc *services) (*core.InventoryItem, *core.Customer) {
	t.Helper()
	item, created, err := svc.inventory.AddStock(ctx, core.StockReceipt{
		FabricType:     "Cotton Fabric",
		FabricColor:    "White",
		QuantityMeters: dec("100"),
		RatePerMeter:   dec("120"),
		Location:       "Rack A",
	})
	require.NoError(t, err)
	require.True(t, created)

	cust, err := svc.customers.RegisterCustomer(ctx, core.CustomerInput{
		Name:         "Sharma Garments",
		Phone:        "+91-9800000001",
		BusinessType: "Retailer",
		Address:      "Surat",
	})
	require.NoError(t, err)
	return item, cust
}

func stockOf(t *testing.T, ctx context.Context, svc *services, fabricType string) decimal.Decimal {
	t.Helper()
	item, err := svc.inventory.FindItem(ctx, fabricType, "")
	require.NoError(t, err)
	return item.QuantityMeters
}
