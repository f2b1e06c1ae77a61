package core_test

import (
	"testing"
	"time"

	"rk-textiles/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReports_SalesAndCustomers(t *testing.T) {
	svc, ctx := setupTestDB(t)
	_, cust := seedCottonAndCustomer(t, ctx, svc)
	walkIn, err := svc.customers.RegisterCustomer(ctx, core.CustomerInput{Name: "Walk-in", Phone: "+91-9833333333"})
	require.NoError(t, err)
	_, _, err = svc.inventory.AddStock(ctx, core.StockReceipt{
		FabricType: "Silk", FabricColor: "Red", QuantityMeters: dec("50"), RatePerMeter: dec("300"),
	})
	require.NoError(t, err)

	place := func(custID int, fabric, meters, rate string) {
		_, err := svc.orders.CreateOrder(ctx, core.OrderInput{
			CustomerID: custID, FabricType: fabric, QuantityMeters: dec(meters), RatePerMeter: dec(rate),
		})
		require.NoError(t, err)
	}
	place(cust.ID, "Cotton Fabric", "10", "120")  // 1200
	place(cust.ID, "Silk", "5", "300")            // 1500
	place(walkIn.ID, "Cotton Fabric", "2", "150") // 300

	sales, err := svc.reports.SalesReport(ctx, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 3, sales.Summary.TotalOrders)
	assert.True(t, sales.Summary.TotalRevenue.Equal(dec("3000")))
	assert.True(t, sales.Summary.AverageOrderValue.Equal(dec("1000")))
	require.Len(t, sales.FabricBreakdown, 2)
	assert.Equal(t, "Silk", sales.FabricBreakdown[0].FabricType, "sorted by revenue")
	assert.True(t, sales.FabricBreakdown[1].QuantityMeters.Equal(dec("12")))
	require.Len(t, sales.BusinessBreakdown, 2)
	assert.Equal(t, "Retailer", sales.BusinessBreakdown[0].BusinessType)
	assert.Equal(t, "Unknown", sales.BusinessBreakdown[1].BusinessType)

	past, err := svc.reports.SalesReport(ctx, time.Now().AddDate(-1, 0, 0), time.Now().AddDate(0, -6, 0))
	require.NoError(t, err)
	assert.Zero(t, past.Summary.TotalOrders)

	custReport, err := svc.reports.CustomerReport(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, custReport.TotalCustomers)
	require.Len(t, custReport.TopCustomers, 2)
	assert.Equal(t, cust.ID, custReport.TopCustomers[0].CustomerID)
	assert.True(t, custReport.TopCustomers[0].TotalSpent.Equal(dec("2700")))
	assert.True(t, custReport.TopCustomers[0].AverageOrderValue.Equal(dec("1350")))

	dash, err := svc.reports.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, dash.TotalCustomers)
	assert.Equal(t, 3, dash.TotalOrders)
	assert.Equal(t, 3, dash.PendingOrders)
	assert.Len(t, dash.RecentOrders, 3)
	assert.True(t, dash.TotalRevenue.IsZero(), "no bills yet")
	assert.Equal(t, 1, dash.LowStockItems, "silk at 45 m")
}

func TestReports_Inventory(t *testing.T) {
	svc, ctx := setupTestDB(t)
	seedCottonAndCustomer(t, ctx, svc)
	_, _, err := svc.inventory.AddStock(ctx, core.StockReceipt{
		FabricType: "Silk", FabricColor: "White", QuantityMeters: dec("5"), RatePerMeter: dec("300"),
	})
	require.NoError(t, err)

	rep, err := svc.reports.InventoryReport(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, rep.Summary.TotalItems)
	assert.Equal(t, 1, rep.StockLevels.InStock)
	assert.Equal(t, 1, rep.StockLevels.OutOfStock)
	require.Len(t, rep.ColorBreakdown, 1)
	assert.True(t, rep.ColorBreakdown[0].QuantityMeters.Equal(dec("105")))
	assert.True(t, rep.ColorBreakdown[0].Value.Equal(dec("13500")))
}
