package core_test

import (
	"testing"

	"rk-textiles/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomer_RegisterDuplicatePhone(t *testing.T) {
	svc, ctx := setupTestDB(t)
	_, cust := seedCottonAndCustomer(t, ctx, svc)

	_, err := svc.customers.RegisterCustomer(ctx, core.CustomerInput{Name: "Someone Else", Phone: cust.Phone})
	var ce *core.ConflictError
	require.ErrorAs(t, err, &ce)

	_, err = svc.customers.RegisterCustomer(ctx, core.CustomerInput{Name: "No Phone"})
	var ve *core.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "phone", ve.Field)
}

func TestCustomer_ListSearch(t *testing.T) {
	svc, ctx := setupTestDB(t)
	seedCottonAndCustomer(t, ctx, svc)
	_, err := svc.customers.RegisterCustomer(ctx, core.CustomerInput{
		Name: "Patel Traders", Phone: "+91-9811111111", BusinessType: "Wholesaler",
	})
	require.NoError(t, err)

	byName, err := svc.customers.ListCustomers(ctx, core.CustomerFilter{Search: "sharma"})
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "Sharma Garments", byName[0].Name)

	byPhone, err := svc.customers.ListCustomers(ctx, core.CustomerFilter{Search: "98111"})
	require.NoError(t, err)
	require.Len(t, byPhone, 1)

	byType, err := svc.customers.ListCustomers(ctx, core.CustomerFilter{BusinessType: "Wholesaler"})
	require.NoError(t, err)
	require.Len(t, byType, 1)

	none, err := svc.customers.ListCustomers(ctx, core.CustomerFilter{Search: "%"})
	require.NoError(t, err)
	assert.Empty(t, none, "wildcards in the search are literal")
}

func TestCustomer_UpdateAndDelete(t *testing.T) {
	svc, ctx := setupTestDB(t)
	_, cust := seedCottonAndCustomer(t, ctx, svc)

	addr := "Ahmedabad"
	updated, err := svc.customers.UpdateCustomer(ctx, cust.ID, core.CustomerUpdate{Address: &addr})
	require.NoError(t, err)
	assert.Equal(t, addr, updated.Address)
	assert.Equal(t, cust.Name, updated.Name)

	_, err = svc.orders.CreateOrder(ctx, core.OrderInput{
		CustomerID: cust.ID, FabricType: "Cotton Fabric", QuantityMeters: dec("1"), RatePerMeter: dec("120"),
	})
	require.NoError(t, err)

	var ce *core.ConflictError
	require.ErrorAs(t, svc.customers.DeleteCustomer(ctx, cust.ID), &ce)

	fresh, err := svc.customers.RegisterCustomer(ctx, core.CustomerInput{Name: "Walk-in", Phone: "+91-9822222222"})
	require.NoError(t, err)
	require.NoError(t, svc.customers.DeleteCustomer(ctx, fresh.ID))

	var nf *core.NotFoundError
	_, err = svc.customers.GetCustomer(ctx, fresh.ID)
	assert.ErrorAs(t, err, &nf)
}

func TestCustomer_LookupByPhone(t *testing.T) {
	svc, ctx := setupTestDB(t)
	_, cust := seedCottonAndCustomer(t, ctx, svc)

	for i := 0; i < 7; i++ {
		_, err := svc.orders.CreateOrder(ctx, core.OrderInput{
			CustomerID: cust.ID, FabricType: "Cotton Fabric", QuantityMeters: dec("1"), RatePerMeter: dec("120"),
		})
		require.NoError(t, err)
	}

	found, err := svc.customers.LookupByPhone(ctx, cust.Phone)
	require.NoError(t, err)
	assert.True(t, found.Found)
	assert.Equal(t, cust.ID, found.Customer.ID)
	assert.Len(t, found.RecentOrders, 5)

	missing, err := svc.customers.LookupByPhone(ctx, "+91-0000000000")
	require.NoError(t, err)
	assert.False(t, missing.Found)
	assert.Nil(t, missing.Customer)
}
