package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rk-textiles/internal/core"

	"github.com/bsm/redislock"
	"github.com/shopspring/decimal"
)

const (
	seedLockKey = "rkt:lock:seed"
	seedLockTTL = 30 * time.Second
)

var demoCustomers = []core.CustomerInput{
	{Name: "Hotel Grand Palace", Phone: "9876543210", BusinessType: "Hotel", Address: "123 Main Road, Erode"},
	{Name: "Sri Textiles", Phone: "9876543211", BusinessType: "Retailer", Address: "45 Market Street, Salem"},
	{Name: "Krishna Wholesale", Phone: "9876543212", BusinessType: "Wholesaler", Address: "78 Industrial Area, Coimbatore"},
}

var demoInventory = []core.StockReceipt{
	{FabricType: "Cotton Bedsheet", FabricColor: "White", QuantityMeters: decimal.NewFromInt(500), RatePerMeter: decimal.NewFromInt(120), Location: "Warehouse A"},
	{FabricType: "Polyester Blend", FabricColor: "Blue", QuantityMeters: decimal.NewFromInt(30), RatePerMeter: decimal.NewFromInt(85), Location: "Warehouse A"},
	{FabricType: "Silk Cotton", FabricColor: "Cream", QuantityMeters: decimal.NewFromInt(8), RatePerMeter: decimal.NewFromInt(250), Location: "Warehouse B"},
}

var demoMills = []core.MillInput{
	{MillName: "Lakshmi Weaving Mill", Location: "Erode", ContactPerson: "Rajesh Kumar", Phone: "9876500001"},
	{MillName: "Sakthi Textiles Mill", Location: "Salem", ContactPerson: "Ganesh Babu", Phone: "9876500002"},
}

// SeedDemoData inserts demo customers, stock lines and mills. Existing phones, (type, color)
// lines and mill names are left alone, so running it twice changes nothing.
// With a locker configured, a second concurrent seed gets a ConflictError.
func (s *appService) SeedDemoData(ctx context.Context) (*SeedResult, error) {
	if s.locker != nil {
		lock, err := s.locker.Obtain(ctx, seedLockKey, seedLockTTL, nil)
		if errors.Is(err, redislock.ErrNotObtained) {
			return nil, &core.ConflictError{Message: "demo seeding already in progress"}
		}
		if err != nil {
			return nil, fmt.Errorf("failed to obtain seed lock: %w", err)
		}
		defer func() { _ = lock.Release(context.WithoutCancel(ctx)) }()
	}

	var res SeedResult

	for _, c := range demoCustomers {
		c.Phone = normalizePhone(c.Phone)
		_, err := s.customers.RegisterCustomer(ctx, c)
		var ce *core.ConflictError
		switch {
		case err == nil:
			res.Customers++
		case errors.As(err, &ce):
		default:
			return nil, err
		}
	}

	for _, r := range demoInventory {
		_, err := s.inventory.FindItem(ctx, r.FabricType, r.FabricColor)
		if err == nil {
			continue
		}
		var nf *core.NotFoundError
		if !errors.As(err, &nf) {
			return nil, err
		}
		if _, _, err := s.inventory.AddStock(ctx, r); err != nil {
			return nil, err
		}
		res.InventoryItems++
	}

	mills, err := s.production.ListMills(ctx)
	if err != nil {
		return nil, err
	}
	existing := make(map[string]bool, len(mills))
	for _, m := range mills {
		existing[m.MillName] = true
	}
	for _, m := range demoMills {
		if existing[m.MillName] {
			continue
		}
		if _, err := s.production.CreateMill(ctx, m); err != nil {
			return nil, err
		}
		res.Mills++
	}
	return &res, nil
}
