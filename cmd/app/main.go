package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"rk-textiles/internal/adapters/cli"
	"rk-textiles/internal/app"
	"rk-textiles/internal/cache"
	"rk-textiles/internal/config"
	"rk-textiles/internal/core"
	"rk-textiles/internal/db"
	"rk-textiles/internal/logger"

	"github.com/bsm/redislock"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, cli.Usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("config")
	}
	logger.Init("rkt-cli", true)
	logger.SetLevel(cfg.LogLevel)

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("database")
	}
	defer pool.Close()

	var locker *redislock.Client
	rdb, err := cache.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		logger.Logger.Warn().Err(err).Msg("redis unavailable, seeding without lock")
	} else if rdb != nil {
		defer rdb.Close()
		locker = redislock.New(rdb)
	}

	inventory := core.NewInventoryService(pool)
	svc := app.NewAppService(app.Services{
		Customers:  core.NewCustomerService(pool),
		Inventory:  inventory,
		Orders:     core.NewOrderService(pool, inventory),
		Billing:    core.NewBillingService(pool, cfg.BillPrefix),
		Production: core.NewProductionService(pool, inventory),
		Reports:    core.NewReportingService(pool),
		Locker:     locker,
	})

	if err := cli.Run(ctx, svc, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, cli.ErrUsage) {
			fmt.Fprintf(os.Stderr, "%v\n\n%s\n", err, cli.Usage)
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
