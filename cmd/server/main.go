package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	webAdapter "rk-textiles/internal/adapters/web"
	"rk-textiles/internal/app"
	"rk-textiles/internal/cache"
	"rk-textiles/internal/config"
	"rk-textiles/internal/core"
	"rk-textiles/internal/db"
	"rk-textiles/internal/logger"

	"github.com/bsm/redislock"
	"github.com/shopspring/decimal"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("config")
	}
	logger.Init("rkt-server", cfg.Development)
	logger.SetLevel(cfg.LogLevel)

	// Amounts go out as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("database")
	}
	defer pool.Close()

	rdb, err := cache.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("redis")
	}
	var locker *redislock.Client
	if rdb != nil {
		defer rdb.Close()
		locker = redislock.New(rdb)
		logger.Logger.Info().Dur("ttl", cfg.CacheTTL).Msg("response cache enabled")
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

	handler := webAdapter.NewHandler(svc, webAdapter.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		Redis:          rdb,
		CacheTTL:       cfg.CacheTTL,
		Ping:           pool.Ping,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Logger.Info().Str("port", cfg.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Logger.Fatal().Err(err).Msg("server")
		}
	}()

	<-ctx.Done()
	logger.Logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}
