package main

import (
	"context"
	"os"

	"rk-textiles/internal/config"
	"rk-textiles/internal/db"
	"rk-textiles/internal/logger"
	"rk-textiles/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("config")
	}
	logger.Init("rkt-migrate", cfg.Development)

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("failed to connect to database")
		os.Exit(1)
	}
	defer pool.Close()

	applied, err := migrations.Apply(ctx, pool)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("migration failed")
		os.Exit(1)
	}
	logger.Logger.Info().Strs("files", applied).Msg("migration successful")
}
