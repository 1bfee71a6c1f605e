package main

import (
	"context"
	"flag"
	"log"

	"finease/internal/app"
	"finease/internal/service"
	"finease/pkg/config"
	"finease/pkg/logger"
	"finease/pkg/metrics"

	"go.uber.org/zap"
)

func main() {
	file := flag.String("file", "", "JSON array of transactions to load; empty loads the demo set")
	owner := flag.String("owner", "demo@finease.local", "owner of the demo set")
	cacheFile := flag.String("cache", ".seed_cache.json", "records seeded files so reruns skip them")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Logger.Level, cfg.Logger.Format); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	ctx := context.Background()
	store, closeStore, err := app.OpenStore(ctx, cfg, metrics.NoOpCollector{}, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to open storage", zap.Error(err))
	}
	defer closeStore()

	summaryCache, closeCache := app.OpenSummaryCache(&cfg.Redis, appLogger)
	defer closeCache()

	ledger := service.NewLedgerService(store, summaryCache, metrics.NoOpCollector{}, appLogger)

	appLogger.Info("Starting database seeding...")

	var created int
	if *file == "" {
		created, err = seed(ctx, ledger, demoTransactions(*owner), appLogger)
	} else {
		created, err = seedFile(ctx, ledger, *file, *cacheFile, appLogger)
	}
	if err != nil {
		appLogger.Fatal("Seeding failed", zap.Error(err))
	}

	appLogger.Info("Database seeding completed", zap.Int("created", created))
}

