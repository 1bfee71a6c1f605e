package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"finease/internal/api"
	"finease/internal/api/handlers"
	"finease/internal/app"
	"finease/internal/service"
	"finease/pkg/config"
	"finease/pkg/logger"
	"finease/pkg/metrics"
	promcollector "finease/pkg/metrics/prometheus"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

// @title FinEase API
// @version 1.0
// @description Personal finance ledger: record income and expenses, list them per owner and summarize the balance.

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:5000
// @BasePath /api/v1

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logger.Level, cfg.Logger.Format); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting FinEase service",
		zap.String("environment", cfg.Server.Environment),
		zap.String("storage", cfg.Storage.Driver),
	)

	// Metrics
	var (
		collector metrics.Collector = metrics.NoOpCollector{}
		gatherer  prometheus.Gatherer
	)
	if cfg.Metrics.Enabled {
		registry := prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		pc, err := promcollector.NewCollector(cfg.Metrics.Namespace, registry)
		if err != nil {
			appLogger.Fatal("Failed to register metrics", zap.Error(err))
		}
		collector, gatherer = pc, registry
	}

	ctx := context.Background()
	store, closeStore, err := app.OpenStore(ctx, cfg, collector, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to open storage", zap.Error(err))
	}
	defer closeStore()

	summaryCache, closeCache := app.OpenSummaryCache(&cfg.Redis, appLogger)
	defer closeCache()

	// Services
	ledgerService := service.NewLedgerService(store, summaryCache, collector, appLogger)
	summaryService := service.NewSummaryService(store, summaryCache, collector, appLogger)

	// Handlers
	txHandler := handlers.NewTransactionHandler(ledgerService, appLogger)
	summaryHandler := handlers.NewSummaryHandler(summaryService, appLogger)
	healthHandler := handlers.NewHealthHandler(ledgerService, appLogger)

	server := api.SetupRouter(txHandler, summaryHandler, healthHandler, api.RouterConfig{
		AllowOrigins: cfg.Server.AllowOrigins,
		Gatherer:     gatherer,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, appLogger)

	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := server.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server", zap.Duration("timeout", cfg.Server.ShutdownTimeout))
	if err := server.ShutdownWithTimeout(cfg.Server.ShutdownTimeout); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
