package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	billingapp "github.com/wms/backend/internal/application/billing"
	catalogapp "github.com/wms/backend/internal/application/catalog"
	inventoryapp "github.com/wms/backend/internal/application/inventory"
	partnerapp "github.com/wms/backend/internal/application/partner"
	"github.com/wms/backend/internal/infrastructure/auth"
	"github.com/wms/backend/internal/infrastructure/cache"
	"github.com/wms/backend/internal/infrastructure/config"
	"github.com/wms/backend/internal/infrastructure/logger"
	"github.com/wms/backend/internal/infrastructure/persistence"
	"github.com/wms/backend/internal/infrastructure/scheduler"
	"github.com/wms/backend/internal/infrastructure/telemetry"
	"github.com/wms/backend/internal/interfaces/http/handler"
	"github.com/wms/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting WMS Billing Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Tracing is optional; a disabled provider is a no-op
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Database with zap-backed GORM logging
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if err := telemetry.RegisterDBTracing(db.DB, cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled, log); err != nil {
		log.Warn("Failed to register database tracing", zap.Error(err))
	}

	// Rate card cache: Redis when enabled, in-process otherwise
	var rateCache billingapp.RateCardCache
	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedisRateCardCache(cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			if err := redisCache.Close(); err != nil {
				log.Error("Error closing Redis client", zap.Error(err))
			}
		}()
		rateCache = redisCache
		log.Info("Redis rate card cache enabled", zap.String("addr", cfg.Redis.Addr()))
	} else {
		rateCache = cache.NewInMemoryRateCardCache(cfg.Redis.RateCardTTL)
	}

	// Repositories
	warehouseRepo := persistence.NewGormWarehouseRepository(db.DB)
	skuRepo := persistence.NewGormSkuRepository(db.DB)
	txRepo := persistence.NewGormTransactionRepository(db.DB)
	balanceRepo := persistence.NewGormBalanceRepository(db.DB)
	rateRepo := persistence.NewGormCostRateRepository(db.DB)
	ledgerRepo := persistence.NewGormStorageLedgerRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)

	// Application services
	warehouseService := partnerapp.NewWarehouseService(warehouseRepo, log)
	skuService := catalogapp.NewSkuService(skuRepo, log)
	transactionService := inventoryapp.NewTransactionService(warehouseRepo, skuRepo, txRepo, balanceRepo, log)
	rateService := billingapp.NewCostRateService(warehouseRepo, rateRepo, rateCache, log)
	costService := billingapp.NewCostAggregationService(warehouseRepo, rateRepo, ledgerRepo, txRepo, rateCache, log)
	ledgerService := billingapp.NewStorageLedgerService(warehouseRepo, skuRepo, txRepo, rateRepo, ledgerRepo, log)
	invoiceService := billingapp.NewInvoiceService(warehouseRepo, invoiceRepo, costService, log)

	jwtService := auth.NewJWTService(cfg.JWT)

	// Weekly snapshot scheduler
	var snapshotScheduler *scheduler.SnapshotScheduler
	if cfg.Scheduler.Enabled {
		snapshotScheduler, err = scheduler.NewSnapshotScheduler(cfg.Scheduler, warehouseRepo, ledgerService, log)
		if err != nil {
			log.Fatal("Invalid scheduler configuration", zap.Error(err))
		}
		if err := snapshotScheduler.Start(context.Background()); err != nil {
			log.Fatal("Failed to start snapshot scheduler", zap.Error(err))
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := snapshotScheduler.Stop(stopCtx); err != nil {
				log.Error("Error stopping snapshot scheduler", zap.Error(err))
			}
		}()
		log.Info("Snapshot scheduler started",
			zap.String("schedule", cfg.Scheduler.SnapshotCronSchedule),
			zap.Duration("job_timeout", cfg.Scheduler.JobTimeout),
		)
	}

	// HTTP handlers and router
	engine := router.New(router.Dependencies{
		Config:           cfg,
		Logger:           log,
		DB:               db,
		JWTService:       jwtService,
		WarehouseHandler: handler.NewWarehouseHandler(warehouseService),
		SkuHandler:       handler.NewSkuHandler(skuService),
		InventoryHandler: handler.NewInventoryHandler(transactionService),
		BillingHandler:   handler.NewBillingHandler(rateService, costService, ledgerService, invoiceService),
		SystemHandler:    handler.NewSystemHandler(db, snapshotScheduler),
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
