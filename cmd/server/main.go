// Package main is the entry point for the stockops API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stockops/internal/domain/auth"
	"stockops/internal/domain/catalogs/item"
	"stockops/internal/domain/costing"
	"stockops/internal/domain/documents/purchase_order"
	"stockops/internal/domain/documents/receipt"
	"stockops/internal/domain/documents/sales_order"
	"stockops/internal/domain/documents/shipment"
	"stockops/internal/domain/kpi"
	"stockops/internal/domain/posting"
	"stockops/internal/domain/registers/stock"
	"stockops/internal/infrastructure/config"
	v1 "stockops/internal/infrastructure/http/v1"
	"stockops/internal/infrastructure/storage/postgres"
	"stockops/internal/infrastructure/storage/postgres/auth_repo"
	"stockops/internal/infrastructure/storage/postgres/catalog_repo"
	"stockops/internal/infrastructure/storage/postgres/costing_repo"
	"stockops/internal/infrastructure/storage/postgres/document_repo"
	"stockops/internal/infrastructure/storage/postgres/kpi_repo"
	"stockops/internal/infrastructure/storage/postgres/register_repo"
	"stockops/pkg/logger"
	"stockops/pkg/numerator"
)

func main() {
	// Logger comes up before config so config failures are loggable.
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalw("failed to load configuration", "error", err)
	}

	ctx := context.Background()
	log.Infow("starting stockops server", "env", cfg.App.Env)

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(cfg.DB.DSN())
	if cfg.DB.MaxConns > 0 {
		poolCfg.MaxConns = cfg.DB.MaxConns
	}
	if cfg.DB.MinConns > 0 {
		poolCfg.MinConns = cfg.DB.MinConns
	}

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- Repositories ---
	ledgerRepo := register_repo.NewLedgerRepo(txManager)
	itemRepo := catalog_repo.NewItemRepo(txManager)
	receiptRepo := document_repo.NewReceiptRepo(txManager)
	shipmentRepo := document_repo.NewShipmentRepo(txManager)
	salesOrderRepo := document_repo.NewSalesOrderRepo(txManager)
	purchaseOrderRepo := document_repo.NewPurchaseOrderRepo(txManager)
	costRepo := costing_repo.NewPurchaseCostRepo(txManager)
	salesRepo := kpi_repo.NewSalesRepo(txManager)
	userRepo := auth_repo.NewUserRepo(txManager)
	tokenRepo := auth_repo.NewTokenRepo(txManager)

	// --- Audit ---
	auditService, err := postgres.NewAuditService(txManager)
	if err != nil {
		log.Fatalw("failed to initialize audit service", "error", err)
	}

	// --- Domain services ---
	stockService := stock.NewService(ledgerRepo)
	itemService := item.NewService(itemRepo, stockService)

	engine := posting.NewEngine(stockService, txManager, posting.Config{
		AllowNegativeStock: cfg.Posting.AllowNegativeStock,
	}, auditService)

	numeratorService := numerator.New(postgres.NewSequenceStore(txManager))

	receiptService := receipt.NewService(receiptRepo, engine, numeratorService)
	salesOrderService := sales_order.NewService(salesOrderRepo, numeratorService)
	shipmentService := shipment.NewService(shipmentRepo, salesOrderService, engine, numeratorService)
	purchaseOrderService := purchase_order.NewService(purchaseOrderRepo, numeratorService)

	resolver := costing.NewResolver(costRepo)
	kpiService := kpi.NewService(salesRepo, resolver)

	// --- Auth ---
	jwtService := auth.NewJWTService(auth.JWTConfig{
		Secret:         cfg.JWT.Secret,
		Issuer:         cfg.JWT.Issuer,
		AccessTokenTTL: cfg.JWT.AccessTokenTTL,
	})
	authService := auth.NewService(userRepo, tokenRepo, jwtService, auth.ServiceConfig{
		MaxLoginAttempts:   cfg.Auth.MaxLoginAttempts,
		LockDuration:       cfg.Auth.LockDuration,
		PasswordMinLength:  cfg.Auth.PasswordMinLength,
		RefreshTokenExpiry: cfg.Auth.RefreshTokenExpiry,
	})

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:            pool,
		Logger:          log,
		JWTValidator:    jwtService,
		AuthService:     authService,
		ItemService:     itemService,
		StockService:    stockService,
		ReceiptService:  receiptService,
		ShipmentService: shipmentService,
		SalesOrders:     salesOrderService,
		PurchaseOrders:  purchaseOrderService,
		KPIService:      kpiService,
	})

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
