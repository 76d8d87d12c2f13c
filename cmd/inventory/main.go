// Inventory gRPC server: validates requested quantities against catalog stock.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/annamerheb/storefront/catalog"
	"github.com/annamerheb/storefront/config"
	"github.com/annamerheb/storefront/db"
	"github.com/annamerheb/storefront/inventory"
	"github.com/annamerheb/storefront/inventory/rpc"
	"github.com/annamerheb/storefront/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}
	logger, err := cfg.NewLogger()
	if err != nil {
		log.Fatal("Failed to create logger:", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var products catalog.Repository
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL not set, validating against the demo catalog")
		products = catalog.NewMemoryRepository(catalog.DemoProducts(time.Now())...)
	} else {
		conn, err := db.Open(ctx, db.Config{URL: cfg.DatabaseURL, MaxOpenConns: cfg.DBMaxOpenConns}, logger)
		if err != nil {
			logger.Fatal("Failed to open database", zap.Error(err))
		}
		defer conn.Close()
		products = catalog.NewPostgresRepository(conn)
	}

	validator := inventory.NewLocalValidator(catalog.NewStockSource(products))
	server := rpc.NewServer(validator, logger)

	srvCfg := store.ServerConfig{Name: "inventory", Port: cfg.InventoryPort}
	if err := store.RunServer(ctx, srvCfg, logger, server.Register()); err != nil {
		logger.Fatal("Inventory server failed", zap.Error(err))
	}
	logger.Info("Inventory server stopped")
}
