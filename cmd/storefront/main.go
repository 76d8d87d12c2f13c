// Storefront HTTP server: catalog, carts, wishlists and checkout.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/annamerheb/storefront/api"
	"github.com/annamerheb/storefront/cart"
	cartlogic "github.com/annamerheb/storefront/cart/logic"
	"github.com/annamerheb/storefront/catalog"
	"github.com/annamerheb/storefront/checkout"
	"github.com/annamerheb/storefront/config"
	"github.com/annamerheb/storefront/db"
	"github.com/annamerheb/storefront/inventory"
	"github.com/annamerheb/storefront/inventory/rpc"
	"github.com/annamerheb/storefront/order"
	"github.com/annamerheb/storefront/session"
	"github.com/annamerheb/storefront/store"
	"github.com/annamerheb/storefront/wishlist"
	wishlogic "github.com/annamerheb/storefront/wishlist/logic"
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

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()
	health := map[string]func(context.Context) error{}

	// Catalog and orders: Postgres when configured, the demo catalog otherwise.
	var (
		products catalog.Repository
		orders   order.Repository
	)
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL not set, serving the in-memory demo catalog")
		mem := catalog.NewMemoryRepository(catalog.DemoProducts(time.Now())...)
		products = mem
		orders = order.NewMemoryRepository(mem)
	} else {
		conn := openDatabase(ctx, cfg, logger)
		defer conn.Close()
		products = catalog.NewPostgresRepository(conn)
		orders = order.NewPostgresRepository(conn)
		health["postgres"] = conn.PingContext
	}
	// Stock is always read uncached.
	stockSource := catalog.NewStockSource(products)

	var (
		cartOpts     []store.AggregateOption[cartlogic.CartState]
		wishlistOpts []store.AggregateOption[wishlogic.State]
		sessions     checkout.SessionStore
	)
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Fatal("Invalid REDIS_URL", zap.Error(err))
		}
		client := redis.NewClient(opts)
		defer client.Close()
		health["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }

		cached := catalog.NewCachedRepository(products, client, cfg.CatalogCacheTTL, logger)
		products = cached
		warmer, err := catalog.NewWarmer(cached, cfg.CatalogWarmSchedule, 2, logger)
		if err != nil {
			logger.Fatal("Failed to schedule cache warm-up", zap.Error(err))
		}
		warmer.Start()
		defer warmer.Stop()

		sessionStore := session.NewStore(client, cfg.SessionTTL, logger)
		cartOpts = session.Options[cartlogic.CartState](sessionStore)
		wishlistOpts = session.Options[wishlogic.State](sessionStore)
		sessions = sessionStore
	} else {
		logger.Warn("REDIS_URL not set, carts live only in this process")
	}

	cartOpts = append(cartOpts,
		store.WithListener(store.EventLogger[cartlogic.CartState](logger)),
		store.WithSnapshotEvery[cartlogic.CartState](cfg.SnapshotEvery))
	wishlistOpts = append(wishlistOpts,
		store.WithListener(store.EventLogger[wishlogic.State](logger)),
		store.WithSnapshotEvery[wishlogic.State](cfg.SnapshotEvery))

	carts := cart.NewLedger(logger, cfg.Tax(), cartOpts...)
	wishlists := wishlist.NewService(logger, wishlistOpts...)

	var validator inventory.Validator = inventory.NewLocalValidator(stockSource)
	if cfg.InventoryAddr != "" {
		conn, err := rpc.Dial(cfg.InventoryAddr)
		if err != nil {
			logger.Fatal("Failed to dial inventory service", zap.Error(err))
		}
		defer conn.Close()
		validator = rpc.NewRemoteValidator(conn)
		logger.Info("validating stock remotely", zap.String("addr", cfg.InventoryAddr))
	}

	var publisher order.Publisher = order.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = order.NewKafkaPublisher(cfg.KafkaBrokers, cfg.OrderTopic, logger)
	}
	defer publisher.Close()

	svc := checkout.NewService(checkout.Deps{
		Carts:     carts,
		Wishlists: wishlists,
		Catalog:   products,
		Validator: validator,
		Orders:    orders,
		Publisher: publisher,
		Sessions:  sessions,
		Logger:    logger,
	})

	stopCleanup := make(chan struct{})
	defer close(stopCleanup)
	limiter := api.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, logger)
	limiter.StartCleanup(time.Minute, stopCleanup)

	router := api.NewRouter(api.Deps{
		Checkout:  svc,
		Carts:     carts,
		Wishlists: wishlists,
		Catalog:   products,
		Orders:    orders,
		Metrics:   api.NewMetrics(),
		Limiter:   limiter,
		Logger:    logger,
		Health:    healthCheck(health),
	})

	logger.Info("Service configuration",
		zap.String("env", cfg.AppEnv),
		zap.String("port", cfg.Port),
		zap.Bool("postgres", cfg.DatabaseURL != ""),
		zap.Bool("redis", cfg.RedisURL != ""),
		zap.Strings("kafka_brokers", cfg.KafkaBrokers),
		zap.String("inventory_addr", cfg.InventoryAddr),
		zap.String("tax_rate", cfg.Tax().String()))

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Port))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}
	logger.Info("Server stopped")
}

func openDatabase(ctx context.Context, cfg *config.Config, logger *zap.Logger) *sqlx.DB {
	conn, err := db.Open(ctx, db.Config{URL: cfg.DatabaseURL, MaxOpenConns: cfg.DBMaxOpenConns}, logger)
	if err != nil {
		logger.Fatal("Failed to open database", zap.Error(err))
	}
	if cfg.RunMigrations {
		if err := db.Migrate(conn, logger); err != nil {
			logger.Fatal("Failed to migrate database", zap.Error(err))
		}
	}
	return conn
}

func healthCheck(checks map[string]func(context.Context) error) func() map[string]error {
	return func() map[string]error {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		out := make(map[string]error, len(checks))
		for name, check := range checks {
			out[name] = check(ctx)
		}
		return out
	}
}
