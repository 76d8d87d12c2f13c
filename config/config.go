// Package config loads process settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const EnvProduction = "production"

type Config struct {
	AppEnv        string `envconfig:"APP_ENV" default:"development"`
	Port          string `envconfig:"PORT" default:"8080"`
	InventoryPort string `envconfig:"INVENTORY_PORT" default:"50051"`

	// DatabaseURL empty runs on the in-memory demo catalog.
	DatabaseURL    string `envconfig:"DATABASE_URL"`
	DBMaxOpenConns int    `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
	RunMigrations  bool   `envconfig:"RUN_MIGRATIONS" default:"true"`

	RedisURL            string        `envconfig:"REDIS_URL"`
	SessionTTL          time.Duration `envconfig:"SESSION_TTL" default:"168h"`
	CatalogCacheTTL     time.Duration `envconfig:"CATALOG_CACHE_TTL" default:"5m"`
	CatalogWarmSchedule string        `envconfig:"CATALOG_WARM_SCHEDULE" default:"@every 10m"`

	KafkaBrokers []string `envconfig:"KAFKA_BROKERS"`
	OrderTopic   string   `envconfig:"ORDER_TOPIC" default:"order-events"`

	// InventoryAddr empty validates stock in process.
	InventoryAddr string `envconfig:"INVENTORY_ADDR"`

	TaxRate        string  `envconfig:"TAX_RATE" default:"0.08"`
	RateLimitRPS   float64 `envconfig:"RATE_LIMIT_RPS" default:"20"`
	RateLimitBurst int     `envconfig:"RATE_LIMIT_BURST" default:"40"`
	SnapshotEvery  int     `envconfig:"SNAPSHOT_EVERY" default:"50"`

	taxRate decimal.Decimal
}

// Load reads envFiles (".env" when none are given) into the environment
// without overriding variables already set, then processes the environment.
// Missing files are skipped.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read %s: %w", f, err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	rate, err := decimal.NewFromString(c.TaxRate)
	if err != nil {
		return fmt.Errorf("invalid TAX_RATE %q: %w", c.TaxRate, err)
	}
	if rate.IsNegative() || rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("TAX_RATE must be in [0, 1), got %s", c.TaxRate)
	}
	c.taxRate = rate

	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("rate limit must be positive, got %v/s burst %d", c.RateLimitRPS, c.RateLimitBurst)
	}
	if c.SnapshotEvery < 0 {
		return fmt.Errorf("SNAPSHOT_EVERY cannot be negative, got %d", c.SnapshotEvery)
	}
	return nil
}

// Tax is the parsed TAX_RATE.
func (c *Config) Tax() decimal.Decimal {
	return c.taxRate
}

func (c *Config) Production() bool {
	return c.AppEnv == EnvProduction
}

// NewLogger builds a JSON production logger in production and a console
// development logger otherwise.
func (c *Config) NewLogger() (*zap.Logger, error) {
	if c.Production() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
