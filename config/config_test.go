package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func missingFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "absent.env")
}

func TestLoad_defaults(t *testing.T) {
	cfg, err := Load(missingFile(t))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "50051", cfg.InventoryPort)
	assert.Equal(t, 168*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 5*time.Minute, cfg.CatalogCacheTTL)
	assert.Equal(t, "order-events", cfg.OrderTopic)
	assert.Equal(t, 50, cfg.SnapshotEvery)
	assert.True(t, cfg.Tax().Equal(decimal.RequireFromString("0.08")))
	assert.False(t, cfg.Production())
	assert.Empty(t, cfg.KafkaBrokers)
}

func TestLoad_environment(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("TAX_RATE", "0.2")
	t.Setenv("SESSION_TTL", "30m")

	cfg, err := Load(missingFile(t))
	require.NoError(t, err)

	assert.True(t, cfg.Production())
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.Tax().Equal(decimal.RequireFromString("0.2")))
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
}

func TestLoad_envFileDoesNotOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("ORDER_TOPIC=from-file\nPORT=9000\n"), 0o600))
	t.Setenv("PORT", "7000")
	// Registered so the variable the file sets is removed after the test.
	t.Setenv("ORDER_TOPIC", "")
	require.NoError(t, os.Unsetenv("ORDER_TOPIC"))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "7000", cfg.Port)
	assert.Equal(t, "from-file", cfg.OrderTopic)
}

func TestLoad_rejects(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"unparseable tax", "TAX_RATE", "eight"},
		{"negative tax", "TAX_RATE", "-0.1"},
		{"tax of one", "TAX_RATE", "1"},
		{"zero rps", "RATE_LIMIT_RPS", "0"},
		{"negative snapshots", "SNAPSHOT_EVERY", "-1"},
		{"bad duration", "SESSION_TTL", "soon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load(missingFile(t))
			assert.Error(t, err)
		})
	}
}

func TestNewLogger(t *testing.T) {
	for _, env := range []string{"production", "development"} {
		cfg := &Config{AppEnv: env}
		logger, err := cfg.NewLogger()
		require.NoError(t, err)
		assert.NotNil(t, logger)
	}
}
