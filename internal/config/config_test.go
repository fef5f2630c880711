package config

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("LISTING_MAX_LIMIT", "")
	t.Setenv("KAFKA_BROKERS", "")

	cfg := Load()
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 10, cfg.DefaultLimit)
	assert.Equal(t, 100, cfg.MaxLimit)
	assert.Equal(t, int32(10), cfg.PostgresMaxConns)
	assert.Equal(t, []string{"kafka:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.AutoMigrate)
	assert.False(t, cfg.SeedEnabled)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("LISTING_MAX_LIMIT", "50")
	t.Setenv("POSTGRES_MAX_CONNS", "4")
	t.Setenv("KAFKA_BROKERS", "k1:9092, ,k2:9092")
	t.Setenv("SEED_ENABLED", "true")
	t.Setenv("STORE_DRIVER", "memory")

	cfg := Load()
	assert.Equal(t, 50, cfg.MaxLimit)
	assert.Equal(t, int32(4), cfg.PostgresMaxConns)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.SeedEnabled)
	assert.Equal(t, "memory", cfg.StoreDriver)
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("LISTING_DEFAULT_LIMIT", "ten")
	t.Setenv("CREATE_RATE_PER_SEC", "fast")

	cfg := Load()
	assert.Equal(t, 10, cfg.DefaultLimit)
	assert.Equal(t, 2.0, cfg.CreateRatePerSec)
}

func TestNewLoggerLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, Config{LogLevel: "debug"}.NewLogger().GetLevel())
	assert.Equal(t, logrus.InfoLevel, Config{LogLevel: "loud"}.NewLogger().GetLevel())
}

func TestLoadRejectsNonPositiveLimits(t *testing.T) {
	for _, v := range []string{"0", "-5"} {
		t.Setenv("LISTING_MAX_LIMIT", v)
		t.Setenv("LISTING_DEFAULT_LIMIT", v)

		cfg := Load()
		assert.Equal(t, 100, cfg.MaxLimit, v)
		assert.Equal(t, 10, cfg.DefaultLimit, v)
	}
}
