package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "local", cfg.Environment)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 5*time.Second, cfg.TxTimeout)
	assert.Equal(t, "trustlink", cfg.Auth.JWTIssuer)
	assert.Equal(t, "trustlink-api", cfg.Auth.JWTAudience)
	assert.True(t, cfg.UsesDevSigningKey())
	assert.Empty(t, cfg.Database.URL)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5, cfg.Database.MaxIdleConns)
	assert.Equal(t, 10, cfg.Redis.PoolSize)
	assert.Equal(t, 5*time.Minute, cfg.Redis.CacheTTL)
	assert.Equal(t, "trustlink.verification.events", cfg.Kafka.AuditTopic)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("TRUSTLINK_ADDR", ":9999")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/db")
	t.Setenv("REDIS_CACHE_TTL", "1m")
	t.Setenv("KAFKA_BROKERS", "localhost:9092")
	t.Setenv("TX_TIMEOUT", "250ms")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "postgres://u:p@localhost/db", cfg.Database.URL)
	assert.Equal(t, time.Minute, cfg.Redis.CacheTTL)
	assert.Equal(t, "localhost:9092", cfg.Kafka.Brokers)
	assert.Equal(t, 250*time.Millisecond, cfg.TxTimeout)
}

func TestFromEnv_Invalid(t *testing.T) {
	t.Run("bad duration", func(t *testing.T) {
		t.Setenv("REQUEST_TIMEOUT", "soon")
		_, err := FromEnv()
		assert.ErrorContains(t, err, "REQUEST_TIMEOUT")
	})

	t.Run("bad integer", func(t *testing.T) {
		t.Setenv("DB_MAX_OPEN_CONNS", "-1")
		_, err := FromEnv()
		assert.ErrorContains(t, err, "DB_MAX_OPEN_CONNS")
	})

	t.Run("dev key outside local", func(t *testing.T) {
		t.Setenv("TRUSTLINK_ENV", "production")
		_, err := FromEnv()
		assert.ErrorContains(t, err, "JWT_SIGNING_KEY")
	})
}
