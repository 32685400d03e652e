package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "/api/v1", cfg.GetAPIBasePath())
	assert.Equal(t, ":8080", cfg.GetServerAddress())
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "agreement-lifecycle", cfg.Kafka.Topic)
	assert.False(t, cfg.Kafka.Enabled)
	assert.Equal(t, "http://localhost:9090", cfg.Minting.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Minting.Timeout)
	assert.Contains(t, cfg.Database.DSN, "dbname=nfticket_db")
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("GIN_MODE", "release")
	t.Setenv("DB_NAME", "tickets")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker-1:9092, broker-2:9092")
	t.Setenv("JWT_EXPIRES_IN", "600")
	t.Setenv("MINTING_TIMEOUT", "5s")

	cfg := Load()

	assert.Equal(t, "9000", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Contains(t, cfg.Database.DSN, "dbname=tickets")
	assert.True(t, cfg.Kafka.Enabled)
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 10*time.Minute, cfg.JWT.JWTExpiresIn)
	assert.Equal(t, 5*time.Second, cfg.Minting.Timeout)
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("RATE_LIMIT_ENABLED", "not-a-bool")
	t.Setenv("READ_TIMEOUT", "soon")

	cfg := Load()

	assert.Equal(t, 0, cfg.Redis.DB)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 15*time.Second, cfg.ReadTimeout)
}
