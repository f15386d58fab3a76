package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaultsWithoutEnvFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "Africa/Algiers", cfg.App.Timezone)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessExpiry)
	assert.Equal(t, 30*24*time.Hour, cfg.Prescription.Validity)
	assert.Equal(t, "dawini.events", cfg.Kafka.Topic)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.False(t, cfg.DB.Migrate)
	assert.Empty(t, cfg.App.CORSOrigins)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("APP_PORT", "9090")
	t.Setenv("JWT_ACCESS_EXPIRY", "30m")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("RATE_LIMIT_REQUESTS", "120")
	t.Setenv("DB_MIGRATE", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://dawini.dz,https://admin.dawini.dz")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, 30*time.Minute, cfg.JWT.AccessExpiry)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 120, cfg.RateLimit.Requests)
	assert.True(t, cfg.DB.Migrate)
	assert.Equal(t, []string{"https://dawini.dz", "https://admin.dawini.dz"}, cfg.App.CORSOrigins)
}

func TestLoadConfigRejectsUnknownTimezone(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("APP_TIMEZONE", "Mars/Olympus_Mons")

	_, err := LoadConfig()
	assert.Error(t, err)
}
