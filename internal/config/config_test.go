package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{}))
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.GetServerAddr())
	assert.Equal(t, "/api/v1", cfg.Server.BasePath)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTokenTTL)
	assert.Equal(t, 168*time.Hour, cfg.Auth.RefreshTokenTTL)
	assert.Equal(t, "campaign_sales", cfg.RabbitMQ.SalesQueue)
	assert.False(t, cfg.RabbitMQ.Enabled)
	assert.Equal(t, 90, cfg.SaleLogRetentionDays)
	assert.NotEmpty(t, cfg.Auth.JWTSecret, "development falls back to a local secret")
}

func TestLoadWith_Overrides(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"SERVER_PORT":             "9090",
		"SERVER_H2C":              "true",
		"DB_HOST":                 "db",
		"DB_NAME":                 "shop",
		"AUTH_JWT_SECRET":         "s3cret",
		"AUTH_ACCESS_TOKEN_TTL":   "5m",
		"RABBITMQ_ENABLED":        "true",
		"RABBITMQ_USER":           "app",
		"RABBITMQ_PASSWORD":       "pw",
		"RATE_LIMIT_RPS":          "2.5",
		"RATE_LIMIT_BURST":        "5",
		"APP_ENVIRONMENT":         "production",
		"SALE_LOG_RETENTION_DAYS": "30",
	}))
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.True(t, cfg.Server.H2C)
	assert.Contains(t, cfg.Database.GetDatabaseURL(), "host=db")
	assert.Contains(t, cfg.Database.GetDatabaseURL(), "dbname=shop")
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, 5*time.Minute, cfg.Auth.AccessTokenTTL)
	assert.Equal(t, "amqp://app:pw@localhost:5672/", cfg.RabbitMQ.GetURL())
	assert.Equal(t, 2.5, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 5, cfg.RateLimit.Burst)
	assert.True(t, cfg.App.IsProduction())
	assert.Equal(t, 30, cfg.SaleLogRetentionDays)
}

func TestLoadWith_SecretRequiredInProduction(t *testing.T) {
	_, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"APP_ENVIRONMENT": "production",
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AUTH_JWT_SECRET")
}

func TestLoadWith_RejectsInvalidNumbers(t *testing.T) {
	_, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"SERVER_READ_TIMEOUT": "soon",
	}))
	assert.Error(t, err)
}
