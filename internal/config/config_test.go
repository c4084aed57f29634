package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"apitest"}, cfg.Auth.APIKeys)
	assert.Equal(t, BackendMemory, cfg.Store.Backend)
	assert.Equal(t, 168*time.Hour, cfg.Store.StoreTTL())
	assert.True(t, cfg.Pricing.ShippingFee.Equal(decimal.RequireFromString("2.50")))
	assert.Empty(t, cfg.Coupon.Files)
	assert.Empty(t, cfg.Orders.KafkaBrokers)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_CustomValues(t *testing.T) {
	t.Setenv("API_KEYS", "one,two")
	t.Setenv("STORE_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "redis.prod:6380")
	t.Setenv("SHIPPING_FEE", "3.75")
	t.Setenv("COUPON_FILES", "a.csv,b.csv.gz")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, cfg.Auth.APIKeys)
	assert.Equal(t, BackendRedis, cfg.Store.Backend)
	assert.Equal(t, "redis.prod:6380", cfg.Store.RedisAddr)
	assert.True(t, cfg.Pricing.ShippingFee.Equal(decimal.RequireFromString("3.75")))
	assert.Equal(t, []string{"a.csv", "b.csv.gz"}, cfg.Coupon.Files)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Orders.KafkaBrokers)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{"log level", "LOG_LEVEL", "verbose", "invalid log level"},
		{"store backend", "STORE_BACKEND", "etcd", "invalid store backend"},
		{"negative shipping", "SHIPPING_FEE", "-1", "SHIPPING_FEE must not be negative"},
		{"negative ttl", "STORE_TTL_HOURS", "-5", "STORE_TTL_HOURS must not be negative"},
		{"unparsable shipping", "SHIPPING_FEE", "free", "parse config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			cfg, err := Load()

			assert.Nil(t, cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
