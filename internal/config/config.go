package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/shopspring/decimal"
)

// Config holds all configuration for the application
// Following 12-factor app principles, all config is loaded from environment variables
type Config struct {
	Server   ServerConfig
	Auth     AuthConfig
	Store    StoreConfig
	Coupon   CouponConfig
	Pricing  PricingConfig
	Orders   OrdersConfig
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

type ServerConfig struct {
	Port            string `env:"PORT" envDefault:"8080"`
	Host            string `env:"HOST" envDefault:"0.0.0.0"`
	ReadTimeout     int    `env:"READ_TIMEOUT" envDefault:"15"`
	WriteTimeout    int    `env:"WRITE_TIMEOUT" envDefault:"15"`
	ShutdownTimeout int    `env:"SHUTDOWN_TIMEOUT" envDefault:"30"`
}

type AuthConfig struct {
	APIKeys []string `env:"API_KEYS" envDefault:"apitest" envSeparator:","` // Valid API keys for placing orders
}

// StoreConfig selects where carts, coupons and KV order history live
type StoreConfig struct {
	Backend       string `env:"STORE_BACKEND" envDefault:"memory"`
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	TTLHours      int    `env:"STORE_TTL_HOURS" envDefault:"168"`
}

// CouponConfig lists extra coupon CSV sources merged over the built-in codes
type CouponConfig struct {
	Files []string `env:"COUPON_FILES" envSeparator:","`
	URLs  []string `env:"COUPON_URLS" envSeparator:","`
}

type PricingConfig struct {
	ShippingFee decimal.Decimal `env:"SHIPPING_FEE" envDefault:"2.50"`
}

// OrdersConfig wires the optional order history database and event stream
type OrdersConfig struct {
	DatabaseURL   string   `env:"DATABASE_URL"`
	KafkaBrokers  []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopic    string   `env:"KAFKA_ORDER_TOPIC" envDefault:"storefront.orders"`
	PublicBaseURL string   `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:8080"`
}

// Store backends
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if len(c.Auth.APIKeys) == 0 {
		return fmt.Errorf("at least one API key must be configured")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	switch c.Store.Backend {
	case BackendMemory:
	case BackendRedis:
		if c.Store.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required for the redis store backend")
		}
	default:
		return fmt.Errorf("invalid store backend: %s (must be memory or redis)", c.Store.Backend)
	}

	if c.Store.TTLHours < 0 {
		return fmt.Errorf("STORE_TTL_HOURS must not be negative")
	}

	if c.Pricing.ShippingFee.IsNegative() {
		return fmt.Errorf("SHIPPING_FEE must not be negative")
	}

	if len(c.Orders.KafkaBrokers) > 0 && c.Orders.KafkaTopic == "" {
		return fmt.Errorf("KAFKA_ORDER_TOPIC is required when KAFKA_BROKERS is set")
	}

	return nil
}

// StoreTTL is how long a session's stored state lives in Redis
func (s StoreConfig) StoreTTL() time.Duration {
	return time.Duration(s.TTLHours) * time.Hour
}
