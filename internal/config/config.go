// Package config loads service configuration from the environment. Policy
// numbers (rate windows, low-stock thresholds, ticket price) live here so
// operators can tune them without a rebuild.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	DatabaseURL string `env:"DATABASE_URL"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:","`

	StripeSecretKey     string `env:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret string `env:"STRIPE_WEBHOOK_SECRET"`

	AdminPassword string `env:"ADMIN_PASSWORD"`

	CheckoutSuccessURL string `env:"CHECKOUT_SUCCESS_URL"`
	CheckoutCancelURL  string `env:"CHECKOUT_CANCEL_URL"`
	TicketPriceCents   int64  `env:"TICKET_PRICE_CENTS" envDefault:"7500"`

	CheckoutRateMax    int           `env:"CHECKOUT_RATE_MAX" envDefault:"30"`
	CheckoutRateWindow time.Duration `env:"CHECKOUT_RATE_WINDOW" envDefault:"5m"`
	StatusRateMax      int           `env:"STATUS_RATE_MAX" envDefault:"120"`
	StatusRateWindow   time.Duration `env:"STATUS_RATE_WINDOW" envDefault:"1m"`

	LowStockFloor int     `env:"LOW_STOCK_FLOOR" envDefault:"10"`
	LowStockRatio float64 `env:"LOW_STOCK_RATIO" envDefault:"0.2"`
}

// Load parses configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// ValidatePayments checks the settings the checkout and webhook paths cannot
// run without. The server refuses to start half-configured rather than
// failing per-request.
func (c Config) ValidatePayments() error {
	if c.StripeSecretKey == "" {
		return errors.New("STRIPE_SECRET_KEY is required")
	}
	if c.StripeWebhookSecret == "" {
		return errors.New("STRIPE_WEBHOOK_SECRET is required")
	}
	if c.CheckoutSuccessURL == "" || c.CheckoutCancelURL == "" {
		return errors.New("CHECKOUT_SUCCESS_URL and CHECKOUT_CANCEL_URL are required")
	}
	return nil
}
