package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/TimKoenig/FolioDesk/internal/pkg/env"
)

// Config is the validated runtime configuration, built once at startup.
// Cross-field billing invariants are checked eagerly so a misconfigured
// deployment fails at boot instead of on the first checkout.
type Config struct {
	AppEnv        string `validate:"oneof=dev prod"`
	AppHost       string
	AppPort       string `validate:"required"`
	PublicBaseURL string `validate:"required,url"`

	EnableBilling bool
	BillingMode   string `validate:"oneof=payment subscription"`

	StripeSecretKey     string
	StripeWebhookSecret string

	PriceIDSubscription string
	PriceIDStarter      string
	PriceIDPro          string
	PriceIDEnterprise   string
}

var current *Config

// Setup loads and validates the configuration and stores it process-wide.
// It panics on invalid configuration; call it once during startup.
func Setup() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("invalid configuration: %v", err))
	}
	current = cfg
	return cfg
}

// Get returns the process-wide configuration set by Setup.
func Get() *Config {
	if current == nil {
		return Setup()
	}
	return current
}

// Load builds a Config from the environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		AppEnv:        strings.ToLower(env.GetEnv("APP_ENV", "prod")),
		AppHost:       env.GetEnv("APP_HOST", "localhost"),
		AppPort:       env.GetEnv("APP_PORT", "4000"),
		PublicBaseURL: env.GetEnv("PUBLIC_BASE_URL", "http://localhost:4000"),

		EnableBilling: env.GetEnv("ENABLE_BILLING", "false") == "true",
		BillingMode:   strings.ToLower(env.GetEnv("BILLING_MODE", "payment")),

		StripeSecretKey:     env.GetEnv("STRIPE_SECRET_KEY", ""),
		StripeWebhookSecret: env.GetEnv("STRIPE_WEBHOOK_SECRET", ""),

		PriceIDSubscription: env.GetEnv("STRIPE_PRICE_ID_SUBSCRIPTION", ""),
		PriceIDStarter:      env.GetEnv("STRIPE_PRICE_ID_STARTER", ""),
		PriceIDPro:          env.GetEnv("STRIPE_PRICE_ID_PRO", ""),
		PriceIDEnterprise:   env.GetEnv("STRIPE_PRICE_ID_ENTERPRISE", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints and the cross-field billing invariants.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return err
	}

	if !c.EnableBilling {
		return nil
	}

	if c.StripeSecretKey == "" {
		return errors.New("STRIPE_SECRET_KEY is required when ENABLE_BILLING=true")
	}
	if c.StripeWebhookSecret == "" {
		return errors.New("STRIPE_WEBHOOK_SECRET is required when ENABLE_BILLING=true")
	}

	if c.BillingMode == "subscription" {
		if c.PriceIDSubscription == "" {
			return errors.New("STRIPE_PRICE_ID_SUBSCRIPTION is required for BILLING_MODE=subscription")
		}
		return nil
	}

	if c.PriceIDStarter == "" || c.PriceIDPro == "" || c.PriceIDEnterprise == "" {
		return errors.New("BILLING_MODE=payment requires STRIPE_PRICE_ID_STARTER, STRIPE_PRICE_ID_PRO and STRIPE_PRICE_ID_ENTERPRISE")
	}
	return nil
}

// IsDev reports whether the app runs in a development runtime.
func (c *Config) IsDev() bool {
	return c.AppEnv == "dev"
}
