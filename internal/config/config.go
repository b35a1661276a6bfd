// Package config loads the Copter configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds the environment driven configuration shared by the server and copterctl.
type Config struct {
	// Service Configuration
	Port            int           `env:"PORT" envDefault:"8080"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"text"` // Options: "text" or "json"
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Ledger
	DBPath          string `env:"DB_PATH" envDefault:"./data/bills.db"`
	DefaultCurrency string `env:"DEFAULT_CURRENCY" envDefault:"THB"`

	// Authentication
	JWTSecret          string        `env:"JWT_SECRET"`
	TokenTTL           time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
	IntegrationKeyHash string        `env:"INTEGRATION_KEY_HASH"`

	// PaymentSealKey is a base64 encoded 32 byte key. Payment details are stored in clear when empty.
	PaymentSealKey string `env:"PAYMENT_SEAL_KEY"`

	// Scheduler
	ReminderCron      string `env:"REMINDER_CRON" envDefault:"0 9 * * *"`
	FileCleanupCron   string `env:"FILE_CLEANUP_CRON" envDefault:"0 3 * * 0"`
	FileRetentionDays int    `env:"FILE_RETENTION_DAYS" envDefault:"7"`

	// Notifications. Reminders are only logged when no webhook is set.
	NotifyWebhookURL string        `env:"NOTIFY_WEBHOOK_URL"`
	NotifyTimeout    time.Duration `env:"NOTIFY_TIMEOUT" envDefault:"10s"`
}

// Load parses environment variables into Config.
func Load() (*Config, error) {
	return load(env.Options{})
}

func load(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	cfg.DefaultCurrency = strings.ToUpper(strings.TrimSpace(cfg.DefaultCurrency))
	cfg.NotifyWebhookURL = strings.TrimSpace(cfg.NotifyWebhookURL)
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))
	if cfg.FileRetentionDays <= 0 {
		cfg.FileRetentionDays = 7
	}
	return cfg, nil
}

// FileRetention is how long a closed bill keeps its attachments.
func (c *Config) FileRetention() time.Duration {
	return time.Duration(c.FileRetentionDays) * 24 * time.Hour
}

// ValidateServer checks the settings the RPC server cannot run without.
func (c *Config) ValidateServer() error {
	var errs []error
	if len(c.JWTSecret) < 32 {
		errs = append(errs, errors.New("JWT_SECRET must be at least 32 characters"))
	}
	if c.IntegrationKeyHash == "" {
		errs = append(errs, errors.New("INTEGRATION_KEY_HASH is required"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d is out of range", c.Port))
	}
	return errors.Join(errs...)
}
