package config

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(env.Options{Environment: map[string]string{}})
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "./data/bills.db", cfg.DBPath)
	assert.Equal(t, "THB", cfg.DefaultCurrency)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "0 9 * * *", cfg.ReminderCron)
	assert.Equal(t, 7*24*time.Hour, cfg.FileRetention())
	assert.Equal(t, 10*time.Second, cfg.NotifyTimeout)
	assert.Empty(t, cfg.NotifyWebhookURL)
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(env.Options{Environment: map[string]string{
		"PORT":                "9090",
		"DEFAULT_CURRENCY":    " usd ",
		"TOKEN_TTL":           "1h",
		"FILE_RETENTION_DAYS": "0",
		"NOTIFY_WEBHOOK_URL":  " http://adapter:3000 ",
		"LOG_FORMAT":          "JSON",
	}})
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "USD", cfg.DefaultCurrency)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Equal(t, 7, cfg.FileRetentionDays)
	assert.Equal(t, "http://adapter:3000", cfg.NotifyWebhookURL)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_InvalidValue(t *testing.T) {
	_, err := load(env.Options{Environment: map[string]string{"PORT": "eighty"}})
	assert.Error(t, err)
}

func TestValidateServer(t *testing.T) {
	cfg, err := load(env.Options{Environment: map[string]string{}})
	require.NoError(t, err)
	assert.Error(t, cfg.ValidateServer())

	cfg.JWTSecret = "0123456789abcdef0123456789abcdef"
	cfg.IntegrationKeyHash = "$2a$10$abcdefghijklmnopqrstuuO3ve8Jcnn9n3CZZJm9b7y8Q8bS1WVbW"
	assert.NoError(t, cfg.ValidateServer())
}
