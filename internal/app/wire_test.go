package app

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/copter/internal/config"
	"github.com/mmynk/copter/internal/notify"
	"github.com/mmynk/copter/internal/secret"
)

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		DBPath:            filepath.Join(t.TempDir(), "ledger.db"),
		DefaultCurrency:   "THB",
		ReminderCron:      "0 9 * * *",
		FileCleanupCron:   "0 3 * * 0",
		FileRetentionDays: 7,
	}
}

func TestNewWire_Defaults(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	wire, err := NewWire(testConfig(t), logger)
	require.NoError(t, err)
	defer wire.Close()

	assert.IsType(t, &notify.LogNotifier{}, wire.Notifier)
	assert.IsType(t, &notify.LogNotifier{}, wire.Files)
	assert.NotNil(t, wire.Scheduler(testConfig(t), logger))
}

func TestNewWire_Webhook(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := testConfig(t)
	cfg.NotifyWebhookURL = "http://adapter.internal"
	key, err := secret.GenerateKey()
	require.NoError(t, err)
	cfg.PaymentSealKey = key

	wire, err := NewWire(cfg, logger)
	require.NoError(t, err)
	defer wire.Close()

	assert.IsType(t, &notify.WebhookNotifier{}, wire.Notifier)
}

func TestNewWire_BadSealKey(t *testing.T) {
	cfg := testConfig(t)
	cfg.PaymentSealKey = "c2hvcnQ="

	_, err := NewWire(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.ErrorContains(t, err, "PAYMENT_SEAL_KEY")
}
