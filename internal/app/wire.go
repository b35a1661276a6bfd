// Package app wires the ledger dependencies shared by the server and copterctl.
package app

import (
	"fmt"
	"log/slog"

	"github.com/mmynk/copter/internal/config"
	"github.com/mmynk/copter/internal/notify"
	"github.com/mmynk/copter/internal/scheduler"
	"github.com/mmynk/copter/internal/secret"
	"github.com/mmynk/copter/internal/settlement"
	"github.com/mmynk/copter/internal/storage/sqlite"
)

// Wire bundles the store, the workflow and the notification clients.
type Wire struct {
	Store    *sqlite.SQLiteStore
	Workflow *settlement.Workflow
	Notifier notify.Notifier
	Files    notify.FileDeleter
}

// NewWire opens the store (running migrations) and builds the workflow
// and notifiers from cfg.
func NewWire(cfg *config.Config, logger *slog.Logger) (*Wire, error) {
	var opts []sqlite.Option
	if cfg.PaymentSealKey != "" {
		box, err := secret.NewFromBase64(cfg.PaymentSealKey)
		if err != nil {
			return nil, fmt.Errorf("PAYMENT_SEAL_KEY: %w", err)
		}
		opts = append(opts, sqlite.WithSealer(box))
	} else {
		logger.Warn("PAYMENT_SEAL_KEY not set, payment details are stored unsealed")
	}

	store, err := sqlite.New(cfg.DBPath, opts...)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	w := &Wire{
		Store:    store,
		Workflow: settlement.New(store, settlement.WithDefaultCurrency(cfg.DefaultCurrency)),
	}
	if cfg.NotifyWebhookURL != "" {
		webhook := notify.NewWebhookNotifier(cfg.NotifyWebhookURL, cfg.NotifyTimeout)
		w.Notifier, w.Files = webhook, webhook
	} else {
		logNotifier := notify.NewLogNotifier(logger)
		w.Notifier, w.Files = logNotifier, logNotifier
	}
	return w, nil
}

// Scheduler builds the sweep scheduler over this wiring.
func (w *Wire) Scheduler(cfg *config.Config, logger *slog.Logger) *scheduler.Scheduler {
	return scheduler.New(w.Workflow, w.Notifier, w.Files, scheduler.Config{
		ReminderCron: cfg.ReminderCron,
		CleanupCron:  cfg.FileCleanupCron,
		Retention:    cfg.FileRetention(),
	}, logger)
}

// Close releases the store.
func (w *Wire) Close() error {
	return w.Store.Close()
}
