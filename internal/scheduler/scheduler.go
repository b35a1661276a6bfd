// Package scheduler runs the periodic sweeps around the ledger: daily payment
// reminders and removal of attachments from long-closed bills.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mileusna/crontab"

	"github.com/mmynk/copter/internal/metrics"
	"github.com/mmynk/copter/internal/models"
	"github.com/mmynk/copter/internal/notify"
)

// JobTimeout bounds a single sweep.
const JobTimeout = 10 * time.Minute

// Ledger is the read side the sweeps need.
type Ledger interface {
	UnpaidOnActiveBills(ctx context.Context) ([]models.UnpaidEntry, error)
	FilesForCleanup(ctx context.Context, cutoff time.Time) ([]models.BillFile, error)
	MarkFileDeleted(ctx context.Context, fileID string) error
}

// Config holds the schedules of the sweeps.
type Config struct {
	ReminderCron string
	CleanupCron  string

	// Retention is how long a bill stays closed before its files are removed.
	Retention time.Duration
}

// Scheduler owns the crontab running the sweeps.
type Scheduler struct {
	ctab     *crontab.Crontab
	ledger   Ledger
	notifier notify.Notifier
	files    notify.FileDeleter
	cfg      Config
	logger   *slog.Logger
	now      func() time.Time
}

// New creates a Scheduler. Nothing runs until Run is called.
func New(ledger Ledger, notifier notify.Notifier, files notify.FileDeleter, cfg Config, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		ctab:     crontab.New(),
		ledger:   ledger,
		notifier: notifier,
		files:    files,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// Run schedules the sweeps and blocks until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	if s.cfg.ReminderCron != "" {
		if err := s.ctab.AddJob(s.cfg.ReminderCron, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), JobTimeout)
			defer cancel()
			if _, err := s.SendReminders(jobCtx); err != nil {
				s.logger.Error("Reminder sweep failed", "error", err)
			}
		}); err != nil {
			return fmt.Errorf("failed to add reminder job: %w", err)
		}
		s.logger.Info("Reminders scheduled", "cron", s.cfg.ReminderCron)
	}

	if s.cfg.CleanupCron != "" {
		if err := s.ctab.AddJob(s.cfg.CleanupCron, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), JobTimeout)
			defer cancel()
			if _, err := s.CleanupFiles(jobCtx); err != nil {
				s.logger.Error("File cleanup failed", "error", err)
			}
		}); err != nil {
			return fmt.Errorf("failed to add file cleanup job: %w", err)
		}
		s.logger.Info("File cleanup scheduled", "cron", s.cfg.CleanupCron, "retention", s.cfg.Retention)
	}

	<-ctx.Done()
	s.ctab.Shutdown()
	return nil
}

// ReminderResult summarizes a reminder sweep.
type ReminderResult struct {
	Sent   int
	Failed int
}

// SendReminders reminds every participant with an open debt on an active bill.
// A failed delivery is logged and does not stop the sweep.
func (s *Scheduler) SendReminders(ctx context.Context) (ReminderResult, error) {
	start := s.now()
	defer func() { metrics.RecordSweep("reminders", time.Since(start).Seconds()) }()

	var result ReminderResult
	entries, err := s.ledger.UnpaidOnActiveBills(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to list unpaid participants: %w", err)
	}

	for _, e := range entries {
		if err := s.notifier.Remind(ctx, notify.ReminderFor(e)); err != nil {
			s.logger.Warn("Failed to send reminder", "user_id", e.UserID, "bill_id", e.BillID, "error", err)
			metrics.RecordReminder("failed")
			result.Failed++
			continue
		}
		metrics.RecordReminder("sent")
		result.Sent++
	}

	s.logger.Info("Reminder sweep done", "sent", result.Sent, "failed", result.Failed)
	return result, nil
}

// CleanupResult summarizes a file cleanup sweep.
type CleanupResult struct {
	Deleted int
	// Skipped files could never be deleted and are no longer retried.
	Skipped int
	// Failed files are retried on the next sweep.
	Failed int
}

// CleanupFiles removes attachments of bills closed for longer than the retention period.
func (s *Scheduler) CleanupFiles(ctx context.Context) (CleanupResult, error) {
	start := s.now()
	defer func() { metrics.RecordSweep("file_cleanup", time.Since(start).Seconds()) }()

	var result CleanupResult
	files, err := s.ledger.FilesForCleanup(ctx, start.Add(-s.cfg.Retention))
	if err != nil {
		return result, fmt.Errorf("failed to list files for cleanup: %w", err)
	}

	for _, f := range files {
		err := s.files.DeleteFile(ctx, f.FileRef)
		status := "deleted"
		switch {
		case err == nil, errors.Is(err, notify.ErrFileGone):
			result.Deleted++
		case errors.Is(err, notify.ErrFileProtected):
			status = "skipped"
			result.Skipped++
		default:
			s.logger.Warn("Failed to delete file", "file_ref", f.FileRef, "bill_id", f.BillID, "error", err)
			metrics.RecordFileCleanup("failed")
			result.Failed++
			continue
		}

		if err := s.ledger.MarkFileDeleted(ctx, f.ID); err != nil {
			return result, fmt.Errorf("failed to mark file deleted: %w", err)
		}
		metrics.RecordFileCleanup(status)
	}

	s.logger.Info("File cleanup done", "deleted", result.Deleted, "skipped", result.Skipped, "failed", result.Failed)
	return result, nil
}
