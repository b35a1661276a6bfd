package notify

import (
	"context"
	"log/slog"
)

// LogNotifier writes reminders and deletions to the log instead of delivering
// them. It is used when no webhook is configured and for dry runs.
type LogNotifier struct {
	logger *slog.Logger
}

var (
	_ Notifier    = (*LogNotifier)(nil)
	_ FileDeleter = (*LogNotifier)(nil)
)

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Remind(_ context.Context, r Reminder) error {
	n.logger.Info("Reminder", "user_id", r.UserID, "bill_id", r.BillID, "text", r.Text)
	return nil
}

func (n *LogNotifier) DeleteFile(_ context.Context, fileRef string) error {
	n.logger.Info("Delete file", "file_ref", fileRef)
	return nil
}
