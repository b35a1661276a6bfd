package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/copter/internal/models"
	"github.com/mmynk/copter/internal/notify"
)

type mockLedger struct {
	mock.Mock
}

func (m *mockLedger) UnpaidOnActiveBills(ctx context.Context) ([]models.UnpaidEntry, error) {
	args := m.Called(ctx)
	entries, _ := args.Get(0).([]models.UnpaidEntry)
	return entries, args.Error(1)
}

func (m *mockLedger) FilesForCleanup(ctx context.Context, cutoff time.Time) ([]models.BillFile, error) {
	args := m.Called(ctx, cutoff)
	files, _ := args.Get(0).([]models.BillFile)
	return files, args.Error(1)
}

func (m *mockLedger) MarkFileDeleted(ctx context.Context, fileID string) error {
	return m.Called(ctx, fileID).Error(0)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Remind(ctx context.Context, r notify.Reminder) error {
	return m.Called(ctx, r).Error(0)
}

func (m *mockNotifier) DeleteFile(ctx context.Context, fileRef string) error {
	return m.Called(ctx, fileRef).Error(0)
}

func newTestScheduler(ledger Ledger, n *mockNotifier, now time.Time) *Scheduler {
	s := New(ledger, n, n, Config{Retention: 7 * 24 * time.Hour}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.now = func() time.Time { return now }
	return s
}

func TestSendReminders(t *testing.T) {
	ctx := context.Background()
	ledger := &mockLedger{}
	n := &mockNotifier{}

	entries := []models.UnpaidEntry{
		{UserID: "bob", BillID: "b1", BillName: "Dinner", Amount: decimal.RequireFromString("50"), Currency: "THB"},
		{UserID: "carol", BillID: "b1", BillName: "Dinner", Amount: decimal.RequireFromString("50"), Currency: "THB"},
	}
	ledger.On("UnpaidOnActiveBills", ctx).Return(entries, nil)
	n.On("Remind", ctx, mock.MatchedBy(func(r notify.Reminder) bool { return r.UserID == "bob" })).Return(nil)
	n.On("Remind", ctx, mock.MatchedBy(func(r notify.Reminder) bool { return r.UserID == "carol" })).Return(errors.New("dm closed"))

	result, err := newTestScheduler(ledger, n, time.Now()).SendReminders(ctx)
	require.NoError(t, err)
	assert.Equal(t, ReminderResult{Sent: 1, Failed: 1}, result)
	n.AssertNumberOfCalls(t, "Remind", 2)
}

func TestSendReminders_LedgerError(t *testing.T) {
	ctx := context.Background()
	ledger := &mockLedger{}
	ledger.On("UnpaidOnActiveBills", ctx).Return(nil, errors.New("db down"))

	_, err := newTestScheduler(ledger, &mockNotifier{}, time.Now()).SendReminders(ctx)
	assert.Error(t, err)
}

func TestCleanupFiles(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	ledger := &mockLedger{}
	n := &mockNotifier{}

	files := []models.BillFile{
		{ID: "f1", FileRef: "F1"},
		{ID: "f2", FileRef: "F2"},
		{ID: "f3", FileRef: "F3"},
		{ID: "f4", FileRef: "F4"},
	}
	ledger.On("FilesForCleanup", ctx, now.Add(-7*24*time.Hour)).Return(files, nil)
	n.On("DeleteFile", ctx, "F1").Return(nil)
	n.On("DeleteFile", ctx, "F2").Return(notify.ErrFileGone)
	n.On("DeleteFile", ctx, "F3").Return(notify.ErrFileProtected)
	n.On("DeleteFile", ctx, "F4").Return(errors.New("rate limited"))
	ledger.On("MarkFileDeleted", ctx, mock.Anything).Return(nil)

	result, err := newTestScheduler(ledger, n, now).CleanupFiles(ctx)
	require.NoError(t, err)
	assert.Equal(t, CleanupResult{Deleted: 2, Skipped: 1, Failed: 1}, result)

	ledger.AssertCalled(t, "MarkFileDeleted", ctx, "f1")
	ledger.AssertCalled(t, "MarkFileDeleted", ctx, "f2")
	ledger.AssertCalled(t, "MarkFileDeleted", ctx, "f3")
	ledger.AssertNotCalled(t, "MarkFileDeleted", ctx, "f4")
}

func TestRun_RejectsBadCron(t *testing.T) {
	s := New(&mockLedger{}, &mockNotifier{}, &mockNotifier{}, Config{ReminderCron: "not a cron"}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	err := s.Run(context.Background())
	assert.Error(t, err)
}

func TestRun_StopsWithContext(t *testing.T) {
	s := New(&mockLedger{}, &mockNotifier{}, &mockNotifier{},
		Config{ReminderCron: "0 9 * * *", CleanupCron: "0 3 * * 0"},
		slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
