package settlement

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/copter/internal/models"
)

func TestListActiveAndHistory(t *testing.T) {
	w, _ := newTestWorkflow(t)
	ctx := context.Background()

	open := createEqual(t, w, "alice", "bob")
	pending := createItemBill(t, w, "bob")
	closed := createEqual(t, w, "alice", "carol")
	_, err := w.Cancel(ctx, closed.Bill.ID, "alice")
	require.NoError(t, err)

	active, err := w.ListActive(ctx, "C1")
	require.NoError(t, err)
	ids := make([]string, 0, len(active))
	for _, s := range active {
		ids = append(ids, s.Bill.ID)
	}
	assert.ElementsMatch(t, []string{open.Bill.ID, pending.Bill.ID}, ids)

	history, err := w.ListHistory(ctx, "C1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, closed.Bill.ID, history[0].Bill.ID)
	assert.Equal(t, 2, history[0].ParticipantCount)
	assert.Equal(t, 1, history[0].PaidCount)

	_, err = w.ListActive(ctx, "")
	requireDenial(t, err, ReasonInvalidInput)
}

func TestListHistory_Limit(t *testing.T) {
	w, _ := newTestWorkflow(t)
	ctx := context.Background()

	for i := 0; i < HistoryLimit+2; i++ {
		createEqual(t, w, "alice")
	}

	history, err := w.ListHistory(ctx, "C1")
	require.NoError(t, err)
	assert.Len(t, history, HistoryLimit)
}

func TestListOutstanding(t *testing.T) {
	w, _ := newTestWorkflow(t)
	ctx := context.Background()

	createEqual(t, w, "alice", "bob")
	createEqual(t, w, "alice", "bob", "carol")

	debts, err := w.ListOutstanding(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, debts, 1)
	assert.Equal(t, "alice", debts[0].CreditorID)
	assert.Equal(t, "83.33", debts[0].Amount.StringFixed(2))
	assert.Len(t, debts[0].Bills, 2)

	debts, err = w.ListOutstanding(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, debts)
}

func TestRemindAll(t *testing.T) {
	w, _ := newTestWorkflow(t)
	ctx := context.Background()

	snap := createEqual(t, w, "alice", "bob", "carol")

	_, err := w.RemindAll(ctx, snap.Bill.ID, "bob")
	requireDenial(t, err, ReasonNotCreator)

	_, err = w.ReportPaid(ctx, snap.Bill.ID, "carol")
	require.NoError(t, err)

	reminder, err := w.RemindAll(ctx, snap.Bill.ID, "alice")
	require.NoError(t, err)
	require.Len(t, reminder.Unpaid, 2, "pending participants still owe")
	assert.Equal(t, "bob", reminder.Unpaid[0].UserID)
	assert.Equal(t, "carol", reminder.Unpaid[1].UserID)

	entries, err := w.UnpaidOnActiveBills(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	pending := createItemBill(t, w, "bob")
	_, err = w.RemindAll(ctx, pending.Bill.ID, "alice")
	requireDenial(t, err, ReasonBillNotActive)
}

func TestPaymentMethods(t *testing.T) {
	w, _ := newTestWorkflow(t)
	ctx := context.Background()

	_, err := w.GetPaymentMethod(ctx, "alice")
	requireDenial(t, err, ReasonNotFound)

	invalid := []*models.PaymentMethod{
		nil,
		{UserID: "alice"},
		{UserID: "alice", PromptPayType: "iban", PromptPayID: "x"},
		{UserID: "alice", PromptPayType: models.PromptPayPhone},
		{UserID: "alice", BankAccountNumber: "123"},
	}
	for _, pm := range invalid {
		_, err := w.SavePaymentMethod(ctx, pm)
		requireDenial(t, err, ReasonInvalidInput)
	}

	_, err = w.SavePaymentMethod(ctx, &models.PaymentMethod{
		UserID:        "alice",
		PromptPayType: models.PromptPayPhone,
		PromptPayID:   "0812345678",
	})
	require.NoError(t, err)

	snap := createEqual(t, w, "alice", "bob")
	require.NotNil(t, snap.CreatorPaymentMethod)
	assert.Equal(t, "0812345678", snap.CreatorPaymentMethod.PromptPayID)

	require.NoError(t, w.RemovePaymentMethod(ctx, "alice"))
	requireDenial(t, w.RemovePaymentMethod(ctx, "alice"), ReasonNotFound)

	snap, err = w.GetBill(ctx, snap.Bill.ID)
	require.NoError(t, err)
	assert.Nil(t, snap.CreatorPaymentMethod)
}

func TestSetMessageRef(t *testing.T) {
	w, _ := newTestWorkflow(t)
	ctx := context.Background()

	snap := createEqual(t, w, "alice", "bob")

	requireDenial(t, w.SetMessageRef(ctx, snap.Bill.ID, ""), ReasonInvalidInput)
	requireDenial(t, w.SetMessageRef(ctx, "missing", "ts-1"), ReasonBillNotFound)
	require.NoError(t, w.SetMessageRef(ctx, snap.Bill.ID, "ts-1"))

	got, err := w.GetBill(ctx, snap.Bill.ID)
	require.NoError(t, err)
	assert.Equal(t, "ts-1", got.Bill.MessageRef)

	_, err = w.GetBill(ctx, "missing")
	requireDenial(t, err, ReasonBillNotFound)
}

func TestTrackFileAndCleanup(t *testing.T) {
	w, _ := newTestWorkflow(t)
	ctx := context.Background()

	snap := createEqual(t, w, "alice", "bob")

	_, err := w.TrackFile(ctx, TrackFileCommand{BillID: snap.Bill.ID, FileRef: "F1", FileType: "pdf", UploadedBy: "bob"})
	requireDenial(t, err, ReasonInvalidInput)
	_, err = w.TrackFile(ctx, TrackFileCommand{BillID: "missing", FileRef: "F1", FileType: models.FilePaymentSlip, UploadedBy: "bob"})
	requireDenial(t, err, ReasonBillNotFound)

	file, err := w.TrackFile(ctx, TrackFileCommand{BillID: snap.Bill.ID, FileRef: "F1", FileType: models.FilePaymentSlip, UploadedBy: "bob"})
	require.NoError(t, err)
	assert.NotEmpty(t, file.ID)

	files, err := w.FilesForCleanup(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, files, "bill is still active")

	_, err = w.ConfirmPayment(ctx, snap.Participant("bob").ID, "alice")
	require.NoError(t, err)

	files, err = w.FilesForCleanup(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, files, 1)

	require.NoError(t, w.MarkFileDeleted(ctx, files[0].ID))
	files, err = w.FilesForCleanup(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, files)
}
