package settlement

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/mmynk/copter/internal/calculator"
	"github.com/mmynk/copter/internal/models"
	"github.com/mmynk/copter/internal/storage"
)

// HistoryLimit caps how many closed bills ListHistory returns.
const HistoryLimit = 20

// GetBill returns the current snapshot of a bill.
func (w *Workflow) GetBill(ctx context.Context, billID string) (*models.Snapshot, error) {
	var snap *models.Snapshot
	err := w.store.WithTx(ctx, func(tx storage.Tx) error {
		if _, err := loadBill(ctx, tx, billID); err != nil {
			return err
		}
		var err error
		snap, err = snapshot(ctx, tx, billID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// SetMessageRef records where the bill card was rendered so later updates
// can edit it in place.
func (w *Workflow) SetMessageRef(ctx context.Context, billID, ref string) error {
	if strings.TrimSpace(ref) == "" {
		return deny(ReasonInvalidInput, "message reference is required")
	}
	return w.store.WithTx(ctx, func(tx storage.Tx) error {
		if _, err := loadBill(ctx, tx, billID); err != nil {
			return err
		}
		return tx.SetMessageRef(ctx, billID, ref)
	})
}

// ListActive returns the open (pending or active) bills of a conversation.
func (w *Workflow) ListActive(ctx context.Context, conversationID string) ([]models.BillSummary, error) {
	if conversationID == "" {
		return nil, deny(ReasonInvalidInput, "conversation is required")
	}
	return w.store.ListBillsByConversation(ctx, conversationID,
		[]models.BillStatus{models.BillPending, models.BillActive}, 0)
}

// ListHistory returns the most recently closed bills of a conversation.
func (w *Workflow) ListHistory(ctx context.Context, conversationID string) ([]models.BillSummary, error) {
	if conversationID == "" {
		return nil, deny(ReasonInvalidInput, "conversation is required")
	}
	return w.store.ListBillsByConversation(ctx, conversationID,
		[]models.BillStatus{models.BillCompleted, models.BillCancelled}, HistoryLimit)
}

// ListOutstanding returns what userID still owes on active bills, grouped by creditor.
func (w *Workflow) ListOutstanding(ctx context.Context, userID string) ([]calculator.CreditorDebt, error) {
	if userID == "" {
		return nil, deny(ReasonInvalidInput, "user is required")
	}
	entries, err := w.store.ListUnpaidByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return calculator.Outstanding(entries), nil
}

// Reminder lists who still owes on a bill.
type Reminder struct {
	Bill   models.Bill
	Unpaid []models.Participant
}

// RemindAll lets the creator nudge everyone who has not paid an active bill.
// Delivery is left to the caller.
func (w *Workflow) RemindAll(ctx context.Context, billID, actorID string) (*Reminder, error) {
	var reminder *Reminder
	err := w.store.WithTx(ctx, func(tx storage.Tx) error {
		bill, err := loadBill(ctx, tx, billID)
		if err != nil {
			return err
		}
		if err := requireCreator(bill, actorID); err != nil {
			return err
		}
		if err := requireStatus(bill, models.BillActive); err != nil {
			return err
		}

		participants, err := tx.ListParticipants(ctx, bill.ID)
		if err != nil {
			return err
		}
		reminder = &Reminder{Bill: *bill}
		for _, p := range participants {
			if p.Status != models.PaymentPaid {
				reminder.Unpaid = append(reminder.Unpaid, p)
			}
		}
		if len(reminder.Unpaid) == 0 {
			return deny(ReasonNothingToDo, "everyone has already paid")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reminder, nil
}

// UnpaidOnActiveBills lists every open debt, for the reminder sweep.
func (w *Workflow) UnpaidOnActiveBills(ctx context.Context) ([]models.UnpaidEntry, error) {
	return w.store.ListUnpaidOnActiveBills(ctx)
}

// SavePaymentMethod stores how pm.UserID wants to be paid. At least one of
// PromptPay or a bank account must be complete.
func (w *Workflow) SavePaymentMethod(ctx context.Context, pm *models.PaymentMethod) (*models.PaymentMethod, error) {
	if pm == nil || pm.UserID == "" {
		return nil, deny(ReasonInvalidInput, "user is required")
	}
	if pm.PromptPayType != "" && !pm.PromptPayType.Valid() {
		return nil, deny(ReasonInvalidInput, "unknown PromptPay type %q", pm.PromptPayType)
	}
	if (pm.PromptPayType == "") != (pm.PromptPayID == "") {
		return nil, deny(ReasonInvalidInput, "PromptPay needs both a type and an ID")
	}
	if pm.BankAccountNumber != "" && pm.BankName == "" {
		return nil, deny(ReasonInvalidInput, "bank account needs a bank name")
	}
	if !pm.HasPromptPay() && !pm.HasBankAccount() {
		return nil, deny(ReasonInvalidInput, "provide PromptPay or a bank account")
	}

	if err := w.store.UpsertPaymentMethod(ctx, pm); err != nil {
		return nil, err
	}
	return pm, nil
}

// GetPaymentMethod returns the payment method of userID.
func (w *Workflow) GetPaymentMethod(ctx context.Context, userID string) (*models.PaymentMethod, error) {
	pm, err := w.store.GetPaymentMethod(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, deny(ReasonNotFound, "no payment method saved")
	}
	if err != nil {
		return nil, err
	}
	return pm, nil
}

// RemovePaymentMethod deletes the payment method of userID.
func (w *Workflow) RemovePaymentMethod(ctx context.Context, userID string) error {
	err := w.store.DeletePaymentMethod(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return deny(ReasonNotFound, "no payment method saved")
	}
	return err
}

// TrackFileCommand registers an attachment uploaded for a bill.
type TrackFileCommand struct {
	BillID     string
	FileRef    string
	FileType   models.FileType
	UploadedBy string
}

// TrackFile records an attachment so the cleanup sweep can remove it later.
func (w *Workflow) TrackFile(ctx context.Context, cmd TrackFileCommand) (*models.BillFile, error) {
	if cmd.FileRef == "" {
		return nil, deny(ReasonInvalidInput, "file reference is required")
	}
	if !cmd.FileType.Valid() {
		return nil, deny(ReasonInvalidInput, "unknown file type %q", cmd.FileType)
	}
	if cmd.UploadedBy == "" {
		return nil, deny(ReasonInvalidInput, "uploader is required")
	}

	file := &models.BillFile{
		BillID:     cmd.BillID,
		FileRef:    cmd.FileRef,
		FileType:   cmd.FileType,
		UploadedBy: cmd.UploadedBy,
	}
	err := w.store.WithTx(ctx, func(tx storage.Tx) error {
		if _, err := loadBill(ctx, tx, cmd.BillID); err != nil {
			return err
		}
		return tx.AddFile(ctx, file)
	})
	if err != nil {
		return nil, err
	}
	return file, nil
}

// FilesForCleanup lists live attachments of bills that have been closed since before cutoff.
func (w *Workflow) FilesForCleanup(ctx context.Context, cutoff time.Time) ([]models.BillFile, error) {
	return w.store.ListFilesForCleanup(ctx, cutoff)
}

// MarkFileDeleted records that an attachment was removed from the platform.
func (w *Workflow) MarkFileDeleted(ctx context.Context, fileID string) error {
	return w.store.MarkFileDeleted(ctx, fileID)
}
