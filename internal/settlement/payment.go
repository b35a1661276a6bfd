package settlement

import (
	"context"
	"errors"

	"github.com/mmynk/copter/internal/models"
	"github.com/mmynk/copter/internal/storage"
)

// ReportPaid records that the actor says they paid their share. The
// participant waits in pending until the creator confirms or rejects.
// Reporting again while pending is a no-op.
func (w *Workflow) ReportPaid(ctx context.Context, billID, actorID string) (*models.Snapshot, error) {
	var snap *models.Snapshot
	err := w.store.WithTx(ctx, func(tx storage.Tx) error {
		bill, err := loadBill(ctx, tx, billID)
		if err != nil {
			return err
		}
		if err := requireStatus(bill, models.BillActive); err != nil {
			return err
		}
		if bill.CreatorID == actorID {
			return deny(ReasonCreatorPays, "the creator does not pay themselves")
		}

		participant, err := tx.GetParticipantByUser(ctx, bill.ID, actorID)
		if errors.Is(err, storage.ErrNotFound) {
			return deny(ReasonNotParticipant, "you are not part of bill %q", bill.Name)
		}
		if err != nil {
			return err
		}

		changed, err := tx.SetParticipantStatus(ctx, participant.ID, models.PaymentPending, models.PaymentUnpaid, models.PaymentPending)
		if err != nil {
			return err
		}
		if !changed {
			return deny(ReasonAlreadyPaid, "your share of %q is already confirmed", bill.Name)
		}

		snap, err = snapshot(ctx, tx, bill.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// ConfirmPayment marks a participant paid. The confirmation that settles the
// last unpaid participant completes the bill and reports Completed.
func (w *Workflow) ConfirmPayment(ctx context.Context, participantID, actorID string) (*models.Snapshot, error) {
	return w.review(ctx, participantID, actorID, models.PaymentPaid)
}

// RejectPayment sends a participant back to unpaid.
func (w *Workflow) RejectPayment(ctx context.Context, participantID, actorID string) (*models.Snapshot, error) {
	return w.review(ctx, participantID, actorID, models.PaymentUnpaid)
}

// review applies the creator's verdict on a participant's payment.
func (w *Workflow) review(ctx context.Context, participantID, actorID string, to models.PaymentStatus) (*models.Snapshot, error) {
	var snap *models.Snapshot
	err := w.store.WithTx(ctx, func(tx storage.Tx) error {
		if participantID == "" {
			return deny(ReasonInvalidInput, "participant id is required")
		}
		participant, err := tx.GetParticipant(ctx, participantID)
		if errors.Is(err, storage.ErrNotFound) {
			return deny(ReasonParticipantNotFound, "participant %s does not exist", participantID)
		}
		if err != nil {
			return err
		}

		bill, err := loadBill(ctx, tx, participant.BillID)
		if err != nil {
			return err
		}
		if err := requireCreator(bill, actorID); err != nil {
			return err
		}
		if err := requireStatus(bill, models.BillActive); err != nil {
			return err
		}

		changed, err := tx.SetParticipantStatus(ctx, participant.ID, to, models.PaymentUnpaid, models.PaymentPending)
		if err != nil {
			return err
		}
		if !changed {
			return deny(ReasonAlreadyPaid, "this share of %q is already confirmed", bill.Name)
		}

		completed := false
		if to == models.PaymentPaid {
			if completed, err = completeIfSettled(ctx, tx, bill.ID); err != nil {
				return err
			}
		}

		snap, err = snapshot(ctx, tx, bill.ID)
		if err != nil {
			return err
		}
		snap.Completed = completed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// Cancel closes a pending or active bill for good.
func (w *Workflow) Cancel(ctx context.Context, billID, actorID string) (*models.Snapshot, error) {
	var snap *models.Snapshot
	err := w.store.WithTx(ctx, func(tx storage.Tx) error {
		bill, err := loadBill(ctx, tx, billID)
		if err != nil {
			return err
		}
		if err := requireCreator(bill, actorID); err != nil {
			return err
		}

		cancelled, err := tx.SetBillStatus(ctx, bill.ID, models.BillCancelled, models.BillPending, models.BillActive)
		if err != nil {
			return err
		}
		if !cancelled {
			return deny(ReasonBillClosed, "bill %q is already %s", bill.Name, bill.Status)
		}

		snap, err = snapshot(ctx, tx, bill.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}
