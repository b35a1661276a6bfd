package settlement

import (
	"context"
	"errors"

	"github.com/mmynk/copter/internal/calculator"
	"github.com/mmynk/copter/internal/models"
	"github.com/mmynk/copter/internal/storage"
)

// SubmitSelectionCommand records which items the acting participant shared.
type SubmitSelectionCommand struct {
	BillID  string
	ActorID string
	ItemIDs []string
}

// SubmitSelection stores the actor's item selection on a pending item bill.
// A participant submits once; a second submission is denied and leaves the
// stored selection untouched.
func (w *Workflow) SubmitSelection(ctx context.Context, cmd SubmitSelectionCommand) (*models.Snapshot, error) {
	var snap *models.Snapshot
	err := w.store.WithTx(ctx, func(tx storage.Tx) error {
		bill, err := loadBill(ctx, tx, cmd.BillID)
		if err != nil {
			return err
		}
		participant, err := tx.GetParticipantByUser(ctx, bill.ID, cmd.ActorID)
		if errors.Is(err, storage.ErrNotFound) {
			return deny(ReasonNotParticipant, "you are not part of bill %q", bill.Name)
		}
		if err != nil {
			return err
		}
		if err := requireStatus(bill, models.BillPending); err != nil {
			return err
		}
		if participant.HasSelected {
			return deny(ReasonSelected, "you already submitted your items for %q", bill.Name)
		}

		itemIDs, err := validSelection(ctx, tx, bill.ID, cmd.ItemIDs)
		if err != nil {
			return err
		}

		marked, err := tx.MarkSelected(ctx, participant.ID)
		if err != nil {
			return err
		}
		if !marked {
			return deny(ReasonSelected, "you already submitted your items for %q", bill.Name)
		}
		if err := tx.ReplaceSelections(ctx, participant.ID, itemIDs); err != nil {
			return err
		}

		snap, err = snapshot(ctx, tx, bill.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// validSelection dedupes itemIDs and checks they all belong to the bill.
func validSelection(ctx context.Context, tx storage.Tx, billID string, itemIDs []string) ([]string, error) {
	if len(itemIDs) == 0 {
		return nil, deny(ReasonInvalidInput, "select at least one item")
	}

	items, err := tx.ListItems(ctx, billID)
	if err != nil {
		return nil, err
	}
	known := make(map[string]bool, len(items))
	for _, item := range items {
		known[item.ID] = true
	}

	seen := make(map[string]bool, len(itemIDs))
	unique := make([]string, 0, len(itemIDs))
	for _, id := range itemIDs {
		if !known[id] {
			return nil, deny(ReasonUnknownItem, "item %s is not on this bill", id)
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		unique = append(unique, id)
	}
	return unique, nil
}

// Finalize locks in the shares of a pending item bill once every participant
// has selected. The creator is marked paid; the bill becomes active, or
// completed when nobody else owes anything.
func (w *Workflow) Finalize(ctx context.Context, billID, actorID string) (*models.Snapshot, error) {
	var snap *models.Snapshot
	err := w.store.WithTx(ctx, func(tx storage.Tx) error {
		bill, err := loadBill(ctx, tx, billID)
		if err != nil {
			return err
		}
		if err := requireCreator(bill, actorID); err != nil {
			return err
		}
		if err := requireStatus(bill, models.BillPending); err != nil {
			return err
		}

		unselected, err := tx.CountUnselected(ctx, bill.ID)
		if err != nil {
			return err
		}
		if unselected > 0 {
			return deny(ReasonNotAllSelected, "%d participant(s) have not selected their items yet", unselected)
		}

		items, err := tx.ListItems(ctx, bill.ID)
		if err != nil {
			return err
		}
		selections, err := tx.ListSelections(ctx, bill.ID)
		if err != nil {
			return err
		}
		participants, err := tx.ListParticipants(ctx, bill.ID)
		if err != nil {
			return err
		}

		shares := calculator.CalculateItemSplits(items, selections)
		for _, p := range participants {
			if err := tx.SetParticipantAmount(ctx, p.ID, shares[p.ID]); err != nil {
				return err
			}
			if p.UserID == bill.CreatorID {
				if _, err := tx.SetParticipantStatus(ctx, p.ID, models.PaymentPaid, models.PaymentUnpaid, models.PaymentPending); err != nil {
					return err
				}
			}
		}

		activated, err := tx.SetBillStatus(ctx, bill.ID, models.BillActive, models.BillPending)
		if err != nil {
			return err
		}
		if !activated {
			return deny(ReasonBillNotPending, "bill %q was already finalized", bill.Name)
		}

		completed, err := completeIfSettled(ctx, tx, bill.ID)
		if err != nil {
			return err
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
