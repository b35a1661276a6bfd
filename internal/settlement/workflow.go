// Package settlement drives bills through their lifecycle.
//
// Every command loads the bill and the acting participant, checks the actor
// and the current status, writes inside a single store transaction and
// returns a snapshot read in that same transaction. Expected refusals are
// returned as *Denial; any other error is a store failure.
package settlement

import (
	"context"
	"errors"
	"fmt"

	"github.com/mmynk/copter/internal/calculator"
	"github.com/mmynk/copter/internal/models"
	"github.com/mmynk/copter/internal/storage"
)

// DefaultCurrency is used when neither the command nor the workflow names one.
const DefaultCurrency = "THB"

// Workflow executes settlement commands against a ledger.
type Workflow struct {
	store           storage.Store
	defaultCurrency string
}

// Option configures a Workflow.
type Option func(*Workflow)

// WithDefaultCurrency sets the currency used by bills created without one.
func WithDefaultCurrency(code string) Option {
	return func(w *Workflow) {
		if code != "" {
			w.defaultCurrency = code
		}
	}
}

// New creates a Workflow over store.
func New(store storage.Store, opts ...Option) *Workflow {
	w := &Workflow{
		store:           store,
		defaultCurrency: DefaultCurrency,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// loadBill fetches a bill, turning a missing bill into a denial.
func loadBill(ctx context.Context, tx storage.Tx, billID string) (*models.Bill, error) {
	if billID == "" {
		return nil, deny(ReasonInvalidInput, "bill id is required")
	}
	bill, err := tx.GetBill(ctx, billID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, deny(ReasonBillNotFound, "bill %s does not exist", billID)
	}
	if err != nil {
		return nil, err
	}
	return bill, nil
}

// requireStatus denies unless the bill is in want.
func requireStatus(bill *models.Bill, want models.BillStatus) error {
	if bill.Status == want {
		return nil
	}
	if bill.Status.Terminal() {
		return deny(ReasonBillClosed, "bill %q is already %s", bill.Name, bill.Status)
	}
	if want == models.BillPending {
		return deny(ReasonBillNotPending, "bill %q is no longer taking selections", bill.Name)
	}
	return deny(ReasonBillNotActive, "bill %q is not open for payments yet", bill.Name)
}

// requireCreator denies unless actorID created the bill.
func requireCreator(bill *models.Bill, actorID string) error {
	if bill.CreatorID != actorID {
		return deny(ReasonNotCreator, "only the bill creator can do this")
	}
	return nil
}

// completeIfSettled moves an active bill to completed once nobody owes
// anything. Only the caller whose conditional update applies sees true.
func completeIfSettled(ctx context.Context, tx storage.Tx, billID string) (bool, error) {
	unpaid, err := tx.CountUnpaid(ctx, billID)
	if err != nil {
		return false, err
	}
	if unpaid > 0 {
		return false, nil
	}
	completed, err := tx.SetBillStatus(ctx, billID, models.BillCompleted, models.BillActive)
	if err != nil {
		return false, fmt.Errorf("failed to complete bill: %w", err)
	}
	return completed, nil
}

// snapshot reads the current state of a bill.
func snapshot(ctx context.Context, tx storage.Tx, billID string) (*models.Snapshot, error) {
	bill, err := tx.GetBill(ctx, billID)
	if err != nil {
		return nil, err
	}
	participants, err := tx.ListParticipants(ctx, billID)
	if err != nil {
		return nil, err
	}

	snap := &models.Snapshot{
		Bill:         *bill,
		Participants: participants,
	}

	if bill.SplitMode == models.SplitItem {
		items, err := tx.ListItems(ctx, billID)
		if err != nil {
			return nil, err
		}
		selections, err := tx.ListSelections(ctx, billID)
		if err != nil {
			return nil, err
		}
		snap.Items = items
		snap.Breakdown = calculator.ItemBreakdowns(items, selections)

		if bill.Status == models.BillPending {
			snap.AllSelected = len(participants) > 0
			for _, p := range participants {
				if !p.HasSelected {
					snap.AllSelected = false
					break
				}
			}
		}
	}

	pm, err := tx.GetPaymentMethod(ctx, bill.CreatorID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
	case err != nil:
		return nil, err
	default:
		snap.CreatorPaymentMethod = pm
	}

	return snap, nil
}
