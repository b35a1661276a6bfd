package settlement

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/copter/internal/calculator"
	"github.com/mmynk/copter/internal/format"
	"github.com/mmynk/copter/internal/models"
	"github.com/mmynk/copter/internal/storage"
)

// ItemInput is a line item entered for an item bill.
type ItemInput struct {
	Name   string
	Amount models.Amount
}

// ShareInput is an explicit amount owed by one user of a custom bill.
type ShareInput struct {
	UserID string
	Amount models.Amount
}

// CreateBillCommand creates a bill.
//
// Equal bills need Total and ParticipantIDs, custom bills need Total and
// Shares, item bills need Items and ParticipantIDs. The creator is always
// enrolled, even when not listed.
type CreateBillCommand struct {
	Name           string
	Total          models.Amount
	Currency       string
	SplitMode      models.SplitMode
	CreatorID      string
	ConversationID string
	ParticipantIDs []string
	Items          []ItemInput
	Shares         []ShareInput
}

// CreateBill validates cmd and writes the bill with its participants.
// Equal and custom bills start active with the creator already paid; a bill
// whose only participant is the creator completes immediately. Item bills
// start pending with every share at zero.
func (w *Workflow) CreateBill(ctx context.Context, cmd CreateBillCommand) (*models.Snapshot, error) {
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return nil, deny(ReasonInvalidInput, "bill name is required")
	}
	if cmd.CreatorID == "" {
		return nil, deny(ReasonInvalidInput, "creator is required")
	}
	if cmd.ConversationID == "" {
		return nil, deny(ReasonInvalidInput, "conversation is required")
	}
	if !cmd.SplitMode.Valid() {
		return nil, deny(ReasonInvalidInput, "unknown split mode %q", cmd.SplitMode)
	}

	code := cmd.Currency
	if code == "" {
		code = w.defaultCurrency
	}
	code, err := format.NormalizeCurrency(code)
	if err != nil {
		return nil, deny(ReasonInvalidInput, "%v", err)
	}

	bill := &models.Bill{
		Name:           name,
		Currency:       code,
		SplitMode:      cmd.SplitMode,
		CreatorID:      cmd.CreatorID,
		ConversationID: cmd.ConversationID,
	}

	var (
		participants []models.Participant
		items        []models.BillItem
	)
	switch cmd.SplitMode {
	case models.SplitEqual:
		participants, err = equalParticipants(cmd)
		bill.Total = cmd.Total
		bill.Status = models.BillActive
	case models.SplitCustom:
		participants, err = customParticipants(cmd)
		bill.Total = cmd.Total
		bill.Status = models.BillActive
	case models.SplitItem:
		items, bill.Total, err = billItems(cmd.Items)
		if err == nil {
			participants, err = itemParticipants(cmd)
		}
		bill.Status = models.BillPending
	}
	if err != nil {
		return nil, err
	}

	if bill.Status == models.BillActive {
		now := time.Now()
		for i := range participants {
			if participants[i].UserID == cmd.CreatorID {
				participants[i].Status = models.PaymentPaid
				participants[i].PaidAt = &now
			}
		}
	}

	var snap *models.Snapshot
	err = w.store.WithTx(ctx, func(tx storage.Tx) error {
		if err := tx.CreateBill(ctx, bill); err != nil {
			return err
		}
		if len(items) > 0 {
			if err := tx.AddItems(ctx, bill.ID, items); err != nil {
				return err
			}
		}
		if err := tx.AddParticipants(ctx, bill.ID, participants); err != nil {
			return err
		}

		completed := false
		if bill.Status == models.BillActive {
			done, err := completeIfSettled(ctx, tx, bill.ID)
			if err != nil {
				return err
			}
			completed = done
		}

		s, err := snapshot(ctx, tx, bill.ID)
		if err != nil {
			return err
		}
		s.Completed = completed
		snap = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

func equalParticipants(cmd CreateBillCommand) ([]models.Participant, error) {
	if err := requirePositive(cmd.Total, "total"); err != nil {
		return nil, err
	}
	users := enroll(cmd.CreatorID, cmd.ParticipantIDs)
	if len(users) == 0 {
		return nil, deny(ReasonInvalidInput, "at least one participant is required")
	}

	shares := calculator.SplitEqual(cmd.Total, len(users))
	participants := make([]models.Participant, len(users))
	for i, u := range users {
		participants[i] = models.Participant{UserID: u, Amount: shares[i]}
	}
	return participants, nil
}

func customParticipants(cmd CreateBillCommand) ([]models.Participant, error) {
	if err := requirePositive(cmd.Total, "total"); err != nil {
		return nil, err
	}
	if len(cmd.Shares) == 0 {
		return nil, deny(ReasonInvalidInput, "at least one participant is required")
	}

	seen := make(map[string]bool, len(cmd.Shares))
	amounts := make([]models.Amount, 0, len(cmd.Shares))
	participants := make([]models.Participant, 0, len(cmd.Shares)+1)
	for _, s := range cmd.Shares {
		if s.UserID == "" {
			return nil, deny(ReasonInvalidInput, "participant is required for every amount")
		}
		if seen[s.UserID] {
			return nil, deny(ReasonInvalidInput, "participant %s is listed twice", s.UserID)
		}
		seen[s.UserID] = true
		if err := requirePositive(s.Amount, "amount for "+s.UserID); err != nil {
			return nil, err
		}
		amounts = append(amounts, s.Amount)
		participants = append(participants, models.Participant{UserID: s.UserID, Amount: s.Amount})
	}

	if !calculator.ValidateCustomSplit(amounts, cmd.Total) {
		return nil, deny(ReasonSplitMismatch, "custom amounts must add up to %s", cmd.Total.StringFixed(models.MinorUnitPlaces))
	}

	if !seen[cmd.CreatorID] {
		participants = append([]models.Participant{{UserID: cmd.CreatorID, Amount: decimal.Zero}}, participants...)
	}
	return participants, nil
}

func itemParticipants(cmd CreateBillCommand) ([]models.Participant, error) {
	users := enroll(cmd.CreatorID, cmd.ParticipantIDs)
	if len(users) == 0 {
		return nil, deny(ReasonInvalidInput, "at least one participant is required")
	}
	participants := make([]models.Participant, len(users))
	for i, u := range users {
		participants[i] = models.Participant{UserID: u, Amount: decimal.Zero}
	}
	return participants, nil
}

func billItems(inputs []ItemInput) ([]models.BillItem, models.Amount, error) {
	if len(inputs) == 0 {
		return nil, decimal.Zero, deny(ReasonInvalidInput, "at least one item is required")
	}
	total := decimal.Zero
	items := make([]models.BillItem, len(inputs))
	for i, in := range inputs {
		name := strings.TrimSpace(in.Name)
		if name == "" {
			return nil, decimal.Zero, deny(ReasonInvalidInput, "item %d needs a name", i+1)
		}
		if err := requirePositive(in.Amount, "item "+name); err != nil {
			return nil, decimal.Zero, err
		}
		items[i] = models.BillItem{Name: name, Amount: in.Amount}
		total = total.Add(in.Amount)
	}
	return items, total, nil
}

// enroll dedupes userIDs, keeping their order, and puts the creator first when
// they are not listed. An empty list stays empty.
func enroll(creatorID string, userIDs []string) []string {
	seen := make(map[string]bool, len(userIDs)+1)
	users := make([]string, 0, len(userIDs)+1)
	for _, u := range userIDs {
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		users = append(users, u)
	}
	if len(users) == 0 {
		return nil
	}
	if !seen[creatorID] {
		users = append([]string{creatorID}, users...)
	}
	return users
}

// requirePositive denies amounts that are not positive or carry more than two decimals.
func requirePositive(amount models.Amount, what string) error {
	if !amount.IsPositive() {
		return deny(ReasonInvalidInput, "%s must be a positive number", what)
	}
	if !amount.Equal(amount.Truncate(models.MinorUnitPlaces)) {
		return deny(ReasonInvalidInput, "%s has more than %d decimal places", what, models.MinorUnitPlaces)
	}
	return nil
}
