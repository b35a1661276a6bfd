package calculator

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/copter/internal/models"
)

// CreditorDebt is what one user still owes a single bill creator in one currency.
type CreditorDebt struct {
	CreditorID string
	Currency   string
	Amount     models.Amount
	Bills      []OutstandingBill
}

// OutstandingBill is one unpaid participation contributing to a CreditorDebt.
type OutstandingBill struct {
	BillID         string
	BillName       string
	ConversationID string
	Amount         models.Amount
	Status         models.PaymentStatus
}

// Outstanding aggregates unpaid participations per creditor and currency.
//
// Algorithm:
// - Group entries by (creator, currency); amounts in different currencies are never added
// - Sum each group and keep the contributing bills in input order
// - Sort groups by amount descending, then creditor ID for a stable order
func Outstanding(entries []models.UnpaidEntry) []CreditorDebt {
	type key struct{ creditor, currency string }
	groups := make(map[key]*CreditorDebt)
	var order []key

	for _, e := range entries {
		k := key{e.CreatorID, e.Currency}
		debt, ok := groups[k]
		if !ok {
			debt = &CreditorDebt{CreditorID: e.CreatorID, Currency: e.Currency, Amount: decimal.Zero}
			groups[k] = debt
			order = append(order, k)
		}
		debt.Amount = debt.Amount.Add(e.Amount)
		debt.Bills = append(debt.Bills, OutstandingBill{
			BillID:         e.BillID,
			BillName:       e.BillName,
			ConversationID: e.ConversationID,
			Amount:         e.Amount,
			Status:         e.Status,
		})
	}

	debts := make([]CreditorDebt, 0, len(order))
	for _, k := range order {
		debts = append(debts, *groups[k])
	}
	sort.SliceStable(debts, func(i, j int) bool {
		if c := debts[i].Amount.Cmp(debts[j].Amount); c != 0 {
			return c > 0
		}
		return debts[i].CreditorID < debts[j].CreditorID
	})
	return debts
}
