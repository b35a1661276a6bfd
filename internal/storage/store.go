// Package storage provides abstractions for persistent ledger storage.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/mmynk/copter/internal/models"
)

// ErrNotFound is returned when a bill, participant or payment method does not exist.
var ErrNotFound = errors.New("not found")

// Store is the ledger. Single reads may go straight to the store; every
// read-check-write sequence must run inside WithTx.
type Store interface {
	Tx

	// WithTx runs fn inside one transaction. The transaction commits when
	// fn returns nil and rolls back otherwise; fn's error is returned as is.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any resources held by the store.
	Close() error
}

// Tx is the set of ledger operations available on a store or an open transaction.
type Tx interface {
	// CreateBill persists a new bill. ID and timestamps are filled in when empty.
	CreateBill(ctx context.Context, bill *models.Bill) error

	// GetBill returns ErrNotFound when the bill does not exist.
	GetBill(ctx context.Context, billID string) (*models.Bill, error)

	// SetBillStatus moves a bill to status `to` only if its current status is
	// one of `from`. It reports whether the bill changed.
	SetBillStatus(ctx context.Context, billID string, to models.BillStatus, from ...models.BillStatus) (bool, error)

	// SetMessageRef records where the bill card was rendered.
	SetMessageRef(ctx context.Context, billID, ref string) error

	// ListBillsByConversation returns bills of a conversation in the given
	// statuses, most recently updated first. limit <= 0 means no limit.
	ListBillsByConversation(ctx context.Context, conversationID string, statuses []models.BillStatus, limit int) ([]models.BillSummary, error)

	// AddItems inserts all items of a bill or none of them. IDs are generated when empty.
	AddItems(ctx context.Context, billID string, items []models.BillItem) error

	// ListItems returns a bill's items in entry order.
	ListItems(ctx context.Context, billID string) ([]models.BillItem, error)

	// AddParticipants inserts all participants of a bill or none of them.
	AddParticipants(ctx context.Context, billID string, participants []models.Participant) error

	GetParticipant(ctx context.Context, participantID string) (*models.Participant, error)
	GetParticipantByUser(ctx context.Context, billID, userID string) (*models.Participant, error)

	// ListParticipants returns a bill's participants in insertion order.
	ListParticipants(ctx context.Context, billID string) ([]models.Participant, error)

	SetParticipantAmount(ctx context.Context, participantID string, amount models.Amount) error

	// SetParticipantStatus moves a participant to `to` only if its current
	// status is one of `from`. Moving to paid stamps paid_at; any other
	// status clears it. It reports whether the participant changed.
	SetParticipantStatus(ctx context.Context, participantID string, to models.PaymentStatus, from ...models.PaymentStatus) (bool, error)

	// MarkSelected flips has_selected once. It reports false if it was already set.
	MarkSelected(ctx context.Context, participantID string) (bool, error)

	// ReplaceSelections swaps a participant's selections for itemIDs.
	ReplaceSelections(ctx context.Context, participantID string, itemIDs []string) error

	// ListSelections returns every selection made on a bill.
	ListSelections(ctx context.Context, billID string) ([]models.ItemSelection, error)

	CountUnpaid(ctx context.Context, billID string) (int, error)
	CountUnselected(ctx context.Context, billID string) (int, error)

	// ListUnpaidByUser returns a user's unpaid participations on active bills.
	ListUnpaidByUser(ctx context.Context, userID string) ([]models.UnpaidEntry, error)

	// ListUnpaidOnActiveBills returns every unpaid participation on active bills.
	ListUnpaidOnActiveBills(ctx context.Context) ([]models.UnpaidEntry, error)

	// UpsertPaymentMethod creates or replaces a user's payment method.
	UpsertPaymentMethod(ctx context.Context, pm *models.PaymentMethod) error

	// GetPaymentMethod returns ErrNotFound when the user has none.
	GetPaymentMethod(ctx context.Context, userID string) (*models.PaymentMethod, error)

	DeletePaymentMethod(ctx context.Context, userID string) error

	// AddFile tracks an attachment against a bill.
	AddFile(ctx context.Context, file *models.BillFile) error

	// ListFilesForCleanup returns undeleted files of bills that became
	// terminal at or before cutoff.
	ListFilesForCleanup(ctx context.Context, cutoff time.Time) ([]models.BillFile, error)

	MarkFileDeleted(ctx context.Context, fileID string) error
}
