// Package notify delivers reminders and attachment deletions to the
// messaging platform adapter. Delivery failures never touch the ledger.
package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/mmynk/copter/internal/format"
	"github.com/mmynk/copter/internal/models"
)

var (
	// ErrFileGone means the platform no longer has the file.
	ErrFileGone = errors.New("file already deleted")
	// ErrFileProtected means the platform refuses to delete the file, e.g. it is user-owned.
	ErrFileProtected = errors.New("file cannot be deleted")
)

// Reminder asks one participant to pay their share of a bill.
type Reminder struct {
	UserID         string        `json:"user_id"`
	BillID         string        `json:"bill_id"`
	BillName       string        `json:"bill_name"`
	Amount         models.Amount `json:"amount"`
	Currency       string        `json:"currency"`
	CreatorID      string        `json:"creator_id"`
	ConversationID string        `json:"conversation_id"`
	Text           string        `json:"text"`
}

// ReminderFor builds the reminder for an unpaid participation.
func ReminderFor(e models.UnpaidEntry) Reminder {
	return Reminder{
		UserID:         e.UserID,
		BillID:         e.BillID,
		BillName:       e.BillName,
		Amount:         e.Amount,
		Currency:       e.Currency,
		CreatorID:      e.CreatorID,
		ConversationID: e.ConversationID,
		Text:           fmt.Sprintf("Reminder: you owe %s for %s", format.Amount(e.Amount, e.Currency), e.BillName),
	}
}

// Notifier sends reminders to participants.
type Notifier interface {
	Remind(ctx context.Context, r Reminder) error
}

// FileDeleter removes attachments from the messaging platform.
// It returns ErrFileGone or ErrFileProtected for files that will never be deletable.
type FileDeleter interface {
	DeleteFile(ctx context.Context, fileRef string) error
}
