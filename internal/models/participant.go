package models

import "time"

// PaymentStatus is the payment state of a single participant.
type PaymentStatus string

const (
	// PaymentUnpaid means nothing has been reported yet.
	PaymentUnpaid PaymentStatus = "unpaid"
	// PaymentPending means the participant reported payment and waits for the creator.
	PaymentPending PaymentStatus = "pending"
	// PaymentPaid means the creator confirmed the payment.
	PaymentPaid PaymentStatus = "paid"
)

// Participant is a user obligated for a share of a bill.
// There is at most one participant per (bill, user) pair.
type Participant struct {
	ID     string
	BillID string
	UserID string

	// Amount is the participant's share. Zero for item bills until finalized.
	Amount Amount

	// HasSelected flips once, when the participant submits an item selection.
	HasSelected bool

	Status PaymentStatus

	// PaidAt is set on the transition into PaymentPaid and cleared otherwise.
	PaidAt *time.Time

	CreatedAt time.Time
}

// UnpaidEntry is an unpaid participation on an active bill, joined with
// the bill fields a reminder needs.
type UnpaidEntry struct {
	ParticipantID  string
	UserID         string
	Amount         Amount
	Status         PaymentStatus
	BillID         string
	BillName       string
	CreatorID      string
	ConversationID string
	Currency       string
}
