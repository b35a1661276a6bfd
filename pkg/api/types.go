// Package api defines the wire messages of the Copter RPC services.
//
// Messages are plain structs carried by a JSON codec; amounts travel as
// decimal strings ("33.33").
package api

import (
	"time"

	"github.com/shopspring/decimal"
)

type Bill struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Total          decimal.Decimal `json:"total"`
	Currency       string          `json:"currency"`
	SplitMode      string          `json:"split_mode"`
	CreatorID      string          `json:"creator_id"`
	ConversationID string          `json:"conversation_id"`
	MessageRef     string          `json:"message_ref,omitempty"`
	Status         string          `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

type Participant struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Amount      decimal.Decimal `json:"amount"`
	HasSelected bool            `json:"has_selected"`
	Status      string          `json:"status"`
	PaidAt      *time.Time      `json:"paid_at,omitempty"`
}

type Item struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Amount   decimal.Decimal `json:"amount"`
	Position int             `json:"position"`
}

type ItemShare struct {
	ItemID string          `json:"item_id"`
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

type PaymentMethod struct {
	UserID            string `json:"user_id"`
	PromptPayType     string `json:"promptpay_type,omitempty"`
	PromptPayID       string `json:"promptpay_id,omitempty"`
	BankName          string `json:"bank_name,omitempty"`
	BankAccountNumber string `json:"bank_account_number,omitempty"`
	BankAccountName   string `json:"bank_account_name,omitempty"`
}

// Snapshot is the state of a bill after a command.
type Snapshot struct {
	Bill         Bill          `json:"bill"`
	Participants []Participant `json:"participants"`
	Items        []Item        `json:"items,omitempty"`

	// Breakdown maps participant IDs to their item shares.
	Breakdown            map[string][]ItemShare `json:"breakdown,omitempty"`
	CreatorPaymentMethod *PaymentMethod         `json:"creator_payment_method,omitempty"`

	// Completed is set when this command completed the bill.
	Completed   bool `json:"completed"`
	AllSelected bool `json:"all_selected"`
}

type SnapshotResponse struct {
	Snapshot Snapshot `json:"snapshot"`
}

type ItemInput struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

type ShareInput struct {
	UserID string          `json:"user_id"`
	Amount decimal.Decimal `json:"amount"`
}

// CreateBillRequest creates a bill on behalf of the authenticated user.
type CreateBillRequest struct {
	Name           string          `json:"name"`
	Total          decimal.Decimal `json:"total"`
	Currency       string          `json:"currency,omitempty"`
	SplitMode      string          `json:"split_mode"`
	ConversationID string          `json:"conversation_id"`
	ParticipantIDs []string        `json:"participant_ids,omitempty"`
	Items          []ItemInput     `json:"items,omitempty"`
	Shares         []ShareInput    `json:"shares,omitempty"`
}

type SubmitSelectionRequest struct {
	BillID  string   `json:"bill_id"`
	ItemIDs []string `json:"item_ids"`
}

// BillRequest addresses a single bill.
type BillRequest struct {
	BillID string `json:"bill_id"`
}

// ParticipantRequest addresses a single participant.
type ParticipantRequest struct {
	ParticipantID string `json:"participant_id"`
}

type SetMessageRefRequest struct {
	BillID     string `json:"bill_id"`
	MessageRef string `json:"message_ref"`
}

type Empty struct{}

type ConversationRequest struct {
	ConversationID string `json:"conversation_id"`
}

type BillSummary struct {
	Bill             Bill `json:"bill"`
	ParticipantCount int  `json:"participant_count"`
	PaidCount        int  `json:"paid_count"`
}

type BillListResponse struct {
	Bills []BillSummary `json:"bills"`
}

type OutstandingBill struct {
	BillID         string          `json:"bill_id"`
	BillName       string          `json:"bill_name"`
	ConversationID string          `json:"conversation_id"`
	Amount         decimal.Decimal `json:"amount"`
	Status         string          `json:"status"`
}

type CreditorDebt struct {
	CreditorID string            `json:"creditor_id"`
	Currency   string            `json:"currency"`
	Amount     decimal.Decimal   `json:"amount"`
	Bills      []OutstandingBill `json:"bills"`
}

type OutstandingResponse struct {
	Debts []CreditorDebt `json:"debts"`
}

type RemindAllResponse struct {
	BillID   string `json:"bill_id"`
	Notified int    `json:"notified"`
	Failed   int    `json:"failed"`
}

type PaymentMethodResponse struct {
	PaymentMethod PaymentMethod `json:"payment_method"`
}

type TrackFileRequest struct {
	BillID   string `json:"bill_id"`
	FileRef  string `json:"file_ref"`
	FileType string `json:"file_type"`
}

type TrackFileResponse struct {
	FileID string `json:"file_id"`
}

// IssueTokenRequest exchanges the integration key for a token acting as UserID.
type IssueTokenRequest struct {
	IntegrationKey string `json:"integration_key"`
	UserID         string `json:"user_id"`
}

type IssueTokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
