package models

import "time"

// PromptPayType identifies what a PromptPay ID refers to.
type PromptPayType string

const (
	PromptPayPhone      PromptPayType = "phone"
	PromptPayNationalID PromptPayType = "national_id"
	PromptPayEWallet    PromptPayType = "ewallet"
)

// Valid reports whether t is a known PromptPay type.
func (t PromptPayType) Valid() bool {
	switch t {
	case PromptPayPhone, PromptPayNationalID, PromptPayEWallet:
		return true
	}
	return false
}

// PaymentMethod describes how a user wants to be paid back.
// A user has at most one payment method.
type PaymentMethod struct {
	ID     string
	UserID string

	PromptPayType PromptPayType
	PromptPayID   string

	BankName          string
	BankAccountNumber string
	BankAccountName   string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasPromptPay reports whether a usable PromptPay target is set.
func (pm *PaymentMethod) HasPromptPay() bool {
	return pm != nil && pm.PromptPayType != "" && pm.PromptPayID != ""
}

// HasBankAccount reports whether a usable bank account is set.
func (pm *PaymentMethod) HasBankAccount() bool {
	return pm != nil && pm.BankName != "" && pm.BankAccountNumber != ""
}
