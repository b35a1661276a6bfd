package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Amount is a fixed-point currency value.
type Amount = decimal.Decimal

// MinorUnitPlaces is the number of decimal places of the smallest currency subdivision.
const MinorUnitPlaces = 2

// SplitMode selects how a bill's total is divided among participants.
type SplitMode string

const (
	// SplitEqual divides the total evenly.
	SplitEqual SplitMode = "equal"
	// SplitItem derives shares from the items each participant selected.
	SplitItem SplitMode = "item"
	// SplitCustom takes explicit per-participant amounts that must add up to the total.
	SplitCustom SplitMode = "custom"
)

// Valid reports whether m is a known split mode.
func (m SplitMode) Valid() bool {
	switch m {
	case SplitEqual, SplitItem, SplitCustom:
		return true
	}
	return false
}

// BillStatus is the lifecycle state of a bill.
type BillStatus string

const (
	BillPending   BillStatus = "pending"
	BillActive    BillStatus = "active"
	BillCompleted BillStatus = "completed"
	BillCancelled BillStatus = "cancelled"
)

// Terminal reports whether no further transition is allowed from s.
func (s BillStatus) Terminal() bool {
	return s == BillCompleted || s == BillCancelled
}

// Bill is one shared-expense event.
type Bill struct {
	// ID is the unique identifier for the bill (UUID format).
	ID string

	// Name is the display name given by the creator (e.g., "Friday dinner").
	Name string

	// Total is fixed at creation and never mutated.
	// For item bills it equals the sum of the item amounts.
	Total Amount

	// Currency is the ISO 4217 code used by renderers to format amounts.
	Currency string

	SplitMode SplitMode

	// CreatorID is the platform user who fronted the money.
	CreatorID string

	// ConversationID is the channel the bill was created in.
	ConversationID string

	// MessageRef points at the rendered bill card. Empty until first render.
	MessageRef string

	Status BillStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// BillItem is a line item of an item-split bill.
// Items are created with their bill and never change afterwards.
type BillItem struct {
	ID     string
	BillID string
	Name   string
	Amount Amount

	// Position keeps the order the items were entered in.
	Position int
}

// ItemSelection records that a participant took a share of an item.
type ItemSelection struct {
	ItemID        string
	ParticipantID string
}
