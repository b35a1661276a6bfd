package models

// ItemShare is one participant's share of one item.
type ItemShare struct {
	ItemID string
	Name   string
	Amount Amount
}

// Snapshot is the read model handed back after every settlement command.
// Renderers build messages from it; nothing in it is written back.
type Snapshot struct {
	Bill         Bill
	Participants []Participant

	// Items and Breakdown are only populated for item bills.
	Items     []BillItem
	Breakdown map[string][]ItemShare

	CreatorPaymentMethod *PaymentMethod

	// Completed is true when the command that produced this snapshot
	// moved the bill into BillCompleted.
	Completed bool

	// AllSelected is true for pending item bills once every participant
	// has submitted a selection.
	AllSelected bool
}

// Participant returns the participant with the given user ID, or nil.
func (s *Snapshot) Participant(userID string) *Participant {
	for i := range s.Participants {
		if s.Participants[i].UserID == userID {
			return &s.Participants[i]
		}
	}
	return nil
}

// PaidCount returns how many participants are fully paid.
func (s *Snapshot) PaidCount() int {
	n := 0
	for _, p := range s.Participants {
		if p.Status == PaymentPaid {
			n++
		}
	}
	return n
}

// BillSummary is a bill with its payment progress, used by list queries.
type BillSummary struct {
	Bill             Bill
	ParticipantCount int
	PaidCount        int
}
