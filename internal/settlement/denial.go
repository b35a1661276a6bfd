package settlement

import (
	"errors"
	"fmt"
)

// Reason is a machine-readable denial code.
type Reason string

const (
	ReasonInvalidInput   Reason = "invalid_input"
	ReasonSplitMismatch  Reason = "split_mismatch"
	ReasonUnknownItem    Reason = "unknown_item"
	ReasonBillNotFound   Reason = "bill_not_found"
	ReasonNotFound       Reason = "not_found"
	ReasonNotParticipant Reason = "not_participant"
	ReasonNotCreator     Reason = "not_creator"
	ReasonCreatorPays    Reason = "creator_cannot_report"
	ReasonBillClosed     Reason = "bill_closed"
	ReasonBillNotPending Reason = "bill_not_pending"
	ReasonBillNotActive  Reason = "bill_not_active"
	ReasonNotAllSelected Reason = "selection_incomplete"
	ReasonSelected       Reason = "already_selected"
	ReasonAlreadyPaid    Reason = "already_paid"
	ReasonNothingToDo    Reason = "everyone_paid"

	// ReasonParticipantNotFound is returned when a participant ID does not resolve.
	ReasonParticipantNotFound Reason = "participant_not_found"
)

// Kind groups reasons by how a caller should react to them.
type Kind int

const (
	// KindInvalid means the request itself is malformed.
	KindInvalid Kind = iota
	// KindNotFound means a referenced bill, participant or record does not exist.
	KindNotFound
	// KindForbidden means the actor is not allowed to perform the operation.
	KindForbidden
	// KindConflict means the bill or participant is in the wrong state.
	KindConflict
)

// Kind classifies r.
func (r Reason) Kind() Kind {
	switch r {
	case ReasonBillNotFound, ReasonParticipantNotFound, ReasonNotFound:
		return KindNotFound
	case ReasonNotParticipant, ReasonNotCreator, ReasonCreatorPays:
		return KindForbidden
	case ReasonBillClosed, ReasonBillNotPending, ReasonBillNotActive,
		ReasonNotAllSelected, ReasonSelected, ReasonAlreadyPaid, ReasonNothingToDo:
		return KindConflict
	default:
		return KindInvalid
	}
}

// Denial is an expected refusal of a command. Nothing was written when a
// Denial is returned.
type Denial struct {
	Reason  Reason
	Message string
}

func (d *Denial) Error() string {
	return fmt.Sprintf("%s: %s", d.Reason, d.Message)
}

func deny(reason Reason, format string, args ...any) *Denial {
	return &Denial{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// AsDenial unwraps err into a Denial.
func AsDenial(err error) (*Denial, bool) {
	var d *Denial
	if errors.As(err, &d) {
		return d, true
	}
	return nil, false
}
