package models

// ShareStatus is the settlement state of a share.
type ShareStatus string

const (
	// ShareUnpaid is the initial state of every share.
	ShareUnpaid ShareStatus = "UNPAID"

	// SharePaid is terminal. A paid share's amount and user are immutable
	// and the share survives edits and participant removal.
	SharePaid ShareStatus = "PAID"
)

// Valid reports whether s is a known share status.
func (s ShareStatus) Valid() bool {
	return s == ShareUnpaid || s == SharePaid
}

// Share is one participant's owed portion of an expense.
// A share's user is never the expense's payer.
type Share struct {
	// ID is the unique identifier for the share (UUID format).
	ID string

	// ExpenseID is the owning expense (back-reference, not ownership).
	ExpenseID string

	// UserID is the owing participant.
	UserID string

	// AmountOwedCents is the owed amount in minimum currency units.
	AmountOwedCents int64

	// Status is UNPAID until the owing user settles; PAID is terminal.
	Status ShareStatus

	// Detached marks a PAID share whose user was removed from the
	// expense by a later edit. Detached shares are kept as settlement
	// history but no longer participate in reconciliation or in the
	// expense's sum invariant.
	Detached bool
}
