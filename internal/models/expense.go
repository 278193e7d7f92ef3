package models

import (
	"fmt"
	"time"
)

// Category classifies what an expense was for.
type Category string

const (
	CategoryFood          Category = "FOOD"
	CategoryTransport     Category = "TRANSPORT"
	CategoryUtilities     Category = "UTILITIES"
	CategoryEntertainment Category = "ENTERTAINMENT"
	CategoryHealthcare    Category = "HEALTHCARE"
	CategoryShopping      Category = "SHOPPING"
	CategoryOther         Category = "OTHER"
)

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryFood, CategoryTransport, CategoryUtilities,
		CategoryEntertainment, CategoryHealthcare, CategoryShopping, CategoryOther:
		return true
	}
	return false
}

// PaymentMethod records how the payer fronted the expense.
type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "CASH"
	PaymentCreditCard   PaymentMethod = "CREDIT_CARD"
	PaymentDebitCard    PaymentMethod = "DEBIT_CARD"
	PaymentBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentOther        PaymentMethod = "OTHER"
)

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCreditCard, PaymentDebitCard, PaymentBankTransfer, PaymentOther:
		return true
	}
	return false
}

// DateLayout is the calendar date format used throughout Splitly.
const DateLayout = "2006-01-02"

// Expense represents a shared outlay fronted by one payer.
// The payer never holds a Share of their own expense; their portion is
// whatever remains after the attached (non-detached) shares are summed.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// PayerID is the user who created and fronted the expense.
	// Only the payer may edit or delete it.
	PayerID string

	// AmountCents is the total amount in minimum currency units.
	// Always > 0.
	AmountCents int64

	// Title is optional display text.
	Title string

	// Description is an optional longer note.
	Description string

	// Date is the calendar date of the expense in DateLayout format.
	Date string

	// Category classifies the expense (FOOD, TRANSPORT, ...).
	Category Category

	// PaymentMethod records how the payer paid (CASH, CREDIT_CARD, ...).
	PaymentMethod PaymentMethod

	// Shares are the portions owed by the non-payer participants,
	// in allocation order. Detached shares (paid history of removed
	// participants) are included here but excluded from the sum
	// invariant.
	Shares []Share

	// CreatedAt is the Unix timestamp when the expense was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last edit.
	UpdatedAt int64
}

// Validate checks the field-level constraints that do not require storage
// access. Share sums are enforced by the ledger, not here.
func (e *Expense) Validate() error {
	if e.PayerID == "" {
		return fmt.Errorf("payer id is required")
	}
	if !e.Category.Valid() {
		return fmt.Errorf("unknown category %q", e.Category)
	}
	if !e.PaymentMethod.Valid() {
		return fmt.Errorf("unknown payment method %q", e.PaymentMethod)
	}
	if e.Date != "" {
		if _, err := time.Parse(DateLayout, e.Date); err != nil {
			return fmt.Errorf("invalid date %q: want %s", e.Date, DateLayout)
		}
	}
	return nil
}

// AttachedShares returns the shares that still count toward the expense's
// sum invariant, i.e. everything except detached paid history.
func (e *Expense) AttachedShares() []Share {
	attached := make([]Share, 0, len(e.Shares))
	for _, share := range e.Shares {
		if !share.Detached {
			attached = append(attached, share)
		}
	}
	return attached
}

// PayerPortionCents is the payer's implicit portion: the total minus
// everything owed by the attached shares.
func (e *Expense) PayerPortionCents() int64 {
	portion := e.AmountCents
	for _, share := range e.Shares {
		if !share.Detached {
			portion -= share.AmountOwedCents
		}
	}
	return portion
}

// ShareForUser returns the attached share owed by the given user, or nil.
func (e *Expense) ShareForUser(userID string) *Share {
	for i := range e.Shares {
		if e.Shares[i].UserID == userID && !e.Shares[i].Detached {
			return &e.Shares[i]
		}
	}
	return nil
}
