package service

import "errors"

// Engine failure taxonomy. Everything the ledger and settlement tracker
// can reject is one of these sentinels, wrapped with the offending value
// so callers can surface it. The transport layer maps them to status
// codes; nothing here is swallowed.
var (
	// ErrInvalidParticipant is returned when a requested participant ID
	// does not resolve in the user directory.
	ErrInvalidParticipant = errors.New("invalid participant")

	// ErrDuplicatePayer is returned when the payer appears in their own
	// participant list.
	ErrDuplicatePayer = errors.New("payer cannot be a participant")

	// ErrUnauthorized is returned when the caller is not the prospective
	// payer of an expense being created.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden is returned when the caller is authenticated but not
	// allowed to act on the record (edit/delete by non-payer, settling
	// someone else's share).
	ErrForbidden = errors.New("forbidden")
)
