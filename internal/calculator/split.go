// Package calculator contains the pure split and balance math.
// It knows nothing about storage or transport; everything operates on
// int64 cents so results are exact.
package calculator

import (
	"fmt"

	"github.com/splitly/splitly/internal/money"
)

// ShareAmount is one participant's computed portion of a split.
type ShareAmount struct {
	UserID      string
	AmountCents int64
}

// EqualSplit divides totalCents across the payer plus the given
// participants and returns one ShareAmount per participant, in input
// order. The payer's own portion is implicit: totalCents minus the sum of
// the returned shares.
//
// The base share is floor(total / (N+1)) cents. The leftover cents
// (always fewer than N+1) are handed out one at a time to the first
// participants in order; the payer never absorbs any of the remainder.
// Rounding each share independently can make the sum drift away from the
// total; the deterministic distribution keeps shares plus payer portion
// summing to totalCents exactly.
//
// With no participants the payer bears the full amount and no shares are
// produced.
func EqualSplit(totalCents int64, participantIDs []string) ([]ShareAmount, error) {
	if totalCents <= 0 {
		return nil, fmt.Errorf("%w: %d cents", money.ErrInvalidAmount, totalCents)
	}
	if len(participantIDs) == 0 {
		return nil, nil
	}

	splitCount := int64(len(participantIDs)) + 1
	baseShare := totalCents / splitCount
	remainder := totalCents - baseShare*splitCount

	shares := make([]ShareAmount, len(participantIDs))
	for i, userID := range participantIDs {
		amount := baseShare
		if int64(i) < remainder {
			amount++
		}
		shares[i] = ShareAmount{UserID: userID, AmountCents: amount}
	}
	return shares, nil
}

// SumShares returns the total owed across the given shares.
func SumShares(shares []ShareAmount) int64 {
	var sum int64
	for _, s := range shares {
		sum += s.AmountCents
	}
	return sum
}
