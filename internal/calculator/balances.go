package calculator

import (
	"sort"

	"github.com/splitly/splitly/internal/models"
)

// CounterpartyBalance is the outstanding position between the user and
// one other person. Positive NetCents means the counterparty owes the
// user; negative means the user owes them.
type CounterpartyBalance struct {
	UserID   string
	NetCents int64
}

// BalanceSummary aggregates a user's unsettled standing across expenses.
type BalanceSummary struct {
	// OwedToUserCents is the sum of unpaid shares on expenses the user
	// paid for.
	OwedToUserCents int64

	// UserOwesCents is the sum of the user's own unpaid shares.
	UserOwesCents int64

	// NetCents = OwedToUserCents - UserOwesCents.
	NetCents int64

	// Counterparties lists the per-person outstanding positions,
	// ordered by user ID for stable output.
	Counterparties []CounterpartyBalance
}

// UserBalances computes the outstanding balance summary for userID over
// the given expenses.
//
// Only UNPAID, attached shares count: a PAID share is settled money and a
// detached share is history from a removed participant. Each unpaid share
// is a debt from its owing user to the expense's payer, so the user's
// position moves once per share, either as creditor (they paid) or as
// debtor (they owe).
func UserBalances(userID string, expenses []*models.Expense) BalanceSummary {
	net := make(map[string]int64)
	var summary BalanceSummary

	for _, expense := range expenses {
		for _, share := range expense.Shares {
			if share.Detached || share.Status != models.ShareUnpaid {
				continue
			}
			switch {
			case expense.PayerID == userID:
				summary.OwedToUserCents += share.AmountOwedCents
				net[share.UserID] += share.AmountOwedCents
			case share.UserID == userID:
				summary.UserOwesCents += share.AmountOwedCents
				net[expense.PayerID] -= share.AmountOwedCents
			}
		}
	}

	summary.NetCents = summary.OwedToUserCents - summary.UserOwesCents

	for id, cents := range net {
		if cents == 0 {
			continue
		}
		summary.Counterparties = append(summary.Counterparties, CounterpartyBalance{
			UserID:   id,
			NetCents: cents,
		})
	}
	sort.Slice(summary.Counterparties, func(i, j int) bool {
		return summary.Counterparties[i].UserID < summary.Counterparties[j].UserID
	})

	return summary
}
