// Package service implements the expense splitting and settlement engine:
// participant resolution, the expense ledger, and settlement tracking.
// Identity is always injected per call as actingUserID; the engine never
// reads credentials or global auth state.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/splitly/splitly/internal/calculator"
	"github.com/splitly/splitly/internal/models"
	"github.com/splitly/splitly/internal/money"
	"github.com/splitly/splitly/internal/storage"
)

// ExpenseService owns expense and share records. All mutations of a
// single expense are serialized through a per-expense lock; directory
// lookups happen before the lock is taken.
type ExpenseService struct {
	store storage.Store
	dir   storage.Directory
	locks *expenseLocks
}

// NewExpenseService creates the engine over the given storage backend and
// user directory.
func NewExpenseService(store storage.Store, dir storage.Directory) *ExpenseService {
	return &ExpenseService{
		store: store,
		dir:   dir,
		locks: newExpenseLocks(),
	}
}

// ExpenseInput carries the caller-supplied fields for create and edit.
type ExpenseInput struct {
	// PayerID may be left empty on create, in which case the acting
	// user is the payer. If set, it must match the acting user.
	PayerID string

	AmountCents   int64
	Title         string
	Description   string
	Date          string
	Category      models.Category
	PaymentMethod models.PaymentMethod

	// ParticipantIDs are the non-payer users splitting the expense, in
	// caller order. May be empty: the payer then bears the full amount.
	ParticipantIDs []string
}

// Create validates the input, splits the amount, and persists the expense
// with its shares as one atomic unit.
func (s *ExpenseService) Create(ctx context.Context, actingUserID string, in ExpenseInput) (*models.Expense, error) {
	if in.PayerID == "" {
		in.PayerID = actingUserID
	}
	if in.PayerID != actingUserID {
		return nil, fmt.Errorf("%w: only the payer may create their expense", ErrUnauthorized)
	}
	if in.AmountCents <= 0 {
		return nil, fmt.Errorf("%w: %d cents", money.ErrInvalidAmount, in.AmountCents)
	}

	expense := &models.Expense{
		PayerID:       in.PayerID,
		AmountCents:   in.AmountCents,
		Title:         in.Title,
		Description:   in.Description,
		Date:          in.Date,
		Category:      in.Category,
		PaymentMethod: in.PaymentMethod,
	}
	if err := expense.Validate(); err != nil {
		return nil, err
	}

	// Directory lookups stay outside any lock.
	participants, err := resolveParticipants(ctx, s.dir, in.PayerID, in.ParticipantIDs)
	if err != nil {
		return nil, err
	}

	amounts, err := calculator.EqualSplit(in.AmountCents, participants)
	if err != nil {
		return nil, err
	}
	for _, a := range amounts {
		expense.Shares = append(expense.Shares, models.Share{
			UserID:          a.UserID,
			AmountOwedCents: a.AmountCents,
			Status:          models.ShareUnpaid,
		})
	}

	if err := s.store.CreateExpense(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	slog.Info("Expense created",
		"expense_id", expense.ID,
		"payer_id", expense.PayerID,
		"amount_cents", expense.AmountCents,
		"participants", len(participants),
	)

	return expense, nil
}

// Get returns an expense the acting user is involved in, either as payer
// or as a share holder.
func (s *ExpenseService) Get(ctx context.Context, actingUserID, expenseID string) (*models.Expense, error) {
	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if !userInvolved(expense, actingUserID) {
		return nil, fmt.Errorf("%w: not involved in this expense", ErrForbidden)
	}
	return expense, nil
}

// ListByUser returns every expense the acting user pays for or owes on,
// newest date first.
func (s *ExpenseService) ListByUser(ctx context.Context, actingUserID string) ([]*models.Expense, error) {
	return s.store.ListExpensesByUser(ctx, actingUserID)
}

// Balances summarizes the acting user's outstanding debts and credits
// across all their expenses.
func (s *ExpenseService) Balances(ctx context.Context, actingUserID string) (calculator.BalanceSummary, error) {
	expenses, err := s.store.ListExpensesByUser(ctx, actingUserID)
	if err != nil {
		return calculator.BalanceSummary{}, err
	}
	return calculator.UserBalances(actingUserID, expenses), nil
}

// Edit recomputes the expense under the PAID-preserving reconciliation
// policy: paid shares of participants still in the set are untouched and
// their amounts are excluded from the re-split; paid shares of removed
// participants are detached (kept as history); unpaid shares are
// regenerated, reusing share IDs where the participant stays.
//
// Only the payer may edit. The new amount must cover the preserved paid
// shares.
func (s *ExpenseService) Edit(ctx context.Context, actingUserID, expenseID string, in ExpenseInput) (*models.Expense, error) {
	if in.AmountCents <= 0 {
		return nil, fmt.Errorf("%w: %d cents", money.ErrInvalidAmount, in.AmountCents)
	}

	// Pre-lock read to learn the payer for participant validation.
	// Ownership is re-checked under the lock before anything is written.
	current, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if current.PayerID != actingUserID {
		return nil, fmt.Errorf("%w: only the payer may edit an expense", ErrForbidden)
	}

	participants, err := resolveParticipants(ctx, s.dir, current.PayerID, in.ParticipantIDs)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.lock(expenseID)
	defer unlock()

	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if expense.PayerID != actingUserID {
		return nil, fmt.Errorf("%w: only the payer may edit an expense", ErrForbidden)
	}

	expense.AmountCents = in.AmountCents
	expense.Title = in.Title
	expense.Description = in.Description
	expense.Date = in.Date
	expense.Category = in.Category
	expense.PaymentMethod = in.PaymentMethod
	if err := expense.Validate(); err != nil {
		return nil, err
	}

	reconciled, removedShareIDs, err := reconcileShares(expense, participants)
	if err != nil {
		return nil, err
	}
	expense.Shares = reconciled

	if err := s.store.UpdateExpense(ctx, expense, removedShareIDs); err != nil {
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}

	slog.Info("Expense edited",
		"expense_id", expense.ID,
		"amount_cents", expense.AmountCents,
		"participants", len(participants),
		"removed_shares", len(removedShareIDs),
	)

	return s.store.GetExpense(ctx, expenseID)
}

// reconcileShares applies the edit-time share policy to the expense's
// current share set and the newly resolved participant list. It returns
// the share rows to upsert and the IDs of unpaid shares to delete.
func reconcileShares(expense *models.Expense, participants []string) ([]models.Share, []string, error) {
	inNewSet := make(map[string]bool, len(participants))
	for _, id := range participants {
		inNewSet[id] = true
	}

	var (
		upserts     []models.Share
		removedIDs  []string
		paidCents   int64
		existing    = make(map[string]models.Share)
		unpaidUsers = make([]string, 0, len(participants))
	)

	for _, share := range expense.Shares {
		if share.Detached {
			// History from an earlier edit; rows stay untouched.
			continue
		}
		existing[share.UserID] = share

		switch {
		case share.Status == models.SharePaid && inNewSet[share.UserID]:
			// Preserved verbatim; their money is already settled.
			paidCents += share.AmountOwedCents
			upserts = append(upserts, share)
		case share.Status == models.SharePaid:
			// Removed participant with settled money: deleting the
			// share would destroy settlement history, so detach it.
			share.Detached = true
			upserts = append(upserts, share)
		case !inNewSet[share.UserID]:
			removedIDs = append(removedIDs, share.ID)
		}
	}

	// The residual amount is split across the participants who do not
	// hold a preserved paid share, in resolved order.
	for _, id := range participants {
		if sh, ok := existing[id]; ok && sh.Status == models.SharePaid {
			continue
		}
		unpaidUsers = append(unpaidUsers, id)
	}

	residual := expense.AmountCents - paidCents
	if residual < 0 {
		return nil, nil, fmt.Errorf("%w: amount %d cents is less than %d cents already paid",
			money.ErrInvalidAmount, expense.AmountCents, paidCents)
	}

	if len(unpaidUsers) > 0 && residual > 0 {
		amounts, err := calculator.EqualSplit(residual, unpaidUsers)
		if err != nil {
			return nil, nil, err
		}
		for _, a := range amounts {
			share := models.Share{
				ExpenseID:       expense.ID,
				UserID:          a.UserID,
				AmountOwedCents: a.AmountCents,
				Status:          models.ShareUnpaid,
			}
			// Keep the share ID stable for participants that stay.
			if prev, ok := existing[a.UserID]; ok && prev.Status == models.ShareUnpaid {
				share.ID = prev.ID
			}
			upserts = append(upserts, share)
		}
	} else if residual == 0 {
		// The preserved paid shares cover the whole new amount; the
		// remaining participants owe nothing.
		for _, id := range unpaidUsers {
			share := models.Share{
				ExpenseID: expense.ID,
				UserID:    id,
				Status:    models.ShareUnpaid,
			}
			if prev, ok := existing[id]; ok && prev.Status == models.ShareUnpaid {
				share.ID = prev.ID
			}
			upserts = append(upserts, share)
		}
	}

	return upserts, removedIDs, nil
}

// Delete removes the expense and all its shares, paid or not. Only the
// payer may delete; the cascade is irreversible.
func (s *ExpenseService) Delete(ctx context.Context, actingUserID, expenseID string) error {
	unlock := s.locks.lock(expenseID)
	defer unlock()

	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return err
	}
	if expense.PayerID != actingUserID {
		return fmt.Errorf("%w: only the payer may delete an expense", ErrForbidden)
	}

	if err := s.store.DeleteExpense(ctx, expenseID); err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	slog.Info("Expense deleted", "expense_id", expenseID, "payer_id", actingUserID)
	return nil
}

// userInvolved reports whether the user is the payer or holds any share,
// detached history included.
func userInvolved(expense *models.Expense, userID string) bool {
	if expense.PayerID == userID {
		return true
	}
	for _, share := range expense.Shares {
		if share.UserID == userID {
			return true
		}
	}
	return false
}
