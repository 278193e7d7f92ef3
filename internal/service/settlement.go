package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/splitly/splitly/internal/models"
)

// MarkSharePaid transitions a share from UNPAID to PAID. Only the owing
// user may settle their share. Settling an already-paid share is a no-op
// success so that client retries on a flaky network never see a failure
// for an action that already went through.
//
// The share's expense lock is taken for the status flip, the same lock
// Edit and Delete use, so a settlement can never interleave with a
// reconciliation of the same expense.
func (s *ExpenseService) MarkSharePaid(ctx context.Context, actingUserID, shareID string) (*models.Share, error) {
	// Pre-lock read to learn which expense the share belongs to.
	share, err := s.store.GetShare(ctx, shareID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.lock(share.ExpenseID)
	defer unlock()

	// Re-read under the lock; a concurrent edit may have changed it.
	share, err = s.store.GetShare(ctx, shareID)
	if err != nil {
		return nil, err
	}

	if share.UserID != actingUserID {
		return nil, fmt.Errorf("%w: only the owing user may settle a share", ErrForbidden)
	}

	if share.Status == models.SharePaid {
		slog.Info("Share already settled", "share_id", shareID, "user_id", actingUserID)
		return share, nil
	}

	if err := s.store.SetShareStatus(ctx, shareID, models.SharePaid); err != nil {
		return nil, fmt.Errorf("failed to settle share: %w", err)
	}
	share.Status = models.SharePaid

	slog.Info("Share settled",
		"share_id", share.ID,
		"expense_id", share.ExpenseID,
		"user_id", share.UserID,
		"amount_cents", share.AmountOwedCents,
	)

	return share, nil
}
