package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/splitly/splitly/internal/models"
	"github.com/splitly/splitly/internal/storage"
)

// CreateExpense persists a new expense and its shares in one transaction.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	// Generate IDs and timestamps if not set
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if expense.CreatedAt == 0 {
		expense.CreatedAt = now
	}
	if expense.UpdatedAt == 0 {
		expense.UpdatedAt = expense.CreatedAt
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, payer_id, amount_cents, title, description, date, category, payment_method, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.PayerID, expense.AmountCents, expense.Title, expense.Description,
		expense.Date, expense.Category, expense.PaymentMethod, expense.CreatedAt, expense.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for i := range expense.Shares {
		share := &expense.Shares[i]
		if share.ID == "" {
			share.ID = uuid.New().String()
		}
		share.ExpenseID = expense.ID

		_, err = tx.ExecContext(ctx,
			`INSERT INTO shares (id, expense_id, user_id, amount_owed_cents, status, detached)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			share.ID, share.ExpenseID, share.UserID, share.AmountOwedCents, share.Status, share.Detached,
		)
		if err != nil {
			return fmt.Errorf("failed to insert share: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetExpense retrieves an expense by ID, including all shares.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	expense := &models.Expense{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, payer_id, amount_cents, title, description, date, category, payment_method, created_at, updated_at
		 FROM expenses WHERE id = ?`,
		expenseID,
	).Scan(&expense.ID, &expense.PayerID, &expense.AmountCents, &expense.Title, &expense.Description,
		&expense.Date, &expense.Category, &expense.PaymentMethod, &expense.CreatedAt, &expense.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	shares, err := s.sharesForExpense(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	expense.Shares = shares

	return expense, nil
}

func (s *SQLiteStore) sharesForExpense(ctx context.Context, expenseID string) ([]models.Share, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, expense_id, user_id, amount_owed_cents, status, detached
		 FROM shares WHERE expense_id = ? ORDER BY rowid`,
		expenseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get shares: %w", err)
	}
	defer rows.Close()

	var shares []models.Share
	for rows.Next() {
		var share models.Share
		if err := rows.Scan(&share.ID, &share.ExpenseID, &share.UserID,
			&share.AmountOwedCents, &share.Status, &share.Detached); err != nil {
			return nil, fmt.Errorf("failed to scan share: %w", err)
		}
		shares = append(shares, share)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shares: %w", err)
	}

	return shares, nil
}

// UpdateExpense rewrites the expense row, upserts the given shares, and
// deletes the removed ones, all in one transaction.
func (s *SQLiteStore) UpdateExpense(ctx context.Context, expense *models.Expense, removedShareIDs []string) error {
	expense.UpdatedAt = time.Now().Unix()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE expenses
		 SET amount_cents = ?, title = ?, description = ?, date = ?, category = ?, payment_method = ?, updated_at = ?
		 WHERE id = ?`,
		expense.AmountCents, expense.Title, expense.Description, expense.Date,
		expense.Category, expense.PaymentMethod, expense.UpdatedAt, expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("expense %s: %w", expense.ID, storage.ErrNotFound)
	}

	for i := range expense.Shares {
		share := &expense.Shares[i]
		if share.ID == "" {
			share.ID = uuid.New().String()
		}
		share.ExpenseID = expense.ID

		_, err = tx.ExecContext(ctx,
			`INSERT INTO shares (id, expense_id, user_id, amount_owed_cents, status, detached)
			 VALUES (?, ?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET
			   user_id = excluded.user_id,
			   amount_owed_cents = excluded.amount_owed_cents,
			   status = excluded.status,
			   detached = excluded.detached`,
			share.ID, share.ExpenseID, share.UserID, share.AmountOwedCents, share.Status, share.Detached,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert share: %w", err)
		}
	}

	for _, shareID := range removedShareIDs {
		if _, err := tx.ExecContext(ctx, "DELETE FROM shares WHERE id = ?", shareID); err != nil {
			return fmt.Errorf("failed to delete share: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// DeleteExpense removes the expense; shares cascade via the foreign key.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, expenseID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	return nil
}

// ListExpensesByUser returns expenses where the user is payer or share
// holder, newest date first; same-day expenses keep creation order.
func (s *SQLiteStore) ListExpensesByUser(ctx context.Context, userID string) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT e.id, e.payer_id, e.amount_cents, e.title, e.description, e.date, e.category, e.payment_method, e.created_at, e.updated_at
		 FROM expenses e
		 WHERE e.payer_id = ?
		    OR EXISTS (SELECT 1 FROM shares sh WHERE sh.expense_id = e.id AND sh.user_id = ?)
		 ORDER BY e.date DESC, e.rowid`,
		userID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		expense := &models.Expense{}
		if err := rows.Scan(&expense.ID, &expense.PayerID, &expense.AmountCents, &expense.Title,
			&expense.Description, &expense.Date, &expense.Category, &expense.PaymentMethod,
			&expense.CreatedAt, &expense.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	for _, expense := range expenses {
		shares, err := s.sharesForExpense(ctx, expense.ID)
		if err != nil {
			return nil, err
		}
		expense.Shares = shares
	}

	return expenses, nil
}

// GetShare retrieves a single share by ID.
func (s *SQLiteStore) GetShare(ctx context.Context, shareID string) (*models.Share, error) {
	share := &models.Share{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, expense_id, user_id, amount_owed_cents, status, detached
		 FROM shares WHERE id = ?`,
		shareID,
	).Scan(&share.ID, &share.ExpenseID, &share.UserID, &share.AmountOwedCents, &share.Status, &share.Detached)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("share %s: %w", shareID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get share: %w", err)
	}
	return share, nil
}

// SetShareStatus updates only the settlement status of a share.
func (s *SQLiteStore) SetShareStatus(ctx context.Context, shareID string, status models.ShareStatus) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE shares SET status = ? WHERE id = ?",
		status, shareID,
	)
	if err != nil {
		return fmt.Errorf("failed to update share status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("share %s: %w", shareID, storage.ErrNotFound)
	}
	return nil
}
