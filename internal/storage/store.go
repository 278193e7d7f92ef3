// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/splitly/splitly/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
// Implementations wrap it with the missing ID.
var ErrNotFound = errors.New("not found")

// Store defines the interface for expense and share persistence.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the service layer.
type Store interface {
	// CreateExpense persists an expense together with its shares as one
	// atomic unit. The expense and share IDs are populated if empty.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves an expense by ID, including all of its
	// shares (detached ones too) in insertion order.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// UpdateExpense atomically rewrites the expense row, upserts every
	// share in expense.Shares, and deletes the shares listed in
	// removedShareIDs.
	UpdateExpense(ctx context.Context, expense *models.Expense, removedShareIDs []string) error

	// DeleteExpense removes the expense and cascades to all its shares.
	DeleteExpense(ctx context.Context, expenseID string) error

	// ListExpensesByUser returns every expense where the user is the
	// payer or holds a share, newest date first, ties broken by
	// creation order.
	ListExpensesByUser(ctx context.Context, userID string) ([]*models.Expense, error)

	// GetShare retrieves a single share by ID.
	GetShare(ctx context.Context, shareID string) (*models.Share, error)

	// SetShareStatus updates only the settlement status of a share.
	SetShareStatus(ctx context.Context, shareID string, status models.ShareStatus) error

	// Close releases any resources held by the store.
	Close() error
}

// Directory is the user-directory surface consumed by the engine and the
// search endpoints. Existence checks gate which IDs may enter a share.
type Directory interface {
	// UserExists reports whether a user ID resolves to an account.
	UserExists(ctx context.Context, userID string) (bool, error)

	// SearchUsers returns users whose username, first name, or last
	// name matches the query prefix (case-insensitive), ordered by
	// username.
	SearchUsers(ctx context.Context, query string) ([]*models.User, error)

	// GetUserByUsername retrieves a single user by their unique handle.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}
