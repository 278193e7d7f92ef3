package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/splitly/splitly/internal/models"
	"github.com/splitly/splitly/internal/storage"
)

func setupStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	for _, u := range []struct{ id, username, first string }{
		{"u1", "alice", "Alice"},
		{"u2", "bob", "Bob"},
		{"u3", "alina", "Alina"},
	} {
		err := store.CreateUser(ctx, &models.User{
			ID:           u.id,
			Username:     u.username,
			FirstName:    u.first,
			Email:        u.username + "@example.com",
			PasswordHash: "x",
		})
		if err != nil {
			t.Fatalf("failed to create user %s: %v", u.id, err)
		}
	}

	return store
}

func testExpense(payerID string, date string, shares ...models.Share) *models.Expense {
	return &models.Expense{
		PayerID:       payerID,
		AmountCents:   1000,
		Title:         "Groceries",
		Date:          date,
		Category:      models.CategoryFood,
		PaymentMethod: models.PaymentCash,
		Shares:        shares,
	}
}

func TestExpenseCRUD(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	expense := testExpense("u1", "2025-05-01",
		models.Share{UserID: "u2", AmountOwedCents: 500, Status: models.ShareUnpaid},
	)

	t.Run("create generates IDs and timestamps", func(t *testing.T) {
		if err := store.CreateExpense(ctx, expense); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
		if expense.ID == "" {
			t.Error("expected expense ID to be generated")
		}
		if expense.Shares[0].ID == "" {
			t.Error("expected share ID to be generated")
		}
		if expense.Shares[0].ExpenseID != expense.ID {
			t.Error("share not linked to expense")
		}
		if expense.CreatedAt == 0 || expense.UpdatedAt == 0 {
			t.Error("expected timestamps to be set")
		}
	})

	t.Run("get round trip", func(t *testing.T) {
		got, err := store.GetExpense(ctx, expense.ID)
		if err != nil {
			t.Fatalf("GetExpense failed: %v", err)
		}
		if got.PayerID != "u1" || got.AmountCents != 1000 || got.Title != "Groceries" {
			t.Errorf("expense mismatch: %+v", got)
		}
		if got.Category != models.CategoryFood || got.PaymentMethod != models.PaymentCash {
			t.Errorf("enum mismatch: %s / %s", got.Category, got.PaymentMethod)
		}
		if len(got.Shares) != 1 || got.Shares[0].UserID != "u2" || got.Shares[0].AmountOwedCents != 500 {
			t.Errorf("shares mismatch: %+v", got.Shares)
		}
	})

	t.Run("get missing expense", func(t *testing.T) {
		_, err := store.GetExpense(ctx, "nonexistent")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("update upserts and removes shares", func(t *testing.T) {
		oldShareID := expense.Shares[0].ID

		expense.AmountCents = 1500
		expense.Shares = []models.Share{
			{ID: oldShareID, ExpenseID: expense.ID, UserID: "u2", AmountOwedCents: 750, Status: models.ShareUnpaid},
			{ExpenseID: expense.ID, UserID: "u3", AmountOwedCents: 250, Status: models.ShareUnpaid},
		}
		if err := store.UpdateExpense(ctx, expense, nil); err != nil {
			t.Fatalf("UpdateExpense failed: %v", err)
		}

		got, err := store.GetExpense(ctx, expense.ID)
		if err != nil {
			t.Fatalf("GetExpense failed: %v", err)
		}
		if got.AmountCents != 1500 {
			t.Errorf("amount = %d, want 1500", got.AmountCents)
		}
		if len(got.Shares) != 2 {
			t.Fatalf("expected 2 shares, got %d", len(got.Shares))
		}
		if got.Shares[0].ID != oldShareID || got.Shares[0].AmountOwedCents != 750 {
			t.Errorf("upserted share mismatch: %+v", got.Shares[0])
		}

		// Now drop u3's share again.
		removedID := got.Shares[1].ID
		expense.Shares = got.Shares[:1]
		if err := store.UpdateExpense(ctx, expense, []string{removedID}); err != nil {
			t.Fatalf("UpdateExpense failed: %v", err)
		}
		got, err = store.GetExpense(ctx, expense.ID)
		if err != nil {
			t.Fatalf("GetExpense failed: %v", err)
		}
		if len(got.Shares) != 1 {
			t.Errorf("expected 1 share after removal, got %d", len(got.Shares))
		}
		if _, err := store.GetShare(ctx, removedID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("removed share still present: %v", err)
		}
	})

	t.Run("update missing expense", func(t *testing.T) {
		missing := testExpense("u1", "2025-05-01")
		missing.ID = "nonexistent"
		err := store.UpdateExpense(ctx, missing, nil)
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("delete cascades to shares", func(t *testing.T) {
		shareID := expense.Shares[0].ID
		if err := store.DeleteExpense(ctx, expense.ID); err != nil {
			t.Fatalf("DeleteExpense failed: %v", err)
		}
		if _, err := store.GetExpense(ctx, expense.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expense still present: %v", err)
		}
		if _, err := store.GetShare(ctx, shareID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("share survived cascade: %v", err)
		}
		if err := store.DeleteExpense(ctx, expense.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("second delete: expected ErrNotFound, got %v", err)
		}
	})
}

func TestListExpensesByUser(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	older := testExpense("u1", "2025-05-01",
		models.Share{UserID: "u2", AmountOwedCents: 500, Status: models.ShareUnpaid},
	)
	newer := testExpense("u1", "2025-05-03")
	asShareHolder := testExpense("u2", "2025-05-01",
		models.Share{UserID: "u1", AmountOwedCents: 500, Status: models.ShareUnpaid},
	)
	for _, e := range []*models.Expense{older, newer, asShareHolder} {
		if err := store.CreateExpense(ctx, e); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
	}

	expenses, err := store.ListExpensesByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("ListExpensesByUser failed: %v", err)
	}
	if len(expenses) != 3 {
		t.Fatalf("expected 3 expenses, got %d", len(expenses))
	}
	// Newest date first; same-day ties keep creation order.
	wantOrder := []string{newer.ID, older.ID, asShareHolder.ID}
	for i, want := range wantOrder {
		if expenses[i].ID != want {
			t.Errorf("position %d = %s, want %s", i, expenses[i].ID, want)
		}
	}

	expenses, err = store.ListExpensesByUser(ctx, "u3")
	if err != nil {
		t.Fatalf("ListExpensesByUser failed: %v", err)
	}
	if len(expenses) != 0 {
		t.Errorf("expected no expenses for uninvolved user, got %d", len(expenses))
	}
}

func TestShareStatus(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	expense := testExpense("u1", "2025-05-01",
		models.Share{UserID: "u2", AmountOwedCents: 500, Status: models.ShareUnpaid},
	)
	if err := store.CreateExpense(ctx, expense); err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}
	shareID := expense.Shares[0].ID

	if err := store.SetShareStatus(ctx, shareID, models.SharePaid); err != nil {
		t.Fatalf("SetShareStatus failed: %v", err)
	}
	share, err := store.GetShare(ctx, shareID)
	if err != nil {
		t.Fatalf("GetShare failed: %v", err)
	}
	if share.Status != models.SharePaid {
		t.Errorf("status = %s, want PAID", share.Status)
	}
	if share.AmountOwedCents != 500 {
		t.Errorf("amount changed: %d", share.AmountOwedCents)
	}

	if err := store.SetShareStatus(ctx, "nonexistent", models.SharePaid); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDetachedShareRoundTrip(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	expense := testExpense("u1", "2025-05-01",
		models.Share{UserID: "u2", AmountOwedCents: 500, Status: models.SharePaid},
	)
	if err := store.CreateExpense(ctx, expense); err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}

	expense.Shares[0].Detached = true
	if err := store.UpdateExpense(ctx, expense, nil); err != nil {
		t.Fatalf("UpdateExpense failed: %v", err)
	}

	got, err := store.GetExpense(ctx, expense.ID)
	if err != nil {
		t.Fatalf("GetExpense failed: %v", err)
	}
	if len(got.Shares) != 1 || !got.Shares[0].Detached {
		t.Errorf("expected detached share, got %+v", got.Shares)
	}
	if got.Shares[0].Status != models.SharePaid {
		t.Errorf("status = %s, want PAID", got.Shares[0].Status)
	}
}

func TestUsers(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	t.Run("get by ID", func(t *testing.T) {
		user, err := store.GetUserByID(ctx, "u1")
		if err != nil {
			t.Fatalf("GetUserByID failed: %v", err)
		}
		if user == nil || user.Username != "alice" {
			t.Errorf("user = %+v, want alice", user)
		}

		user, err = store.GetUserByID(ctx, "nonexistent")
		if err != nil {
			t.Fatalf("GetUserByID failed: %v", err)
		}
		if user != nil {
			t.Errorf("expected nil for missing user, got %+v", user)
		}
	})

	t.Run("get by username", func(t *testing.T) {
		user, err := store.GetUserByUsername(ctx, "bob")
		if err != nil {
			t.Fatalf("GetUserByUsername failed: %v", err)
		}
		if user.ID != "u2" {
			t.Errorf("user ID = %s, want u2", user.ID)
		}

		_, err = store.GetUserByUsername(ctx, "nobody")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("exists", func(t *testing.T) {
		exists, err := store.UserExists(ctx, "u1")
		if err != nil {
			t.Fatalf("UserExists failed: %v", err)
		}
		if !exists {
			t.Error("expected u1 to exist")
		}
		exists, err = store.UserExists(ctx, "nonexistent")
		if err != nil {
			t.Fatalf("UserExists failed: %v", err)
		}
		if exists {
			t.Error("expected nonexistent to not exist")
		}
	})

	t.Run("search by prefix", func(t *testing.T) {
		users, err := store.SearchUsers(ctx, "al")
		if err != nil {
			t.Fatalf("SearchUsers failed: %v", err)
		}
		if len(users) != 2 {
			t.Fatalf("expected 2 matches, got %d", len(users))
		}
		// Ordered by username: alice before alina.
		if users[0].Username != "alice" || users[1].Username != "alina" {
			t.Errorf("order = %s, %s; want alice, alina", users[0].Username, users[1].Username)
		}

		users, err = store.SearchUsers(ctx, "AL")
		if err != nil {
			t.Fatalf("SearchUsers failed: %v", err)
		}
		if len(users) != 2 {
			t.Errorf("case-insensitive search: expected 2 matches, got %d", len(users))
		}

		users, err = store.SearchUsers(ctx, "zzz")
		if err != nil {
			t.Fatalf("SearchUsers failed: %v", err)
		}
		if len(users) != 0 {
			t.Errorf("expected no matches, got %d", len(users))
		}
	})

	t.Run("wildcards are literal", func(t *testing.T) {
		for _, query := range []string{"%", "_", `\`} {
			users, err := store.SearchUsers(ctx, query)
			if err != nil {
				t.Fatalf("SearchUsers(%q) failed: %v", query, err)
			}
			if len(users) != 0 {
				t.Errorf("SearchUsers(%q) matched %d users, want none", query, len(users))
			}
		}
	})
}
