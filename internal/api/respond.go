// Package api exposes the engine over JSON HTTP. It owns request
// decoding, response shaping, and the mapping from the engine's error
// taxonomy to status codes; all business rules live in the service layer.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/splitly/splitly/internal/auth"
	"github.com/splitly/splitly/internal/models"
	"github.com/splitly/splitly/internal/money"
	"github.com/splitly/splitly/internal/service"
	"github.com/splitly/splitly/internal/storage"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			slog.Error("Failed to encode response", "error", err)
		}
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps engine and auth failures onto HTTP status codes. The
// wrapped messages already carry the offending value, so the body is the
// error text verbatim.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, storage.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrUnauthorized),
		errors.Is(err, auth.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, money.ErrInvalidAmount):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrInvalidParticipant),
		errors.Is(err, service.ErrDuplicatePayer),
		errors.Is(err, auth.ErrAccountExists),
		errors.Is(err, auth.ErrWeakPassword):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		slog.Error("Request failed", "error", err)
		writeJSON(w, status, errorResponse{Error: "internal error"})
		return
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	return true
}

// shareResponse is the wire form of a share.
type shareResponse struct {
	ID              string `json:"id"`
	UserID          string `json:"user_id"`
	AmountOwedCents int64  `json:"amount_owed_cents"`
	AmountOwed      string `json:"amount_owed"`
	Status          string `json:"status"`
	Detached        bool   `json:"detached,omitempty"`
}

// expenseResponse is the wire form of an expense with its shares.
type expenseResponse struct {
	ID               string          `json:"id"`
	PayerID          string          `json:"payer_id"`
	AmountCents      int64           `json:"amount_cents"`
	Amount           string          `json:"amount"`
	Title            string          `json:"title,omitempty"`
	Description      string          `json:"description,omitempty"`
	Date             string          `json:"date"`
	Category         string          `json:"category"`
	PaymentMethod    string          `json:"payment_method"`
	PayerPortion     string          `json:"payer_portion"`
	PayerPortionCent int64           `json:"payer_portion_cents"`
	Shares           []shareResponse `json:"shares"`
	CreatedAt        int64           `json:"created_at"`
	UpdatedAt        int64           `json:"updated_at"`
}

func toShareResponse(share models.Share) shareResponse {
	return shareResponse{
		ID:              share.ID,
		UserID:          share.UserID,
		AmountOwedCents: share.AmountOwedCents,
		AmountOwed:      money.FormatCents(share.AmountOwedCents),
		Status:          string(share.Status),
		Detached:        share.Detached,
	}
}

func toExpenseResponse(expense *models.Expense) expenseResponse {
	shares := make([]shareResponse, 0, len(expense.Shares))
	for _, share := range expense.Shares {
		shares = append(shares, toShareResponse(share))
	}
	return expenseResponse{
		ID:               expense.ID,
		PayerID:          expense.PayerID,
		AmountCents:      expense.AmountCents,
		Amount:           money.FormatCents(expense.AmountCents),
		Title:            expense.Title,
		Description:      expense.Description,
		Date:             expense.Date,
		Category:         string(expense.Category),
		PaymentMethod:    string(expense.PaymentMethod),
		PayerPortion:     money.FormatCents(expense.PayerPortionCents()),
		PayerPortionCent: expense.PayerPortionCents(),
		Shares:           shares,
		CreatedAt:        expense.CreatedAt,
		UpdatedAt:        expense.UpdatedAt,
	}
}

// userResponse is the public directory view of a user; no email, no hash.
type userResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func toUserResponse(user *models.User) userResponse {
	return userResponse{
		ID:        user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
}
