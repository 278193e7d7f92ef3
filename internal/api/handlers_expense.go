package api

import (
	"net/http"
	"time"

	"github.com/splitly/splitly/internal/middleware"
	"github.com/splitly/splitly/internal/models"
	"github.com/splitly/splitly/internal/money"
	"github.com/splitly/splitly/internal/service"
)

// expenseRequest is the create/edit payload. The amount crosses the wire
// as a decimal string and is converted to cents at this boundary.
type expenseRequest struct {
	Title          string   `json:"title"`
	Amount         string   `json:"amount"`
	Description    string   `json:"description"`
	Date           string   `json:"date"`
	Category       string   `json:"category"`
	PaymentMethod  string   `json:"payment_method"`
	ParticipantIDs []string `json:"participant_ids"`
}

func (req *expenseRequest) toInput() (service.ExpenseInput, error) {
	cents, err := money.ParseDecimal(req.Amount)
	if err != nil {
		return service.ExpenseInput{}, err
	}

	date := req.Date
	if date == "" {
		date = time.Now().Format(models.DateLayout)
	}

	return service.ExpenseInput{
		AmountCents:    cents,
		Title:          req.Title,
		Description:    req.Description,
		Date:           date,
		Category:       models.Category(req.Category),
		PaymentMethod:  models.PaymentMethod(req.PaymentMethod),
		ParticipantIDs: req.ParticipantIDs,
	}, nil
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	in, err := req.toInput()
	if err != nil {
		writeError(w, err)
		return
	}

	expense, err := s.expenses.Create(r.Context(), middleware.GetUserID(r.Context()), in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toExpenseResponse(expense))
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.expenses.ListByUser(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]expenseResponse, 0, len(expenses))
	for _, expense := range expenses {
		resp = append(resp, toExpenseResponse(expense))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	expense, err := s.expenses.Get(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toExpenseResponse(expense))
}

func (s *Server) handleEditExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	in, err := req.toInput()
	if err != nil {
		writeError(w, err)
		return
	}

	expense, err := s.expenses.Edit(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"), in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toExpenseResponse(expense))
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	err := s.expenses.Delete(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMarkSharePaid(w http.ResponseWriter, r *http.Request) {
	share, err := s.expenses.MarkSharePaid(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toShareResponse(*share))
}

type balancesResponse struct {
	OwedToUserCents int64                 `json:"owed_to_user_cents"`
	OwedToUser      string                `json:"owed_to_user"`
	UserOwesCents   int64                 `json:"user_owes_cents"`
	UserOwes        string                `json:"user_owes"`
	NetCents        int64                 `json:"net_cents"`
	Net             string                `json:"net"`
	Counterparties  []counterpartyBalance `json:"counterparties"`
}

type counterpartyBalance struct {
	UserID   string `json:"user_id"`
	NetCents int64  `json:"net_cents"`
	Net      string `json:"net"`
}

func (s *Server) handleBalances(w http.ResponseWriter, r *http.Request) {
	summary, err := s.expenses.Balances(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	resp := balancesResponse{
		OwedToUserCents: summary.OwedToUserCents,
		OwedToUser:      money.FormatCents(summary.OwedToUserCents),
		UserOwesCents:   summary.UserOwesCents,
		UserOwes:        money.FormatCents(summary.UserOwesCents),
		NetCents:        summary.NetCents,
		Net:             money.FormatCents(summary.NetCents),
		Counterparties:  make([]counterpartyBalance, 0, len(summary.Counterparties)),
	}
	for _, cp := range summary.Counterparties {
		resp.Counterparties = append(resp.Counterparties, counterpartyBalance{
			UserID:   cp.UserID,
			NetCents: cp.NetCents,
			Net:      money.FormatCents(cp.NetCents),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}
