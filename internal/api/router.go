package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/splitly/splitly/internal/auth"
	"github.com/splitly/splitly/internal/middleware"
	"github.com/splitly/splitly/internal/service"
	"github.com/splitly/splitly/internal/storage"
)

// Server wires the engine, directory, and authenticator to HTTP routes.
type Server struct {
	expenses      *service.ExpenseService
	directory     storage.Directory
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
}

// NewServer creates the HTTP surface over the given collaborators.
func NewServer(expenses *service.ExpenseService, directory storage.Directory,
	authenticator auth.Authenticator, jwtManager *auth.JWTManager) *Server {
	return &Server{
		expenses:      expenses,
		directory:     directory,
		authenticator: authenticator,
		jwtManager:    jwtManager,
	}
}

// Handler builds the route table. Everything under /api except auth
// requires a valid Bearer token; each route is wrapped with its own
// metrics label and the whole mux with request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	public := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, middleware.Metrics(pattern, h))
	}
	protected := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, middleware.Metrics(pattern, middleware.RequireAuth(s.jwtManager, h)))
	}

	public("POST /api/auth/register", s.handleRegister)
	public("POST /api/auth/login", s.handleLogin)

	protected("GET /api/users/search", s.handleSearchUsers)
	protected("GET /api/users/{username}", s.handleGetUser)

	protected("POST /api/expenses", s.handleCreateExpense)
	protected("GET /api/expenses", s.handleListExpenses)
	protected("GET /api/expenses/{id}", s.handleGetExpense)
	protected("PUT /api/expenses/{id}", s.handleEditExpense)
	protected("DELETE /api/expenses/{id}", s.handleDeleteExpense)
	protected("PATCH /api/shares/{id}/pay", s.handleMarkSharePaid)
	protected("GET /api/balances", s.handleBalances)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	return middleware.Logging(mux)
}
