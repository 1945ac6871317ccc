// Package api exposes the ledger and auth services over HTTP with JSON
// bodies. Routing mirrors the public surface: /api/user for identity,
// /api/amount for ledger operations, /api/pin for the secondary
// credential.
package api

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/soumydip/minibank/internal/auth"
	"github.com/soumydip/minibank/internal/ledger"
)

type Server struct {
	auth          *auth.Service
	ledger        *ledger.Ledger
	logger        *zap.Logger
	allowedOrigin string
}

func NewServer(authSvc *auth.Service, ledgerSvc *ledger.Ledger, logger *zap.Logger, allowedOrigin string) *Server {
	return &Server{
		auth:          authSvc,
		ledger:        ledgerSvc,
		logger:        logger,
		allowedOrigin: allowedOrigin,
	}
}

// Routes builds the handler tree with the middleware chain applied.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	mux.HandleFunc("POST /api/user/adduser", s.handleRegister)
	mux.HandleFunc("POST /api/user/login", s.handleLogin)
	mux.Handle("GET /api/user/profile", s.requireAuth(s.handleProfile))

	mux.Handle("POST /api/amount/add", s.requireAuth(s.handleDeposit))
	mux.Handle("POST /api/amount/withdraw", s.requireAuth(s.handleWithdraw))
	mux.Handle("POST /api/amount/balance", s.requireAuth(s.handleBalance))
	mux.Handle("GET /api/amount/transactions/{userId}", s.requireAuth(s.handleHistory))

	mux.Handle("POST /api/pin/create", s.requireAuth(s.handleCreatePIN))
	mux.Handle("POST /api/pin/verify", s.requireAuth(s.handleVerifyPIN))
	mux.Handle("POST /api/pin/update", s.requireAuth(s.handleUpdatePIN))
	mux.Handle("POST /api/pin/reset", s.requireAuth(s.handleResetPIN))

	return s.securityHeaders(s.cors(s.logRequests(mux)))
}
