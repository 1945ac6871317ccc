package api

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/soumydip/minibank/internal/ledger"
)

type amountRequest struct {
	UserID string          `json:"userId"`
	Amount decimal.Decimal `json:"amount"`
}

type receiptResponse struct {
	Message         string          `json:"message"`
	TransactionID   string          `json:"transactionId"`
	TransactionType string          `json:"transactionType"`
	Amount          decimal.Decimal `json:"amount"`
	Date            time.Time       `json:"date"`
	NewBalance      decimal.Decimal `json:"newBalance"`
}

func receiptBody(message string, rcpt ledger.Receipt) receiptResponse {
	return receiptResponse{
		Message:         message,
		TransactionID:   rcpt.EntryID,
		TransactionType: string(rcpt.Kind),
		Amount:          rcpt.Amount,
		Date:            rcpt.Timestamp,
		NewBalance:      rcpt.NewBalance,
	}
}

func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if !s.decode(w, r, &req) {
		return
	}

	rcpt, err := s.ledger.Deposit(r.Context(), req.UserID, req.Amount)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, receiptBody("Money added successfully", rcpt))
}

func (s *Server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if !s.decode(w, r, &req) {
		return
	}

	rcpt, err := s.ledger.Withdraw(r.Context(), req.UserID, req.Amount)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, receiptBody("Money withdrawn successfully", rcpt))
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"userId"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	balance, err := s.ledger.GetBalance(r.Context(), req.UserID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"message": "Balance retrieved successfully",
		"balance": balance,
	})
}

type historyEntry struct {
	TransactionID string          `json:"transactionId"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	Date          time.Time       `json:"date"`
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")

	entries, err := s.ledger.GetHistory(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make([]historyEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, historyEntry{
			TransactionID: e.ID,
			Type:          string(e.Kind),
			Amount:        e.Amount,
			Date:          e.CreatedAt,
		})
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"message":      "Transaction history retrieved successfully",
		"transactions": out,
	})
}
