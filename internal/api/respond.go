package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/soumydip/minibank/internal/auth"
	"github.com/soumydip/minibank/internal/models"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("encode response failed", zap.Error(err))
	}
}

// writeError maps domain errors to a stable code and status. Anything
// unrecognized is an internal failure: logged in full, reported
// generically.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := http.StatusInternalServerError, "internal"

	var vErr *auth.ValidationError
	switch {
	case errors.As(err, &vErr),
		errors.Is(err, models.ErrInvalidAmount),
		errors.Is(err, models.ErrEmailNoMatch):
		status, code = http.StatusBadRequest, "invalid_argument"
	case errors.Is(err, models.ErrInsufficientFunds):
		status, code = http.StatusBadRequest, "insufficient_funds"
	case errors.Is(err, models.ErrAccountNotFound),
		errors.Is(err, models.ErrPINNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, models.ErrNoHistory):
		status, code = http.StatusNotFound, "no_history"
	case errors.Is(err, models.ErrEmailTaken),
		errors.Is(err, models.ErrMobileTaken),
		errors.Is(err, models.ErrPINExists):
		status, code = http.StatusConflict, "conflict"
	case errors.Is(err, models.ErrUnauthorized),
		errors.Is(err, models.ErrInvalidCredentials),
		errors.Is(err, models.ErrPINMismatch):
		status, code = http.StatusUnauthorized, "unauthorized"
	}

	message := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.Error(err))
		message = "Something went wrong!"
	}
	s.writeJSON(w, status, errorBody{Code: code, Message: message})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorBody{Code: "invalid_argument", Message: "invalid request body"})
		return false
	}
	return true
}
