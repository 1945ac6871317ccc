package api

import "net/http"

// PIN values ride in request bodies only; they are never echoed back and
// never logged.

func (s *Server) handleCreatePIN(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"userId"`
		PIN    string `json:"pin"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	if err := s.auth.CreatePIN(r.Context(), req.UserID, req.PIN); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "PIN created and linked to user successfully",
	})
}

func (s *Server) handleVerifyPIN(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"userId"`
		PIN    string `json:"pin"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	if err := s.auth.VerifyPIN(r.Context(), req.UserID, req.PIN); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "PIN verified successfully",
	})
}

func (s *Server) handleUpdatePIN(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"userId"`
		OldPIN string `json:"oldPin"`
		NewPIN string `json:"newPin"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	if err := s.auth.UpdatePIN(r.Context(), req.UserID, req.OldPIN, req.NewPIN); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "PIN updated successfully",
	})
}

func (s *Server) handleResetPIN(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"userId"`
		Email  string `json:"email"`
		NewPIN string `json:"newPin"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	if err := s.auth.ResetPIN(r.Context(), req.UserID, req.Email, req.NewPIN); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "PIN reset successfully",
	})
}
