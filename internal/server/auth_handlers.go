package server

import (
	"net/http"

	"github.com/motorpool/backend/internal/auth"
	"github.com/motorpool/backend/internal/middleware"
	"github.com/motorpool/backend/internal/models"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	session, err := s.accounts.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	session, err := s.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.currentUser(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// currentUser resolves the authenticated identity to the full user record.
func (s *Server) currentUser(r *http.Request) (*models.User, error) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		return nil, auth.ErrMissingToken
	}
	user, err := s.accounts.Get(r.Context(), id.UserID)
	if err != nil {
		// An identity whose account no longer exists is unauthenticated,
		// not a missing resource.
		return nil, auth.ErrInvalidToken
	}
	return user, nil
}
