package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/motorpool/backend/internal/middleware"
	"github.com/motorpool/backend/internal/models"
)

func (s *Server) handleSavePreference(w http.ResponseWriter, r *http.Request) {
	var choice models.VehicleChoice
	if err := decodeJSON(r, &choice); err != nil {
		writeError(w, err)
		return
	}

	user, err := s.currentUser(r)
	if err != nil {
		writeError(w, err)
		return
	}

	pref, err := s.preferences.Save(r.Context(), chi.URLParam(r, "groupID"), user, choice)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pref)
}

func (s *Server) handleListPreferences(w http.ResponseWriter, r *http.Request) {
	prefs, err := s.preferences.ForGroup(r.Context(), chi.URLParam(r, "groupID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

func (s *Server) handleMyPreference(w http.ResponseWriter, r *http.Request) {
	pref, err := s.preferences.Mine(r.Context(), chi.URLParam(r, "groupID"), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	// A member with no saved preference gets null, not 404.
	writeJSON(w, http.StatusOK, pref)
}
