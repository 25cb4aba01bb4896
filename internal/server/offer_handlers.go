package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/motorpool/backend/internal/middleware"
	"github.com/motorpool/backend/internal/service"
)

func (s *Server) handleCreateOffer(w http.ResponseWriter, r *http.Request) {
	var in service.CreateOfferInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	offer, err := s.offers.Create(r.Context(), chi.URLParam(r, "groupID"), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, offer)
}

func (s *Server) handleListOffers(w http.ResponseWriter, r *http.Request) {
	offers, err := s.offers.ForGroup(r.Context(), chi.URLParam(r, "groupID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, offers)
}

func (s *Server) handleVote(w http.ResponseWriter, r *http.Request) {
	offerID := chi.URLParam(r, "offerID")
	if err := s.offers.Vote(r.Context(), offerID, middleware.GetUserID(r.Context())); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"offer_id": offerID, "status": "voted"})
}
