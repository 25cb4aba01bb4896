package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/motorpool/backend/internal/middleware"
	"github.com/motorpool/backend/internal/models"
)

func (s *Server) handlePay(w http.ResponseWriter, r *http.Request) {
	var choice models.VehicleChoice
	if err := decodeJSON(r, &choice); err != nil {
		writeError(w, err)
		return
	}

	groupID := chi.URLParam(r, "groupID")
	userID := middleware.GetUserID(r.Context())
	payment, err := s.payments.Pay(r.Context(), groupID, userID, choice)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payment)
}

type paymentStatusResponse struct {
	GroupID string `json:"group_id"`
	HasPaid bool   `json:"has_paid"`
}

func (s *Server) handleCheckPayment(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")
	paid, err := s.payments.HasPaid(r.Context(), groupID, middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, paymentStatusResponse{GroupID: groupID, HasPaid: paid})
}
