package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/motorpool/backend/internal/service"
	"github.com/motorpool/backend/internal/storage"
)

func (s *Server) handleLockedGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.groups.LockedGroups(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

type completeGroupRequest struct {
	WinningOfferID string `json:"winning_offer_id"`
}

func (s *Server) handleCompleteGroup(w http.ResponseWriter, r *http.Request) {
	var req completeGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	groupID := chi.URLParam(r, "groupID")
	if err := s.groups.Complete(r.Context(), groupID, req.WinningOfferID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"group_id": groupID, "status": "completed"})
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.analytics.GroupSnapshot(r.Context(), chi.URLParam(r, "groupID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

// One starter group per brand. Member counters start at zero so they stay
// consistent with the (empty) roster.
var seedGroups = []service.CreateGroupInput{
	{CarModel: "Tata Motors", Brand: "Tata", City: "All India", MaxMembers: 50},
	{CarModel: "Mahindra & Mahindra", Brand: "Mahindra", City: "All India", MaxMembers: 50},
	{CarModel: "Kia Motors", Brand: "Kia", City: "All India", MaxMembers: 50},
	{CarModel: "Hyundai Motors", Brand: "Hyundai", City: "All India", MaxMembers: 50},
	{CarModel: "Honda Cars", Brand: "Honda", City: "All India", MaxMembers: 50},
	{CarModel: "Maruti Suzuki", Brand: "Maruti", City: "All India", MaxMembers: 50},
	{CarModel: "Volkswagen", Brand: "Volkswagen", City: "All India", MaxMembers: 50},
	{CarModel: "Toyota", Brand: "Toyota", City: "All India", MaxMembers: 50},
}

func (s *Server) handleSeedData(w http.ResponseWriter, r *http.Request) {
	existing, err := s.groups.List(r.Context(), storage.GroupFilter{})
	if err != nil {
		writeError(w, err)
		return
	}
	if len(existing) > 0 {
		writeJSON(w, http.StatusOK, map[string]string{"message": "data already seeded"})
		return
	}

	for _, in := range seedGroups {
		if _, err := s.groups.Create(r.Context(), in); err != nil {
			writeError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "sample data seeded"})
}
