package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/motorpool/backend/internal/service"
	"github.com/motorpool/backend/internal/storage"
)

func (s *Server) handleListGroups(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := storage.GroupFilter{
		Brand:  q.Get("brand"),
		City:   q.Get("city"),
		Search: q.Get("search"),
	}

	groups, err := s.groups.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

func (s *Server) handleGetGroup(w http.ResponseWriter, r *http.Request) {
	group, err := s.groups.Get(r.Context(), chi.URLParam(r, "groupID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, group)
}

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var in service.CreateGroupInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	group, err := s.groups.Create(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, group)
}

type joinResponse struct {
	GroupID        string `json:"group_id"`
	CurrentMembers int    `json:"current_members"`
}

func (s *Server) handleJoinGroup(w http.ResponseWriter, r *http.Request) {
	user, err := s.currentUser(r)
	if err != nil {
		writeError(w, err)
		return
	}

	groupID := chi.URLParam(r, "groupID")
	count, err := s.groups.Join(r.Context(), groupID, user)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, joinResponse{GroupID: groupID, CurrentMembers: count})
}

func (s *Server) handleListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := s.groups.Members(r.Context(), chi.URLParam(r, "groupID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, members)
}

func (s *Server) handleCarData(w http.ResponseWriter, r *http.Request) {
	// Unknown brands return an empty object rather than 404 so the
	// client's brand picker can probe freely.
	writeJSON(w, http.StatusOK, s.catalog.Lookup(chi.URLParam(r, "brand")))
}
