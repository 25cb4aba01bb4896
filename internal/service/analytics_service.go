package service

import (
	"context"

	"github.com/motorpool/backend/internal/models"
	"github.com/motorpool/backend/internal/storage"
)

// AnalyticsService is the read-only admin dashboard rollup.
type AnalyticsService struct {
	store storage.Store
}

// NewAnalyticsService creates a new AnalyticsService.
func NewAnalyticsService(store storage.Store) *AnalyticsService {
	return &AnalyticsService{store: store}
}

// GroupSnapshot returns the group record, the member count recomputed from
// the roster (a cross-check against the cached counter), all offers, and
// the total vote count. Read-only.
func (s *AnalyticsService) GroupSnapshot(ctx context.Context, groupID string) (*models.GroupAnalytics, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	members, err := s.store.CountMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}

	offers, err := s.store.ListOffers(ctx, groupID)
	if err != nil {
		return nil, err
	}

	votes, err := s.store.CountVotes(ctx, groupID)
	if err != nil {
		return nil, err
	}

	return &models.GroupAnalytics{
		Group:        group,
		MembersCount: members,
		Offers:       offers,
		TotalVotes:   votes,
	}, nil
}
