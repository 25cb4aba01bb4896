package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/motorpool/backend/internal/metrics"
	"github.com/motorpool/backend/internal/models"
	"github.com/motorpool/backend/internal/storage"
)

// GroupService is the group registry and membership manager: it creates
// and lists groups and enforces the join contract.
type GroupService struct {
	store storage.Store
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store) *GroupService {
	return &GroupService{store: store}
}

// CreateGroupInput is the validated shape for group creation.
type CreateGroupInput struct {
	CarModel   string `json:"car_model"`
	Brand      string `json:"brand"`
	City       string `json:"city"`
	ImageURL   string `json:"image_url"`
	MaxMembers int    `json:"max_members"`
}

// Create validates and persists a new group in status forming.
func (s *GroupService) Create(ctx context.Context, in CreateGroupInput) (*models.Group, error) {
	if in.MaxMembers <= 0 {
		return nil, errors.Join(ErrInvalidInput, errors.New("max_members must be positive"))
	}
	if in.CarModel == "" || in.Brand == "" || in.City == "" {
		return nil, errors.Join(ErrInvalidInput, errors.New("car_model, brand, and city are required"))
	}

	group := &models.Group{
		CarModel:   in.CarModel,
		Brand:      in.Brand,
		City:       in.City,
		ImageURL:   in.ImageURL,
		MaxMembers: in.MaxMembers,
	}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		slog.Error("CreateGroup failed", "error", err)
		return nil, err
	}

	slog.Info("Group created", "group_id", group.ID, "brand", group.Brand, "max_members", group.MaxMembers)
	return group, nil
}

// List retrieves groups matching the filter. Results are capped at 1000
// and carry no ordering guarantee.
func (s *GroupService) List(ctx context.Context, filter storage.GroupFilter) ([]*models.Group, error) {
	return s.store.ListGroups(ctx, filter)
}

// Get retrieves one group.
func (s *GroupService) Get(ctx context.Context, groupID string) (*models.Group, error) {
	return s.store.GetGroup(ctx, groupID)
}

// Join adds the user to the group, enforcing the full contract: payment
// first, capacity and duplicate-membership guards, counter and lock
// advanced atomically with the roster. Returns the new member count.
func (s *GroupService) Join(ctx context.Context, groupID string, user *models.User) (int, error) {
	count, err := s.store.AddMember(ctx, groupID, user)
	if err != nil {
		slog.Warn("Join rejected", "group_id", groupID, "user_id", user.ID, "error", err)
		return 0, err
	}

	metrics.JoinsTotal.Inc()
	slog.Info("Member joined", "group_id", groupID, "user_id", user.ID, "current_members", count)
	return count, nil
}

// Members lists the group roster.
func (s *GroupService) Members(ctx context.Context, groupID string) ([]*models.Membership, error) {
	return s.store.ListMembers(ctx, groupID)
}

// LockedGroups lists groups awaiting dealer offers.
func (s *GroupService) LockedGroups(ctx context.Context) ([]*models.Group, error) {
	return s.store.ListGroupsByStatus(ctx, models.StatusLocked)
}

// Complete finishes a negotiating group against a winning offer.
func (s *GroupService) Complete(ctx context.Context, groupID, winningOfferID string) error {
	if winningOfferID == "" {
		return errors.Join(ErrInvalidInput, errors.New("winning_offer_id is required"))
	}
	if err := s.store.CompleteGroup(ctx, groupID, winningOfferID); err != nil {
		slog.Warn("Complete rejected", "group_id", groupID, "offer_id", winningOfferID, "error", err)
		return err
	}

	slog.Info("Group completed", "group_id", groupID, "winning_offer_id", winningOfferID)
	return nil
}
