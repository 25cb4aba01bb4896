package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/motorpool/backend/internal/models"
	"github.com/motorpool/backend/internal/storage"
)

// PreferenceService manages per-member vehicle configuration choices.
type PreferenceService struct {
	store storage.Store
}

// NewPreferenceService creates a new PreferenceService.
func NewPreferenceService(store storage.Store) *PreferenceService {
	return &PreferenceService{store: store}
}

// Save upserts the member's car preference. Only group members may save;
// a second save updates the existing record in place.
func (s *PreferenceService) Save(ctx context.Context, groupID string, user *models.User, choice models.VehicleChoice) (*models.CarPreference, error) {
	if choice.CarModel == "" || choice.Variant == "" {
		return nil, errors.Join(ErrInvalidInput, errors.New("car_model and variant are required"))
	}

	member, err := s.store.IsMember(ctx, groupID, user.ID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, storage.ErrNotMember
	}

	pref := &models.CarPreference{
		UserID:   user.ID,
		GroupID:  groupID,
		UserName: user.Name,
		Choice:   choice,
	}
	if err := s.store.SavePreference(ctx, pref); err != nil {
		slog.Error("SavePreference failed", "group_id", groupID, "user_id", user.ID, "error", err)
		return nil, err
	}

	slog.Info("Car preference saved", "group_id", groupID, "user_id", user.ID, "car_model", choice.CarModel)
	return pref, nil
}

// ForGroup lists all members' preferences in a group, unordered.
func (s *PreferenceService) ForGroup(ctx context.Context, groupID string) ([]*models.CarPreference, error) {
	return s.store.ListPreferences(ctx, groupID)
}

// Mine returns the caller's preference, or (nil, nil) when none exists —
// an absent preference is not an error.
func (s *PreferenceService) Mine(ctx context.Context, groupID, userID string) (*models.CarPreference, error) {
	pref, err := s.store.GetPreference(ctx, groupID, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return pref, nil
}
