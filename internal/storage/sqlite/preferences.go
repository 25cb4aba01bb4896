package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/motorpool/backend/internal/models"
	"github.com/motorpool/backend/internal/storage"
)

// SavePreference upserts the member's car preference. A second save for the
// same (group, user) updates the choice in place, keeping the original ID
// and timestamp.
func (s *Store) SavePreference(ctx context.Context, pref *models.CarPreference) error {
	if pref.ID == "" {
		pref.ID = uuid.New().String()
	}
	if pref.CreatedAt == "" {
		pref.CreatedAt = models.NowUTC()
	}

	_, err := s.writeDB.ExecContext(ctx,
		`INSERT INTO car_preferences (id, group_id, user_id, user_name, car_model, variant, transmission, on_road_price, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (group_id, user_id) DO UPDATE SET
		     car_model = excluded.car_model,
		     variant = excluded.variant,
		     transmission = excluded.transmission,
		     on_road_price = excluded.on_road_price`,
		pref.ID, pref.GroupID, pref.UserID, pref.UserName,
		pref.Choice.CarModel, pref.Choice.Variant,
		pref.Choice.Transmission, pref.Choice.OnRoadPrice,
		pref.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save car preference: %w", err)
	}
	return nil
}

// ListPreferences retrieves all car preferences for a group.
func (s *Store) ListPreferences(ctx context.Context, groupID string) ([]*models.CarPreference, error) {
	rows, err := s.readDB.QueryContext(ctx,
		`SELECT id, group_id, user_id, user_name, car_model, variant, transmission, on_road_price, created_at
		 FROM car_preferences WHERE group_id = ?`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query car preferences: %w", err)
	}
	defer rows.Close()

	var prefs []*models.CarPreference
	for rows.Next() {
		pref := &models.CarPreference{}
		if err := rows.Scan(&pref.ID, &pref.GroupID, &pref.UserID, &pref.UserName,
			&pref.Choice.CarModel, &pref.Choice.Variant,
			&pref.Choice.Transmission, &pref.Choice.OnRoadPrice,
			&pref.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan car preference: %w", err)
		}
		prefs = append(prefs, pref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate car preferences: %w", err)
	}
	return prefs, nil
}

// GetPreference retrieves the car preference for a (group, user) pair.
// Returns storage.ErrNotFound when the member has not saved one.
func (s *Store) GetPreference(ctx context.Context, groupID, userID string) (*models.CarPreference, error) {
	pref := &models.CarPreference{}
	err := s.readDB.QueryRowContext(ctx,
		`SELECT id, group_id, user_id, user_name, car_model, variant, transmission, on_road_price, created_at
		 FROM car_preferences WHERE group_id = ? AND user_id = ?`,
		groupID, userID,
	).Scan(&pref.ID, &pref.GroupID, &pref.UserID, &pref.UserName,
		&pref.Choice.CarModel, &pref.Choice.Variant,
		&pref.Choice.Transmission, &pref.Choice.OnRoadPrice,
		&pref.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get car preference: %w", err)
	}
	return pref, nil
}
