package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/motorpool/backend/internal/models"
	"github.com/motorpool/backend/internal/storage"
)

// CreatePayment records the joining fee for a (user, group) pair.
// Fails with storage.ErrAlreadyPaid on a duplicate pair and
// storage.ErrNotFound if the group is absent.
func (s *Store) CreatePayment(ctx context.Context, payment *models.Payment) error {
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	if payment.CreatedAt == "" {
		payment.CreatedAt = models.NowUTC()
	}

	tx, err := s.writeDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx,
		`SELECT 1 FROM groups WHERE id = ?`, payment.GroupID).Scan(&exists)
	if err == sql.ErrNoRows {
		return storage.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to check group: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO payments (id, group_id, user_id, amount, car_model, variant, transmission, on_road_price, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		payment.ID, payment.GroupID, payment.UserID, payment.Amount,
		payment.Choice.CarModel, payment.Choice.Variant,
		payment.Choice.Transmission, payment.Choice.OnRoadPrice,
		payment.CreatedAt,
	)
	if isUniqueViolation(err) {
		return storage.ErrAlreadyPaid
	}
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit payment: %w", err)
	}
	return nil
}

// GetPayment retrieves the payment for a (group, user) pair.
func (s *Store) GetPayment(ctx context.Context, groupID, userID string) (*models.Payment, error) {
	payment := &models.Payment{}
	err := s.readDB.QueryRowContext(ctx,
		`SELECT id, group_id, user_id, amount, car_model, variant, transmission, on_road_price, created_at
		 FROM payments WHERE group_id = ? AND user_id = ?`,
		groupID, userID,
	).Scan(&payment.ID, &payment.GroupID, &payment.UserID, &payment.Amount,
		&payment.Choice.CarModel, &payment.Choice.Variant,
		&payment.Choice.Transmission, &payment.Choice.OnRoadPrice,
		&payment.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return payment, nil
}
