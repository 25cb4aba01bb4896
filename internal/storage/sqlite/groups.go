package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/motorpool/backend/internal/models"
	"github.com/motorpool/backend/internal/storage"
)

const groupColumns = `id, car_model, brand, city, image_url, max_members, current_members, status, created_at`

// CreateGroup persists a new group with status forming and zero members.
func (s *Store) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == "" {
		group.CreatedAt = models.NowUTC()
	}
	group.CurrentMembers = 0
	group.Status = models.StatusForming

	_, err := s.writeDB.ExecContext(ctx,
		`INSERT INTO groups (id, car_model, brand, city, image_url, max_members, current_members, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, 0, ?, ?)`,
		group.ID, group.CarModel, group.Brand, group.City, group.ImageURL,
		group.MaxMembers, group.Status, group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}
	return nil
}

// GetGroup retrieves a group by ID.
func (s *Store) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	row := s.readDB.QueryRowContext(ctx,
		`SELECT `+groupColumns+` FROM groups WHERE id = ?`, groupID)
	return scanGroup(row)
}

// ListGroups retrieves groups matching the filter. Results are capped at
// 1000 rows; ordering is by creation time and callers must not rely on it.
func (s *Store) ListGroups(ctx context.Context, filter storage.GroupFilter) ([]*models.Group, error) {
	query := `SELECT ` + groupColumns + ` FROM groups WHERE 1=1`
	var args []any

	if filter.Brand != "" {
		query += ` AND brand = ?`
		args = append(args, filter.Brand)
	}
	if filter.City != "" {
		query += ` AND city = ?`
		args = append(args, filter.City)
	}
	if filter.Search != "" {
		query += ` AND (car_model LIKE ? COLLATE NOCASE OR brand LIKE ? COLLATE NOCASE OR city LIKE ? COLLATE NOCASE)`
		pattern := "%" + filter.Search + "%"
		args = append(args, pattern, pattern, pattern)
	}
	query += ` ORDER BY created_at LIMIT 1000`

	return s.queryGroups(ctx, query, args...)
}

// ListGroupsByStatus retrieves all groups in the given lifecycle status.
func (s *Store) ListGroupsByStatus(ctx context.Context, status models.GroupStatus) ([]*models.Group, error) {
	return s.queryGroups(ctx,
		`SELECT `+groupColumns+` FROM groups WHERE status = ? ORDER BY created_at LIMIT 1000`,
		status)
}

func (s *Store) queryGroups(ctx context.Context, query string, args ...any) ([]*models.Group, error) {
	rows, err := s.readDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query groups: %w", err)
	}
	defer rows.Close()

	var groups []*models.Group
	for rows.Next() {
		group, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}
	return groups, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGroup(row rowScanner) (*models.Group, error) {
	group := &models.Group{}
	err := row.Scan(&group.ID, &group.CarModel, &group.Brand, &group.City,
		&group.ImageURL, &group.MaxMembers, &group.CurrentMembers,
		&group.Status, &group.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan group: %w", err)
	}
	return group, nil
}

// AddMember joins a user to a group. The whole operation is one immediate
// transaction on the single-connection write pool, so two joiners racing
// for the last slot serialize here; the conditional UPDATE guarded by
// current_members < max_members is what actually refuses the loser.
func (s *Store) AddMember(ctx context.Context, groupID string, user *models.User) (int, error) {
	tx, err := s.writeDB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Join requires an existing fee payment; the payment also carries the
	// vehicle choice that seeds the member's preference.
	payment := &models.Payment{}
	err = tx.QueryRowContext(ctx,
		`SELECT car_model, variant, transmission, on_road_price
		 FROM payments WHERE group_id = ? AND user_id = ?`,
		groupID, user.ID,
	).Scan(&payment.Choice.CarModel, &payment.Choice.Variant,
		&payment.Choice.Transmission, &payment.Choice.OnRoadPrice)
	if err == sql.ErrNoRows {
		return 0, storage.ErrPaymentRequired
	}
	if err != nil {
		return 0, fmt.Errorf("failed to check payment: %w", err)
	}

	var maxMembers int
	err = tx.QueryRowContext(ctx,
		`SELECT max_members FROM groups WHERE id = ?`, groupID,
	).Scan(&maxMembers)
	if err == sql.ErrNoRows {
		return 0, storage.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get group: %w", err)
	}

	// The (group_id, user_id) primary key rejects duplicate joins.
	_, err = tx.ExecContext(ctx,
		`INSERT INTO memberships (id, group_id, user_id, user_name, user_email, joined_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), groupID, user.ID, user.Name, user.Email, models.NowUTC(),
	)
	if isUniqueViolation(err) {
		return 0, storage.ErrAlreadyMember
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert membership: %w", err)
	}

	// Conditional counter bump: zero rows affected means the group filled
	// before this join. Locking happens in the same statement so no reader
	// can see a full group still marked forming.
	res, err := tx.ExecContext(ctx,
		`UPDATE groups
		 SET current_members = current_members + 1,
		     status = CASE WHEN current_members + 1 >= max_members THEN ? ELSE status END
		 WHERE id = ? AND current_members < max_members AND status = ?`,
		models.StatusLocked, groupID, models.StatusForming,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to update member count: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return 0, storage.ErrGroupFull
	}

	// Seed the car preference from the payment's declared choice. A
	// preference may already exist if the user saved one between paying
	// and joining; keep it.
	_, err = tx.ExecContext(ctx,
		`INSERT INTO car_preferences (id, group_id, user_id, user_name, car_model, variant, transmission, on_road_price, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (group_id, user_id) DO NOTHING`,
		uuid.New().String(), groupID, user.ID, user.Name,
		payment.Choice.CarModel, payment.Choice.Variant,
		payment.Choice.Transmission, payment.Choice.OnRoadPrice, models.NowUTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to seed car preference: %w", err)
	}

	var newCount int
	err = tx.QueryRowContext(ctx,
		`SELECT current_members FROM groups WHERE id = ?`, groupID,
	).Scan(&newCount)
	if err != nil {
		return 0, fmt.Errorf("failed to read member count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit join: %w", err)
	}
	return newCount, nil
}

// ListMembers retrieves all memberships for a group.
func (s *Store) ListMembers(ctx context.Context, groupID string) ([]*models.Membership, error) {
	rows, err := s.readDB.QueryContext(ctx,
		`SELECT id, group_id, user_id, user_name, user_email, joined_at
		 FROM memberships WHERE group_id = ?`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
	}
	defer rows.Close()

	var members []*models.Membership
	for rows.Next() {
		m := &models.Membership{}
		if err := rows.Scan(&m.ID, &m.GroupID, &m.UserID, &m.UserName, &m.UserEmail, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan membership: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}
	return members, nil
}

// IsMember reports whether the user holds a membership in the group.
func (s *Store) IsMember(ctx context.Context, groupID, userID string) (bool, error) {
	var one int
	err := s.readDB.QueryRowContext(ctx,
		`SELECT 1 FROM memberships WHERE group_id = ? AND user_id = ?`,
		groupID, userID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return true, nil
}

// CompleteGroup moves a negotiating group to completed. The winning offer
// must belong to the group and have at least one vote.
func (s *Store) CompleteGroup(ctx context.Context, groupID, winningOfferID string) error {
	tx, err := s.writeDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var status models.GroupStatus
	err = tx.QueryRowContext(ctx,
		`SELECT status FROM groups WHERE id = ?`, groupID).Scan(&status)
	if err == sql.ErrNoRows {
		return storage.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get group: %w", err)
	}
	if status != models.StatusNegotiation {
		return storage.ErrInvalidState
	}

	var votes int
	err = tx.QueryRowContext(ctx,
		`SELECT votes FROM dealer_offers WHERE id = ? AND group_id = ?`,
		winningOfferID, groupID).Scan(&votes)
	if err == sql.ErrNoRows {
		return storage.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get winning offer: %w", err)
	}
	if votes < 1 {
		return storage.ErrInvalidState
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE groups SET status = ? WHERE id = ? AND status = ?`,
		models.StatusCompleted, groupID, models.StatusNegotiation)
	if err != nil {
		return fmt.Errorf("failed to complete group: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrInvalidState
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit completion: %w", err)
	}
	return nil
}

// CountMembers recomputes the member count from the roster.
func (s *Store) CountMembers(ctx context.Context, groupID string) (int, error) {
	var n int
	err := s.readDB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM memberships WHERE group_id = ?`, groupID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count members: %w", err)
	}
	return n, nil
}

// CountVotes counts the distinct voting users in a group.
func (s *Store) CountVotes(ctx context.Context, groupID string) (int, error) {
	var n int
	err := s.readDB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM votes WHERE group_id = ?`, groupID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count votes: %w", err)
	}
	return n, nil
}
