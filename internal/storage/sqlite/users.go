package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/motorpool/backend/internal/models"
	"github.com/motorpool/backend/internal/storage"
)

// CreateUser inserts a new user. Fails with storage.ErrEmailExists if the
// email is already registered.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt == "" {
		user.CreatedAt = models.NowUTC()
	}

	_, err := s.writeDB.ExecContext(ctx,
		`INSERT INTO users (id, email, name, password_hash, is_premium, is_admin, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Email, user.Name, user.PasswordHash,
		boolToInt(user.IsPremium), boolToInt(user.IsAdmin), user.CreatedAt,
	)
	if isUniqueViolation(err) {
		return storage.ErrEmailExists
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUserByEmail retrieves a user by email address.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUser(ctx, "email = ?", email)
}

// GetUserByID retrieves a user by ID.
func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.getUser(ctx, "id = ?", id)
}

func (s *Store) getUser(ctx context.Context, where string, arg any) (*models.User, error) {
	user := &models.User{}
	var premium, admin int
	err := s.readDB.QueryRowContext(ctx,
		`SELECT id, email, name, password_hash, is_premium, is_admin, created_at
		 FROM users WHERE `+where, arg,
	).Scan(&user.ID, &user.Email, &user.Name, &user.PasswordHash, &premium, &admin, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	user.IsPremium = premium != 0
	user.IsAdmin = admin != 0
	return user, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
