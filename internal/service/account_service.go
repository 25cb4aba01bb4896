// Package service implements the application operations on top of the
// storage layer: accounts, the group registry and membership manager, the
// payment ledger, car preferences, the offer/voting engine, and the
// analytics rollup.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/motorpool/backend/internal/auth"
	"github.com/motorpool/backend/internal/models"
)

// ErrInvalidInput marks request validation failures. Wrapped errors carry
// the specific field problem.
var ErrInvalidInput = errors.New("invalid input")

// Session is the result of a successful registration or login.
type Session struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// AccountService handles registration, login, and identity lookups.
type AccountService struct {
	authenticator auth.Authenticator
	users         auth.UserStorage
	jwtManager    *auth.JWTManager
}

// NewAccountService creates a new account service.
func NewAccountService(authenticator auth.Authenticator, users auth.UserStorage, jwtManager *auth.JWTManager) *AccountService {
	return &AccountService{
		authenticator: authenticator,
		users:         users,
		jwtManager:    jwtManager,
	}
}

// Register creates a user account and issues a session token.
func (s *AccountService) Register(ctx context.Context, name, email, password string) (*Session, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" {
		return nil, errors.Join(ErrInvalidInput, errors.New("name is required"))
	}
	if !strings.Contains(email, "@") {
		return nil, errors.Join(ErrInvalidInput, errors.New("valid email is required"))
	}

	user, err := s.authenticator.Register(ctx, email, name, password)
	if err != nil {
		slog.Warn("Registration failed", "email", email, "error", err)
		return nil, err
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		return nil, err
	}

	slog.Info("User registered", "user_id", user.ID, "email", user.Email)
	user.PasswordHash = ""
	return &Session{User: user, Token: token}, nil
}

// Login authenticates the credentials and issues a session token.
func (s *AccountService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		slog.Warn("Login failed", "email", email)
		return nil, err
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		return nil, err
	}

	slog.Info("User logged in", "user_id", user.ID)
	user.PasswordHash = ""
	return &Session{User: user, Token: token}, nil
}

// Get returns the user record for an authenticated identity.
func (s *AccountService) Get(ctx context.Context, userID string) (*models.User, error) {
	return s.users.GetUserByID(ctx, userID)
}
