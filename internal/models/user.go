package models

// User represents a registered user account.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string `json:"id"`

	// Name is the display name of the user.
	Name string `json:"name"`

	// Email is the user's email address (unique).
	Email string `json:"email"`

	// IsPremium marks users on the premium tier.
	IsPremium bool `json:"is_premium"`

	// IsAdmin grants access to the admin operations (offer creation,
	// analytics, group completion).
	IsAdmin bool `json:"is_admin"`

	// PasswordHash is the bcrypt hash of the user's password.
	// Never serialized in API responses.
	PasswordHash string `json:"-"`

	// CreatedAt is the RFC3339 timestamp when the account was created.
	CreatedAt string `json:"created_at"`
}
