package storage

import "errors"

// Stable error kinds surfaced by Store implementations. Services and the
// HTTP layer compare with errors.Is; implementations may wrap these with
// additional context.
var (
	// ErrNotFound means the referenced group, offer, or user is absent.
	ErrNotFound = errors.New("not found")

	// ErrEmailExists means the email is already registered.
	ErrEmailExists = errors.New("email already registered")

	// ErrPaymentRequired means no fee payment exists for the (user, group)
	// pair attempting to join.
	ErrPaymentRequired = errors.New("payment required to join this group")

	// ErrAlreadyPaid means a payment already exists for the (user, group) pair.
	ErrAlreadyPaid = errors.New("already paid for this group")

	// ErrAlreadyMember means a membership already exists for the (user, group) pair.
	ErrAlreadyMember = errors.New("already a member of this group")

	// ErrGroupFull means the group reached capacity before this join landed.
	ErrGroupFull = errors.New("group is full")

	// ErrNotMember means the acting user holds no membership in the group.
	ErrNotMember = errors.New("not a member of this group")

	// ErrInvalidState means the group's lifecycle status forbids the
	// operation (e.g., offer creation against a non-locked group).
	ErrInvalidState = errors.New("operation not allowed in current group status")
)
