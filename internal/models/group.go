package models

// GroupStatus is the lifecycle state of a buying group. Transitions are
// monotonic: forming → locked → negotiation → completed.
type GroupStatus string

const (
	// StatusForming accepts new members.
	StatusForming GroupStatus = "forming"
	// StatusLocked means capacity was reached; eligible for dealer offers.
	StatusLocked GroupStatus = "locked"
	// StatusNegotiation means at least one dealer offer exists.
	StatusNegotiation GroupStatus = "negotiation"
	// StatusCompleted is terminal, entered by an explicit admin action.
	StatusCompleted GroupStatus = "completed"
)

// Group represents one car-model buying cohort.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string `json:"id"`

	// CarModel is the target vehicle label (e.g., "Nexon").
	CarModel string `json:"car_model"`

	// Brand is the vehicle manufacturer (e.g., "Tata").
	Brand string `json:"brand"`

	// City is the locality the group buys in.
	City string `json:"city"`

	// ImageURL is a display image reference for the group.
	ImageURL string `json:"image_url"`

	// MaxMembers is the group capacity. Always > 0.
	MaxMembers int `json:"max_members"`

	// CurrentMembers is the cached member count, maintained transactionally
	// alongside the membership roster. 0 <= CurrentMembers <= MaxMembers.
	CurrentMembers int `json:"current_members"`

	// Status is the lifecycle state.
	Status GroupStatus `json:"status"`

	// CreatedAt is the RFC3339 timestamp when the group was created.
	CreatedAt string `json:"created_at"`
}

// Membership is a user's confirmed, fee-paid slot in a group.
// At most one per (group, user); never updated after creation.
type Membership struct {
	// ID is the unique identifier for the membership (UUID format).
	ID string `json:"id"`

	// GroupID is the group this membership belongs to.
	GroupID string `json:"group_id"`

	// UserID is the member's user ID.
	UserID string `json:"user_id"`

	// UserName and UserEmail are denormalized display fields captured at
	// join time.
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`

	// JoinedAt is the RFC3339 timestamp of the join.
	JoinedAt string `json:"joined_at"`
}
