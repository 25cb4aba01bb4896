package models

// VehicleChoice is a declared vehicle configuration: model, variant,
// transmission and the on-road price the buyer expects to pay.
type VehicleChoice struct {
	CarModel     string  `json:"car_model"`
	Variant      string  `json:"variant"`
	Transmission string  `json:"transmission"` // Manual or Automatic
	OnRoadPrice  float64 `json:"on_road_price"`
}

// Payment records the one-time nominal joining fee for a (user, group)
// pair. At most one per pair; immutable; the precondition for joining.
type Payment struct {
	// ID is the unique identifier for the payment (UUID format).
	ID string `json:"id"`

	// UserID and GroupID identify the pair this fee covers.
	UserID  string `json:"user_id"`
	GroupID string `json:"group_id"`

	// Amount is the computed joining fee.
	Amount float64 `json:"amount"`

	// Choice is the vehicle configuration declared at payment time; it
	// seeds the member's car preference on join.
	Choice VehicleChoice `json:"choice"`

	// CreatedAt is the RFC3339 timestamp when the fee was recorded.
	CreatedAt string `json:"created_at"`
}

// CarPreference is a member's chosen vehicle configuration within a group.
// One live record per (group, user): saving again updates in place.
type CarPreference struct {
	// ID is the unique identifier for the preference (UUID format).
	ID string `json:"id"`

	// UserID and GroupID identify the owning member.
	UserID  string `json:"user_id"`
	GroupID string `json:"group_id"`

	// UserName is the member's display name, denormalized for listings.
	UserName string `json:"user_name"`

	// Choice is the current vehicle configuration.
	Choice VehicleChoice `json:"choice"`

	// CreatedAt is the RFC3339 timestamp when the preference was first
	// saved. Updates keep the original timestamp.
	CreatedAt string `json:"created_at"`
}
