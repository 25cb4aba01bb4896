package models

// DealerOffer is a dealer's bulk-purchase offer for one group. Offers can
// only be created while the group is locked; creating the first offer moves
// the group to negotiation.
type DealerOffer struct {
	// ID is the unique identifier for the offer (UUID format).
	ID string `json:"id"`

	// GroupID is the group this offer targets.
	GroupID string `json:"group_id"`

	// DealerName identifies the offering dealer.
	DealerName string `json:"dealer_name"`

	// Price is the offered per-vehicle price.
	Price float64 `json:"price"`

	// DeliveryTime is the dealer's delivery estimate (free text).
	DeliveryTime string `json:"delivery_time"`

	// BonusItems describes any bundled extras (free text).
	BonusItems string `json:"bonus_items"`

	// Votes is the running tally of current votes for this offer.
	// Maintained transactionally with the Vote records; never negative.
	Votes int `json:"votes"`

	// CreatedAt is the RFC3339 timestamp when the offer was created.
	CreatedAt string `json:"created_at"`
}

// Vote points at the offer a member currently backs. At most one per
// (group, user); switching offers moves the tally atomically.
type Vote struct {
	// ID is the unique identifier for the vote (UUID format).
	ID string `json:"id"`

	// UserID and GroupID identify the voting member.
	UserID  string `json:"user_id"`
	GroupID string `json:"group_id"`

	// OfferID is the offer currently chosen.
	OfferID string `json:"offer_id"`

	// CreatedAt is the RFC3339 timestamp when this vote was cast.
	CreatedAt string `json:"created_at"`
}

// GroupAnalytics is the admin dashboard rollup for one group. MembersCount
// is recomputed from the membership roster, serving as a cross-check
// against the group's cached counter.
type GroupAnalytics struct {
	Group        *Group         `json:"group"`
	MembersCount int            `json:"members_count"`
	Offers       []*DealerOffer `json:"offers"`
	TotalVotes   int            `json:"total_votes"`
}
