// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/motorpool/backend/internal/models"
)

// GroupFilter narrows ListGroups. Brand and City are exact matches, ANDed;
// Search matches case-insensitively against car model, brand, or city.
type GroupFilter struct {
	Brand  string
	City   string
	Search string
}

// Store defines the persistence interface for the group-buying core.
// This abstraction allows swapping storage backends without changing the
// service layer.
//
// Every multi-step mutation (AddMember, CreateOffer, CastVote,
// CompleteGroup) must execute as one atomic unit: a crash or a concurrent
// interleaving must never leave counters and rosters disagreeing.
type Store interface {
	// Users.
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// Groups.
	CreateGroup(ctx context.Context, group *models.Group) error
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)
	ListGroups(ctx context.Context, filter GroupFilter) ([]*models.Group, error)
	ListGroupsByStatus(ctx context.Context, status models.GroupStatus) ([]*models.Group, error)

	// AddMember atomically joins a user to a group: it verifies a payment
	// exists (ErrPaymentRequired), inserts the membership
	// (ErrAlreadyMember), bumps the counter only while below capacity
	// (ErrGroupFull), locks the group at capacity, and seeds the member's
	// car preference from the payment's declared choice. Returns the new
	// member count.
	AddMember(ctx context.Context, groupID string, user *models.User) (int, error)
	ListMembers(ctx context.Context, groupID string) ([]*models.Membership, error)
	IsMember(ctx context.Context, groupID, userID string) (bool, error)

	// Payments.
	CreatePayment(ctx context.Context, payment *models.Payment) error
	GetPayment(ctx context.Context, groupID, userID string) (*models.Payment, error)

	// Car preferences. SavePreference upserts: a second save for the same
	// (group, user) updates the existing record in place.
	SavePreference(ctx context.Context, pref *models.CarPreference) error
	ListPreferences(ctx context.Context, groupID string) ([]*models.CarPreference, error)
	GetPreference(ctx context.Context, groupID, userID string) (*models.CarPreference, error)

	// CreateOffer atomically persists the offer and flips the group from
	// locked to negotiation. Fails with ErrInvalidState unless the group's
	// status is exactly locked at commit time.
	CreateOffer(ctx context.Context, offer *models.DealerOffer) error
	GetOffer(ctx context.Context, offerID string) (*models.DealerOffer, error)
	ListOffers(ctx context.Context, groupID string) ([]*models.DealerOffer, error)

	// CastVote atomically records the user's vote for the offer, moving it
	// from any previous offer in the same group (old tally decremented,
	// new incremented, net total unchanged). Fails with ErrNotMember if
	// the user holds no membership in the offer's group.
	CastVote(ctx context.Context, offerID, userID string) error

	// CompleteGroup transitions a negotiating group to completed, given a
	// winning offer that belongs to the group and has at least one vote.
	CompleteGroup(ctx context.Context, groupID, winningOfferID string) error

	// Analytics reads.
	CountMembers(ctx context.Context, groupID string) (int, error)
	CountVotes(ctx context.Context, groupID string) (int, error)

	// Close releases any resources held by the store.
	Close() error
}
