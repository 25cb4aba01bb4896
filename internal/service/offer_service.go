package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/motorpool/backend/internal/metrics"
	"github.com/motorpool/backend/internal/models"
	"github.com/motorpool/backend/internal/storage"
)

// OfferService is the offer and voting engine: dealer offers against
// locked groups, single-vote-per-member with atomic vote transfer.
type OfferService struct {
	store storage.Store
}

// NewOfferService creates a new OfferService.
func NewOfferService(store storage.Store) *OfferService {
	return &OfferService{store: store}
}

// CreateOfferInput is the validated shape for dealer offer creation.
type CreateOfferInput struct {
	DealerName   string  `json:"dealer_name"`
	Price        float64 `json:"price"`
	DeliveryTime string  `json:"delivery_time"`
	BonusItems   string  `json:"bonus_items"`
}

// Create persists a dealer offer against a locked group, moving the group
// to negotiation in the same transaction.
func (s *OfferService) Create(ctx context.Context, groupID string, in CreateOfferInput) (*models.DealerOffer, error) {
	if in.DealerName == "" {
		return nil, errors.Join(ErrInvalidInput, errors.New("dealer_name is required"))
	}
	if in.Price <= 0 {
		return nil, errors.Join(ErrInvalidInput, errors.New("price must be positive"))
	}

	offer := &models.DealerOffer{
		GroupID:      groupID,
		DealerName:   in.DealerName,
		Price:        in.Price,
		DeliveryTime: in.DeliveryTime,
		BonusItems:   in.BonusItems,
	}
	if err := s.store.CreateOffer(ctx, offer); err != nil {
		slog.Warn("CreateOffer rejected", "group_id", groupID, "error", err)
		return nil, err
	}

	slog.Info("Dealer offer created", "offer_id", offer.ID, "group_id", groupID, "dealer", offer.DealerName)
	return offer, nil
}

// Vote records the user's vote for the offer, transferring it atomically
// from any previous offer in the same group.
func (s *OfferService) Vote(ctx context.Context, offerID, userID string) error {
	if err := s.store.CastVote(ctx, offerID, userID); err != nil {
		slog.Warn("Vote rejected", "offer_id", offerID, "user_id", userID, "error", err)
		return err
	}

	metrics.VotesTotal.Inc()
	slog.Info("Vote recorded", "offer_id", offerID, "user_id", userID)
	return nil
}

// ForGroup lists a group's offers with current tallies, unordered.
func (s *OfferService) ForGroup(ctx context.Context, groupID string) ([]*models.DealerOffer, error) {
	return s.store.ListOffers(ctx, groupID)
}
