package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/motorpool/backend/internal/metrics"
	"github.com/motorpool/backend/internal/models"
	"github.com/motorpool/backend/internal/storage"
)

// Fee tiers keyed on the declared on-road price, in rupees.
const (
	feeTier1Limit = 1_000_000 // up to 10 lakh
	feeTier2Limit = 2_000_000 // up to 20 lakh
	feeTier3Limit = 3_000_000 // up to 30 lakh

	feeTier1 = 1000
	feeTier2 = 2000
	feeTier3 = 3000
	feeTier4 = 5000
)

// FeeForPrice computes the joining fee from the declared on-road price.
// Pure function so a flat-fee deployment only has to swap this out.
func FeeForPrice(onRoadPrice float64) float64 {
	switch {
	case onRoadPrice <= feeTier1Limit:
		return feeTier1
	case onRoadPrice <= feeTier2Limit:
		return feeTier2
	case onRoadPrice <= feeTier3Limit:
		return feeTier3
	default:
		return feeTier4
	}
}

// PaymentService is the payment ledger: it records the one-time joining
// fee per (user, group) pair. No real money moves.
type PaymentService struct {
	store storage.Store
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(store storage.Store) *PaymentService {
	return &PaymentService{store: store}
}

// Pay records the joining fee for the user and group, computed from the
// declared vehicle's on-road price. Returns the persisted payment.
func (s *PaymentService) Pay(ctx context.Context, groupID, userID string, choice models.VehicleChoice) (*models.Payment, error) {
	if choice.OnRoadPrice <= 0 {
		return nil, errors.Join(ErrInvalidInput, errors.New("on_road_price must be positive"))
	}
	if choice.CarModel == "" {
		return nil, errors.Join(ErrInvalidInput, errors.New("car_model is required"))
	}

	payment := &models.Payment{
		UserID:  userID,
		GroupID: groupID,
		Amount:  FeeForPrice(choice.OnRoadPrice),
		Choice:  choice,
	}
	if err := s.store.CreatePayment(ctx, payment); err != nil {
		slog.Warn("Payment rejected", "group_id", groupID, "user_id", userID, "error", err)
		return nil, err
	}

	metrics.PaymentsTotal.Inc()
	slog.Info("Payment recorded", "payment_id", payment.ID, "group_id", groupID, "user_id", userID, "amount", payment.Amount)
	return payment, nil
}

// HasPaid reports whether a payment exists for the (user, group) pair.
func (s *PaymentService) HasPaid(ctx context.Context, groupID, userID string) (bool, error) {
	_, err := s.store.GetPayment(ctx, groupID, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
