package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/motorpool/backend/internal/models"
	"github.com/motorpool/backend/internal/storage"
)

const offerColumns = `id, group_id, dealer_name, price, delivery_time, bonus_items, votes, created_at`

// CreateOffer persists a dealer offer and flips the owning group from
// locked to negotiation in the same transaction. The status precondition
// lives inside the UPDATE so an offer can never exist against a group that
// was not locked when it was created.
func (s *Store) CreateOffer(ctx context.Context, offer *models.DealerOffer) error {
	if offer.ID == "" {
		offer.ID = uuid.New().String()
	}
	if offer.CreatedAt == "" {
		offer.CreatedAt = models.NowUTC()
	}
	offer.Votes = 0

	tx, err := s.writeDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var status models.GroupStatus
	err = tx.QueryRowContext(ctx,
		`SELECT status FROM groups WHERE id = ?`, offer.GroupID).Scan(&status)
	if err == sql.ErrNoRows {
		return storage.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get group: %w", err)
	}
	if status != models.StatusLocked {
		return storage.ErrInvalidState
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO dealer_offers (id, group_id, dealer_name, price, delivery_time, bonus_items, votes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, 0, ?)`,
		offer.ID, offer.GroupID, offer.DealerName, offer.Price,
		offer.DeliveryTime, offer.BonusItems, offer.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert offer: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE groups SET status = ? WHERE id = ? AND status = ?`,
		models.StatusNegotiation, offer.GroupID, models.StatusLocked)
	if err != nil {
		return fmt.Errorf("failed to update group status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrInvalidState
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit offer: %w", err)
	}
	return nil
}

// GetOffer retrieves an offer by ID.
func (s *Store) GetOffer(ctx context.Context, offerID string) (*models.DealerOffer, error) {
	row := s.readDB.QueryRowContext(ctx,
		`SELECT `+offerColumns+` FROM dealer_offers WHERE id = ?`, offerID)
	return scanOffer(row)
}

// ListOffers retrieves all offers for a group with current tallies.
func (s *Store) ListOffers(ctx context.Context, groupID string) ([]*models.DealerOffer, error) {
	rows, err := s.readDB.QueryContext(ctx,
		`SELECT `+offerColumns+` FROM dealer_offers WHERE group_id = ?`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query offers: %w", err)
	}
	defer rows.Close()

	var offers []*models.DealerOffer
	for rows.Next() {
		offer, err := scanOffer(rows)
		if err != nil {
			return nil, err
		}
		offers = append(offers, offer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate offers: %w", err)
	}
	return offers, nil
}

func scanOffer(row rowScanner) (*models.DealerOffer, error) {
	offer := &models.DealerOffer{}
	err := row.Scan(&offer.ID, &offer.GroupID, &offer.DealerName, &offer.Price,
		&offer.DeliveryTime, &offer.BonusItems, &offer.Votes, &offer.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan offer: %w", err)
	}
	return offer, nil
}

// CastVote records the user's vote for an offer. Vote switches move the
// tally in one transaction: decrement the old offer, delete the old vote,
// insert the new vote, increment the new offer. A reader can never observe
// both tallies reflecting the vote, or neither.
func (s *Store) CastVote(ctx context.Context, offerID, userID string) error {
	tx, err := s.writeDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var groupID string
	err = tx.QueryRowContext(ctx,
		`SELECT group_id FROM dealer_offers WHERE id = ?`, offerID).Scan(&groupID)
	if err == sql.ErrNoRows {
		return storage.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get offer: %w", err)
	}

	var member int
	err = tx.QueryRowContext(ctx,
		`SELECT 1 FROM memberships WHERE group_id = ? AND user_id = ?`,
		groupID, userID).Scan(&member)
	if err == sql.ErrNoRows {
		return storage.ErrNotMember
	}
	if err != nil {
		return fmt.Errorf("failed to check membership: %w", err)
	}

	// Move any existing vote off its previous offer. The votes > 0 guard
	// backs up the tally-never-negative invariant.
	var prevOfferID string
	err = tx.QueryRowContext(ctx,
		`SELECT offer_id FROM votes WHERE group_id = ? AND user_id = ?`,
		groupID, userID).Scan(&prevOfferID)
	switch {
	case err == sql.ErrNoRows:
		// First vote in this group.
	case err != nil:
		return fmt.Errorf("failed to check existing vote: %w", err)
	default:
		if prevOfferID == offerID {
			// Voting for the same offer again is a no-op.
			return nil
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE dealer_offers SET votes = votes - 1 WHERE id = ? AND votes > 0`,
			prevOfferID); err != nil {
			return fmt.Errorf("failed to decrement previous tally: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM votes WHERE group_id = ? AND user_id = ?`,
			groupID, userID); err != nil {
			return fmt.Errorf("failed to remove previous vote: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO votes (id, group_id, user_id, offer_id, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		uuid.New().String(), groupID, userID, offerID, models.NowUTC(),
	); err != nil {
		return fmt.Errorf("failed to insert vote: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE dealer_offers SET votes = votes + 1 WHERE id = ?`, offerID); err != nil {
		return fmt.Errorf("failed to increment tally: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit vote: %w", err)
	}
	return nil
}
