// Package models defines the core domain records for the group car-buying
// backend.
//
// Every persisted record carries a UUID ID and an RFC3339 UTC creation
// timestamp. Store-internal identifiers (rowids) never appear here.
//
// Ownership follows the group lifecycle:
//   - Group: created by the group registry, counter/status mutated only by
//     the membership manager and offer engine through the store.
//   - Membership, Payment: write-once join records keyed by (group, user).
//   - CarPreference: one live record per (group, user), updated in place.
//   - DealerOffer, Vote: owned by the offer/voting engine; an offer's vote
//     tally always equals the number of Vote records pointing at it.
package models

import "time"

// NowUTC returns the current time as an RFC3339 UTC string, the canonical
// timestamp format for all persisted records.
func NowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}
