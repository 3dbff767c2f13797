/*
decision.go - Accounting decisions as field-level mutations

PURPOSE:
  Each operation on an artist (payout, rate change, update, create, retire)
  is decided here as a pure function over an artist snapshot. The outcome is
  either a failure or a Mutation naming exactly the fields the operation
  owns — the store applies it as a targeted update, so concurrent writes to
  other fields (ingestion bumping the stream counter) survive untouched.

OWNERSHIP:
  Payout     -> PaidStreams, LastPaidAt, PaidBy
  ChangeRate -> Rate
  Update     -> Name, Rate
  Retire     -> Retired
  Create initializes every field on a fresh record.

NOT-FOUND HANDLING:
  Existence and retirement checks happen in the Service before any decision
  runs; every function here assumes it was handed a live snapshot.

SEE ALSO:
  - service.go: read -> decide -> write orchestration
  - rate.go: Rate constraint shared by Create/ChangeRate/Update
*/
package royalty

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// PAYOUT
// =============================================================================

// PayoutReceipt reports what a payout covered: the pre-mutation stream
// count, so the caller can say "paid N streams".
type PayoutReceipt struct {
	ArtistID    ArtistID
	PaidStreams int64
}

// PayoutDecision snapshots the current stream count as paid and stamps the
// payout with the acting user and instant. Always permitted on a live
// artist: a payout with nothing newly owed is a benign no-op that re-stamps
// LastPaidAt/PaidBy ("pay what's owed now", not "pay only if changed").
//
// The snapshot is taken at decision time; usage accrued between decision
// and persistence is settled by the next payout.
func PayoutDecision(a Artist, actingUser UserID, now time.Time) (Mutation, PayoutReceipt) {
	paid := a.Streams
	mut := Mutation{
		PaidStreams: &paid,
		PaidBy:      &actingUser,
		LastPaidAt:  &now,
	}
	return mut, PayoutReceipt{ArtistID: a.ID, PaidStreams: paid}
}

// =============================================================================
// RATE CHANGE
// =============================================================================

// ChangeRateDecision validates the new rate and refuses redundant writes.
// Returns ErrInvalidRate on constraint violation, ErrRateNotModified when
// the new rate equals the current one at the six-digit scale.
func ChangeRateDecision(a Artist, newRate decimal.Decimal) (Mutation, error) {
	if err := ValidateRate(newRate); err != nil {
		return Mutation{}, err
	}
	if a.Rate.Equal(newRate) {
		return Mutation{}, ErrRateNotModified
	}
	return Mutation{Rate: &newRate}, nil
}

// =============================================================================
// UPDATE (name + rate together)
// =============================================================================

// UpdateDecision replaces the artist's name and rate. Unlike ChangeRate
// there is no idempotence guard: rewriting the same values is allowed.
func UpdateDecision(a Artist, name string, rate decimal.Decimal) (Mutation, error) {
	if err := ValidateRate(rate); err != nil {
		return Mutation{}, err
	}
	return Mutation{Name: &name, Rate: &rate}, nil
}

// =============================================================================
// LIFECYCLE
// =============================================================================

// NewArtist builds a fresh artist record: zero stream counters, never paid.
// Name uniqueness is the store's contract (Insert returns ErrNameTaken).
func NewArtist(name string, rate decimal.Decimal, createdBy UserID, now time.Time) (Artist, error) {
	if err := ValidateRate(rate); err != nil {
		return Artist{}, err
	}
	return Artist{
		ID:        ArtistID(uuid.NewString()),
		Name:      name,
		Rate:      rate,
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// RetireDecision soft-deletes the artist. The record is retained but
// excluded from every subsequent lookup and mutation.
func RetireDecision(a Artist) Mutation {
	retired := true
	return Mutation{Retired: &retired}
}
