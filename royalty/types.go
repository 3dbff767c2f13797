/*
Package royalty provides the core royalty accounting engine.

PURPOSE:
  This package contains the decision logic for artist royalty accounting:
  how stream usage turns into payouts, when a rate may change, and how
  paid/unpaid status is derived from time and usage. The logic is pure —
  persistence lives behind the Store interface, and "now" is always passed
  in explicitly so every decision is reproducible.

KEY CONCEPTS IN THIS FILE (types.go):
  - Artist: The sole entity — rate, stream counters, payout snapshot
  - Mutation: A field-level update command (never a whole-record overwrite)
  - PaidStatus: Derived PAID/UNPAID state
  - ArtistID/UserID: Type-safe identifiers

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal for rates to avoid floating-point errors
  2. Ownership: Each operation mutates only the fields it owns (see Mutation)
  3. Determinism: No ambient clock reads inside decision functions
  4. Soft delete: Retired artists are filtered, never physically removed

USAGE:
  artist, err := royalty.NewArtist("Nina", royalty.MustParseRate("0.004500"), "user-1", time.Now())
  mut, receipt := royalty.PayoutDecision(artist, "user-2", time.Now())

SEE ALSO:
  - status.go: Derived paid status and average-monthly computation
  - decision.go: Payout, rate-change and lifecycle decisions
  - store.go: Persistence interface consumed by the Service
*/
package royalty

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type ArtistID string

// UserID is the opaque acting-user identifier supplied to every mutating
// operation. Identity resolution happens upstream.
type UserID string

// =============================================================================
// PAID STATUS - Derived, never stored
// =============================================================================

type PaidStatus string

const (
	StatusPaid   PaidStatus = "PAID"
	StatusUnpaid PaidStatus = "UNPAID"
)

// =============================================================================
// ARTIST - The sole entity
// =============================================================================

// Artist is a snapshot of an artist record. Streams is written only by the
// external usage-ingestion path; PaidStreams/LastPaidAt/PaidBy only by
// Payout; Rate only by Create/ChangeRate/Update; Retired only by Retire.
type Artist struct {
	ID          ArtistID
	Name        string
	Rate        decimal.Decimal // payout owed per stream unit, scale <= 6
	Streams     int64           // usage counter, externally ingested
	PaidStreams int64           // streams covered by the last payout
	LastPaidAt  *time.Time      // nil = never paid
	PaidBy      *UserID         // paired with LastPaidAt
	CreatedBy   UserID
	Retired     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// =============================================================================
// MUTATION - Field-level update command
// =============================================================================

// Mutation describes a targeted field update. Nil fields are untouched, so
// concurrent writes to unrelated fields (ingestion bumping Streams) are
// never clobbered. Every core decision produces exactly one Mutation, fully
// computed before it is handed to the store.
type Mutation struct {
	Name        *string
	Rate        *decimal.Decimal
	PaidStreams *int64
	LastPaidAt  *time.Time
	PaidBy      *UserID
	Retired     *bool
}

// IsZero reports whether the mutation touches no fields.
func (m Mutation) IsZero() bool {
	return m.Name == nil && m.Rate == nil && m.PaidStreams == nil &&
		m.LastPaidAt == nil && m.PaidBy == nil && m.Retired == nil
}

// =============================================================================
// REFERENCE EPOCH
// =============================================================================

// InceptionDate is the platform's usage-tracking inception date. Average
// monthly royalties are computed over whole calendar months from this epoch
// to the artist's last payout.
var InceptionDate = time.Date(2006, time.April, 1, 0, 0, 0, 0, time.UTC)
