/*
service.go - Accounting service: read -> decide -> write

PURPOSE:
  Orchestrates the pure decisions in decision.go against the record store.
  Every operation is a request-scoped unit of work: fetch the current
  snapshot, let the core decide, apply the resulting field-level mutation.
  Failures are terminal and surfaced unchanged — no retries, no partial
  mutations (the mutation is fully computed before the single store write).

CONSISTENCY:
  Read-committed-then-targeted-write. Between snapshot and write the stream
  counter may move under a payout; the payout deliberately settles the
  count it saw (the receipt reports exactly that number) and the remainder
  is owed to the next payout. No locks are held across the sequence.

CLOCK:
  The service carries an injectable clock so payout stamps and derived
  views are reproducible in tests. Defaults to time.Now.

SEE ALSO:
  - decision.go: The decisions being orchestrated
  - api/handlers.go: Transport layer driving this service
*/
package royalty

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Service owns all mutation of artist accounting fields. No other component
// writes rate, the payout snapshot, or the retired flag.
type Service struct {
	store Store

	// Clock supplies "now" for payout stamps and derived views.
	// Replace in tests for deterministic output.
	Clock func() time.Time
}

// NewService creates an accounting service over the given store.
func NewService(store Store) *Service {
	return &Service{store: store, Clock: time.Now}
}

// =============================================================================
// LIFECYCLE
// =============================================================================

// Create allocates a new artist with zero counters. Fails with
// ErrInvalidRate on the rate contract, ErrNameTaken on a duplicate name.
func (s *Service) Create(ctx context.Context, name string, rate decimal.Decimal, actingUser UserID) (*Artist, error) {
	a, err := NewArtist(name, rate, actingUser, s.Clock())
	if err != nil {
		return nil, err
	}
	if err := s.store.Insert(ctx, a); err != nil {
		return nil, err
	}
	return &a, nil
}

// Retire soft-deletes the artist. Retiring an unknown or already-retired
// artist fails with ErrArtistNotFound: retired records are invisible, so
// the state is terminal.
func (s *Service) Retire(ctx context.Context, id ArtistID) (ArtistID, error) {
	a, err := s.store.FindActive(ctx, id)
	if err != nil {
		return "", err
	}
	if err := s.store.UpdateFields(ctx, id, RetireDecision(*a)); err != nil {
		return "", err
	}
	return a.ID, nil
}

// =============================================================================
// ACCOUNTING OPERATIONS
// =============================================================================

// Payout snapshots the streams owed right now and stamps the payout.
// The receipt carries the pre-mutation stream count just paid.
func (s *Service) Payout(ctx context.Context, id ArtistID, actingUser UserID) (PayoutReceipt, error) {
	a, err := s.store.FindActive(ctx, id)
	if err != nil {
		return PayoutReceipt{}, err
	}
	mut, receipt := PayoutDecision(*a, actingUser, s.Clock())
	if err := s.store.UpdateFields(ctx, id, mut); err != nil {
		return PayoutReceipt{}, err
	}
	return receipt, nil
}

// ChangeRate sets a new per-stream rate. The not-found check runs before
// the idempotence guard, so a retired artist yields ErrArtistNotFound even
// when the requested rate matches.
func (s *Service) ChangeRate(ctx context.Context, id ArtistID, newRate decimal.Decimal) (ArtistID, error) {
	a, err := s.store.FindActive(ctx, id)
	if err != nil {
		return "", err
	}
	mut, err := ChangeRateDecision(*a, newRate)
	if err != nil {
		return "", err
	}
	if err := s.store.UpdateFields(ctx, id, mut); err != nil {
		return "", err
	}
	return a.ID, nil
}

// Update replaces the artist's name and rate together.
func (s *Service) Update(ctx context.Context, id ArtistID, name string, rate decimal.Decimal) (ArtistID, error) {
	a, err := s.store.FindActive(ctx, id)
	if err != nil {
		return "", err
	}
	mut, err := UpdateDecision(*a, name, rate)
	if err != nil {
		return "", err
	}
	if err := s.store.UpdateFields(ctx, id, mut); err != nil {
		return "", err
	}
	return a.ID, nil
}

// =============================================================================
// READS
// =============================================================================

// Get returns the artist snapshot with its derived view.
func (s *Service) Get(ctx context.Context, id ArtistID) (*Artist, View, error) {
	a, err := s.store.FindActive(ctx, id)
	if err != nil {
		return nil, View{}, err
	}
	return a, DeriveStatus(*a, s.Clock()), nil
}

// List returns all active artists.
func (s *Service) List(ctx context.Context) ([]Artist, error) {
	return s.store.ListActive(ctx)
}
