/*
errors.go - Centralized error types for the royalty engine

PURPOSE:
  All error kinds in one place for consistency and discoverability.
  Callers classify with errors.Is; the HTTP layer maps each kind to a
  transport status.

ERROR KINDS:
  ErrArtistNotFound  - id does not resolve to an active (non-retired) record
  ErrInvalidRate     - rate fails the scale/non-negativity constraint
  ErrRateNotModified - rate change requested with the current value
  ErrNameTaken       - store-level uniqueness violation on the artist name

PROPAGATION:
  The engine never retries. Every failure is terminal for the invoking
  request and returned synchronously.

SEE ALSO:
  - rate.go: Produces ErrInvalidRate
  - service.go: Surfaces store errors unchanged
  - api/handlers.go: Transport mapping
*/
package royalty

import "errors"

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrArtistNotFound is returned when an artist id is unknown or the
	// record is retired. Retired records are invisible to every operation.
	ErrArtistNotFound = errors.New("artist not found")

	// ErrInvalidRate is returned when a rate is negative or carries more
	// than six fractional digits.
	ErrInvalidRate = errors.New("invalid rate")

	// ErrRateNotModified is returned when a rate change requests the value
	// already in effect. This is a benign short-circuit, not a fault: the
	// engine refuses the redundant write and the record is unchanged.
	ErrRateNotModified = errors.New("rate not modified")

	// ErrNameTaken is returned by stores when inserting or renaming an
	// artist would collide with another non-retired artist's name.
	ErrNameTaken = errors.New("artist name already taken")
)

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidRate) || errors.Is(err, ErrNameTaken)
}

// IsBenign returns true if the error signals a no-op rather than a fault.
func IsBenign(err error) bool {
	return errors.Is(err, ErrRateNotModified)
}

// IsNotFound returns true if the error indicates a missing artist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrArtistNotFound)
}
