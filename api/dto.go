/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

NUMBERS:
  Rates ride the wire as JSON numbers, matching how clients submit them.
  The engine re-validates the decimal scale regardless, so float capture
  at the edge cannot smuggle in an out-of-contract rate.

SEE ALSO:
  - handlers.go: Uses these types
  - royalty/status.go: Source of the derived fields
*/
package api

import (
	"time"

	"github.com/warp/royalty-engine/royalty"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// ArtistDTO represents an artist in API responses, including the derived
// paid status and average-monthly royalties.
type ArtistDTO struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Rate        float64 `json:"rate"`
	Streams     int64   `json:"streams"`
	PaidStreams int64   `json:"paid_streams"`
	PaidStatus  string  `json:"paid_status"`
	AvgMonthly  float64 `json:"avg_monthly"`
	LastPaidAt  *string `json:"last_paid_at,omitempty"`
	PaidBy      *string `json:"paid_by,omitempty"`
	UpdatedAt   string  `json:"updated_at,omitempty"`
}

// CreateArtistRequest is the request to create an artist.
type CreateArtistRequest struct {
	Name string  `json:"name"`
	Rate float64 `json:"rate"`
}

// UpdateArtistRequest is the request to replace an artist's name and rate.
type UpdateArtistRequest struct {
	Artist CreateArtistRequest `json:"artist"`
}

// PayoutDTO is the response after issuing a payout.
type PayoutDTO struct {
	ArtistID    string `json:"artist_id"`
	PaidStreams int64  `json:"paid_streams"`
}

// ArtistIDDTO echoes the id of a mutated artist.
type ArtistIDDTO struct {
	ArtistID string `json:"artist_id"`
}

// RecordStreamsRequest is the usage-ingestion payload.
type RecordStreamsRequest struct {
	Streams int64 `json:"streams"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toArtistDTO(a royalty.Artist, view royalty.View) ArtistDTO {
	rate, _ := a.Rate.Float64()
	avg, _ := view.AverageMonthly.Float64()

	dto := ArtistDTO{
		ID:          string(a.ID),
		Name:        a.Name,
		Rate:        rate,
		Streams:     a.Streams,
		PaidStreams: a.PaidStreams,
		PaidStatus:  string(view.Status),
		AvgMonthly:  avg,
		UpdatedAt:   a.UpdatedAt.Format(time.RFC3339),
	}
	if a.LastPaidAt != nil {
		s := a.LastPaidAt.Format(time.RFC3339)
		dto.LastPaidAt = &s
	}
	if a.PaidBy != nil {
		s := string(*a.PaidBy)
		dto.PaidBy = &s
	}
	return dto
}
