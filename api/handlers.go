/*
handlers.go - HTTP API handlers for the royalty accounting system

PURPOSE:
  Exposes the royalty engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to the accounting service.

ENDPOINTS:
  Artists:
    GET    /api/artists               List active artists
    POST   /api/artists               Create artist
    GET    /api/artists/{id}          Get artist with derived view
    PUT    /api/artists/{id}          Update name and rate
    DELETE /api/artists/{id}          Retire (soft delete)

  Accounting:
    PATCH  /api/artists/{id}/payout     Issue a payout
    PATCH  /api/artists/{id}/changeRate Change rate (?newRate=0.004)

  Ingestion:
    POST   /api/artists/{id}/streams  Record externally metered usage

ACTING USER:
  Mutating endpoints require an X-User-ID header naming the acting user.
  Identity resolution is upstream; the header value is treated as opaque.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Rate constraint violations, invalid input
  - 401: Missing acting user
  - 404: Unknown or retired artist
  - 304: Rate change with the value already in effect
  - 409: Duplicate artist name
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - royalty/service.go: The service being exposed
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/warp/royalty-engine/royalty"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Service *royalty.Service
	Store   royalty.Store
}

// NewHandler creates a new handler over the given store.
func NewHandler(store royalty.Store) *Handler {
	return &Handler{
		Service: royalty.NewService(store),
		Store:   store,
	}
}

// =============================================================================
// ARTIST HANDLERS
// =============================================================================

// ListArtists returns all active artists with derived views.
func (h *Handler) ListArtists(w http.ResponseWriter, r *http.Request) {
	artists, err := h.Service.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list artists", err)
		return
	}

	now := h.Service.Clock()
	dtos := make([]ArtistDTO, len(artists))
	for i, a := range artists {
		dtos[i] = toArtistDTO(a, royalty.DeriveStatus(a, now))
	}

	writeJSON(w, http.StatusOK, map[string]any{"artists": dtos})
}

// GetArtist returns a single artist with its derived view.
func (h *Handler) GetArtist(w http.ResponseWriter, r *http.Request) {
	id := royalty.ArtistID(chi.URLParam(r, "id"))

	artist, view, err := h.Service.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, "Failed to get artist", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"artist": toArtistDTO(*artist, view)})
}

// CreateArtist creates a new artist.
func (h *Handler) CreateArtist(w http.ResponseWriter, r *http.Request) {
	actingUser, ok := actingUser(w, r)
	if !ok {
		return
	}

	var req CreateArtistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required", nil)
		return
	}

	artist, err := h.Service.Create(r.Context(), req.Name, decimal.NewFromFloat(req.Rate), actingUser)
	if err != nil {
		writeDomainError(w, "Failed to create artist", err)
		return
	}

	view := royalty.DeriveStatus(*artist, h.Service.Clock())
	writeJSON(w, http.StatusCreated, map[string]any{"artist": toArtistDTO(*artist, view)})
}

// UpdateArtist replaces an artist's name and rate.
func (h *Handler) UpdateArtist(w http.ResponseWriter, r *http.Request) {
	if _, ok := actingUser(w, r); !ok {
		return
	}
	id := royalty.ArtistID(chi.URLParam(r, "id"))

	var req UpdateArtistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Artist.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required", nil)
		return
	}

	updated, err := h.Service.Update(r.Context(), id, req.Artist.Name, decimal.NewFromFloat(req.Artist.Rate))
	if err != nil {
		writeDomainError(w, "Failed to update artist", err)
		return
	}

	writeJSON(w, http.StatusOK, ArtistIDDTO{ArtistID: string(updated)})
}

// RetireArtist soft-deletes an artist.
func (h *Handler) RetireArtist(w http.ResponseWriter, r *http.Request) {
	if _, ok := actingUser(w, r); !ok {
		return
	}
	id := royalty.ArtistID(chi.URLParam(r, "id"))

	retired, err := h.Service.Retire(r.Context(), id)
	if err != nil {
		writeDomainError(w, "Failed to retire artist", err)
		return
	}

	writeJSON(w, http.StatusOK, ArtistIDDTO{ArtistID: string(retired)})
}

// =============================================================================
// ACCOUNTING HANDLERS
// =============================================================================

// Payout issues a payout covering all streams accrued so far.
func (h *Handler) Payout(w http.ResponseWriter, r *http.Request) {
	actingUser, ok := actingUser(w, r)
	if !ok {
		return
	}
	id := royalty.ArtistID(chi.URLParam(r, "id"))

	receipt, err := h.Service.Payout(r.Context(), id, actingUser)
	if err != nil {
		writeDomainError(w, "Failed to issue payout", err)
		return
	}

	writeJSON(w, http.StatusOK, PayoutDTO{
		ArtistID:    string(receipt.ArtistID),
		PaidStreams: receipt.PaidStreams,
	})
}

// ChangeRate sets a new per-stream rate, supplied as ?newRate=.
func (h *Handler) ChangeRate(w http.ResponseWriter, r *http.Request) {
	if _, ok := actingUser(w, r); !ok {
		return
	}
	id := royalty.ArtistID(chi.URLParam(r, "id"))

	raw := r.URL.Query().Get("newRate")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "newRate query parameter is required", nil)
		return
	}
	newRate, err := decimal.NewFromString(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "newRate is not a valid decimal", err)
		return
	}

	changed, err := h.Service.ChangeRate(r.Context(), id, newRate)
	if err != nil {
		writeDomainError(w, "Failed to change rate", err)
		return
	}

	writeJSON(w, http.StatusOK, ArtistIDDTO{ArtistID: string(changed)})
}

// =============================================================================
// INGESTION HANDLERS
// =============================================================================

// RecordStreams accepts externally metered usage and bumps the stream
// counter. This is the ingestion hook, not an accounting operation.
func (h *Handler) RecordStreams(w http.ResponseWriter, r *http.Request) {
	id := royalty.ArtistID(chi.URLParam(r, "id"))

	var req RecordStreamsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Streams <= 0 {
		writeError(w, http.StatusBadRequest, "streams must be positive", nil)
		return
	}

	if err := h.Store.AddStreams(r.Context(), id, req.Streams); err != nil {
		writeDomainError(w, "Failed to record streams", err)
		return
	}

	writeJSON(w, http.StatusOK, ArtistIDDTO{ArtistID: string(id)})
}

// =============================================================================
// HELPERS
// =============================================================================

// actingUser extracts the opaque acting-user id required on mutating
// endpoints. Writes a 401 and returns false when absent.
func actingUser(w http.ResponseWriter, r *http.Request) (royalty.UserID, bool) {
	id := r.Header.Get("X-User-ID")
	if id == "" {
		writeError(w, http.StatusUnauthorized, "X-User-ID header is required", nil)
		return "", false
	}
	return royalty.UserID(id), true
}

// writeDomainError maps royalty error kinds to transport statuses.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	switch {
	case royalty.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Artist not found", err)
	case errors.Is(err, royalty.ErrInvalidRate):
		writeError(w, http.StatusBadRequest, "Rate must be non-negative with at most 6 fractional digits", err)
	case royalty.IsBenign(err):
		// 304 carries no body per RFC 9110
		w.WriteHeader(http.StatusNotModified)
	case errors.Is(err, royalty.ErrNameTaken):
		writeError(w, http.StatusConflict, "Artist name already taken", err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
