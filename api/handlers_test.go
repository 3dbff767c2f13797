/*
handlers_test.go - Unit tests for API handlers

Tests the HTTP surface end to end over the in-memory store:
- Artist lifecycle (create, get, update, retire)
- Payout and rate-change flows, including the 304 short-circuit
- Acting-user enforcement and error status mapping
*/
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/royalty-engine/royalty"
	"github.com/warp/royalty-engine/royalty/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

type testEnv struct {
	router  http.Handler
	handler *Handler
	store   *store.Memory
	now     *time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mem := store.NewMemory()
	h := NewHandler(mem)

	now := time.Date(2025, time.May, 1, 9, 0, 0, 0, time.UTC)
	env := &testEnv{handler: h, store: mem, now: &now}
	h.Service.Clock = func() time.Time { return *env.now }

	env.router = NewRouter(h)
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body any, actingUser string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if actingUser != "" {
		req.Header.Set("X-User-ID", actingUser)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) createArtist(t *testing.T, name string, rate float64) string {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/api/artists", CreateArtistRequest{Name: name, Rate: rate}, "user-1")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Artist ArtistDTO `json:"artist"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Artist.ID
}

// =============================================================================
// LIFECYCLE
// =============================================================================

func TestCreateArtist_Success(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/artists", CreateArtistRequest{Name: "Nina", Rate: 0.005}, "user-1")
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Artist ArtistDTO `json:"artist"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Artist.ID)
	assert.Equal(t, "Nina", resp.Artist.Name)
	assert.Equal(t, 0.005, resp.Artist.Rate)
	assert.Equal(t, int64(0), resp.Artist.Streams)
	assert.Nil(t, resp.Artist.LastPaidAt)
}

func TestCreateArtist_MissingActingUser_Unauthorized(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/artists", CreateArtistRequest{Name: "Nina", Rate: 0.005}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateArtist_OverScaleRate_BadRequest(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/artists", CreateArtistRequest{Name: "Nina", Rate: 0.12345678}, "user-1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateArtist_DuplicateName_Conflict(t *testing.T) {
	env := newTestEnv(t)
	env.createArtist(t, "Nina", 0.005)

	rec := env.do(t, http.MethodPost, "/api/artists", CreateArtistRequest{Name: "Nina", Rate: 0.001}, "user-2")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRetireArtist_ThenGet_NotFound(t *testing.T) {
	env := newTestEnv(t)
	id := env.createArtist(t, "Nina", 0.005)

	rec := env.do(t, http.MethodDelete, "/api/artists/"+id, nil, "user-1")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/artists/"+id, nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateArtist_ReplacesNameAndRate(t *testing.T) {
	env := newTestEnv(t)
	id := env.createArtist(t, "Nina", 0.005)

	body := UpdateArtistRequest{Artist: CreateArtistRequest{Name: "Nina Simone", Rate: 0.009}}
	rec := env.do(t, http.MethodPut, "/api/artists/"+id, body, "user-1")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/artists/"+id, nil, "")
	var resp struct {
		Artist ArtistDTO `json:"artist"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Nina Simone", resp.Artist.Name)
	assert.Equal(t, 0.009, resp.Artist.Rate)
}

func TestListArtists_ExcludesRetired(t *testing.T) {
	env := newTestEnv(t)
	env.createArtist(t, "Nina", 0.005)
	retiredID := env.createArtist(t, "Miles", 0.003)

	rec := env.do(t, http.MethodDelete, "/api/artists/"+retiredID, nil, "user-1")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/artists", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Artists []ArtistDTO `json:"artists"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Artists, 1)
	assert.Equal(t, "Nina", resp.Artists[0].Name)
}

// =============================================================================
// PAYOUT AND RATE CHANGE
// =============================================================================

func TestPayout_ReportsStreamsPaid(t *testing.T) {
	env := newTestEnv(t)
	id := env.createArtist(t, "Nina", 0.005)

	rec := env.do(t, http.MethodPost, "/api/artists/"+id+"/streams", RecordStreamsRequest{Streams: 1000}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPatch, "/api/artists/"+id+"/payout", nil, "payer-1")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp PayoutDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, id, resp.ArtistID)
	assert.Equal(t, int64(1000), resp.PaidStreams)
}

func TestPayout_StatusFlow(t *testing.T) {
	// GIVEN: Artist with ingested streams, never paid -> UNPAID
	// WHEN: Paying out, then ingesting more and advancing 15 days
	// THEN: PAID right after payout, UNPAID again once stale

	env := newTestEnv(t)
	id := env.createArtist(t, "Nina", 0.005)
	env.do(t, http.MethodPost, "/api/artists/"+id+"/streams", RecordStreamsRequest{Streams: 1000}, "")

	getStatus := func() string {
		rec := env.do(t, http.MethodGet, "/api/artists/"+id, nil, "")
		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Artist ArtistDTO `json:"artist"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		return resp.Artist.PaidStatus
	}

	assert.Equal(t, string(royalty.StatusUnpaid), getStatus())

	rec := env.do(t, http.MethodPatch, "/api/artists/"+id+"/payout", nil, "payer-1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, string(royalty.StatusPaid), getStatus())

	env.do(t, http.MethodPost, "/api/artists/"+id+"/streams", RecordStreamsRequest{Streams: 500}, "")
	*env.now = env.now.AddDate(0, 0, 15)
	assert.Equal(t, string(royalty.StatusUnpaid), getStatus())
}

func TestPayout_RetiredArtist_NotFound(t *testing.T) {
	env := newTestEnv(t)
	id := env.createArtist(t, "Nina", 0.005)
	env.do(t, http.MethodPost, "/api/artists/"+id+"/streams", RecordStreamsRequest{Streams: 1000}, "")

	rec := env.do(t, http.MethodDelete, "/api/artists/"+id, nil, "user-1")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPatch, "/api/artists/"+id+"/payout", nil, "payer-1")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChangeRate_SecondCallNotModified(t *testing.T) {
	env := newTestEnv(t)
	id := env.createArtist(t, "Nina", 0.005)

	path := fmt.Sprintf("/api/artists/%s/changeRate?newRate=0.0075", id)

	rec := env.do(t, http.MethodPatch, path, nil, "user-1")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPatch, path, nil, "user-1")
	assert.Equal(t, http.StatusNotModified, rec.Code)
	assert.Empty(t, rec.Body.String(), "304 carries no body")
}

func TestChangeRate_NegativeRate_BadRequest(t *testing.T) {
	env := newTestEnv(t)
	id := env.createArtist(t, "Nina", 0.005)

	rec := env.do(t, http.MethodPatch, "/api/artists/"+id+"/changeRate?newRate=-0.000001", nil, "user-1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChangeRate_SmallestStep_Accepted(t *testing.T) {
	env := newTestEnv(t)
	id := env.createArtist(t, "Nina", 0.005)

	rec := env.do(t, http.MethodPatch, "/api/artists/"+id+"/changeRate?newRate=0.000001", nil, "user-1")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestChangeRate_MissingParam_BadRequest(t *testing.T) {
	env := newTestEnv(t)
	id := env.createArtist(t, "Nina", 0.005)

	rec := env.do(t, http.MethodPatch, "/api/artists/"+id+"/changeRate", nil, "user-1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// INGESTION
// =============================================================================

func TestRecordStreams_NonPositive_BadRequest(t *testing.T) {
	env := newTestEnv(t)
	id := env.createArtist(t, "Nina", 0.005)

	rec := env.do(t, http.MethodPost, "/api/artists/"+id+"/streams", RecordStreamsRequest{Streams: 0}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
