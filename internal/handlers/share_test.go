package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/nature42/internal/services"
	"github.com/jwebster45206/nature42/pkg/state"
)

func newShareHandler(t *testing.T) *ShareHandler {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	redisService := services.NewRedisServiceWithClient(client, testLogger())
	store := services.NewShareStore(redisService, testLogger())
	return NewShareHandler(store, "http://localhost:8080", testLogger())
}

func shareBody(t *testing.T, gs *state.GameState, locationID string) *bytes.Buffer {
	t.Helper()
	body, err := json.Marshal(CreateShareRequest{GameState: gs, LocationID: locationID})
	require.NoError(t, err)
	return bytes.NewBuffer(body)
}

func createShare(t *testing.T, handler *ShareHandler) ShareResponse {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/share", shareBody(t, state.NewGameState(), ""))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var response ShareResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func TestShareHandler_Create(t *testing.T) {
	handler := newShareHandler(t)

	response := createShare(t, handler)
	assert.True(t, response.Success)
	require.NotNil(t, response.Postcard)
	assert.Equal(t, state.HubLocationID, response.Postcard.LocationName)
	assert.Equal(t, "http://localhost:8080/v1/share/"+response.Postcard.ShareCode, response.ShareURL)
}

func TestShareHandler_CreateUnknownLocation(t *testing.T) {
	handler := newShareHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/share", shareBody(t, state.NewGameState(), "door_3_entrance"))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestShareHandler_Get(t *testing.T) {
	handler := newShareHandler(t)
	created := createShare(t, handler)

	req := httptest.NewRequest(http.MethodGet, "/v1/share/"+created.Postcard.ShareCode, nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response ShareResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.NotNil(t, response.Postcard)
	assert.Equal(t, created.Postcard.ShareCode, response.Postcard.ShareCode)
	assert.Equal(t, created.Postcard.LocationDescription, response.Postcard.LocationDescription)
}

func TestShareHandler_GetUnknownCode(t *testing.T) {
	handler := newShareHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/share/NOPE1234", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestShareHandler_Delete(t *testing.T) {
	handler := newShareHandler(t)
	created := createShare(t, handler)

	req := httptest.NewRequest(http.MethodDelete, "/v1/share/"+created.Postcard.ShareCode, nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	// Second delete finds nothing.
	req = httptest.NewRequest(http.MethodDelete, "/v1/share/"+created.Postcard.ShareCode, nil)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestShareHandler_MethodNotAllowed(t *testing.T) {
	handler := newShareHandler(t)

	req := httptest.NewRequest(http.MethodPut, "/v1/share", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
