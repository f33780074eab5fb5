package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/nature42/pkg/state"
)

func TestGameStateHandler_Create(t *testing.T) {
	handler := NewGameStateHandler(testLogger())

	req := httptest.NewRequest(http.MethodPost, "/v1/state", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var response StateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(t, response.Success)
	require.NotNil(t, response.State)
	assert.Equal(t, state.HubLocationID, response.State.PlayerLocation)
	assert.Empty(t, response.State.Inventory)
	assert.Empty(t, response.State.KeysCollected)
	assert.Contains(t, response.State.VisitedLocations, state.HubLocationID)
	assert.NotEqual(t, response.State.ID.String(), "00000000-0000-0000-0000-000000000000")
}

func TestGameStateHandler_CreateStatesAreIndependent(t *testing.T) {
	handler := NewGameStateHandler(testLogger())

	ids := make(map[string]bool)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/v1/state", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		var response StateResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		ids[response.State.ID.String()] = true
	}
	assert.Len(t, ids, 3, "each new game gets its own ID")
}

func TestGameStateHandler_ValidateValidState(t *testing.T) {
	handler := NewGameStateHandler(testLogger())

	body, err := state.NewGameState().ToJSON()
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/v1/state/validate", bytes.NewBuffer(body))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response ValidateStateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(t, response.Valid)
	assert.Empty(t, response.Errors)
}

func TestGameStateHandler_ValidateRejectsBadKeys(t *testing.T) {
	handler := NewGameStateHandler(testLogger())

	gs := state.NewGameState()
	gs.KeysCollected = []int{1, 2, 7}
	body, err := gs.ToJSON()
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/v1/state/validate", bytes.NewBuffer(body))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response ValidateStateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.False(t, response.Valid)
	assert.NotEmpty(t, response.Errors)
}

func TestGameStateHandler_ValidateRejectsGarbage(t *testing.T) {
	handler := NewGameStateHandler(testLogger())

	req := httptest.NewRequest(http.MethodPost, "/v1/state/validate", bytes.NewBufferString("not json"))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response ValidateStateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.False(t, response.Valid)
}

func TestGameStateHandler_MethodNotAllowed(t *testing.T) {
	handler := NewGameStateHandler(testLogger())

	req := httptest.NewRequest(http.MethodGet, "/v1/state", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
