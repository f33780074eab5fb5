package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jwebster45206/nature42/internal/services"
	"github.com/jwebster45206/nature42/pkg/state"
)

// ShareHandler creates and serves shareable postcards.
//
// Routes:
// POST /v1/share          - Create a postcard from a game state
// GET /v1/share/{code}    - Retrieve a postcard by share code
// DELETE /v1/share/{code} - Delete a postcard
type ShareHandler struct {
	store   *services.ShareStore
	baseURL string
	logger  *slog.Logger
}

func NewShareHandler(store *services.ShareStore, baseURL string, logger *slog.Logger) *ShareHandler {
	return &ShareHandler{
		store:   store,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		logger:  logger,
	}
}

// CreateShareRequest carries the game state to snapshot and an optional
// location override. An empty location shares the player's position.
type CreateShareRequest struct {
	GameState  *state.GameState `json:"game_state"`
	LocationID string           `json:"location_id,omitempty"`
}

// ShareResponse is the envelope for share operations.
type ShareResponse struct {
	Success  bool               `json:"success"`
	Message  string             `json:"message"`
	Postcard *services.Postcard `json:"postcard,omitempty"`
	ShareURL string             `json:"share_url,omitempty"`
}

func (h *ShareHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	code := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/share"), "/")

	switch {
	case r.Method == http.MethodPost && code == "":
		h.handleCreate(w, r)
	case r.Method == http.MethodGet && code != "":
		h.handleGet(w, r, code)
	case r.Method == http.MethodDelete && code != "":
		h.handleDelete(w, r, code)
	default:
		h.logger.Warn("Method not allowed for share endpoint", "method", r.Method, "path", r.URL.Path)
		writeJSONError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported: POST /v1/share, GET /v1/share/{code}, DELETE /v1/share/{code}.")
	}
}

func (h *ShareHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateShareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid share request body", "error", err)
		writeJSONError(w, h.logger, http.StatusBadRequest, "Invalid request body. Expected JSON with 'game_state' field.")
		return
	}
	if req.GameState == nil {
		writeJSONError(w, h.logger, http.StatusBadRequest, "Game state is required.")
		return
	}

	postcard, err := h.store.CreatePostcard(r.Context(), req.GameState, req.LocationID)
	if err != nil {
		h.logger.Warn("Failed to create postcard", "error", err)
		writeJSONError(w, h.logger, http.StatusNotFound, err.Error())
		return
	}

	w.WriteHeader(http.StatusCreated)
	response := ShareResponse{
		Success:  true,
		Message:  "Postcard created successfully",
		Postcard: postcard,
		ShareURL: fmt.Sprintf("%s/v1/share/%s", h.baseURL, postcard.ShareCode),
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("Failed to encode share response", "error", err)
	}
}

func (h *ShareHandler) handleGet(w http.ResponseWriter, r *http.Request, code string) {
	postcard, err := h.store.GetPostcard(r.Context(), code)
	if err != nil {
		h.logger.Error("Failed to retrieve postcard", "share_code", code, "error", err)
		writeJSONError(w, h.logger, http.StatusInternalServerError, "Unable to retrieve postcard. Please try again.")
		return
	}
	if postcard == nil {
		writeJSONError(w, h.logger, http.StatusNotFound, fmt.Sprintf("Share code '%s' not found", code))
		return
	}

	w.WriteHeader(http.StatusOK)
	response := ShareResponse{
		Success:  true,
		Message:  "Postcard retrieved successfully",
		Postcard: postcard,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("Failed to encode share response", "error", err)
	}
}

func (h *ShareHandler) handleDelete(w http.ResponseWriter, r *http.Request, code string) {
	deleted, err := h.store.DeletePostcard(r.Context(), code)
	if err != nil {
		h.logger.Error("Failed to delete postcard", "share_code", code, "error", err)
		writeJSONError(w, h.logger, http.StatusInternalServerError, "Unable to delete postcard. Please try again.")
		return
	}
	if !deleted {
		writeJSONError(w, h.logger, http.StatusNotFound, fmt.Sprintf("Share code '%s' not found", code))
		return
	}

	w.WriteHeader(http.StatusOK)
	response := ShareResponse{
		Success: true,
		Message: "Share deleted successfully",
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("Failed to encode share response", "error", err)
	}
}
