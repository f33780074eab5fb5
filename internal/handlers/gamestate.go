package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jwebster45206/nature42/pkg/state"
)

// GameStateHandler creates fresh game states and validates client-held
// ones. State lives in the client; these endpoints never persist it.
//
// Routes:
// POST /v1/state          - Create a new game state
// POST /v1/state/validate - Validate a client-held game state
type GameStateHandler struct {
	logger *slog.Logger
}

func NewGameStateHandler(logger *slog.Logger) *GameStateHandler {
	return &GameStateHandler{logger: logger}
}

// StateResponse is the envelope for state operations.
type StateResponse struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	State   *state.GameState `json:"state,omitempty"`
}

// ValidateStateResponse reports whether a submitted state is playable.
type ValidateStateResponse struct {
	Success bool     `json:"success"`
	Valid   bool     `json:"valid"`
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

func (h *GameStateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		h.logger.Warn("Method not allowed for state endpoint", "method", r.Method)
		writeJSONError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Only POST is supported.")
		return
	}

	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/state"), "/")
	switch path {
	case "":
		h.handleCreate(w, r)
	case "validate":
		h.handleValidate(w, r)
	default:
		writeJSONError(w, h.logger, http.StatusNotFound, "Not found.")
	}
}

func (h *GameStateHandler) handleCreate(w http.ResponseWriter, _ *http.Request) {
	gs := state.NewGameState()
	h.logger.Info("New game state created", "game_id", gs.ID)

	w.WriteHeader(http.StatusCreated)
	response := StateResponse{
		Success: true,
		Message: "New game state created",
		State:   gs,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("Failed to encode state response", "error", err)
	}
}

func (h *GameStateHandler) handleValidate(w http.ResponseWriter, r *http.Request) {
	var gs state.GameState
	if err := json.NewDecoder(r.Body).Decode(&gs); err != nil {
		h.logger.Warn("Unparseable game state submitted", "error", err)
		w.WriteHeader(http.StatusOK)
		response := ValidateStateResponse{
			Success: true,
			Valid:   false,
			Message: "State structure is invalid",
			Errors:  []string{err.Error()},
		}
		if err := json.NewEncoder(w).Encode(response); err != nil {
			h.logger.Error("Failed to encode validation response", "error", err)
		}
		return
	}

	response := ValidateStateResponse{Success: true}
	if err := gs.Validate(); err != nil {
		response.Valid = false
		response.Message = "State has validation errors"
		response.Errors = []string{err.Error()}
	} else {
		response.Valid = true
		response.Message = "State structure is valid"
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("Failed to encode validation response", "error", err)
	}
}
