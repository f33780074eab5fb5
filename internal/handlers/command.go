package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jwebster45206/nature42/pkg/command"
	"github.com/jwebster45206/nature42/pkg/state"
)

// commandTimeout bounds a full turn, including every model call the
// dispatcher makes on the player's behalf.
const commandTimeout = 60 * time.Second

type ErrorResponse struct {
	Error string `json:"error"`
}

// CommandRequest carries a player command together with the client's full
// game state. The server holds no state between requests.
type CommandRequest struct {
	Command   string           `json:"command"`
	GameState *state.GameState `json:"game_state"`
}

// CommandHandler processes player commands and streams the result as
// Server-Sent Events: a text event with the narration, a state_changes
// event with the deltas to merge client-side, then a done event.
type CommandHandler struct {
	parser command.Parser
	gen    command.Generator
	logger *slog.Logger
}

func NewCommandHandler(parser command.Parser, gen command.Generator, logger *slog.Logger) *CommandHandler {
	return &CommandHandler{
		parser: parser,
		gen:    gen,
		logger: logger,
	}
}

func (h *CommandHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.logger.Warn("Method not allowed for command endpoint", "method", r.Method)
		writeJSONError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Only POST is supported.")
		return
	}

	var req CommandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid command request body", "error", err)
		writeJSONError(w, h.logger, http.StatusBadRequest, "Invalid request body. Expected JSON with 'command' and 'game_state' fields.")
		return
	}

	if req.Command == "" {
		writeJSONError(w, h.logger, http.StatusBadRequest, "Command cannot be empty. Try 'help' for assistance.")
		return
	}

	if req.GameState == nil {
		writeJSONError(w, h.logger, http.StatusBadRequest, "Game state is required.")
		return
	}
	if err := req.GameState.Validate(); err != nil {
		h.logger.Warn("Invalid game state submitted", "error", err)
		writeJSONError(w, h.logger, http.StatusBadRequest, "Your game state appears to be corrupted. You may need to start a new game.")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		h.logger.Error("Response writer does not support streaming")
		writeJSONError(w, h.logger, http.StatusInternalServerError, "Streaming is not supported.")
		return
	}

	h.logger.Info("Command received",
		"game_id", req.GameState.ID,
		"command", req.Command,
		"location", req.GameState.PlayerLocation)

	ctx, cancel := context.WithTimeout(r.Context(), commandTimeout)
	defer cancel()

	processor := command.NewProcessor(req.GameState, h.parser, h.gen, h.logger)
	result := processor.ProcessCommand(ctx, req.Command)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	h.writeEvent(w, flusher, map[string]interface{}{
		"type":    "text",
		"content": result.Message,
	})
	h.writeEvent(w, flusher, map[string]interface{}{
		"type":    "state_changes",
		"changes": result.Changes,
	})
	h.writeEvent(w, flusher, map[string]interface{}{
		"type":                "done",
		"success":             result.Success,
		"needs_clarification": result.NeedsClarification,
	})
}

func (h *CommandHandler) writeEvent(w http.ResponseWriter, flusher http.Flusher, payload map[string]interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("Failed to marshal SSE event", "error", err)
		data = []byte(`{"type":"error","message":"Error sending response. Please try again."}`)
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
		h.logger.Warn("Failed to write SSE event", "error", err)
		return
	}
	flusher.Flush()
}

func writeJSONError(w http.ResponseWriter, logger *slog.Logger, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(ErrorResponse{Error: message}); err != nil {
		logger.Error("Failed to encode error response", "error", err)
	}
}
