package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jwebster45206/nature42/pkg/command"
	"github.com/jwebster45206/nature42/pkg/state"
)

func testConnection(client *http.Client, baseURL string) bool {
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()
	return resp.StatusCode == http.StatusOK
}

// StateResponse matches the API envelope for state operations.
type StateResponse struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	State   *state.GameState `json:"state,omitempty"`
}

func createGameState(client *http.Client, baseURL string) (*state.GameState, error) {
	resp, err := client.Post(baseURL+"/v1/state", "application/json", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusCreated {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("failed to create game state: %s", errorResp.Error)
	}

	var stateResp StateResponse
	if err := json.Unmarshal(body, &stateResp); err != nil {
		return nil, fmt.Errorf("failed to parse game state response: %w", err)
	}
	if stateResp.State == nil {
		return nil, fmt.Errorf("API response did not include a game state")
	}
	return stateResp.State, nil
}

// CommandRequest matches the API request structure.
type CommandRequest struct {
	Command   string           `json:"command"`
	GameState *state.GameState `json:"game_state"`
}

// commandOutcome is one processed turn, assembled from the SSE stream.
type commandOutcome struct {
	Message            string
	Changes            *command.StateChanges
	Success            bool
	NeedsClarification bool
}

// sseEvent is a single decoded event from the command stream.
type sseEvent struct {
	Type               string                `json:"type"`
	Content            string                `json:"content,omitempty"`
	Changes            *command.StateChanges `json:"changes,omitempty"`
	Success            bool                  `json:"success,omitempty"`
	NeedsClarification bool                  `json:"needs_clarification,omitempty"`
	ErrMessage         string                `json:"message,omitempty"`
}

// sendCommand posts a command with the full game state and reads the
// event stream until the done event.
func sendCommand(client *http.Client, baseURL string, gs *state.GameState, cmd string) (*commandOutcome, error) {
	reqBody, err := json.Marshal(CommandRequest{Command: cmd, GameState: gs})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, baseURL+"/v1/command", bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("%s", errorResp.Error)
	}

	outcome := &commandOutcome{}
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}

		var event sseEvent
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &event); err != nil {
			continue
		}

		switch event.Type {
		case "text":
			outcome.Message += event.Content
		case "state_changes":
			outcome.Changes = event.Changes
		case "done":
			outcome.Success = event.Success
			outcome.NeedsClarification = event.NeedsClarification
			return outcome, nil
		case "error":
			return nil, fmt.Errorf("%s", event.ErrMessage)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading event stream: %w", err)
	}
	return nil, fmt.Errorf("event stream ended without a done event")
}

// CreateShareRequest matches the API request structure.
type CreateShareRequest struct {
	GameState  *state.GameState `json:"game_state"`
	LocationID string           `json:"location_id,omitempty"`
}

// Postcard mirrors the API's postcard shape.
type Postcard struct {
	ShareCode           string `json:"share_code"`
	LocationName        string `json:"location_name"`
	LocationDescription string `json:"location_description"`
	KeysCollected       int    `json:"keys_collected"`
}

// ShareResponse matches the API envelope for share operations.
type ShareResponse struct {
	Success  bool      `json:"success"`
	Message  string    `json:"message"`
	Postcard *Postcard `json:"postcard,omitempty"`
	ShareURL string    `json:"share_url,omitempty"`
}

func createShare(client *http.Client, baseURL string, gs *state.GameState) (*ShareResponse, error) {
	reqBody, err := json.Marshal(CreateShareRequest{GameState: gs})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := client.Post(baseURL+"/v1/share", "application/json", bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusCreated {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("failed to create share: %s", errorResp.Error)
	}

	var shareResp ShareResponse
	if err := json.Unmarshal(body, &shareResp); err != nil {
		return nil, fmt.Errorf("failed to parse share response: %w", err)
	}
	return &shareResp, nil
}
