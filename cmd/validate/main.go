package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jwebster45206/nature42/pkg/state"
)

// validate checks an exported game state file before it is imported
// into a client. Useful when players move saves between browsers.
func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <gamestate.json>\n", os.Args[0])
		os.Exit(1)
	}

	filename := os.Args[1]
	if err := validateFile(filename); err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Game state file is valid!")
}

func validateFile(filename string) error {
	fmt.Printf("Validating %s...\n", filename)

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	if !json.Valid(data) {
		return fmt.Errorf("file %s contains invalid JSON", filename)
	}

	var gs state.GameState
	decoder := json.NewDecoder(strings.NewReader(string(data)))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&gs); err != nil {
		return fmt.Errorf("file %s failed strict JSON unmarshaling: %w", filename, err)
	}

	if err := gs.Validate(); err != nil {
		return fmt.Errorf("validation errors in %s: %w", filename, err)
	}

	var findings []string
	if gs.GameStartedAt.IsZero() {
		findings = append(findings, "game_started_at is unset")
	}
	if gs.LastUpdated.Before(gs.GameStartedAt) {
		findings = append(findings, "last_updated predates game_started_at")
	}
	for id, loc := range gs.VisitedLocations {
		if loc.ID != "" && loc.ID != id {
			findings = append(findings, fmt.Sprintf("visited location keyed %q has id %q", id, loc.ID))
		}
	}
	if len(findings) > 0 {
		return fmt.Errorf("validation errors in %s:\n%s", filename, strings.Join(findings, "\n"))
	}

	fmt.Printf("  location: %s\n", gs.PlayerLocation)
	fmt.Printf("  keys: %d/%d\n", len(gs.KeysCollected), state.DoorCount)
	fmt.Printf("  places visited: %d\n", len(gs.VisitedLocations))
	return nil
}
