package command

import (
	"fmt"
	"strings"
	"time"

	"github.com/jwebster45206/nature42/pkg/state"
)

// IsSignificant reports whether a turn deserves a decision record.
// Door and vault choices qualify by intent; everything else qualifies
// only when the result carries a significance marker.
func IsSignificant(intent Intent, result ActionResult) bool {
	target := strings.ToLower(intent.Target)
	if intent.Action == "open" && strings.Contains(target, "door") {
		return true
	}
	if intent.Action == "insert" && strings.Contains(target, "key") {
		return true
	}
	return result.Changes.HasSignificanceMarker()
}

// NewDecision builds the immutable history record for a significant turn.
func NewDecision(gs *state.GameState, intent Intent, result ActionResult) state.Decision {
	description := "Player chose to " + intent.Action
	if intent.Target != "" {
		description += " " + intent.Target
	}

	var consequences []string
	if n := result.Changes.DoorNumber; n != 0 {
		consequences = append(consequences, fmt.Sprintf("Entered world behind door %d", n))
	}
	if n := result.Changes.KeyRetrieved; n != 0 {
		consequences = append(consequences, fmt.Sprintf("Retrieved key %d", n))
	}
	for _, n := range result.Changes.KeysInserted {
		consequences = append(consequences, fmt.Sprintf("Inserted key %d into vault", n))
	}
	if result.Changes.VaultOpened {
		consequences = append(consequences, "Opened the vault and completed the game")
	}
	if result.Changes.PuzzleSolved {
		consequences = append(consequences, "Solved a puzzle")
	}

	return state.Decision{
		Timestamp:    time.Now().UTC(),
		LocationID:   gs.PlayerLocation,
		Description:  description,
		Consequences: consequences,
	}
}
