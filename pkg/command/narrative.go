package command

import (
	"context"

	"github.com/jwebster45206/nature42/pkg/state"
)

// Puzzle is a generated challenge for a door world.
type Puzzle struct {
	Description      string   `json:"description"`
	Hints            []string `json:"hints,omitempty"`
	SolutionCriteria string   `json:"solution_criteria,omitempty"`
}

// Evaluation is the judged outcome of a puzzle solution attempt.
type Evaluation struct {
	Success  bool   `json:"success"`
	Feedback string `json:"feedback"`
}

// ItemResolution is the collaborator's ruling on whether an object the
// player named in prose can actually be picked up.
type ItemResolution struct {
	CanTake     bool   `json:"can_take"`
	ItemName    string `json:"item_name,omitempty"`
	Description string `json:"description,omitempty"`
	IsKey       bool   `json:"is_key,omitempty"`
	Message     string `json:"message"`
}

// NarrationRequest carries the state context for a freeform narration.
type NarrationRequest struct {
	Instruction         string
	LocationDescription string
	Inventory           []state.Item
	KeysCollected       int
	CurrentDoor         int
	RecentDecisions     []string
}

// Generator is the narrative collaborator behind all generated content.
// All operations are fallible; callers substitute deterministic fallback
// prose on error rather than surfacing failures to the player.
type Generator interface {
	// GenerateLocation produces the content for a new location id in door
	// n's world, themed by difficulty and colored by recent decisions.
	GenerateLocation(ctx context.Context, doorNumber int, locationID string, recentDecisions []string, keysCollected int) (state.LocationData, error)

	// GenerateDialogue produces an NPC's reply to the player.
	GenerateDialogue(ctx context.Context, npcContext, playerInput string, recentInteractions []string) (string, error)

	// GeneratePuzzle produces a challenge matching the given complexity,
	// theme, and the virtues the attempt must demonstrate.
	GeneratePuzzle(ctx context.Context, complexity, theme string, requiredVirtues []string) (Puzzle, error)

	// EvaluateSolution judges a player's attempt against a puzzle.
	EvaluateSolution(ctx context.Context, puzzleContext, attempt string, requiredVirtues []string) (Evaluation, error)

	// MatchExit resolves a player phrase against the exit names of a
	// location. Empty string means no plausible match.
	MatchExit(ctx context.Context, phrase string, exits []string) (string, error)

	// MatchNPC resolves a player phrase against NPC names. Empty string
	// means no plausible match.
	MatchNPC(ctx context.Context, phrase string, npcs []string) (string, error)

	// ResolveItem rules on taking an object that appears in a location's
	// prose but not in its structured item list.
	ResolveItem(ctx context.Context, locationDescription, itemName string) (ItemResolution, error)

	// Narrate produces freeform prose for actions with no structured
	// handler of their own.
	Narrate(ctx context.Context, req NarrationRequest) (string, error)
}
