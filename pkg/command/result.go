package command

import "github.com/jwebster45206/nature42/pkg/state"

// ValidationContext summarizes the state facts a validation verdict was
// based on, for logging and for the player-facing reason text.
type ValidationContext struct {
	Location        string
	HasLocationData bool
	CurrentDoor     int
	KeysCollected   int
	InventoryCount  int
	AvailableExits  []string
	AvailableItems  []string
	AvailableNPCs   []string
}

// ValidationResult is the verdict on whether an intent can execute in the
// current state. Reason is player-facing and names what is actually
// available, never an internal error.
type ValidationResult struct {
	Valid   bool
	Reason  string
	Context ValidationContext
}

// ActionResult is the outcome of dispatching a single validated intent.
type ActionResult struct {
	Success      bool
	Message      string
	NewLocation  string
	ItemsAdded   []state.Item
	ItemsRemoved []state.Item
	Changes      StateChanges
}

// CommandResult is the full response for one processed command.
type CommandResult struct {
	Success            bool         `json:"success"`
	Message            string       `json:"message"`
	NeedsClarification bool         `json:"needs_clarification,omitempty"`
	Changes            StateChanges `json:"state_changes"`
}
