package state

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/nature42/pkg/chat"
)

// DoorCount is the number of doors in the clearing, and therefore the
// number of keys the vault accepts.
const DoorCount = 6

// GameState is the complete state of one playthrough. It is never held in
// server memory across requests: the client submits it with every command
// and merges the returned state changes back into its own copy.
type GameState struct {
	ID               uuid.UUID               `json:"id"`
	PlayerLocation   string                  `json:"player_location"`
	Inventory        []Item                  `json:"inventory"`
	KeysCollected    []int                   `json:"keys_collected"` // door numbers, unique, at most 6
	VisitedLocations map[string]LocationData `json:"visited_locations"`
	DecisionHistory  []Decision              `json:"decision_history"`
	CurrentDoor      int                     `json:"current_door,omitempty"` // 1-6, 0 means the clearing
	GameStartedAt    time.Time               `json:"game_started_at"`
	LastUpdated      time.Time               `json:"last_updated"`

	// ConversationHistory is the bounded window of parser context carried
	// between stateless requests. Opaque to the engine beyond its cap.
	ConversationHistory []chat.ChatMessage `json:"conversation_history,omitempty"`
}

// NewGameState creates a fresh game: player in the forest clearing, empty
// inventory, no keys, no door.
func NewGameState() *GameState {
	now := time.Now().UTC()
	clearing := NewForestClearing()
	return &GameState{
		ID:               uuid.New(),
		PlayerLocation:   HubLocationID,
		Inventory:        []Item{},
		KeysCollected:    []int{},
		VisitedLocations: map[string]LocationData{HubLocationID: clearing},
		DecisionHistory:  []Decision{},
		GameStartedAt:    now,
		LastUpdated:      now,
	}
}

// CurrentLocation returns the location data for the player's position.
// The second return is false if the player is transiently between
// generation and caching, which callers must treat as "no location data".
func (gs *GameState) CurrentLocation() (LocationData, bool) {
	loc, ok := gs.VisitedLocations[gs.PlayerLocation]
	return loc, ok
}

// AtHub reports whether the player is in the forest clearing.
func (gs *GameState) AtHub() bool {
	return gs.PlayerLocation == HubLocationID
}

// FindInventoryItem returns the first inventory item matching name
// (exact match preferred over partial), or nil.
func (gs *GameState) FindInventoryItem(name string) *Item {
	for idx := range gs.Inventory {
		if strings.EqualFold(gs.Inventory[idx].Name, name) {
			return &gs.Inventory[idx]
		}
	}
	for idx := range gs.Inventory {
		if gs.Inventory[idx].MatchesName(name) {
			return &gs.Inventory[idx]
		}
	}
	return nil
}

// HeldKeys returns the key items currently in inventory.
func (gs *GameState) HeldKeys() []Item {
	var keys []Item
	for _, item := range gs.Inventory {
		if item.IsKey {
			keys = append(keys, item)
		}
	}
	return keys
}

// HasKeyForDoor reports whether the player holds the key for door n.
func (gs *GameState) HasKeyForDoor(n int) bool {
	for _, item := range gs.Inventory {
		if item.IsKey && item.DoorNumber == n {
			return true
		}
	}
	return false
}

// KeyInserted reports whether door n's key is already in the vault.
func (gs *GameState) KeyInserted(n int) bool {
	for _, k := range gs.KeysCollected {
		if k == n {
			return true
		}
	}
	return false
}

// InsertKey records door n's key in the vault. Duplicate insertions are
// rejected before mutation, so KeysCollected can never exceed DoorCount
// or hold the same door twice.
func (gs *GameState) InsertKey(n int) error {
	if n < 1 || n > DoorCount {
		return fmt.Errorf("door number %d out of range 1-%d", n, DoorCount)
	}
	if gs.KeyInserted(n) {
		return fmt.Errorf("key for door %d is already inserted", n)
	}
	if len(gs.KeysCollected) >= DoorCount {
		return fmt.Errorf("vault already holds %d keys", DoorCount)
	}
	gs.KeysCollected = append(gs.KeysCollected, n)
	return nil
}

// VaultOpen reports whether all six keys are in the vault. Computed from
// set membership rather than a counter so repeated or out-of-order
// insertion attempts stay correct.
func (gs *GameState) VaultOpen() bool {
	seen := make(map[int]bool, DoorCount)
	for _, k := range gs.KeysCollected {
		if k >= 1 && k <= DoorCount {
			seen[k] = true
		}
	}
	return len(seen) == DoorCount
}

// RemoveInventoryItem removes the item with the given id from inventory.
func (gs *GameState) RemoveInventoryItem(id string) {
	kept := gs.Inventory[:0]
	for _, item := range gs.Inventory {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	gs.Inventory = kept
}

// Validate checks the structural invariants of the state. It is called on
// every inbound snapshot before processing.
func (gs *GameState) Validate() error {
	if gs.PlayerLocation == "" {
		return fmt.Errorf("player_location is empty")
	}
	if gs.CurrentDoor < 0 || gs.CurrentDoor > DoorCount {
		return fmt.Errorf("current_door %d out of range 0-%d", gs.CurrentDoor, DoorCount)
	}
	if len(gs.KeysCollected) > DoorCount {
		return fmt.Errorf("keys_collected has %d entries, maximum is %d", len(gs.KeysCollected), DoorCount)
	}
	seen := make(map[int]bool, DoorCount)
	for _, k := range gs.KeysCollected {
		if k < 1 || k > DoorCount {
			return fmt.Errorf("keys_collected contains door number %d out of range 1-%d", k, DoorCount)
		}
		if seen[k] {
			return fmt.Errorf("keys_collected contains door number %d twice", k)
		}
		seen[k] = true
	}
	if _, ok := gs.VisitedLocations[gs.PlayerLocation]; !ok {
		return fmt.Errorf("player_location %q has no entry in visited_locations", gs.PlayerLocation)
	}
	return nil
}

// ToJSON serializes the state for transport to the client.
func (gs *GameState) ToJSON() ([]byte, error) {
	return json.Marshal(gs)
}

// FromJSON reconstructs a state from a client-supplied snapshot.
func FromJSON(data []byte) (*GameState, error) {
	var gs GameState
	if err := json.Unmarshal(data, &gs); err != nil {
		return nil, fmt.Errorf("failed to parse game state: %w", err)
	}
	if gs.VisitedLocations == nil {
		gs.VisitedLocations = make(map[string]LocationData)
	}
	return &gs, nil
}
