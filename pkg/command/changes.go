package command

import (
	"fmt"
	"sort"
	"time"

	"github.com/jwebster45206/nature42/pkg/state"
)

// StateChanges is the typed delta set produced by one command. Every
// field names a specific mutation; a zero field means "unchanged". The
// client merges these into its held snapshot, and ApplyTo performs the
// same merge server-side for callers that keep a state in hand.
type StateChanges struct {
	// PlayerLocation is the id the player moved to, empty if they stayed.
	PlayerLocation string `json:"player_location,omitempty"`

	// CurrentDoor distinguishes "unchanged" (nil) from "returned to the
	// clearing" (pointer to 0).
	CurrentDoor *int `json:"current_door,omitempty"`

	ItemsAdded   []state.Item `json:"items_added,omitempty"`
	ItemsRemoved []state.Item `json:"items_removed,omitempty"`

	// NewLocation is a freshly generated location the client must add to
	// its visited set before applying PlayerLocation.
	NewLocation *state.LocationData `json:"new_location,omitempty"`

	// Decision is the record appended to history when the turn was
	// significant.
	Decision *state.Decision `json:"decision,omitempty"`

	// KeysInserted lists the door numbers whose keys went into the vault
	// this turn, ascending.
	KeysInserted []int `json:"keys_inserted,omitempty"`

	// Significance markers. DoorNumber is the door entered this turn;
	// KeyRetrieved is the door whose key was just earned.
	DoorNumber          int  `json:"door_number,omitempty"`
	KeyRetrieved        int  `json:"key_retrieved,omitempty"`
	PuzzleSolved        bool `json:"puzzle_solved,omitempty"`
	NPCMajorInteraction bool `json:"npc_major_interaction,omitempty"`
	VaultOpened         bool `json:"vault_opened,omitempty"`
	GameCompleted       bool `json:"game_completed,omitempty"`

	ItemTaken string `json:"item_taken,omitempty"`
	ItemUsed  string `json:"item_used,omitempty"`
}

// IsEmpty reports whether the turn changed nothing.
func (sc *StateChanges) IsEmpty() bool {
	return sc.PlayerLocation == "" &&
		sc.CurrentDoor == nil &&
		len(sc.ItemsAdded) == 0 &&
		len(sc.ItemsRemoved) == 0 &&
		sc.NewLocation == nil &&
		sc.Decision == nil &&
		len(sc.KeysInserted) == 0 &&
		!sc.HasSignificanceMarker() &&
		sc.ItemTaken == "" &&
		sc.ItemUsed == ""
}

// HasSignificanceMarker reports whether the turn carries one of the
// markers that make it worth a decision record.
func (sc *StateChanges) HasSignificanceMarker() bool {
	return sc.DoorNumber != 0 ||
		sc.KeyRetrieved != 0 ||
		sc.PuzzleSolved ||
		sc.NPCMajorInteraction ||
		sc.VaultOpened ||
		sc.GameCompleted
}

// ApplyTo merges the delta set into gs, in dependency order: new location
// content lands in the visited set before the player's position moves
// there, and item removals resolve before additions so a turn can never
// leave an item owned by two containers.
func (sc *StateChanges) ApplyTo(gs *state.GameState) error {
	if sc.NewLocation != nil {
		// Never overwrite previously generated content for the same id.
		if _, ok := gs.VisitedLocations[sc.NewLocation.ID]; !ok {
			gs.VisitedLocations[sc.NewLocation.ID] = *sc.NewLocation
		}
	}

	for _, item := range sc.ItemsRemoved {
		gs.RemoveInventoryItem(item.ID)
		if len(sc.KeysInserted) == 0 {
			// Dropped, not consumed: the item lands in the player's
			// current location.
			if loc, ok := gs.VisitedLocations[gs.PlayerLocation]; ok {
				loc.Items = append(loc.Items, item)
				gs.VisitedLocations[gs.PlayerLocation] = loc
			}
		}
	}

	for _, item := range sc.ItemsAdded {
		if loc, ok := gs.VisitedLocations[gs.PlayerLocation]; ok {
			kept := loc.Items[:0]
			for _, li := range loc.Items {
				if li.ID != item.ID {
					kept = append(kept, li)
				}
			}
			loc.Items = kept
			gs.VisitedLocations[gs.PlayerLocation] = loc
		}
		gs.Inventory = append(gs.Inventory, item)
	}

	for _, n := range sc.KeysInserted {
		if err := gs.InsertKey(n); err != nil {
			return fmt.Errorf("applying key insertion: %w", err)
		}
	}

	if sc.PlayerLocation != "" {
		gs.PlayerLocation = sc.PlayerLocation
	}
	if sc.CurrentDoor != nil {
		gs.CurrentDoor = *sc.CurrentDoor
	}
	if sc.Decision != nil {
		gs.DecisionHistory = append(gs.DecisionHistory, *sc.Decision)
	}
	gs.LastUpdated = time.Now().UTC()
	return nil
}

func sortedDoors(doors []int) []int {
	out := make([]int, len(doors))
	copy(out, doors)
	sort.Ints(out)
	return out
}

func intPtr(n int) *int { return &n }
