package command

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jwebster45206/nature42/pkg/state"
)

func TestValidator(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(gs *state.GameState)
		intent     Intent
		wantValid  bool
		wantReason string
	}{
		{
			name:       "move without target",
			intent:     Intent{Action: "move"},
			wantValid:  false,
			wantReason: "Where would you like to go? Try specifying a direction or exit.",
		},
		{
			name:      "move toward exit at clearing",
			intent:    Intent{Action: "move", Target: "door 1"},
			wantValid: true,
		},
		{
			name:       "back at clearing",
			intent:     Intent{Action: "move", Target: "back"},
			wantValid:  false,
			wantReason: "You're already in the forest clearing.",
		},
		{
			name: "back inside door world",
			setup: func(gs *state.GameState) {
				enterDoorWorld(gs, 2, state.LocationData{Description: "Shelves of books."})
			},
			intent:    Intent{Action: "move", Target: "back"},
			wantValid: true,
		},
		{
			name: "move with no exits",
			setup: func(gs *state.GameState) {
				enterDoorWorld(gs, 2, state.LocationData{Description: "A sealed chamber."})
			},
			intent:     Intent{Action: "move", Target: "north"},
			wantValid:  false,
			wantReason: "There don't appear to be any obvious exits from here. Try 'back' to return.",
		},
		{
			name:       "take with no items present",
			intent:     Intent{Action: "take", Target: "lantern"},
			wantValid:  false,
			wantReason: "There is no 'lantern' here. In fact, there don't appear to be any items in this location.",
		},
		{
			name:       "drop with empty inventory",
			intent:     Intent{Action: "drop", Target: "rope"},
			wantValid:  false,
			wantReason: "You don't have a 'rope'. Your inventory is empty.",
		},
		{
			name: "drop names carried items",
			setup: func(gs *state.GameState) {
				gs.Inventory = append(gs.Inventory, state.Item{ID: "lamp_1", Name: "Lava Lamp"})
			},
			intent:     Intent{Action: "drop", Target: "rope"},
			wantValid:  false,
			wantReason: "You don't have a 'rope'. You are carrying: Lava Lamp.",
		},
		{
			name: "drop with partial name",
			setup: func(gs *state.GameState) {
				gs.Inventory = append(gs.Inventory, state.Item{ID: "watch_1", Name: "Giant Neon Swatch Watch"})
			},
			intent:    Intent{Action: "drop", Target: "watch"},
			wantValid: true,
		},
		{
			name:       "use with empty inventory",
			intent:     Intent{Action: "use", Target: "lamp"},
			wantValid:  false,
			wantReason: "Your inventory is empty.",
		},
		{
			name:      "examine always valid",
			intent:    Intent{Action: "examine", Target: "vault"},
			wantValid: true,
		},
		{
			name:      "open door at clearing",
			intent:    Intent{Action: "open", Target: "door 4"},
			wantValid: true,
		},
		{
			name: "open door inside door world",
			setup: func(gs *state.GameState) {
				enterDoorWorld(gs, 5, state.LocationData{Description: "A stormy hill."})
			},
			intent:     Intent{Action: "open", Target: "door 2"},
			wantValid:  false,
			wantReason: "There are no doors to open here. The six numbered doors are in the forest clearing.",
		},
		{
			name:       "insert without keys",
			intent:     Intent{Action: "insert", Target: "key"},
			wantValid:  false,
			wantReason: "You don't have any keys to insert. Your inventory is empty.",
		},
		{
			name: "insert key away from vault",
			setup: func(gs *state.GameState) {
				enterDoorWorld(gs, 1, state.LocationData{Description: "A grove."})
				gs.Inventory = append(gs.Inventory, state.NewKeyItem(1, gs.PlayerLocation))
			},
			intent:     Intent{Action: "insert", Target: "key"},
			wantValid:  false,
			wantReason: "There's nowhere to insert a key here. The vault is in the forest clearing.",
		},
		{
			name:       "insert non-key",
			intent:     Intent{Action: "insert", Target: "banana"},
			wantValid:  false,
			wantReason: "You can't insert a 'banana' here.",
		},
		{
			name:       "talk with nobody around",
			intent:     Intent{Action: "talk", Target: "squirrel"},
			wantValid:  false,
			wantReason: "There's no one here to talk to.",
		},
		{
			name: "talk without target lists npcs",
			setup: func(gs *state.GameState) {
				enterDoorWorld(gs, 1, state.LocationData{
					Description: "A grove.",
					NPCs:        []string{"Thumper the Wise Rabbit"},
				})
			},
			intent:     Intent{Action: "talk"},
			wantValid:  false,
			wantReason: "Who would you like to talk to? NPCs here: Thumper the Wise Rabbit.",
		},
		{
			name:       "solve at clearing",
			intent:     Intent{Action: "solve", Target: "anything"},
			wantValid:  false,
			wantReason: "There's no challenge to solve here. The trials lie behind the six doors.",
		},
		{
			name:      "unknown action passes through",
			intent:    Intent{Action: "dance", Target: "gnome"},
			wantValid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gs := state.NewGameState()
			if tt.setup != nil {
				tt.setup(gs)
			}
			v := NewValidator(gs)

			result := v.Validate(tt.intent)
			assert.Equal(t, tt.wantValid, result.Valid)
			if tt.wantReason != "" {
				assert.Equal(t, tt.wantReason, result.Reason)
			}
		})
	}
}

func TestValidator_ContextCarriesAvailability(t *testing.T) {
	gs := state.NewGameState()
	enterDoorWorld(gs, 1, state.LocationData{
		Description: "A grove.",
		Exits:       []string{"winding path"},
		Items:       []state.Item{{ID: "stone_1", Name: "Glowing Stone"}},
		NPCs:        []string{"A peculiar squirrel"},
	})
	v := NewValidator(gs)

	result := v.Validate(Intent{Action: "move", Target: "path"})
	assert.Equal(t, []string{"winding path"}, result.Context.AvailableExits)

	result = v.Validate(Intent{Action: "take", Target: "stone"})
	assert.Equal(t, []string{"Glowing Stone"}, result.Context.AvailableItems)

	result = v.Validate(Intent{Action: "talk", Target: "squirrel"})
	assert.Equal(t, []string{"A peculiar squirrel"}, result.Context.AvailableNPCs)
}
