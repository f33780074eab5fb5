package command

import (
	"fmt"
	"strings"

	"github.com/jwebster45206/nature42/pkg/state"
)

// movementAliases are destinations that always mean "return to the
// clearing", regardless of the current location's exit list.
var movementAliases = map[string]bool{
	"back":            true,
	"return":          true,
	"clearing":        true,
	"forest clearing": true,
	"exit":            true,
}

// Validator checks parsed intents against the current game state before
// dispatch. Checks run in a fixed order: required target present, then
// location data available, then the action's own rules. Unknown actions
// pass through so creative commands reach the narrative collaborator.
type Validator struct {
	gs *state.GameState
}

func NewValidator(gs *state.GameState) *Validator {
	return &Validator{gs: gs}
}

// Validate returns a verdict with a player-facing reason that names what
// is actually available. Validation never mutates state.
func (v *Validator) Validate(intent Intent) ValidationResult {
	loc, hasLoc := v.gs.CurrentLocation()
	ctx := ValidationContext{
		Location:        v.gs.PlayerLocation,
		HasLocationData: hasLoc,
		CurrentDoor:     v.gs.CurrentDoor,
		KeysCollected:   len(v.gs.KeysCollected),
		InventoryCount:  len(v.gs.Inventory),
	}

	switch intent.Action {
	case "move":
		return v.validateMovement(intent.Target, loc, hasLoc, ctx)
	case "take":
		return v.validateTake(intent.Target, loc, hasLoc, ctx)
	case "drop":
		return v.validateDrop(intent.Target, ctx)
	case "use":
		return v.validateUse(intent.Target, ctx)
	case "examine":
		// Players can look at anything.
		return valid(ctx)
	case "inventory", "check_inventory", "view_inventory":
		return valid(ctx)
	case "open":
		return v.validateOpen(intent.Target, ctx)
	case "insert":
		return v.validateInsert(intent.Target, ctx)
	case "talk", "speak":
		return v.validateTalk(intent.Target, loc, hasLoc, ctx)
	case "hint", "help":
		return valid(ctx)
	case "solve", "answer":
		return v.validateSolve(ctx)
	}

	// Unrecognized actions are allowed; the narrative collaborator
	// decides what happens.
	return valid(ctx)
}

func valid(ctx ValidationContext) ValidationResult {
	return ValidationResult{Valid: true, Context: ctx}
}

func invalid(reason string, ctx ValidationContext) ValidationResult {
	return ValidationResult{Valid: false, Reason: reason, Context: ctx}
}

func (v *Validator) validateMovement(target string, loc state.LocationData, hasLoc bool, ctx ValidationContext) ValidationResult {
	if target == "" {
		return invalid("Where would you like to go? Try specifying a direction or exit.", ctx)
	}

	if movementAliases[strings.ToLower(target)] {
		if v.gs.CurrentDoor == 0 {
			return invalid("You're already in the forest clearing.", ctx)
		}
		return valid(ctx)
	}

	if !hasLoc {
		return invalid("You can't move from here right now. Try 'back' or 'return to clearing' to go back.", ctx)
	}
	if len(loc.Exits) == 0 {
		return invalid("There don't appear to be any obvious exits from here. Try 'back' to return.", ctx)
	}

	// Exits exist; semantic matching of the target happens at dispatch.
	ctx.AvailableExits = loc.ExitNames()
	return valid(ctx)
}

func (v *Validator) validateTake(target string, loc state.LocationData, hasLoc bool, ctx ValidationContext) ValidationResult {
	if target == "" {
		return invalid("What would you like to take? Try 'take [item name]'.", ctx)
	}
	if !hasLoc {
		return invalid("You look around but don't see anything to take here.", ctx)
	}
	if len(loc.Items) == 0 {
		return invalid(fmt.Sprintf("There is no '%s' here. In fact, there don't appear to be any items in this location.", target), ctx)
	}
	for _, item := range loc.Items {
		ctx.AvailableItems = append(ctx.AvailableItems, item.Name)
	}
	return valid(ctx)
}

func (v *Validator) validateDrop(target string, ctx ValidationContext) ValidationResult {
	if target == "" {
		return invalid("What would you like to drop? Try 'drop [item name]'.", ctx)
	}
	if v.gs.FindInventoryItem(target) == nil {
		if len(v.gs.Inventory) > 0 {
			return invalid(fmt.Sprintf("You don't have a '%s'. You are carrying: %s.", target, inventoryNames(v.gs)), ctx)
		}
		return invalid(fmt.Sprintf("You don't have a '%s'. Your inventory is empty.", target), ctx)
	}
	return valid(ctx)
}

func (v *Validator) validateUse(target string, ctx ValidationContext) ValidationResult {
	if target == "" {
		return invalid("What would you like to use? Try 'use [item name]'.", ctx)
	}
	if len(v.gs.Inventory) == 0 {
		return invalid("Your inventory is empty.", ctx)
	}
	// Semantic item matching happens at dispatch.
	return valid(ctx)
}

func (v *Validator) validateOpen(target string, ctx ValidationContext) ValidationResult {
	if target == "" {
		return invalid("What would you like to open? Try 'open [object]'.", ctx)
	}
	if strings.Contains(strings.ToLower(target), "door") {
		if v.gs.AtHub() {
			return valid(ctx)
		}
		return invalid("There are no doors to open here. The six numbered doors are in the forest clearing.", ctx)
	}
	// Opening anything else goes to generic narration.
	return valid(ctx)
}

func (v *Validator) validateInsert(target string, ctx ValidationContext) ValidationResult {
	if target == "" {
		return invalid("What would you like to insert? Try 'insert key' or 'insert key into vault'.", ctx)
	}
	if strings.Contains(strings.ToLower(target), "key") {
		if len(v.gs.HeldKeys()) == 0 {
			if len(v.gs.Inventory) > 0 {
				return invalid(fmt.Sprintf("You don't have any keys to insert. You are carrying: %s.", inventoryNames(v.gs)), ctx)
			}
			return invalid("You don't have any keys to insert. Your inventory is empty.", ctx)
		}
		if !v.gs.AtHub() {
			return invalid("There's nowhere to insert a key here. The vault is in the forest clearing.", ctx)
		}
		return valid(ctx)
	}
	return invalid(fmt.Sprintf("You can't insert a '%s' here.", target), ctx)
}

func (v *Validator) validateTalk(target string, loc state.LocationData, hasLoc bool, ctx ValidationContext) ValidationResult {
	if !hasLoc || len(loc.NPCs) == 0 {
		return invalid("There's no one here to talk to.", ctx)
	}
	if target == "" {
		return invalid(fmt.Sprintf("Who would you like to talk to? NPCs here: %s.", strings.Join(loc.NPCs, ", ")), ctx)
	}
	ctx.AvailableNPCs = append([]string(nil), loc.NPCs...)
	return valid(ctx)
}

func (v *Validator) validateSolve(ctx ValidationContext) ValidationResult {
	if v.gs.CurrentDoor == 0 {
		return invalid("There's no challenge to solve here. The trials lie behind the six doors.", ctx)
	}
	return valid(ctx)
}

func inventoryNames(gs *state.GameState) string {
	names := make([]string, 0, len(gs.Inventory))
	for _, item := range gs.Inventory {
		names = append(names, item.Name)
	}
	return strings.Join(names, ", ")
}
