package command

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jwebster45206/nature42/pkg/state"
)

const helpMessage = `Here are some things you can do:

- LOOK AROUND - Examine your surroundings
- EXAMINE [object] - Look at something closely (e.g., "examine vault", "examine door 1")
- OPEN DOOR [number] - Open one of the six doors (1-6)
- GO [direction] - Move in a direction or through an exit
- TAKE [item] - Pick up an item
- USE [item] - Use an item from your inventory
- INVENTORY - Check what you're carrying
- INSERT KEY - Insert a key into the vault
- HINT - Ask for a hint if you're stuck

You can use natural language - the game understands various phrasings!

Your goal: Collect all six keys from the six door worlds and unlock the vault.`

const fallbackHint = "Try examining objects around you, talking to NPCs, or exploring different areas. The key is hidden somewhere in this world!"

// recentDecisionLimit caps how much history feeds generation prompts.
const recentDecisionLimit = 3

// ActionHandlers executes the basic player actions: movement, items,
// examination, conversation, and narration fallthrough. Generation goes
// through the narrative collaborator; every collaborator failure falls
// back to fixed prose so a turn always produces a message.
type ActionHandlers struct {
	gs     *state.GameState
	gen    Generator
	cache  *state.LocationCache
	doors  *DoorHandlers
	logger *slog.Logger
}

func NewActionHandlers(gs *state.GameState, gen Generator, cache *state.LocationCache, doors *DoorHandlers, logger *slog.Logger) *ActionHandlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &ActionHandlers{gs: gs, gen: gen, cache: cache, doors: doors, logger: logger}
}

// HandleMovement moves the player through an exit, generating the
// destination on first visit. The generated location is cached and added
// to the visited set before the move is reported, so a failed generation
// can never leave the player pointing at a location that doesn't exist.
func (h *ActionHandlers) HandleMovement(ctx context.Context, direction string) ActionResult {
	if movementAliases[strings.ToLower(direction)] {
		if h.gs.CurrentDoor == 0 {
			return ActionResult{Success: false, Message: "You're already in the forest clearing."}
		}
		return ActionResult{
			Success:     true,
			Message:     "You step back through the door and return to the forest clearing. The six doors and central vault stand before you once more.",
			NewLocation: state.HubLocationID,
			Changes:     StateChanges{CurrentDoor: intPtr(0)},
		}
	}

	loc, ok := h.currentLocation()
	if !ok {
		return ActionResult{Success: false, Message: "You can't move from here right now."}
	}

	matched := h.matchExit(ctx, direction, loc.Exits)
	if matched == "" {
		available := "none"
		if len(loc.Exits) > 0 {
			available = strings.Join(loc.Exits, ", ")
		}
		return ActionResult{
			Success: false,
			Message: fmt.Sprintf("You can't go '%s' from here. Available exits: %s.", direction, available),
		}
	}

	newID := h.gs.PlayerLocation + "_" + normalizeID(matched)

	if cached, ok := h.cache.Get(newID); ok {
		return ActionResult{
			Success:     true,
			Message:     fmt.Sprintf("You move toward %s.\n\n%s", matched, cached.Description),
			NewLocation: newID,
		}
	}

	door := h.gs.CurrentDoor
	if door == 0 {
		door = 1
	}
	generated, err := h.gen.GenerateLocation(ctx, door, newID,
		state.RecentDecisionDescriptions(h.gs.DecisionHistory, recentDecisionLimit),
		len(h.gs.KeysCollected))
	if err != nil {
		h.logger.Error("location generation failed", "location_id", newID, "error", err)
		// Player stays put; moving them now would strand them in a
		// location with no data.
		return ActionResult{
			Success: false,
			Message: fmt.Sprintf("You try to move toward %s, but the path seems blocked. Try again or explore other directions.", matched),
		}
	}

	generated.ID = newID
	stored := h.cache.Put(generated)
	h.gs.VisitedLocations[newID] = stored

	return ActionResult{
		Success:     true,
		Message:     fmt.Sprintf("You move toward %s.\n\n%s", matched, stored.Description),
		NewLocation: newID,
		Changes:     StateChanges{NewLocation: &stored},
	}
}

// matchExit resolves the player's phrasing to an exit name: exact match
// first, then the collaborator, then plain substring matching if the
// collaborator is unavailable.
func (h *ActionHandlers) matchExit(ctx context.Context, phrase string, exits []string) string {
	for _, name := range exits {
		if strings.EqualFold(phrase, name) {
			return name
		}
	}

	matched, err := h.gen.MatchExit(ctx, phrase, exits)
	if err == nil {
		for _, name := range exits {
			if strings.EqualFold(matched, name) {
				return name
			}
		}
		if matched != "" {
			lower := strings.ToLower(matched)
			for _, name := range exits {
				exitLower := strings.ToLower(name)
				if strings.Contains(exitLower, lower) || strings.Contains(lower, exitLower) {
					return name
				}
			}
		}
		return ""
	}

	h.logger.Warn("exit matching degraded to substring", "error", err)
	for _, name := range exits {
		if strings.Contains(strings.ToLower(name), strings.ToLower(phrase)) {
			return name
		}
	}
	return ""
}

// HandleTake picks up an item. Items in the structured list move
// directly; objects that only appear in the prose go to the collaborator
// for a plausibility ruling. Taking a key routes to key retrieval.
func (h *ActionHandlers) HandleTake(ctx context.Context, itemName string) ActionResult {
	loc, ok := h.currentLocation()
	if !ok {
		return ActionResult{Success: false, Message: "You can't take anything here."}
	}

	if item := loc.FindItem(itemName); item != nil {
		if item.IsKey && item.DoorNumber > 0 {
			return h.doors.HandleRetrieveKey(item.DoorNumber)
		}
		return ActionResult{
			Success:    true,
			Message:    fmt.Sprintf("You take the %s.", item.Name),
			ItemsAdded: []state.Item{*item},
			Changes:    StateChanges{ItemTaken: item.ID},
		}
	}

	res, err := h.gen.ResolveItem(ctx, loc.Description, itemName)
	if err != nil {
		h.logger.Warn("item resolution failed", "item", itemName, "error", err)
		return ActionResult{Success: false, Message: fmt.Sprintf("There is no %s here.", itemName)}
	}
	if !res.CanTake {
		msg := res.Message
		if msg == "" {
			msg = fmt.Sprintf("There is no %s here.", itemName)
		}
		return ActionResult{Success: false, Message: msg}
	}

	if res.IsKey && h.gs.CurrentDoor > 0 {
		return h.doors.HandleRetrieveKey(h.gs.CurrentDoor)
	}

	name := res.ItemName
	if name == "" {
		name = itemName
	}
	desc := res.Description
	if desc == "" {
		desc = fmt.Sprintf("A %s you found", itemName)
	}
	newItem := state.Item{
		ID:          fmt.Sprintf("%s_%d", normalizeID(itemName), h.gs.CurrentDoor),
		Name:        name,
		Description: desc,
	}
	msg := res.Message
	if msg == "" {
		msg = fmt.Sprintf("You take the %s.", newItem.Name)
	}
	return ActionResult{
		Success:    true,
		Message:    msg,
		ItemsAdded: []state.Item{newItem},
		Changes:    StateChanges{ItemTaken: newItem.ID},
	}
}

// HandleDrop removes an item from inventory and leaves it in the current
// location.
func (h *ActionHandlers) HandleDrop(itemName string) ActionResult {
	if len(h.gs.Inventory) == 0 {
		return ActionResult{Success: false, Message: "Your inventory is empty."}
	}
	item := h.gs.FindInventoryItem(itemName)
	if item == nil {
		return ActionResult{
			Success: false,
			Message: fmt.Sprintf("You don't have a '%s'. You are carrying: %s.", itemName, inventoryNames(h.gs)),
		}
	}
	return ActionResult{
		Success:      true,
		Message:      fmt.Sprintf("You drop the %s.", item.Name),
		ItemsRemoved: []state.Item{*item},
	}
}

// HandleUse applies an inventory item. Keys are never usable directly;
// the player is pointed at the vault instead.
func (h *ActionHandlers) HandleUse(ctx context.Context, itemName string) ActionResult {
	if len(h.gs.Inventory) == 0 {
		return ActionResult{Success: false, Message: "Your inventory is empty."}
	}
	item := h.gs.FindInventoryItem(itemName)
	if item == nil {
		return ActionResult{
			Success: false,
			Message: fmt.Sprintf("You don't have a '%s'. You are carrying: %s.", itemName, inventoryNames(h.gs)),
		}
	}

	if item.IsKey {
		return ActionResult{
			Success: false,
			Message: fmt.Sprintf("The %s thrums in your hand, but it has only one purpose. Try 'insert key' at the vault in the forest clearing.", item.Name),
		}
	}

	if usage, ok := item.Properties["usage_context"].(string); ok && usage != "" {
		return ActionResult{
			Success: true,
			Message: fmt.Sprintf("You use the %s. %s", item.Name, usage),
			Changes: StateChanges{ItemUsed: item.Name},
		}
	}

	loc, _ := h.currentLocation()
	narrated, err := h.gen.Narrate(ctx, NarrationRequest{
		Instruction:         fmt.Sprintf("The player uses the %s. Describe what happens in this context.", item.Name),
		LocationDescription: loc.Description,
		Inventory:           h.gs.Inventory,
		KeysCollected:       len(h.gs.KeysCollected),
		CurrentDoor:         h.gs.CurrentDoor,
		RecentDecisions:     state.RecentDecisionDescriptions(h.gs.DecisionHistory, recentDecisionLimit),
	})
	if err != nil {
		h.logger.Warn("use narration failed", "item", item.Name, "error", err)
		return ActionResult{
			Success: true,
			Message: fmt.Sprintf("You fiddle with the %s, but nothing happens.", item.Name),
			Changes: StateChanges{ItemUsed: item.Name},
		}
	}
	return ActionResult{
		Success: true,
		Message: narrated,
		Changes: StateChanges{ItemUsed: item.Name},
	}
}

// HandleInventory lists carried items.
func (h *ActionHandlers) HandleInventory() ActionResult {
	if len(h.gs.Inventory) == 0 {
		return ActionResult{Success: true, Message: "Your inventory is empty."}
	}
	var b strings.Builder
	b.WriteString("You are carrying:\n")
	for idx, item := range h.gs.Inventory {
		if idx > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "- %s: %s", item.Name, item.Description)
	}
	return ActionResult{Success: true, Message: b.String()}
}

// HandleExamine describes a target. The vault and the numbered doors
// have fixed descriptions keyed to progress; everything else is narrated.
func (h *ActionHandlers) HandleExamine(ctx context.Context, target string) ActionResult {
	loc, ok := h.currentLocation()
	if !ok {
		return ActionResult{Success: true, Message: "You look around but see nothing special."}
	}

	lower := strings.ToLower(target)
	if target == "" || lower == "area" || lower == "room" || lower == "surroundings" || lower == "location" || lower == "here" {
		return ActionResult{Success: true, Message: loc.Description}
	}

	if strings.Contains(lower, "vault") {
		if h.gs.AtHub() {
			return ActionResult{Success: true, Message: state.VaultDescription(len(h.gs.KeysCollected))}
		}
		return ActionResult{Success: true, Message: "There's no vault here. The vault is in the forest clearing."}
	}

	if strings.Contains(lower, "door") {
		if !h.gs.AtHub() {
			return ActionResult{Success: true, Message: "There are no numbered doors here. The six doors are in the forest clearing."}
		}
		n := ExtractDoorNumber(target)
		if n == 0 {
			return ActionResult{Success: true, Message: "Which door would you like to examine? (1-6)"}
		}
		return ActionResult{Success: true, Message: state.DoorDescription(n, h.gs.KeyInserted(n))}
	}

	narrated, err := h.gen.Narrate(ctx, NarrationRequest{
		Instruction:         fmt.Sprintf("The player examines: %s. Be descriptive, and hint if the object matters for finding the key.", target),
		LocationDescription: loc.Description,
		Inventory:           h.gs.Inventory,
		KeysCollected:       len(h.gs.KeysCollected),
		CurrentDoor:         h.gs.CurrentDoor,
	})
	if err != nil {
		h.logger.Warn("examine narration failed", "target", target, "error", err)
		return ActionResult{Success: true, Message: fmt.Sprintf("You examine the %s. It looks interesting.", target)}
	}
	return ActionResult{Success: true, Message: narrated}
}

// HandleHelp returns the fixed command reference.
func (h *ActionHandlers) HandleHelp() ActionResult {
	return ActionResult{Success: true, Message: helpMessage}
}

// HandleHint asks the collaborator for a progress hint grounded in the
// current location and recent decisions.
func (h *ActionHandlers) HandleHint(ctx context.Context) ActionResult {
	loc, _ := h.currentLocation()
	narrated, err := h.gen.Narrate(ctx, NarrationRequest{
		Instruction:         "Give the player a hint: acknowledge what they've done, suggest a concrete next step, and don't spoil the solution. Two or three sentences.",
		LocationDescription: loc.Description,
		Inventory:           h.gs.Inventory,
		KeysCollected:       len(h.gs.KeysCollected),
		CurrentDoor:         h.gs.CurrentDoor,
		RecentDecisions:     state.RecentDecisionDescriptions(h.gs.DecisionHistory, recentDecisionLimit),
	})
	if err != nil {
		h.logger.Warn("hint narration failed", "error", err)
		return ActionResult{Success: true, Message: fallbackHint}
	}
	return ActionResult{Success: true, Message: narrated}
}

// HandleTalk resolves the NPC the player means and generates dialogue.
func (h *ActionHandlers) HandleTalk(ctx context.Context, npcTarget string) ActionResult {
	loc, ok := h.currentLocation()
	if !ok || len(loc.NPCs) == 0 {
		return ActionResult{Success: false, Message: "There's no one here to talk to."}
	}

	matched := h.matchNPC(ctx, npcTarget, loc.NPCs)
	if matched == "" {
		return ActionResult{
			Success: false,
			Message: fmt.Sprintf("You don't see '%s' here. You could talk to: %s.", npcTarget, strings.Join(loc.NPCs, ", ")),
		}
	}

	dialogue, err := h.gen.GenerateDialogue(ctx,
		fmt.Sprintf("%s, in this location: %s", matched, loc.Description),
		npcTarget,
		state.RecentDecisionDescriptions(h.gs.DecisionHistory, recentDecisionLimit))
	if err != nil {
		h.logger.Warn("dialogue generation failed", "npc", matched, "error", err)
		return ActionResult{
			Success: true,
			Message: fmt.Sprintf("You try to talk to %s, but they seem preoccupied at the moment.", matched),
		}
	}
	return ActionResult{Success: true, Message: dialogue}
}

func (h *ActionHandlers) matchNPC(ctx context.Context, phrase string, npcs []string) string {
	for _, name := range npcs {
		if strings.EqualFold(phrase, name) {
			return name
		}
	}

	matched, err := h.gen.MatchNPC(ctx, phrase, npcs)
	if err == nil {
		for _, name := range npcs {
			if strings.EqualFold(matched, name) {
				return name
			}
		}
		if matched != "" {
			lower := strings.ToLower(matched)
			for _, name := range npcs {
				npcLower := strings.ToLower(name)
				if strings.Contains(npcLower, lower) || strings.Contains(lower, npcLower) {
					return name
				}
			}
		}
		return ""
	}

	h.logger.Warn("npc matching degraded to word match", "error", err)
	for _, name := range npcs {
		npcLower := strings.ToLower(name)
		for _, word := range strings.Fields(strings.ToLower(phrase)) {
			if len(word) > 2 && strings.Contains(npcLower, word) {
				return name
			}
		}
	}
	return ""
}

// HandleSolve runs the puzzle flow for the current door world. With no
// attempt text the collaborator poses a challenge; with one, it judges
// the attempt, and success earns the door's key.
func (h *ActionHandlers) HandleSolve(ctx context.Context, attempt string) ActionResult {
	door := h.gs.CurrentDoor
	diff, err := state.DifficultyFor(door)
	if err != nil {
		return ActionResult{Success: false, Message: "There's no challenge to solve here."}
	}
	loc, _ := h.currentLocation()

	if attempt == "" {
		puzzle, err := h.gen.GeneratePuzzle(ctx, diff.PuzzleComplexity, state.DoorWorldThemes[door], diff.RequiredVirtues)
		if err != nil {
			h.logger.Warn("puzzle generation failed", "door", door, "error", err)
			return ActionResult{Success: true, Message: "The world itself seems to be the puzzle. Explore, and the challenge will reveal itself."}
		}
		return ActionResult{Success: true, Message: puzzle.Description}
	}

	eval, err := h.gen.EvaluateSolution(ctx, loc.Description, attempt, diff.RequiredVirtues)
	if err != nil {
		h.logger.Warn("solution evaluation failed", "door", door, "error", err)
		return ActionResult{Success: false, Message: "Nothing happens. Perhaps the approach needs more thought."}
	}
	if !eval.Success {
		msg := eval.Feedback
		if msg == "" {
			msg = "That doesn't seem to be it. Keep trying."
		}
		return ActionResult{Success: false, Message: msg}
	}

	retrieval := h.doors.HandleRetrieveKey(door)
	if !retrieval.Success {
		return ActionResult{Success: true, Message: eval.Feedback + "\n\n" + retrieval.Message}
	}
	retrieval.Changes.PuzzleSolved = true
	if eval.Feedback != "" {
		retrieval.Message = eval.Feedback + "\n\n" + retrieval.Message
	}
	return retrieval
}

// HandleGeneric narrates any unrecognized action so creative commands
// get a contextual response instead of a parser error.
func (h *ActionHandlers) HandleGeneric(ctx context.Context, action, target string) ActionResult {
	subject := target
	if subject == "" {
		subject = "something"
	}

	loc, ok := h.currentLocation()
	if !ok {
		return ActionResult{Success: true, Message: fmt.Sprintf("You try to %s %s, but nothing happens.", action, subject)}
	}

	narrated, err := h.gen.Narrate(ctx, NarrationRequest{
		Instruction:         fmt.Sprintf("The player tries to: %s %s. Respond creatively and in context; if it could progress the quest, say how. If it makes no sense, explain gently.", action, target),
		LocationDescription: loc.Description,
		Inventory:           h.gs.Inventory,
		KeysCollected:       len(h.gs.KeysCollected),
		CurrentDoor:         h.gs.CurrentDoor,
		RecentDecisions:     state.RecentDecisionDescriptions(h.gs.DecisionHistory, recentDecisionLimit),
	})
	if err != nil {
		h.logger.Warn("generic narration failed", "action", action, "error", err)
		return ActionResult{Success: true, Message: fmt.Sprintf("You try to %s %s, but nothing happens.", action, subject)}
	}
	return ActionResult{Success: true, Message: narrated}
}

func (h *ActionHandlers) currentLocation() (state.LocationData, bool) {
	if loc, ok := h.cache.Get(h.gs.PlayerLocation); ok {
		return loc, true
	}
	return h.gs.CurrentLocation()
}

func normalizeID(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "_")
}
