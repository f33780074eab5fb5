package command

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/jwebster45206/nature42/pkg/state"
)

var numberWords = []string{"one", "two", "three", "four", "five", "six"}

// ExtractDoorNumber pulls a door number (1-6) out of a player phrase like
// "door 3" or "the third door spelled out as three". Returns 0 when no
// door number is present.
func ExtractDoorNumber(target string) int {
	lower := strings.ToLower(target)
	for n := 1; n <= state.DoorCount; n++ {
		if strings.Contains(target, strconv.Itoa(n)) || strings.Contains(lower, numberWords[n-1]) {
			return n
		}
	}
	return 0
}

// DoorHandlers executes the door and vault actions: opening a door world,
// earning its key, and inserting keys into the vault.
type DoorHandlers struct {
	gs     *state.GameState
	gen    Generator
	cache  *state.LocationCache
	logger *slog.Logger
}

func NewDoorHandlers(gs *state.GameState, gen Generator, cache *state.LocationCache, logger *slog.Logger) *DoorHandlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &DoorHandlers{gs: gs, gen: gen, cache: cache, logger: logger}
}

// HandleOpenDoor opens one of the six numbered doors and moves the player
// into that world. The entrance id is deterministic per door, so a world
// is generated at most once; reopening resolves to the cached entrance.
func (d *DoorHandlers) HandleOpenDoor(ctx context.Context, doorTarget string) ActionResult {
	n := ExtractDoorNumber(doorTarget)
	if n == 0 {
		return ActionResult{Success: false, Message: "Which door would you like to open? (1-6)"}
	}

	entranceID := state.DoorWorldEntranceID(n)

	if _, ok := d.cache.Get(entranceID); ok {
		return ActionResult{
			Success:     true,
			Message:     fmt.Sprintf("You open door %d and step through into the familiar world beyond.", n),
			NewLocation: entranceID,
			Changes:     StateChanges{CurrentDoor: intPtr(n)},
		}
	}

	location, err := d.gen.GenerateLocation(ctx, n, entranceID,
		state.RecentDecisionDescriptions(d.gs.DecisionHistory, recentDecisionLimit),
		len(d.gs.KeysCollected))
	if err != nil {
		d.logger.Error("door world generation failed", "door", n, "error", err)
		return ActionResult{
			Success: false,
			Message: "The door creaks open, but beyond it is only darkness. Try again.",
		}
	}

	location.ID = entranceID
	stored := d.cache.Put(location)
	d.gs.VisitedLocations[entranceID] = stored

	theme, ok := state.DoorWorldThemes[n]
	if !ok {
		theme = "a strange new world"
	}
	message := fmt.Sprintf("You open door %d and step through...\n\n%s\n\nYou've entered %s. Somewhere in this world lies the key you seek.",
		n, stored.Description, theme)

	return ActionResult{
		Success:     true,
		Message:     message,
		NewLocation: entranceID,
		Changes: StateChanges{
			CurrentDoor: intPtr(n),
			NewLocation: &stored,
			DoorNumber:  n,
		},
	}
}

// HandleRetrieveKey awards the key for door n and returns the player to
// the forest clearing. Earning a key always ends the visit to its world.
func (d *DoorHandlers) HandleRetrieveKey(n int) ActionResult {
	if d.gs.HasKeyForDoor(n) {
		return ActionResult{Success: false, Message: fmt.Sprintf("You already have the key from door %d.", n)}
	}
	if d.gs.KeyInserted(n) {
		return ActionResult{Success: false, Message: fmt.Sprintf("You've already collected and inserted the key from door %d.", n)}
	}

	key := state.NewKeyItem(n, d.gs.PlayerLocation)

	totalKeys := len(d.gs.HeldKeys()) + len(d.gs.KeysCollected) + 1
	remaining := state.DoorCount - totalKeys

	var b strings.Builder
	fmt.Fprintf(&b, "You've obtained the key from door %d!\n\n", n)
	fmt.Fprintf(&b, "The key materializes in your hand, pulsing with energy. You now have %d of %d keys.\n\n", totalKeys, state.DoorCount)
	b.WriteString("A brilliant flash of light surrounds you, and you feel yourself being pulled through space...\n\n")
	b.WriteString("You find yourself back in the forest clearing. The six doors stand before you, and the vault awaits in the center.")
	if remaining > 0 {
		fmt.Fprintf(&b, "\n\n%d %s remaining. You can insert this key into the vault now, or explore other doors to find more keys.",
			remaining, plural(remaining, "key", "keys"))
	} else {
		b.WriteString("\n\nYou have all six keys! Insert them into the vault to complete your quest.")
	}

	return ActionResult{
		Success:     true,
		Message:     b.String(),
		NewLocation: state.HubLocationID,
		ItemsAdded:  []state.Item{key},
		Changes: StateChanges{
			KeyRetrieved: n,
			CurrentDoor:  intPtr(0),
		},
	}
}

// HandleInsertKey puts every held, not-yet-inserted key into the vault in
// one batch. When the batch brings the vault's distinct key count to six,
// it opens and the game is complete.
func (d *DoorHandlers) HandleInsertKey() ActionResult {
	var toInsert []state.Item
	for _, item := range d.gs.HeldKeys() {
		if !d.gs.KeyInserted(item.DoorNumber) {
			toInsert = append(toInsert, item)
		}
	}
	if len(toInsert) == 0 {
		return ActionResult{Success: false, Message: "You don't have any keys to insert."}
	}

	doors := make([]int, 0, len(toInsert))
	for _, key := range toInsert {
		doors = append(doors, key.DoorNumber)
	}
	doors = sortedDoors(doors)

	var insertionText string
	if len(toInsert) == 1 {
		insertionText = fmt.Sprintf("You insert the key from door %d into the vault.", toInsert[0].DoorNumber)
	} else {
		labels := make([]string, len(doors))
		for idx, n := range doors {
			labels[idx] = fmt.Sprintf("#%d", n)
		}
		insertionText = fmt.Sprintf("You insert %d keys into the vault (doors %s).", len(toInsert), strings.Join(labels, ", "))
	}

	// Recompute the distinct set rather than trusting a running count.
	inserted := make(map[int]bool, state.DoorCount)
	for _, n := range d.gs.KeysCollected {
		inserted[n] = true
	}
	for _, n := range doors {
		inserted[n] = true
	}

	if len(inserted) == state.DoorCount {
		return ActionResult{
			Success:      true,
			Message:      insertionText + "\n\n" + state.VaultOpenedMessage,
			ItemsRemoved: toInsert,
			Changes: StateChanges{
				KeysInserted:  doors,
				VaultOpened:   true,
				GameCompleted: true,
			},
		}
	}

	remaining := state.DoorCount - len(inserted)
	return ActionResult{
		Success:      true,
		Message:      fmt.Sprintf("%s %d %s remaining.", insertionText, remaining, plural(remaining, "key", "keys")),
		ItemsRemoved: toInsert,
		Changes:      StateChanges{KeysInserted: doors},
	}
}

func plural(n int, singular, pluralForm string) string {
	if n == 1 {
		return singular
	}
	return pluralForm
}
