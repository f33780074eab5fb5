package state

import (
	"fmt"
	"time"
)

// HubLocationID is the id of the forest clearing, the starting location
// and the only departure point for the six door worlds.
const HubLocationID = "forest_clearing"

const hubDescription = `You stand in a twilight forest clearing, where ancient trees form a perfect circle around you. The air is thick with mystery and possibility.

Before you stand six wooden doors, each marked with a number from 1 to 6. They're arranged in a semicircle, each door unique in its weathering and character. Despite being freestanding with no walls around them, they somehow feel solid and real.

In the center of the clearing sits a stone vault, about waist-high. Its surface is covered in intricate carvings that seem to shift in the fading light. Engraved across the top in elegant script are the words: "The Ultimate Question"

The vault has six keyholes arranged in a circle on its face, each numbered to correspond with one of the doors. The keyholes are empty, waiting.

The forest around you is quiet, expectant. Your quest begins here.`

// VaultOpenedMessage is the fixed closing text emitted when the sixth key
// goes into the vault.
const VaultOpenedMessage = `The vault glows with a soft light as all six keys align. With a satisfying click, the door swings open, revealing a single piece of parchment inside.

You carefully unfold it and read:

"If, instead of hunting for one giant, dramatic "purpose," you decided that a good human life is just a repeating pattern of six tiny daily habits—one moment of kindness, one of curiosity, one of courage, one of gratitude, one of play, and one of real, guilt-free rest—and you deliberately did each of those every single day of the week as your quiet offering to life, the universe, and everyone stuck on this spinning rock with you, then how many small, conscious choices would you be making in a week before the cosmos had to admit that, actually, you're doing a pretty excellent job of being alive?"

Congratulations! You've completed Nature42 and discovered the meaning of 42.`

var doorDescriptions = map[int]string{
	1: "A weathered oak door with brass fittings. It looks sturdy and inviting.",
	2: "An ornate door carved with intricate patterns. It seems to shimmer slightly.",
	3: "A dark wooden door with iron bands. It has an ominous yet intriguing presence.",
	4: "A painted door with faded colors. It looks like it's seen many travelers.",
	5: "A tall door made of pale wood. It stands elegant and mysterious.",
	6: "An ancient door covered in moss and vines. It radiates an aura of deep secrets.",
}

// DoorWorldThemes gives each door world its flavor line, used when the
// player first steps through.
var DoorWorldThemes = map[int]string{
	1: "a mystical forest realm",
	2: "an ancient library filled with forgotten knowledge",
	3: "a twilight carnival with mysterious attractions",
	4: "a steampunk city floating in the clouds",
	5: "a haunted mansion on a stormy hill",
	6: "a cosmic observatory at the edge of reality",
}

// NewForestClearing builds the static hub location. It is identical
// across all playthroughs and never regenerated.
func NewForestClearing() LocationData {
	return LocationData{
		ID:          HubLocationID,
		Description: hubDescription,
		Exits:       []string{"door 1", "door 2", "door 3", "door 4", "door 5", "door 6"},
		Items:       []Item{},
		NPCs:        []string{},
		GeneratedAt: time.Now().UTC(),
	}
}

// DoorWorldEntranceID is the deterministic location id for the entrance
// of door n's world. Reopening a door always resolves to the same id, so
// a generated world is only ever generated once.
func DoorWorldEntranceID(n int) string {
	return fmt.Sprintf("door_%d_entrance", n)
}

// VaultDescription describes the vault for the current number of
// inserted keys.
func VaultDescription(keysCollected int) string {
	switch {
	case keysCollected <= 0:
		return `The stone vault sits in the center of the clearing, its surface covered in mysterious carvings. Engraved across the top are the words: "The Ultimate Question"

Six empty keyholes are arranged in a circle on the vault's face, numbered 1 through 6. The vault is locked tight, waiting for all six keys.`
	case keysCollected < DoorCount:
		remaining := DoorCount - keysCollected
		return fmt.Sprintf(`The stone vault sits in the center of the clearing, its surface covered in mysterious carvings. Engraved across the top are the words: "The Ultimate Question"

%d %s glow softly in their keyholes, while %d %s remain empty. The vault is still locked, waiting for all six keys.`,
			keysCollected, plural(keysCollected, "key", "keys"),
			remaining, plural(remaining, "keyhole", "keyholes"))
	default:
		return `The stone vault sits in the center of the clearing, all six keys glowing brilliantly in their keyholes. The vault is open, revealing the parchment inside with its philosophical message about the meaning of 42.

Your quest is complete.`
	}
}

// DoorDescription describes door n, noting when its key has already been
// retrieved.
func DoorDescription(n int, hasKey bool) string {
	desc, ok := doorDescriptions[n]
	if !ok {
		desc = fmt.Sprintf("Door %d stands before you.", n)
	}
	if hasKey {
		desc += "\n\nYou've already retrieved the key from the world behind this door."
	}
	return desc
}

func plural(n int, singular, pluralForm string) string {
	if n == 1 {
		return singular
	}
	return pluralForm
}
