package state

import (
	"fmt"
	"strings"
)

// Item is an object the player can carry or find in a location. An item
// is owned by exactly one container at a time (a location's item list or
// the player's inventory); moving it is remove-then-append, never a copy.
type Item struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	IsKey       bool           `json:"is_key,omitempty"`
	DoorNumber  int            `json:"door_number,omitempty"` // set only when IsKey
	Properties  map[string]any `json:"properties,omitempty"`
}

// NewKeyItem builds the key item for a door world. obtainedAt records the
// location where the player earned it.
func NewKeyItem(doorNumber int, obtainedAt string) Item {
	return Item{
		ID:          fmt.Sprintf("key_%d", doorNumber),
		Name:        fmt.Sprintf("Key %d", doorNumber),
		Description: fmt.Sprintf("A mystical key from the world behind door %d. It glows with an otherworldly light.", doorNumber),
		IsKey:       true,
		DoorNumber:  doorNumber,
		Properties: map[string]any{
			"door_number": doorNumber,
			"obtained_at": obtainedAt,
		},
	}
}

// MatchesName reports whether query names this item, case-insensitively.
// An exact name match wins; otherwise substring containment in either
// direction counts, so "watch" matches "Giant Neon Swatch Watch".
func (i Item) MatchesName(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	name := strings.ToLower(i.Name)
	if q == "" {
		return false
	}
	if q == name {
		return true
	}
	if strings.Contains(name, q) || strings.Contains(q, name) {
		return true
	}
	for _, word := range strings.Fields(q) {
		if len(word) > 2 && strings.Contains(name, word) {
			return true
		}
	}
	return false
}
