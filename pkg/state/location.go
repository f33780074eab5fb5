package state

import "time"

// LocationData is the cached content of a generated location. Once stored
// under an id it never changes, which is what keeps backtracking coherent:
// the same id always renders the same place.
type LocationData struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	Exits       []string  `json:"exits"` // presentation order, not a set
	Items       []Item    `json:"items"`
	NPCs        []string  `json:"npcs"`
	GeneratedAt time.Time `json:"generated_at"`
}

// FindItem returns the first item matching name, or nil.
func (l *LocationData) FindItem(name string) *Item {
	for idx := range l.Items {
		if l.Items[idx].MatchesName(name) {
			return &l.Items[idx]
		}
	}
	return nil
}

// ExitNames returns a copy of the exit list for use in prompts and
// player-facing feedback.
func (l *LocationData) ExitNames() []string {
	out := make([]string, len(l.Exits))
	copy(out, l.Exits)
	return out
}
