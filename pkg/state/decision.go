package state

import "time"

// Decision is an immutable record of a significant player choice. Records
// are appended to GameState.DecisionHistory and never edited or removed;
// recent decisions are fed back into generation prompts so new content
// reflects past choices.
type Decision struct {
	Timestamp    time.Time `json:"timestamp"`
	LocationID   string    `json:"location_id"`
	Description  string    `json:"description"`
	Consequences []string  `json:"consequences"`
}

// RecentDecisionDescriptions returns the descriptions of the most recent
// decisions, newest last, truncated to limit. Used to build generation
// prompt context without handing the collaborator the whole history.
func RecentDecisionDescriptions(history []Decision, limit int) []string {
	if limit <= 0 || len(history) == 0 {
		return nil
	}
	start := 0
	if len(history) > limit {
		start = len(history) - limit
	}
	out := make([]string, 0, len(history)-start)
	for _, d := range history[start:] {
		out = append(out, d.Description)
	}
	return out
}
