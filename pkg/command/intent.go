package command

import (
	"context"

	"github.com/jwebster45206/nature42/pkg/chat"
)

// Intent is the structured form of a player command. Action is an open
// vocabulary: the engine special-cases the verbs it knows and routes
// everything else to generic narration, so creative commands are never
// rejected outright.
type Intent struct {
	Action        string   `json:"action"`
	Target        string   `json:"target,omitempty"`
	Ambiguous     bool     `json:"is_ambiguous,omitempty"`
	Invalid       bool     `json:"is_invalid,omitempty"`
	Clarification string   `json:"clarification_needed,omitempty"`
	Suggestions   []string `json:"suggestions,omitempty"`
}

// FallbackSuggestions are offered when a command can't be parsed at all.
var FallbackSuggestions = []string{
	"try 'go [direction]'",
	"try 'examine [object]'",
	"try 'take [item]'",
}

// FallbackIntent is the deterministic result when the parsing service is
// unreachable or returns garbage. It degrades, never fails.
func FallbackIntent() Intent {
	return Intent{
		Action:      "unknown",
		Invalid:     true,
		Suggestions: FallbackSuggestions,
	}
}

// Parser turns free text into an Intent. The window carries recent
// conversation so the parser can resolve references like "that one".
//
// Parse must not fail: implementations recover from any downstream error
// by returning FallbackIntent().
type Parser interface {
	Parse(ctx context.Context, command string, window []chat.ChatMessage) Intent
}
