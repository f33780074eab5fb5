package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jwebster45206/nature42/pkg/chat"
	"github.com/jwebster45206/nature42/pkg/command"
)

const parserSystemPrompt = `You are a command parser for a text adventure game called Nature42.

Your job is to parse player commands and maintain conversation context. You remember previous
interactions, so when a player says "yes" or "that one", you can refer back to what was
discussed earlier.

When parsing commands, always respond with valid JSON containing the action and target.
Be helpful and conversational when the player needs clarification.`

const parserInstructionTemplate = `Parse the player's command and extract:
1. The primary action (move, take, examine, use, talk, open, insert, etc.)
2. The target of the action (if any)
3. Whether the command is ambiguous and needs clarification
4. Whether the command is invalid/nonsensical

Common actions:
- Movement: go, move, walk, travel, enter, exit
- Interaction: take, get, pick up, drop, put down, use, examine, look at, inspect
- Communication: talk to, speak with, ask, tell, say hello
- Game mechanics: open door, insert key, check inventory, solve, new game, start over
- Help: help, ?, what do i do, how do i play, what can i do
- Hint: hint, give me a hint, i'm stuck, clue

IMPORTANT PARSING RULES:
- For general help about commands, use action "help"
- For hints about progressing in the game, use action "hint"
- For starting a new game, use action "new_game"
- Convert ordinal numbers to digits: "first" -> "1", "second" -> "2", "third" -> "3", etc.
- For door references, extract the number: "the first door" -> "door 1", "door number 3" -> "door 3"
- Simplify natural language: "the squirrel" -> "squirrel", "that rabbit" -> "rabbit"

You MUST respond with ONLY valid JSON in this exact format:
{
    "action": "primary_action",
    "target": "target_object_or_direction",
    "is_ambiguous": false,
    "is_invalid": false,
    "clarification_needed": null,
    "suggestions": []
}

Examples:
- "go north" -> {"action": "move", "target": "north", "is_ambiguous": false, "is_invalid": false}
- "take the key" -> {"action": "take", "target": "key", "is_ambiguous": false, "is_invalid": false}
- "open the first door" -> {"action": "open", "target": "door 1", "is_ambiguous": false, "is_invalid": false}
- "talk to the squirrel" -> {"action": "talk", "target": "squirrel", "is_ambiguous": false, "is_invalid": false}
- "head down the path with the bridge" -> {"action": "move", "target": "path with bridge", "is_ambiguous": false, "is_invalid": false}
- "use it" -> {"action": "use", "target": null, "is_ambiguous": true, "clarification_needed": "What would you like to use?"}
- "fly to the moon" -> {"action": "fly", "target": "moon", "is_invalid": true, "suggestions": ["go north", "go south", "examine area"]}

Player's command: %s`

// IntentParser turns player text into structured intents via the LLM.
// It implements command.Parser and never returns an error: any failure
// degrades to the canned fallback intent.
type IntentParser struct {
	llm    LLMService
	logger *slog.Logger
}

func NewIntentParser(llm LLMService, logger *slog.Logger) *IntentParser {
	if logger == nil {
		logger = slog.Default()
	}
	return &IntentParser{llm: llm, logger: logger}
}

var _ command.Parser = (*IntentParser)(nil)

// Parse resolves a player command against the conversation window. The
// window gives the model coreference context across stateless requests.
func (p *IntentParser) Parse(ctx context.Context, playerCommand string, window []chat.ChatMessage) command.Intent {
	messages := make([]chat.ChatMessage, 0, len(window)+2)
	messages = append(messages, chat.ChatMessage{Role: chat.ChatRoleSystem, Content: parserSystemPrompt})
	messages = append(messages, window...)
	messages = append(messages, chat.ChatMessage{
		Role:    chat.ChatRoleUser,
		Content: fmt.Sprintf(parserInstructionTemplate, playerCommand),
	})

	resp, err := p.llm.Chat(ctx, messages)
	if err != nil {
		p.logger.Warn("intent parsing failed, using fallback", "error", err)
		return command.FallbackIntent()
	}

	var parsed struct {
		Action        string   `json:"action"`
		Target        string   `json:"target"`
		IsAmbiguous   bool     `json:"is_ambiguous"`
		IsInvalid     bool     `json:"is_invalid"`
		Clarification string   `json:"clarification_needed"`
		Suggestions   []string `json:"suggestions"`
	}
	if err := json.Unmarshal([]byte(extractJSON(resp.Message)), &parsed); err != nil {
		p.logger.Warn("intent response was not valid JSON, using fallback", "error", err)
		return command.FallbackIntent()
	}

	if parsed.Action == "" {
		parsed.Action = "unknown"
	}
	return command.Intent{
		Action:        parsed.Action,
		Target:        parsed.Target,
		Ambiguous:     parsed.IsAmbiguous,
		Invalid:       parsed.IsInvalid,
		Clarification: parsed.Clarification,
		Suggestions:   parsed.Suggestions,
	}
}

// extractJSON strips markdown code fences that models sometimes wrap
// around JSON payloads.
func extractJSON(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	lines := strings.Split(trimmed, "\n")
	if len(lines) <= 2 {
		return trimmed
	}
	return strings.TrimSpace(strings.Join(lines[1:len(lines)-1], "\n"))
}
