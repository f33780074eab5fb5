package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/jwebster45206/nature42/pkg/chat"
	"github.com/jwebster45206/nature42/pkg/command"
	"github.com/jwebster45206/nature42/pkg/state"
	"github.com/jwebster45206/nature42/pkg/textfilter"
)

const contentGuidelines = `CONTENT GUIDELINES (Age 13+):
- No violence, gore, or graphic descriptions
- No explicit language or profanity
- No sexual content or innuendo
- No mature themes (drugs, alcohol abuse, etc.)
- Maintain a mysterious yet humorous tone
- Include age-appropriate pop culture references
- Focus on adventure, puzzles, and character virtues`

// Narrator is the LLM-backed content generator: locations, dialogue,
// puzzles, semantic matching, and freeform narration. It implements
// command.Generator. All generated prose passes through the content
// filter before it reaches a player.
type Narrator struct {
	llm    LLMService
	filter *textfilter.ContentFilter
	logger *slog.Logger
}

func NewNarrator(llm LLMService, logger *slog.Logger) *Narrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Narrator{
		llm:    llm,
		filter: textfilter.NewContentFilter(),
		logger: logger,
	}
}

var _ command.Generator = (*Narrator)(nil)

// chatWithRetry calls the LLM with bounded exponential backoff. Model
// hiccups are common enough that one blind failure shouldn't cost the
// player a turn.
func (n *Narrator) chatWithRetry(ctx context.Context, system, user string) (string, error) {
	messages := []chat.ChatMessage{
		{Role: chat.ChatRoleSystem, Content: system + "\n\n" + contentGuidelines},
		{Role: chat.ChatRoleUser, Content: user},
	}

	var message string
	backoff := retry.WithMaxRetries(2, retry.NewExponential(500*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		resp, err := n.llm.Chat(ctx, messages)
		if err != nil {
			return retry.RetryableError(err)
		}
		message = resp.Message
		return nil
	})
	if err != nil {
		return "", err
	}
	return message, nil
}

// screen softens mild language and rejects prose that fails the 13+
// filter outright.
func (n *Narrator) screen(text string) (string, error) {
	softened := n.filter.Soften(strings.TrimSpace(text))
	if !n.filter.Appropriate(softened) {
		n.logger.Warn("generated content failed appropriateness filter")
		return "", fmt.Errorf("generated content failed content filter")
	}
	return softened, nil
}

// GenerateLocation produces a new location for door n's world, themed by
// the difficulty curve and colored by recent decisions and that door's
// pop culture decade.
func (n *Narrator) GenerateLocation(ctx context.Context, doorNumber int, locationID string, recentDecisions []string, keysCollected int) (state.LocationData, error) {
	difficulty, err := state.DifficultyFor(doorNumber)
	if err != nil {
		return state.LocationData{}, err
	}
	popRefs := state.RandomReferences(state.DecadeForDoor(doorNumber), 2)

	var history string
	if len(recentDecisions) > 0 {
		history = "\n\nPLAYER HISTORY (use to adapt content):\n"
		for _, d := range recentDecisions {
			history += "- " + d + "\n"
		}
		history += "\nAdapt the location and narrative to reflect these past choices where appropriate."
	}

	system := fmt.Sprintf(`You are a creative game master generating a location for Nature42.

LOCATION REQUIREMENTS:
- Door number: %d
- Difficulty: %s
- World size: %s
- Required virtues: %s
- Keys collected so far: %d/%d%s

STYLE:
- Mysterious yet humorous tone
- Include these pop culture references naturally: %s
- Create at least 2 exits/paths
- Describe items, NPCs, or puzzles present
- Age-appropriate for 13+ audience

You MUST respond with ONLY valid JSON in this exact format:
{
    "name": "Location name",
    "description": "Detailed description (2-3 paragraphs)",
    "exits": ["exit1", "exit2"],
    "items": [
        {"id": "item1", "name": "Item Name", "description": "Item description"}
    ],
    "npcs": ["npc1", "npc2"]
}`,
		doorNumber, difficulty.PuzzleComplexity, difficulty.WorldSize,
		strings.Join(difficulty.RequiredVirtues, ", "),
		keysCollected, state.DoorCount, history,
		strings.Join(popRefs, ", "))

	response, err := n.chatWithRetry(ctx, system, fmt.Sprintf("Generate a unique fantasy location for door %d.", doorNumber))
	if err != nil {
		return state.LocationData{}, fmt.Errorf("location generation: %w", err)
	}

	var parsed struct {
		Name        string   `json:"name"`
		Description string   `json:"description"`
		Exits       []string `json:"exits"`
		Items       []struct {
			ID          string `json:"id"`
			Name        string `json:"name"`
			Description string `json:"description"`
		} `json:"items"`
		NPCs []string `json:"npcs"`
	}
	location := state.LocationData{
		ID:          locationID,
		Exits:       []string{"north", "south"},
		Items:       []state.Item{},
		NPCs:        []string{},
		GeneratedAt: time.Now().UTC(),
	}

	if err := json.Unmarshal([]byte(extractJSON(response)), &parsed); err != nil {
		// The model narrated instead of returning JSON. The prose is
		// still usable as a description.
		n.logger.Warn("location response was not valid JSON, using raw text", "location_id", locationID)
		desc, err := n.screen(response)
		if err != nil {
			return state.LocationData{}, err
		}
		location.Description = desc
		return location, nil
	}

	desc, err := n.screen(parsed.Description)
	if err != nil {
		return state.LocationData{}, err
	}
	location.Description = desc
	if len(parsed.Exits) > 0 {
		location.Exits = parsed.Exits
	}
	for _, item := range parsed.Items {
		location.Items = append(location.Items, state.Item{
			ID:          item.ID,
			Name:        item.Name,
			Description: item.Description,
		})
	}
	if parsed.NPCs != nil {
		location.NPCs = parsed.NPCs
	}
	return location, nil
}

// GenerateDialogue produces an in-character NPC reply.
func (n *Narrator) GenerateDialogue(ctx context.Context, npcContext, playerInput string, recentInteractions []string) (string, error) {
	var journey string
	if len(recentInteractions) > 0 {
		journey = "\n\nPLAYER'S JOURNEY (reference if relevant):\n"
		for _, d := range recentInteractions {
			journey += "- " + d + "\n"
		}
	}

	system := fmt.Sprintf(`You are an NPC in Nature42: %s%s

PERSONALITY:
- Remember past interactions
- Maintain consistent personality
- React appropriately to player's actions
- Provide helpful hints when appropriate
- Stay in character
- Reference the player's journey if it's relevant to the conversation

Respond to the player's action naturally and in character. Keep responses concise (2-3 paragraphs max).`, npcContext, journey)

	response, err := n.chatWithRetry(ctx, system, "Player action: "+playerInput)
	if err != nil {
		return "", fmt.Errorf("dialogue generation: %w", err)
	}
	return n.screen(response)
}

// GeneratePuzzle creates a challenge testing the given virtues.
func (n *Narrator) GeneratePuzzle(ctx context.Context, complexity, theme string, requiredVirtues []string) (command.Puzzle, error) {
	virtues := strings.Join(requiredVirtues, ", ")
	system := fmt.Sprintf(`You are a puzzle designer for Nature42.

PUZZLE REQUIREMENTS:
- Difficulty: %s
- Theme: %s
- Required virtues: %s
- Multiple valid solution paths
- Age-appropriate for 13+

Create a puzzle that tests the player's %s.
The puzzle should have multiple creative solutions.

You MUST respond with ONLY valid JSON in this exact format:
{
    "description": "Puzzle description",
    "hints": ["hint1", "hint2", "hint3"],
    "solution_criteria": "What makes a solution valid"
}`, complexity, theme, virtues, virtues)

	response, err := n.chatWithRetry(ctx, system, "Generate the puzzle.")
	if err != nil {
		return command.Puzzle{}, fmt.Errorf("puzzle generation: %w", err)
	}

	var puzzle command.Puzzle
	if err := json.Unmarshal([]byte(extractJSON(response)), &puzzle); err != nil {
		desc, serr := n.screen(response)
		if serr != nil {
			return command.Puzzle{}, serr
		}
		return command.Puzzle{
			Description:      desc,
			Hints:            []string{"Try thinking about the required virtues", "Consider multiple approaches"},
			SolutionCriteria: "Demonstrates " + virtues,
		}, nil
	}

	desc, err := n.screen(puzzle.Description)
	if err != nil {
		return command.Puzzle{}, err
	}
	puzzle.Description = desc
	return puzzle, nil
}

// EvaluateSolution judges a solution attempt. Creative solutions that
// show the right spirit are meant to pass.
func (n *Narrator) EvaluateSolution(ctx context.Context, puzzleContext, attempt string, requiredVirtues []string) (command.Evaluation, error) {
	system := fmt.Sprintf(`You are evaluating a puzzle solution in Nature42.

PUZZLE:
%s

REQUIRED VIRTUES: %s

Evaluate if the player's solution demonstrates the required virtues.
Be generous with creative solutions that show the right spirit.

You MUST respond with ONLY valid JSON in this exact format:
{
    "success": true,
    "feedback": "Explanation of why it worked or didn't"
}`, puzzleContext, strings.Join(requiredVirtues, ", "))

	response, err := n.chatWithRetry(ctx, system, "Player's solution: "+attempt)
	if err != nil {
		return command.Evaluation{}, fmt.Errorf("solution evaluation: %w", err)
	}

	var eval command.Evaluation
	if err := json.Unmarshal([]byte(extractJSON(response)), &eval); err != nil {
		// Be generous when the verdict can't be parsed.
		feedback, serr := n.screen(response)
		if serr != nil {
			return command.Evaluation{}, serr
		}
		return command.Evaluation{Success: true, Feedback: feedback}, nil
	}

	feedback, err := n.screen(eval.Feedback)
	if err != nil {
		return command.Evaluation{}, err
	}
	eval.Feedback = feedback
	return eval, nil
}

// MatchExit resolves a player's phrasing to one of a location's exits.
func (n *Narrator) MatchExit(ctx context.Context, phrase string, exits []string) (string, error) {
	return n.matchName(ctx, "exit", "Player wants to go", phrase, exits)
}

// MatchNPC resolves a player's phrasing to one of a location's NPCs.
func (n *Narrator) MatchNPC(ctx context.Context, phrase string, npcs []string) (string, error) {
	return n.matchName(ctx, "NPC", "Player wants to talk to", phrase, npcs)
}

func (n *Narrator) matchName(ctx context.Context, kind, verb, phrase string, candidates []string) (string, error) {
	if len(candidates) == 0 {
		return "", nil
	}

	var list strings.Builder
	for _, c := range candidates {
		list.WriteString("- ")
		list.WriteString(c)
		list.WriteString("\n")
	}

	system := fmt.Sprintf(`Match the player's phrasing to one of the available %ss.

%s: "%s"

Available %ss:
%s
Respond with ONLY the exact %s name that best matches what the player wants, or "NONE" if no match.
Do not include any explanation or extra text.`, kind, verb, phrase, kind, list.String(), kind)

	response, err := n.chatWithRetry(ctx, system, phrase)
	if err != nil {
		return "", fmt.Errorf("%s matching: %w", kind, err)
	}

	matched := strings.TrimSpace(response)
	if strings.EqualFold(matched, "NONE") {
		return "", nil
	}
	for _, c := range candidates {
		lower := strings.ToLower(c)
		matchedLower := strings.ToLower(matched)
		if strings.Contains(lower, matchedLower) || strings.Contains(matchedLower, lower) {
			return c, nil
		}
	}
	return "", nil
}

// ResolveItem rules on taking an object mentioned only in a location's
// prose.
func (n *Narrator) ResolveItem(ctx context.Context, locationDescription, itemName string) (command.ItemResolution, error) {
	system := fmt.Sprintf(`You are the game master for Nature42. Determine if the player can take an item.

CURRENT LOCATION:
%s

The player wants to take: %s

Respond with JSON in this format:
{
    "can_take": true,
    "item_name": "exact name of item",
    "description": "short item description",
    "message": "response to player",
    "is_key": false
}

If the item is mentioned in the description and could reasonably be picked up, set can_take to true.
If it's the key for this world, set is_key to true.`, locationDescription, itemName)

	response, err := n.chatWithRetry(ctx, system, "Can the player take: "+itemName+"?")
	if err != nil {
		return command.ItemResolution{}, fmt.Errorf("item resolution: %w", err)
	}

	var res command.ItemResolution
	if err := json.Unmarshal([]byte(extractJSON(response)), &res); err != nil {
		return command.ItemResolution{}, fmt.Errorf("item resolution response was not valid JSON: %w", err)
	}
	if res.Message != "" {
		msg, err := n.screen(res.Message)
		if err != nil {
			return command.ItemResolution{}, err
		}
		res.Message = msg
	}
	return res, nil
}

// Narrate produces freeform prose for an action with no structured
// handler.
func (n *Narrator) Narrate(ctx context.Context, req command.NarrationRequest) (string, error) {
	inventory := "Empty"
	if len(req.Inventory) > 0 {
		var b strings.Builder
		for idx, item := range req.Inventory {
			if idx > 0 {
				b.WriteString("\n")
			}
			b.WriteString("- ")
			b.WriteString(item.Name)
		}
		inventory = b.String()
	}

	door := "Forest Clearing"
	if req.CurrentDoor > 0 {
		door = fmt.Sprintf("%d", req.CurrentDoor)
	}

	var recent string
	if len(req.RecentDecisions) > 0 {
		recent = "\n\nRecent actions:\n"
		for _, d := range req.RecentDecisions {
			recent += "- " + d + "\n"
		}
	}

	system := fmt.Sprintf(`You are the game master for Nature42.

CURRENT LOCATION:
%s

PLAYER'S INVENTORY:
%s

GAME CONTEXT:
- Keys collected: %d/%d
- Current door: %s%s

Generate a creative, contextual response. If the action could progress the puzzle or reveal something important, describe that.
If it's just a fun interaction, make it entertaining. If it doesn't make sense, explain why gently.
Keep responses 2-3 paragraphs max.`,
		req.LocationDescription, inventory, req.KeysCollected, state.DoorCount, door, recent)

	response, err := n.chatWithRetry(ctx, system, req.Instruction)
	if err != nil {
		return "", fmt.Errorf("narration: %w", err)
	}
	return n.screen(response)
}
