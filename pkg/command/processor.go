package command

import (
	"context"
	"log/slog"
	"strings"

	"github.com/jwebster45206/nature42/pkg/chat"
	"github.com/jwebster45206/nature42/pkg/state"
)

// Processor runs one player command through the full turn pipeline:
// parse, validate, dispatch, track, assemble. A Processor wraps a single
// state snapshot and is built fresh per request; the caller owns the
// snapshot and applies the returned changes.
type Processor struct {
	gs        *state.GameState
	parser    Parser
	validator *Validator
	actions   *ActionHandlers
	doors     *DoorHandlers
	logger    *slog.Logger
}

// NewProcessor wires the pipeline around a state snapshot. The location
// cache is seeded from the snapshot's visited set, so every lookup during
// the turn goes through cache semantics.
func NewProcessor(gs *state.GameState, parser Parser, gen Generator, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	cache := state.NewLocationCache(gs.VisitedLocations)
	doors := NewDoorHandlers(gs, gen, cache, logger)
	return &Processor{
		gs:        gs,
		parser:    parser,
		validator: NewValidator(gs),
		actions:   NewActionHandlers(gs, gen, cache, doors, logger),
		doors:     doors,
		logger:    logger,
	}
}

// ProcessCommand executes one turn. Rejections from parsing or validation
// short-circuit with empty state changes; only dispatched actions mutate
// anything.
func (p *Processor) ProcessCommand(ctx context.Context, command string) CommandResult {
	intent := p.parser.Parse(ctx, command, p.gs.ConversationHistory)

	if intent.Ambiguous {
		msg := intent.Clarification
		if msg == "" {
			msg = "Could you be more specific?"
		}
		return CommandResult{Success: false, Message: msg, NeedsClarification: true}
	}

	if intent.Invalid {
		msg := "I'm not sure how to do that."
		if len(intent.Suggestions) > 0 {
			var b strings.Builder
			b.WriteString(msg)
			b.WriteString("\n\nDid you mean:")
			for _, s := range intent.Suggestions {
				b.WriteString("\n- ")
				b.WriteString(s)
			}
			msg = b.String()
		}
		return CommandResult{Success: false, Message: msg}
	}

	validation := p.validator.Validate(intent)
	if !validation.Valid {
		p.logger.Debug("action rejected",
			"action", intent.Action,
			"target", intent.Target,
			"location", validation.Context.Location)
		return CommandResult{Success: false, Message: validation.Reason}
	}

	result := p.dispatch(ctx, intent)

	if IsSignificant(intent, result) {
		decision := NewDecision(p.gs, intent, result)
		result.Changes.Decision = &decision
	}

	changes := result.Changes
	if result.NewLocation != "" {
		changes.PlayerLocation = result.NewLocation
	}
	if len(result.ItemsAdded) > 0 {
		changes.ItemsAdded = append(changes.ItemsAdded, result.ItemsAdded...)
	}
	if len(result.ItemsRemoved) > 0 {
		changes.ItemsRemoved = append(changes.ItemsRemoved, result.ItemsRemoved...)
	}

	p.gs.ConversationHistory = chat.AppendToWindow(p.gs.ConversationHistory,
		chat.ChatMessage{Role: chat.ChatRoleUser, Content: command},
		chat.ChatMessage{Role: chat.ChatRoleAgent, Content: result.Message},
	)

	return CommandResult{
		Success: result.Success,
		Message: result.Message,
		Changes: changes,
	}
}

func (p *Processor) dispatch(ctx context.Context, intent Intent) ActionResult {
	target := intent.Target

	switch intent.Action {
	case "move":
		return p.actions.HandleMovement(ctx, target)
	case "take":
		return p.actions.HandleTake(ctx, target)
	case "drop":
		return p.actions.HandleDrop(target)
	case "use":
		return p.actions.HandleUse(ctx, target)
	case "inventory", "check_inventory", "view_inventory":
		return p.actions.HandleInventory()
	case "examine":
		return p.actions.HandleExamine(ctx, target)
	case "help", "?", "what", "how":
		return p.actions.HandleHelp()
	case "hint":
		return p.actions.HandleHint(ctx)
	case "talk", "speak":
		return p.actions.HandleTalk(ctx, target)
	case "solve", "answer":
		return p.actions.HandleSolve(ctx, target)
	case "open":
		if strings.Contains(strings.ToLower(target), "door") {
			return p.doors.HandleOpenDoor(ctx, target)
		}
		return ActionResult{Success: true, Message: "You open the " + target + ". Nothing special happens."}
	case "insert":
		if strings.Contains(strings.ToLower(target), "key") {
			return p.doors.HandleInsertKey()
		}
		return ActionResult{Success: false, Message: "You can't insert that."}
	}

	return p.actions.HandleGeneric(ctx, intent.Action, target)
}
