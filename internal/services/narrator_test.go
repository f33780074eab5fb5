package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/nature42/pkg/chat"
	"github.com/jwebster45206/nature42/pkg/command"
)

func narrationRequestFixture() command.NarrationRequest {
	return command.NarrationRequest{
		Instruction:         "The player hums a tune.",
		LocationDescription: "A quiet grove.",
		KeysCollected:       1,
		CurrentDoor:         1,
	}
}

func TestNarrator_GenerateLocation(t *testing.T) {
	mock := NewMockLLMAPI()
	mock.SetChatResponse(`{
		"name": "The Whispering Grove",
		"description": "Trees lean in close, murmuring secrets.",
		"exits": ["mossy path", "stone stairs"],
		"items": [{"id": "lantern_1", "name": "Brass Lantern", "description": "An old lantern."}],
		"npcs": ["A peculiar squirrel"]
	}`)
	narrator := NewNarrator(mock, nil)

	loc, err := narrator.GenerateLocation(context.Background(), 1, "door_1_entrance", nil, 0)
	require.NoError(t, err)

	assert.Equal(t, "door_1_entrance", loc.ID)
	assert.Equal(t, "Trees lean in close, murmuring secrets.", loc.Description)
	assert.Equal(t, []string{"mossy path", "stone stairs"}, loc.Exits)
	require.Len(t, loc.Items, 1)
	assert.Equal(t, "Brass Lantern", loc.Items[0].Name)
	assert.Equal(t, []string{"A peculiar squirrel"}, loc.NPCs)
	assert.False(t, loc.GeneratedAt.IsZero())
}

func TestNarrator_GenerateLocation_NonJSONFallsBackToProse(t *testing.T) {
	mock := NewMockLLMAPI()
	mock.SetChatResponse("A shimmering veil parts to reveal a quiet meadow.")
	narrator := NewNarrator(mock, nil)

	loc, err := narrator.GenerateLocation(context.Background(), 2, "door_2_entrance", nil, 1)
	require.NoError(t, err)

	assert.Equal(t, "A shimmering veil parts to reveal a quiet meadow.", loc.Description)
	assert.Equal(t, []string{"north", "south"}, loc.Exits, "fallback exits keep the world navigable")
	assert.Empty(t, loc.Items)
}

func TestNarrator_GenerateLocation_InappropriateContentRejected(t *testing.T) {
	mock := NewMockLLMAPI()
	mock.SetChatResponse(`{"description": "A corpse lies across the path.", "exits": ["north"]}`)
	narrator := NewNarrator(mock, nil)

	_, err := narrator.GenerateLocation(context.Background(), 1, "door_1_entrance", nil, 0)
	assert.Error(t, err)
}

func TestNarrator_GenerateLocation_PromptCarriesContext(t *testing.T) {
	mock := NewMockLLMAPI()
	mock.SetChatResponse(`{"description": "A meadow.", "exits": ["north", "south"]}`)
	narrator := NewNarrator(mock, nil)

	_, err := narrator.GenerateLocation(context.Background(), 6, "door_6_entrance",
		[]string{"Player chose to open door 6"}, 5)
	require.NoError(t, err)

	calls := mock.GetChatCalls()
	require.Len(t, calls, 1)
	system := calls[0].Messages[0].Content
	assert.Contains(t, system, "Door number: 6")
	assert.Contains(t, system, "very_complex")
	assert.Contains(t, system, "kindness, curiosity, courage, gratitude")
	assert.Contains(t, system, "Keys collected so far: 5/6")
	assert.Contains(t, system, "Player chose to open door 6")
	assert.Contains(t, system, "CONTENT GUIDELINES")
}

func TestNarrator_Dialogue_SoftensMildLanguage(t *testing.T) {
	mock := NewMockLLMAPI()
	mock.SetChatResponse(`"Well, damn," says the gnome, "you found me."`)
	narrator := NewNarrator(mock, nil)

	dialogue, err := narrator.GenerateDialogue(context.Background(), "a gnome", "hello", nil)
	require.NoError(t, err)
	assert.Equal(t, `"Well, dang," says the gnome, "you found me."`, dialogue)
}

func TestNarrator_EvaluateSolution(t *testing.T) {
	mock := NewMockLLMAPI()
	mock.SetChatResponse(`{"success": true, "feedback": "Your kindness moved the statues."}`)
	narrator := NewNarrator(mock, nil)

	eval, err := narrator.EvaluateSolution(context.Background(), "Three statues.", "I share my lunch", []string{"kindness"})
	require.NoError(t, err)
	assert.True(t, eval.Success)
	assert.Equal(t, "Your kindness moved the statues.", eval.Feedback)
}

func TestNarrator_EvaluateSolution_GenerousOnUnparseableVerdict(t *testing.T) {
	mock := NewMockLLMAPI()
	mock.SetChatResponse("That was a lovely act of kindness, well done!")
	narrator := NewNarrator(mock, nil)

	eval, err := narrator.EvaluateSolution(context.Background(), "Three statues.", "I share my lunch", []string{"kindness"})
	require.NoError(t, err)
	assert.True(t, eval.Success)
}

func TestNarrator_MatchExit(t *testing.T) {
	mock := NewMockLLMAPI()
	mock.SetChatResponse("The Luminescent Bridge")
	narrator := NewNarrator(mock, nil)

	exits := []string{"The Luminescent Bridge", "The Whispering Forest Path"}
	matched, err := narrator.MatchExit(context.Background(), "path with old stone bridge", exits)
	require.NoError(t, err)
	assert.Equal(t, "The Luminescent Bridge", matched)
}

func TestNarrator_MatchExit_None(t *testing.T) {
	mock := NewMockLLMAPI()
	mock.SetChatResponse("NONE")
	narrator := NewNarrator(mock, nil)

	matched, err := narrator.MatchExit(context.Background(), "up the chimney", []string{"mossy path"})
	require.NoError(t, err)
	assert.Empty(t, matched)
}

func TestNarrator_RetriesTransientFailures(t *testing.T) {
	mock := NewMockLLMAPI()
	attempts := 0
	mock.ChatFunc = func(ctx context.Context, messages []chat.ChatMessage) (*chat.ChatResponse, error) {
		attempts++
		if attempts == 1 {
			return nil, errors.New("transient")
		}
		return &chat.ChatResponse{Message: "The forest hums."}, nil
	}
	narrator := NewNarrator(mock, nil)

	got, err := narrator.Narrate(context.Background(), narrationRequestFixture())
	require.NoError(t, err)
	assert.Equal(t, "The forest hums.", got)
	assert.Equal(t, 2, attempts)
}

func TestNarrator_ResolveItem(t *testing.T) {
	mock := NewMockLLMAPI()
	mock.SetChatResponse(`{"can_take": true, "item_name": "Smooth Pebble", "message": "You pocket the pebble."}`)
	narrator := NewNarrator(mock, nil)

	res, err := narrator.ResolveItem(context.Background(), "A pebble rests by the stream.", "pebble")
	require.NoError(t, err)
	assert.True(t, res.CanTake)
	assert.Equal(t, "Smooth Pebble", res.ItemName)
	assert.Equal(t, "You pocket the pebble.", res.Message)
}
