package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/nature42/pkg/chat"
)

func TestMockLLMAPI_DefaultResponse(t *testing.T) {
	mock := NewMockLLMAPI()

	resp, err := mock.Chat(context.Background(), []chat.ChatMessage{
		{Role: chat.ChatRoleUser, Content: "hello"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Mock response", resp.Message)
}

func TestMockLLMAPI_RecordsCalls(t *testing.T) {
	mock := NewMockLLMAPI()
	mock.SetChatResponse("The forest is quiet.")

	require.NoError(t, mock.InitModel(context.Background(), "test-model"))

	_, err := mock.Chat(context.Background(), []chat.ChatMessage{
		{Role: chat.ChatRoleSystem, Content: "narrate"},
		{Role: chat.ChatRoleUser, Content: "look around"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"test-model"}, mock.InitModelCalls)

	calls := mock.GetChatCalls()
	require.Len(t, calls, 1)
	require.Len(t, calls[0].Messages, 2)
	assert.Equal(t, "look around", calls[0].Messages[1].Content)
}

func TestMockLLMAPI_SetChatError(t *testing.T) {
	mock := NewMockLLMAPI()
	mock.SetChatError(errors.New("model unavailable"))

	_, err := mock.Chat(context.Background(), nil)
	assert.Error(t, err)
}

func TestMockLLMAPI_Reset(t *testing.T) {
	mock := NewMockLLMAPI()
	mock.SetChatResponse("one")

	_, err := mock.Chat(context.Background(), nil)
	require.NoError(t, err)

	mock.Reset()

	assert.Empty(t, mock.GetChatCalls())
	resp, err := mock.Chat(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "Mock response", resp.Message)
}
