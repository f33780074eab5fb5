package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"

	"github.com/jwebster45206/nature42/pkg/chat"
)

func TestNewAnthropicService(t *testing.T) {
	log := slog.New(slog.NewTextHandler(os.Stdout, nil))
	service := NewAnthropicService("test-api-key", "claude-sonnet-4-20250514", log)

	if service == nil {
		t.Fatal("Expected service to be created")
	}

	if service.apiKey != "test-api-key" {
		t.Errorf("Expected apiKey 'test-api-key', got '%s'", service.apiKey)
	}

	if service.modelName != "claude-sonnet-4-20250514" {
		t.Errorf("Expected modelName 'claude-sonnet-4-20250514', got '%s'", service.modelName)
	}

	if service.httpClient == nil {
		t.Error("Expected httpClient to be initialized")
	}
}

func TestAnthropicService_InitModel(t *testing.T) {
	log := slog.New(slog.NewTextHandler(os.Stdout, nil))
	service := NewAnthropicService("test-api-key", "claude-sonnet-4-20250514", log)

	err := service.InitModel(context.Background(), "claude-sonnet-4-20250514")
	if err != nil {
		t.Errorf("Expected no error from InitModel, got: %v", err)
	}
}

func TestAnthropicService_SplitChatMessages(t *testing.T) {
	log := slog.New(slog.NewTextHandler(os.Stdout, nil))
	service := NewAnthropicService("test-api-key", "claude-sonnet-4-20250514", log)

	tests := []struct {
		name                   string
		messages               []chat.ChatMessage
		expectedSystem         string
		expectedNonSystemCount int
	}{
		{
			name: "single system message",
			messages: []chat.ChatMessage{
				{Role: chat.ChatRoleSystem, Content: "You are a helpful assistant."},
				{Role: chat.ChatRoleUser, Content: "Hello"},
				{Role: chat.ChatRoleAgent, Content: "Hi there!"},
			},
			expectedSystem:         "You are a helpful assistant.",
			expectedNonSystemCount: 2,
		},
		{
			name: "multiple system messages",
			messages: []chat.ChatMessage{
				{Role: chat.ChatRoleSystem, Content: "You are a helpful assistant."},
				{Role: chat.ChatRoleUser, Content: "Hello"},
				{Role: chat.ChatRoleSystem, Content: "Be concise."},
				{Role: chat.ChatRoleAgent, Content: "Hi there!"},
			},
			expectedSystem:         "You are a helpful assistant.\n\nBe concise.",
			expectedNonSystemCount: 2,
		},
		{
			name: "no system messages",
			messages: []chat.ChatMessage{
				{Role: chat.ChatRoleUser, Content: "Hello"},
				{Role: chat.ChatRoleAgent, Content: "Hi there!"},
			},
			expectedSystem:         "",
			expectedNonSystemCount: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			systemPrompt, nonSystemMessages := service.splitChatMessages(tt.messages)

			if systemPrompt != tt.expectedSystem {
				t.Errorf("Expected system prompt '%s', got '%s'", tt.expectedSystem, systemPrompt)
			}

			if len(nonSystemMessages) != tt.expectedNonSystemCount {
				t.Errorf("Expected %d non-system messages, got %d", tt.expectedNonSystemCount, len(nonSystemMessages))
			}

			for _, msg := range nonSystemMessages {
				if msg.Role == chat.ChatRoleSystem {
					t.Error("Found system message in non-system messages")
				}
			}
		})
	}
}

func TestAnthropicChatRequestStructure(t *testing.T) {
	temp := 0.7
	req := AnthropicChatRequest{
		Model:       "claude-sonnet-4-20250514",
		MaxTokens:   1024,
		Temperature: &temp,
		Messages: []chat.ChatMessage{
			{Role: "user", Content: "Hello"},
		},
		System: "You are a helpful assistant.",
		Stream: false,
	}

	_, err := json.Marshal(req)
	if err != nil {
		t.Errorf("Failed to marshal request: %v", err)
	}
}

func TestAnthropicChatResponseStructure(t *testing.T) {
	responseJSON := `{
		"id": "msg_01ABC123",
		"type": "message",
		"role": "assistant",
		"content": [
			{
				"type": "text",
				"text": "Hello! How can I help you today?"
			}
		],
		"model": "claude-sonnet-4-20250514",
		"stop_reason": "end_turn",
		"stop_sequence": null,
		"usage": {
			"input_tokens": 10,
			"output_tokens": 20
		}
	}`

	var resp AnthropicChatResponse
	err := json.Unmarshal([]byte(responseJSON), &resp)
	if err != nil {
		t.Errorf("Failed to unmarshal response: %v", err)
	}

	if resp.ID != "msg_01ABC123" {
		t.Errorf("Expected ID 'msg_01ABC123', got '%s'", resp.ID)
	}

	if len(resp.Content) != 1 {
		t.Errorf("Expected 1 content block, got %d", len(resp.Content))
	}

	if resp.Content[0].Text != "Hello! How can I help you today?" {
		t.Errorf("Expected text 'Hello! How can I help you today?', got '%s'", resp.Content[0].Text)
	}
}
