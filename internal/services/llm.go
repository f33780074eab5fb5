package services

import (
	"context"

	"github.com/jwebster45206/nature42/pkg/chat"
)

// LLMService defines the interface for interacting with the LLM API
type LLMService interface {
	// InitModel initializes the LLM model on startup
	InitModel(ctx context.Context, modelName string) error

	// Chat generates a completion for the given conversation
	Chat(ctx context.Context, messages []chat.ChatMessage) (*chat.ChatResponse, error)
}
