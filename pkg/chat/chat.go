package chat

const (
	ChatRoleUser   = "user"      // Player
	ChatRoleAgent  = "assistant" // Narrator / parser replies
	ChatRoleSystem = "system"    // Prompt instructions
)

// ChatMessage represents a single message in a conversation with the
// narrative service. The shape matches what the LLM APIs expect.
type ChatMessage struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// ChatResponse wraps a completion from the narrative service.
type ChatResponse struct {
	Message string `json:"message"`
}

// ConversationWindowSize is the maximum number of messages carried
// between requests. The server is stateless; the client resubmits this
// window with each command so the parser keeps coreference context
// ("that one", "yes") across turns.
const ConversationWindowSize = 20

// AppendToWindow appends messages to a conversation window, dropping the
// oldest entries once the window exceeds ConversationWindowSize.
func AppendToWindow(window []ChatMessage, messages ...ChatMessage) []ChatMessage {
	window = append(window, messages...)
	if len(window) > ConversationWindowSize {
		window = window[len(window)-ConversationWindowSize:]
	}
	return window
}
