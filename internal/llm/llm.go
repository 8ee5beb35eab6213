// Package llm abstracts the chat model behind a small Provider interface so
// the answer path works the same against OpenAI or a local Ollama.
package llm

import "context"

// Role represents the role of a message sender in a conversation.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single message in a conversation.
type Message struct {
	Role    Role
	Content string
}

// Request contains the parameters for a chat completion.
type Request struct {
	Model       string
	Messages    []Message
	MaxTokens   int
	Temperature float64
}

// Response is the result of a chat completion.
type Response struct {
	Content      string
	InputTokens  int
	OutputTokens int
	Model        string
}

// Provider is a chat model backend.
type Provider interface {
	// Complete sends a completion request and returns the response.
	Complete(ctx context.Context, req Request) (*Response, error)
	// Name returns the name of this provider.
	Name() string
}
