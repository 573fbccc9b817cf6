package models

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	Role      string `json:"role"` // "user" or "assistant"
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"` // epoch milliseconds
}

// ChatRequest is the payload sent to the chat endpoint.
type ChatRequest struct {
	CSVContent string        `json:"csvContent"`
	Question   string        `json:"question"`
	History    []ChatMessage `json:"history"`
}

// ChatResponse carries either the answer text or an error message, never both.
type ChatResponse struct {
	Text  string `json:"text,omitempty"`
	Error string `json:"error,omitempty"`
}
