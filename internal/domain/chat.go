package domain

// Conversation roles, matching the Gemini role vocabulary.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// ChatMessage is the provider-agnostic chat message shape used by the
// use case and LLM integrations.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
