package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"college-agent/internal/domain"
)

// Canned replies. Every failure mode the service can hit collapses to one
// of these strings; callers never see an error value or a non-200 status.
const (
	ReplyNotConfigured = "Error: The chatbot is not configured correctly. Please check server logs."
	ReplyEmptyMessage  = "Please provide a message."
	ReplyUpstreamError = "Sorry, something went wrong on my end. Please try again."
)

// DataFetcher returns the live college dataset, or a map carrying an
// "error" key when the data is unavailable.
type DataFetcher interface {
	Fetch(ctx context.Context) map[string]any
}

// LLMClient sends a seeded conversation plus one user message to the model
// and returns the reply text.
type LLMClient interface {
	Converse(ctx context.Context, history []domain.ChatMessage, message string) (string, error)
}

// ChatService answers one chat message per call. It holds no per-request
// state; both collaborators are read-only after construction.
type ChatService struct {
	fetcher DataFetcher
	llm     LLMClient
}

// NewChatService creates a ChatService. llm may be nil when the provider
// credential is absent; the service then degrades to the not-configured
// reply instead of failing startup.
func NewChatService(fetcher DataFetcher, llm LLMClient) (*ChatService, error) {
	if fetcher == nil {
		return nil, errors.New("usecase: data fetcher must not be nil")
	}
	return &ChatService{fetcher: fetcher, llm: llm}, nil
}

// Chat runs the request state machine: configuration check, input check,
// data fetch, prompt build, provider call. It always returns a reply
// string; failure detail goes to the server log only.
func (s *ChatService) Chat(ctx context.Context, message string) string {
	if s.llm == nil {
		return ReplyNotConfigured
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return ReplyEmptyMessage
	}

	data := s.fetcher.Fetch(ctx)
	reply, err := s.llm.Converse(ctx, seedHistory(buildSystemPrompt(data)), message)
	if err != nil {
		slog.Error("chat generation failed", "err", err)
		return ReplyUpstreamError
	}
	return reply
}

// seedHistory is the fixed two-turn opening: the instructional prompt as a
// user turn, then a canned model acknowledgment, so the real user message
// arrives as the third turn.
func seedHistory(systemPrompt string) []domain.ChatMessage {
	return []domain.ChatMessage{
		{Role: domain.RoleUser, Content: systemPrompt},
		{Role: domain.RoleModel, Content: assistantGreeting},
	}
}
