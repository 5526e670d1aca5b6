// Package gemini wraps the Google GenAI SDK behind the small conversation
// surface the chat use case needs.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"college-agent/internal/domain"
)

const defaultModel = "gemini-2.0-flash-lite"

// Client sends seeded conversations to the Gemini API.
type Client struct {
	genai *genai.Client
	model string
}

// NewClient creates a Client for the given API key. The key is stripped of
// surrounding whitespace first: a trailing newline from a copy-pasted .env
// value produces an illegal header on the wire.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini: api key must not be empty")
	}
	model = strings.TrimSpace(model)
	if model == "" {
		model = defaultModel
	}

	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &Client{genai: gc, model: model}, nil
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

// Converse opens a chat seeded with the given history, sends the user
// message, and returns the reply text.
func (c *Client) Converse(ctx context.Context, history []domain.ChatMessage, message string) (string, error) {
	chat, err := c.genai.Chats.Create(ctx, c.model, nil, toContents(history))
	if err != nil {
		return "", fmt.Errorf("gemini: create chat: %w", err)
	}

	res, err := chat.SendMessage(ctx, genai.Part{Text: message})
	if err != nil {
		return "", fmt.Errorf("gemini: send message: %w", err)
	}

	text := res.Text()
	if strings.TrimSpace(text) == "" {
		return "", errors.New("gemini: response contained no text")
	}
	return text, nil
}

func toContents(history []domain.ChatMessage) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, m := range history {
		contents = append(contents, genai.NewContentFromText(m.Content, toRole(m.Role)))
	}
	return contents
}

func toRole(role string) genai.Role {
	if role == domain.RoleModel {
		return genai.RoleModel
	}
	return genai.RoleUser
}
