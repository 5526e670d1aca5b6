package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"college-agent/internal/domain"
)

type mockFetcher struct {
	data      map[string]any
	callCount int
}

func (m *mockFetcher) Fetch(context.Context) map[string]any {
	m.callCount++
	return m.data
}

type mockLLM struct {
	reply     string
	err       error
	callCount int
	history   []domain.ChatMessage
	message   string
}

func (m *mockLLM) Converse(_ context.Context, history []domain.ChatMessage, message string) (string, error) {
	m.callCount++
	m.history = history
	m.message = message
	return m.reply, m.err
}

func TestNewChatService_NilFetcher(t *testing.T) {
	_, err := NewChatService(nil, &mockLLM{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "fetcher")
}

func TestNewChatService_NilLLMAllowed(t *testing.T) {
	s, err := NewChatService(&mockFetcher{}, nil)
	require.NoError(t, err)
	require.NotNil(t, s)
}

func TestChat_NotConfigured(t *testing.T) {
	fetcher := &mockFetcher{}
	s, err := NewChatService(fetcher, nil)
	require.NoError(t, err)

	require.Equal(t, ReplyNotConfigured, s.Chat(context.Background(), "What are the hostel fees?"))
	require.Zero(t, fetcher.callCount, "unconfigured service must not call the data source")
}

func TestChat_EmptyMessage(t *testing.T) {
	for _, message := range []string{"", "   ", "\n\t"} {
		fetcher := &mockFetcher{}
		llm := &mockLLM{reply: "unused"}
		s, err := NewChatService(fetcher, llm)
		require.NoError(t, err)

		require.Equal(t, ReplyEmptyMessage, s.Chat(context.Background(), message))
		require.Zero(t, fetcher.callCount, "empty message must not trigger a fetch")
		require.Zero(t, llm.callCount, "empty message must not reach the provider")
	}
}

func TestChat_HappyPath(t *testing.T) {
	fetcher := &mockFetcher{data: map[string]any{"hostel_fee": "50000"}}
	llm := &mockLLM{reply: "The hostel fee is 50000 per year."}
	s, err := NewChatService(fetcher, llm)
	require.NoError(t, err)

	reply := s.Chat(context.Background(), "What are the hostel fees?")
	require.Equal(t, "The hostel fee is 50000 per year.", reply)
	require.Equal(t, 1, fetcher.callCount)
	require.Equal(t, "What are the hostel fees?", llm.message)

	// Seeded two-turn opening: instructions as a user turn, canned model ack.
	require.Len(t, llm.history, 2)
	require.Equal(t, domain.RoleUser, llm.history[0].Role)
	require.Contains(t, llm.history[0].Content, `hostel_fee: "50000"`)
	require.Equal(t, domain.RoleModel, llm.history[1].Role)
	require.Equal(t, assistantGreeting, llm.history[1].Content)
}

func TestChat_FetchErrorStillReachesProvider(t *testing.T) {
	fetcher := &mockFetcher{data: map[string]any{"error": "Could not fetch live data."}}
	llm := &mockLLM{reply: "I don't have that information right now."}
	s, err := NewChatService(fetcher, llm)
	require.NoError(t, err)

	reply := s.Chat(context.Background(), "What are the hostel fees?")
	require.Equal(t, "I don't have that information right now.", reply)
	require.Equal(t, 1, llm.callCount, "fetch failure is non-fatal; the prompt carries the marker")
	require.Contains(t, llm.history[0].Content, "Could not fetch live data.")
}

func TestChat_ProviderFailure(t *testing.T) {
	fetcher := &mockFetcher{data: map[string]any{}}
	llm := &mockLLM{err: errors.New("gemini: send message: status 500")}
	s, err := NewChatService(fetcher, llm)
	require.NoError(t, err)

	require.Equal(t, ReplyUpstreamError, s.Chat(context.Background(), "hello"))
}

func TestChat_TrimsMessage(t *testing.T) {
	fetcher := &mockFetcher{data: map[string]any{}}
	llm := &mockLLM{reply: "hi"}
	s, err := NewChatService(fetcher, llm)
	require.NoError(t, err)

	s.Chat(context.Background(), "  hello  ")
	require.Equal(t, "hello", llm.message)
}
