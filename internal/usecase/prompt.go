package usecase

import (
	"fmt"
	"log/slog"
	"strings"

	"college-agent/internal/toon"
)

const (
	assistantName = "Sankalp"
	collegeName   = "SSIPMT"

	assistantGreeting = "Hello! I'm Sankalp, your AI assistant for SSIPMT. How can I help you today?"
)

// buildSystemPrompt formats the fixed instructional template with the
// dataset re-encoded in the compact notation. A dataset that cannot be
// encoded degrades to an inline error marker the rules already cover.
func buildSystemPrompt(data map[string]any) string {
	encoded, err := toon.Marshal(data)
	if err != nil {
		slog.Error("encoding college data failed", "err", err)
		encoded = "error: College data is unavailable."
	}

	return strings.Join([]string{
		fmt.Sprintf("You are %q, a friendly, multilingual, and helpful AI assistant for %s.", assistantName, collegeName),
		"",
		"Your primary goal is to answer user questions based *only* on the information provided below.",
		"- Do not make up information or use external knowledge.",
		"- If the answer is not found in the provided data, politely say that you don't have that information in the user's language.",
		"- Detect the user's language and respond in the same language.",
		"- Be robust to spelling and grammatical errors in the user's query. Try to understand the intent.",
		"- Format your answers clearly, using markdown for bolding and lists when appropriate.",
		"",
		"Here is the college data in TOON (Token-Oriented Object Notation) format:",
		"---",
		encoded,
		"---",
	}, "\n")
}
