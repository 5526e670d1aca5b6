package usecase

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildSystemPrompt_EmbedsCompactData(t *testing.T) {
	prompt := buildSystemPrompt(map[string]any{
		"hostel_fee": "50000",
		"courses":    []any{"CSE", "IT"},
	})

	require.Contains(t, prompt, `hostel_fee: "50000"`)
	require.Contains(t, prompt, "courses[2]: CSE,IT")
	require.NotContains(t, prompt, `{"hostel_fee"`, "data must be embedded in compact form, not JSON")
}

func TestBuildSystemPrompt_CarriesBehaviorRules(t *testing.T) {
	prompt := buildSystemPrompt(map[string]any{"k": "v"})

	require.Contains(t, prompt, "based *only* on the information provided below")
	require.Contains(t, prompt, "Do not make up information")
	require.Contains(t, prompt, "respond in the same language")
	require.Contains(t, prompt, "politely say that you don't have that information")
	require.Contains(t, prompt, "Sankalp")
	require.Contains(t, prompt, "SSIPMT")
}

func TestBuildSystemPrompt_EmbedsErrorMarker(t *testing.T) {
	prompt := buildSystemPrompt(map[string]any{"error": "Could not fetch live data."})
	require.Contains(t, prompt, "error: Could not fetch live data.")
}

func TestBuildSystemPrompt_DataBetweenDelimiters(t *testing.T) {
	prompt := buildSystemPrompt(map[string]any{"k": "v"})
	_, after, found := strings.Cut(prompt, "---\n")
	require.True(t, found)
	require.True(t, strings.HasSuffix(after, "\n---"))
	require.Contains(t, after, "k: v")
}
