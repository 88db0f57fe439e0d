package handlers_test

import (
	"testing"

	"github.com/edgard/geminibot/internal/bot/handlers"
)

func TestWebSearchPrompt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		query    string
		expected string
	}{
		{
			name:     "Single word",
			query:    "golang",
			expected: "Search the web for: golang and summarize the top results.",
		},
		{
			name:     "Multi-word query",
			query:    "weather in lisbon",
			expected: "Search the web for: weather in lisbon and summarize the top results.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := handlers.WebSearchPrompt(tt.query); got != tt.expected {
				t.Errorf("WebSearchPrompt(%q) = %q, want %q", tt.query, got, tt.expected)
			}
		})
	}
}
