package reply_test

import (
	"strings"
	"testing"

	"github.com/edgard/geminibot/internal/reply"
)

func TestCompose(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		raw      string
		fallback string
		expected string
	}{
		{
			name:     "Raw text passes through",
			raw:      "Here is the answer.",
			fallback: "I couldn't process that.",
			expected: "Here is the answer.",
		},
		{
			name:     "Empty raw substitutes fallback",
			raw:      "",
			fallback: "I couldn't process that.",
			expected: "I couldn't process that.",
		},
		{
			name:     "Whitespace raw is not empty",
			raw:      " ",
			fallback: "I couldn't process that.",
			expected: " ",
		},
		{
			name:     "Both empty",
			raw:      "",
			fallback: "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := reply.Compose(tt.raw, tt.fallback)
			if result != tt.expected {
				t.Errorf("Compose(%q, %q) = %q, want %q", tt.raw, tt.fallback, result, tt.expected)
			}
		})
	}
}

func TestCompose_TruncatesLongResults(t *testing.T) {
	t.Parallel()

	raw := strings.Repeat("a", reply.MaxMessageLength+100)
	result := reply.Compose(raw, "fallback")

	if len([]rune(result)) != reply.MaxMessageLength {
		t.Errorf("Compose() length = %d, want %d", len([]rune(result)), reply.MaxMessageLength)
	}
	if !strings.HasPrefix(raw, result) {
		t.Error("Compose() result is not a prefix of the input")
	}
}

func TestCompose_TruncatesLongFallback(t *testing.T) {
	t.Parallel()

	fallback := strings.Repeat("b", reply.MaxMessageLength*2)
	result := reply.Compose("", fallback)

	if len([]rune(result)) != reply.MaxMessageLength {
		t.Errorf("Compose() length = %d, want %d", len([]rune(result)), reply.MaxMessageLength)
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		maxLen   int
		expected string
	}{
		{
			name:     "Shorter than limit",
			input:    "hello",
			maxLen:   10,
			expected: "hello",
		},
		{
			name:     "Exactly at limit",
			input:    "hello",
			maxLen:   5,
			expected: "hello",
		},
		{
			name:     "Longer than limit",
			input:    "hello world",
			maxLen:   5,
			expected: "hello",
		},
		{
			name:     "Zero limit",
			input:    "hello",
			maxLen:   0,
			expected: "",
		},
		{
			name:     "Negative limit",
			input:    "hello",
			maxLen:   -1,
			expected: "",
		},
		{
			name:     "Empty input",
			input:    "",
			maxLen:   5,
			expected: "",
		},
		{
			name:     "Multi-byte runes counted as characters",
			input:    "héllo wörld",
			maxLen:   6,
			expected: "héllo ",
		},
		{
			name:     "CJK text not split mid-rune",
			input:    "こんにちは世界",
			maxLen:   3,
			expected: "こんに",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := reply.Truncate(tt.input, tt.maxLen)
			if result != tt.expected {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, result, tt.expected)
			}
		})
	}
}
