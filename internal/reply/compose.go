// Package reply shapes outbound message text for the Telegram transport.
package reply

// MaxMessageLength is Telegram's hard limit on outbound message length.
const MaxMessageLength = 4096

// Compose returns the outbound text for a raw inference result. An empty
// raw value is substituted with the fallback; the result is truncated to
// MaxMessageLength characters, preserving the prefix.
func Compose(raw, fallback string) string {
	text := raw
	if text == "" {
		text = fallback
	}
	return Truncate(text, MaxMessageLength)
}

// Truncate cuts s down to at most maxLen characters, preserving the prefix.
// Counting is by rune so a multi-byte character is never split.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen])
}
