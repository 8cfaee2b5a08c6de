package models

import (
	"strings"
)

// titleMaxRunes bounds conversation titles derived from the first message.
const titleMaxRunes = 50

// DeriveTitle produces a conversation title from the first user message:
// whitespace-trimmed and truncated to a short, display-friendly length.
func DeriveTitle(firstMessage string) string {
	title := strings.TrimSpace(firstMessage)
	if title == "" {
		return "New conversation"
	}
	runes := []rune(title)
	if len(runes) > titleMaxRunes {
		return strings.TrimSpace(string(runes[:titleMaxRunes])) + "…"
	}
	return title
}
