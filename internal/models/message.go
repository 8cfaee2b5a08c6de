package models

import (
	"time"
)

// Message roles. Only user and assistant turns are stored in transcripts.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a single message in a conversation.
// This structure is what's stored in the JSONB messages field of the
// conversations table. Messages are immutable once appended; their order
// within a conversation is the dialogue transcript.
type Message struct {
	Role      string    `json:"role"`      // "user" or "assistant"
	Content   string    `json:"content"`   // The text content of the message
	Timestamp time.Time `json:"timestamp"` // Time the message was recorded
}

// RetrievedPassage is a corpus excerpt returned by similarity search.
// Passages are transient: produced per query and never persisted.
type RetrievedPassage struct {
	Text   string
	Source string // optional reference to the originating document
}
