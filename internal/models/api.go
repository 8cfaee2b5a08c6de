package models

import (
	"time"

	"github.com/google/uuid"
)

// --- Request Structs ---

// RegisterRequest defines the expected body for the register endpoint.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ChatRequest defines the expected body for the chat endpoint.
// ConversationID is optional: when absent, a new conversation is created
// once generation succeeds.
type ChatRequest struct {
	Prompt         string  `json:"prompt"`
	ConversationID *string `json:"conversation_id,omitempty"`
}

// --- Response Structs ---

// TokenResponse defines the response body for successful authentication.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// MessageResponse is a generic informational response.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse defines the standard structure for API errors.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ConversationSummary is the list-view projection of a conversation.
// It deliberately excludes the message transcript.
type ConversationSummary struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// ConversationMessagesResponse defines the body returned when fetching a
// single conversation's transcript.
type ConversationMessagesResponse struct {
	Messages []Message `json:"messages"`
}

// ChatResponse defines the body returned by a successful chat turn.
type ChatResponse struct {
	Response       string    `json:"response"`
	ConversationID uuid.UUID `json:"conversation_id"`
}

// DeleteAllResponse reports how many conversations a bulk delete removed.
type DeleteAllResponse struct {
	DeletedCount int64 `json:"deleted_count"`
}
