package store

import (
	"context"
	"errors"

	"vaidyai-backend/internal/models"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a specific record is not found. Lookups by a
// non-owner return ErrNotFound as well, so absence and lack of ownership are
// indistinguishable to callers.
var ErrNotFound = errors.New("record not found")

// ErrDuplicateUser is returned when creating a user whose username is taken.
var ErrDuplicateUser = errors.New("username already exists")

// Store defines the interface for database operations.
// This allows for mocking in tests and potential DB backend switching.
type Store interface {
	// User operations
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error

	// Conversation operations
	CreateConversation(ctx context.Context, owner string, firstMessage models.Message) (*models.Conversation, error)
	AppendMessage(ctx context.Context, id uuid.UUID, owner string, message models.Message) error
	ListConversationsByOwner(ctx context.Context, owner string) ([]models.ConversationSummary, error)
	GetConversationByID(ctx context.Context, id uuid.UUID, owner string) (*models.Conversation, error)
	DeleteConversation(ctx context.Context, id uuid.UUID, owner string) error
	DeleteAllConversations(ctx context.Context, owner string) (int64, error)
}
