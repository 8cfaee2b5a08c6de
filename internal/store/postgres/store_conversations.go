package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"vaidyai-backend/internal/models"
	"vaidyai-backend/internal/store"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// --- Conversation Methods ---

const createConversation = `-- name: CreateConversation :one
INSERT INTO conversations (id, username, title, messages)
VALUES ($1, $2, $3, $4)
RETURNING id, username, title, messages, created_at, updated_at;
`

// CreateConversation allocates a fresh conversation seeded with the first
// user message. The title is derived from that message.
func (s *PostgresStore) CreateConversation(ctx context.Context, owner string, firstMessage models.Message) (*models.Conversation, error) {
	messagesJSON, err := json.Marshal([]models.Message{firstMessage})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal initial message: %w", err)
	}

	row := s.db.QueryRow(ctx, createConversation,
		uuid.New(),
		owner,
		models.DeriveTitle(firstMessage.Content),
		messagesJSON,
	)

	conv, err := scanConversation(row)
	if err != nil {
		log.Printf("ERROR [PostgresStore] CreateConversation: insert failed for owner %s: %v", owner, err)
		return nil, fmt.Errorf("database error creating conversation: %w", err)
	}

	log.Printf("[PostgresStore] CreateConversation: created conversation %s for owner %s", conv.ID, owner)
	return conv, nil
}

const appendMessage = `-- name: AppendMessage :exec
UPDATE conversations
SET messages = messages || $3::jsonb, updated_at = NOW()
WHERE id = $1 AND username = $2;
`

// AppendMessage atomically appends a message to the conversation's JSONB
// transcript. The single UPDATE serializes concurrent appends on the row,
// so overlapping turns interleave without losing messages.
// Returns store.ErrNotFound if the conversation is absent or not owned.
func (s *PostgresStore) AppendMessage(ctx context.Context, id uuid.UUID, owner string, message models.Message) error {
	messageJSON, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	tag, err := s.db.Exec(ctx, appendMessage, id, owner, messageJSON)
	if err != nil {
		log.Printf("ERROR [PostgresStore] AppendMessage: update failed for conversation %s: %v", id, err)
		return fmt.Errorf("database error appending message: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}

	return nil
}

const listConversationsByOwner = `-- name: ListConversationsByOwner :many
SELECT id, title, created_at
FROM conversations
WHERE username = $1
ORDER BY created_at DESC, id DESC;
`

// ListConversationsByOwner returns summaries of the owner's conversations,
// newest first. Ordering is deterministic for a fixed owner.
func (s *PostgresStore) ListConversationsByOwner(ctx context.Context, owner string) ([]models.ConversationSummary, error) {
	rows, err := s.db.Query(ctx, listConversationsByOwner, owner)
	if err != nil {
		log.Printf("ERROR [PostgresStore] ListConversationsByOwner: query failed for %s: %v", owner, err)
		return nil, fmt.Errorf("database error listing conversations: %w", err)
	}
	defer rows.Close()

	summaries := []models.ConversationSummary{}
	for rows.Next() {
		var summary models.ConversationSummary
		if err := rows.Scan(&summary.ID, &summary.Title, &summary.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning conversation summary: %w", err)
		}
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating conversations: %w", err)
	}

	return summaries, nil
}

const getConversationByID = `-- name: GetConversationByID :one
SELECT id, username, title, messages, created_at, updated_at
FROM conversations
WHERE id = $1 AND username = $2;
`

// GetConversationByID fetches a conversation enforcing ownership: a lookup
// by a non-owner behaves exactly like a lookup of a missing conversation.
func (s *PostgresStore) GetConversationByID(ctx context.Context, id uuid.UUID, owner string) (*models.Conversation, error) {
	row := s.db.QueryRow(ctx, getConversationByID, id, owner)

	conv, err := scanConversation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		log.Printf("ERROR [PostgresStore] GetConversationByID: query failed for %s: %v", id, err)
		return nil, fmt.Errorf("database error fetching conversation: %w", err)
	}

	return conv, nil
}

const deleteConversation = `-- name: DeleteConversation :exec
DELETE FROM conversations
WHERE id = $1 AND username = $2;
`

// DeleteConversation removes a single conversation.
// Returns store.ErrNotFound if it is absent or not owned.
func (s *PostgresStore) DeleteConversation(ctx context.Context, id uuid.UUID, owner string) error {
	tag, err := s.db.Exec(ctx, deleteConversation, id, owner)
	if err != nil {
		log.Printf("ERROR [PostgresStore] DeleteConversation: delete failed for %s: %v", id, err)
		return fmt.Errorf("database error deleting conversation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}

	return nil
}

const deleteAllConversations = `-- name: DeleteAllConversations :exec
DELETE FROM conversations
WHERE username = $1;
`

// DeleteAllConversations removes every conversation owned by the user and
// returns the number removed. Idempotent: a second call returns zero.
func (s *PostgresStore) DeleteAllConversations(ctx context.Context, owner string) (int64, error) {
	tag, err := s.db.Exec(ctx, deleteAllConversations, owner)
	if err != nil {
		log.Printf("ERROR [PostgresStore] DeleteAllConversations: delete failed for %s: %v", owner, err)
		return 0, fmt.Errorf("database error deleting conversations: %w", err)
	}

	return tag.RowsAffected(), nil
}

// scanConversation scans a conversation row, unmarshalling the JSONB
// transcript into typed messages.
func scanConversation(row pgx.Row) (*models.Conversation, error) {
	var conv models.Conversation
	var messagesJSON []byte

	err := row.Scan(
		&conv.ID,
		&conv.Username,
		&conv.Title,
		&messagesJSON,
		&conv.CreatedAt,
		&conv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(messagesJSON, &conv.Messages); err != nil {
		return nil, fmt.Errorf("failed to parse conversation messages: %w", err)
	}

	return &conv, nil
}
