package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"vaidyai-backend/internal/models"
	"vaidyai-backend/internal/store"

	"github.com/google/uuid"
)

// Custom errors for chat service
var (
	// ErrAIUnavailable signals that no generation backend or corpus index
	// could be resolved. Callers must fail fast (503), not retry.
	ErrAIUnavailable = errors.New("ai service is not available")

	// ErrSynthesis signals a per-request generation failure (timeout,
	// provider error, malformed response). Provider detail is logged, not
	// surfaced to clients.
	ErrSynthesis = errors.New("answer synthesis failed")
)

// Synthesizer produces a grounded answer for a question.
// ai.Synthesizer satisfies it; tests substitute doubles.
type Synthesizer interface {
	Synthesize(ctx context.Context, question string) (string, error)
}

// ChatService orchestrates chat turns and conversation lifecycle. A turn
// moves through token-verified identity, conversation resolution, answer
// synthesis, and persistence; persistence happens only after synthesis
// fully succeeds, so a failed or cancelled request leaves history unchanged.
type ChatService struct {
	store store.Store
	synth Synthesizer
}

// NewChatService creates a ChatService. A nil synthesizer puts the service
// in degraded mode: chat turns fail with ErrAIUnavailable while the
// conversation-history operations keep working.
func NewChatService(s store.Store, synth Synthesizer) *ChatService {
	return &ChatService{
		store: s,
		synth: synth,
	}
}

// Chat runs one chat turn for the authenticated user. When conversationID
// is nil a new conversation is created, but only after generation succeeds:
// a request that fails to produce an answer never creates or mutates a
// conversation, and an assistant message is always preceded by its user
// message.
func (s *ChatService) Chat(ctx context.Context, username, prompt string, conversationID *uuid.UUID) (*models.ChatResponse, error) {
	if prompt == "" {
		return nil, fmt.Errorf("%w: prompt cannot be empty", ErrValidation)
	}
	if s.synth == nil {
		return nil, ErrAIUnavailable
	}

	// Resolve the conversation up front so an unknown or foreign id is
	// rejected before any generation work happens.
	if conversationID != nil {
		if _, err := s.store.GetConversationByID(ctx, *conversationID, username); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, store.ErrNotFound
			}
			return nil, fmt.Errorf("failed to resolve conversation: %w", err)
		}
	}

	answer, err := s.synth.Synthesize(ctx, prompt)
	if err != nil {
		log.Printf("ERROR [ChatService] synthesis failed for user %s: %v", username, err)
		return nil, fmt.Errorf("%w: %v", ErrSynthesis, err)
	}

	now := time.Now().UTC()
	userMessage := models.Message{Role: models.RoleUser, Content: prompt, Timestamp: now}
	assistantMessage := models.Message{Role: models.RoleAssistant, Content: answer, Timestamp: now}

	var id uuid.UUID
	if conversationID == nil {
		conv, err := s.store.CreateConversation(ctx, username, userMessage)
		if err != nil {
			return nil, fmt.Errorf("failed to create conversation: %w", err)
		}
		id = conv.ID
		if err := s.store.AppendMessage(ctx, id, username, assistantMessage); err != nil {
			return nil, fmt.Errorf("failed to append assistant message: %w", err)
		}
	} else {
		id = *conversationID
		if err := s.store.AppendMessage(ctx, id, username, userMessage); err != nil {
			return nil, fmt.Errorf("failed to append user message: %w", err)
		}
		if err := s.store.AppendMessage(ctx, id, username, assistantMessage); err != nil {
			return nil, fmt.Errorf("failed to append assistant message: %w", err)
		}
	}

	return &models.ChatResponse{Response: answer, ConversationID: id}, nil
}

// ListConversations returns summaries of the user's conversations,
// newest first.
func (s *ChatService) ListConversations(ctx context.Context, username string) ([]models.ConversationSummary, error) {
	summaries, err := s.store.ListConversationsByOwner(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	return summaries, nil
}

// GetConversation fetches a conversation's transcript, enforcing ownership.
func (s *ChatService) GetConversation(ctx context.Context, id uuid.UUID, username string) (*models.Conversation, error) {
	conv, err := s.store.GetConversationByID(ctx, id, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}
	return conv, nil
}

// DeleteConversation removes a single conversation owned by the user.
func (s *ChatService) DeleteConversation(ctx context.Context, id uuid.UUID, username string) error {
	if err := s.store.DeleteConversation(ctx, id, username); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.ErrNotFound
		}
		return fmt.Errorf("failed to delete conversation: %w", err)
	}
	return nil
}

// DeleteAllConversations removes every conversation owned by the user and
// returns the number removed.
func (s *ChatService) DeleteAllConversations(ctx context.Context, username string) (int64, error) {
	count, err := s.store.DeleteAllConversations(ctx, username)
	if err != nil {
		return 0, fmt.Errorf("failed to delete conversations: %w", err)
	}
	log.Printf("[ChatService] deleted %d conversations for user %s", count, username)
	return count, nil
}
