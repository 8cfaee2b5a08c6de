// Package storetest provides an in-memory store.Store implementation for
// tests. It mirrors the Postgres store's semantics: ownership enforced on
// every conversation operation, append-order preserved, and absence
// indistinguishable from lack of ownership.
package storetest

import (
	"context"
	"sort"
	"sync"
	"time"

	"vaidyai-backend/internal/models"
	"vaidyai-backend/internal/store"

	"github.com/google/uuid"
)

// Compile-time check to ensure Store implements store.Store
var _ store.Store = (*Store)(nil)

// Store is an in-memory store.Store. Safe for concurrent use.
type Store struct {
	mu            sync.Mutex
	users         map[string]*models.User
	conversations map[uuid.UUID]*models.Conversation
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		users:         make(map[string]*models.User),
		conversations: make(map[uuid.UUID]*models.Conversation),
	}
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[username]
	if !ok {
		return nil, store.ErrNotFound
	}
	u := *user
	return &u, nil
}

func (s *Store) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.Username]; ok {
		return store.ErrDuplicateUser
	}
	u := *user
	u.CreatedAt = time.Now().UTC()
	s.users[user.Username] = &u
	return nil
}

func (s *Store) CreateConversation(_ context.Context, owner string, firstMessage models.Message) (*models.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv := &models.Conversation{
		ID:        uuid.New(),
		Username:  owner,
		Title:     models.DeriveTitle(firstMessage.Content),
		Messages:  []models.Message{firstMessage},
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	s.conversations[conv.ID] = conv
	return copyConversation(conv), nil
}

func (s *Store) AppendMessage(_ context.Context, id uuid.UUID, owner string, message models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[id]
	if !ok || conv.Username != owner {
		return store.ErrNotFound
	}
	conv.Messages = append(conv.Messages, message)
	conv.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *Store) ListConversationsByOwner(_ context.Context, owner string) ([]models.ConversationSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	summaries := []models.ConversationSummary{}
	for _, conv := range s.conversations {
		if conv.Username != owner {
			continue
		}
		summaries = append(summaries, models.ConversationSummary{
			ID:        conv.ID,
			Title:     conv.Title,
			CreatedAt: conv.CreatedAt,
		})
	}
	// Newest first, id as deterministic tiebreak, matching the SQL ordering.
	sort.Slice(summaries, func(i, j int) bool {
		if !summaries[i].CreatedAt.Equal(summaries[j].CreatedAt) {
			return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
		}
		return summaries[i].ID.String() > summaries[j].ID.String()
	})
	return summaries, nil
}

func (s *Store) GetConversationByID(_ context.Context, id uuid.UUID, owner string) (*models.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[id]
	if !ok || conv.Username != owner {
		return nil, store.ErrNotFound
	}
	return copyConversation(conv), nil
}

func (s *Store) DeleteConversation(_ context.Context, id uuid.UUID, owner string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[id]
	if !ok || conv.Username != owner {
		return store.ErrNotFound
	}
	delete(s.conversations, id)
	return nil
}

func (s *Store) DeleteAllConversations(_ context.Context, owner string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for id, conv := range s.conversations {
		if conv.Username == owner {
			delete(s.conversations, id)
			count++
		}
	}
	return count, nil
}

func copyConversation(conv *models.Conversation) *models.Conversation {
	c := *conv
	c.Messages = append([]models.Message(nil), conv.Messages...)
	return &c
}
