package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vaidyai-backend/internal/models"
	"vaidyai-backend/internal/store"
	"vaidyai-backend/internal/store/storetest"
)

type stubSynthesizer struct {
	answer string
	err    error
	calls  int
}

func (s *stubSynthesizer) Synthesize(_ context.Context, _ string) (string, error) {
	s.calls++
	return s.answer, s.err
}

func TestChat_NewConversation(t *testing.T) {
	st := storetest.New()
	svc := NewChatService(st, &stubSynthesizer{answer: "Drink water and rest."})

	resp, err := svc.Chat(context.Background(), "alice", "What helps a headache?", nil)
	require.NoError(t, err)
	assert.Equal(t, "Drink water and rest.", resp.Response)
	require.NotEqual(t, uuid.Nil, resp.ConversationID)

	conv, err := st.GetConversationByID(context.Background(), resp.ConversationID, "alice")
	require.NoError(t, err)
	require.Len(t, conv.Messages, 2)
	assert.Equal(t, models.RoleUser, conv.Messages[0].Role)
	assert.Equal(t, "What helps a headache?", conv.Messages[0].Content)
	assert.Equal(t, models.RoleAssistant, conv.Messages[1].Role)
	assert.Equal(t, "Drink water and rest.", conv.Messages[1].Content)
	assert.Equal(t, "What helps a headache?", conv.Title)
}

func TestChat_AppendsToExistingConversationInOrder(t *testing.T) {
	st := storetest.New()
	svc := NewChatService(st, &stubSynthesizer{answer: "answer"})

	first, err := svc.Chat(context.Background(), "alice", "first question", nil)
	require.NoError(t, err)

	id := first.ConversationID
	second, err := svc.Chat(context.Background(), "alice", "second question", &id)
	require.NoError(t, err)
	assert.Equal(t, id, second.ConversationID)

	conv, err := st.GetConversationByID(context.Background(), id, "alice")
	require.NoError(t, err)
	require.Len(t, conv.Messages, 4)

	var contents []string
	for _, m := range conv.Messages {
		contents = append(contents, m.Role+":"+m.Content)
	}
	assert.Equal(t, []string{
		"user:first question",
		"assistant:answer",
		"user:second question",
		"assistant:answer",
	}, contents, "transcript must preserve append order")
}

func TestChat_SynthesisFailureLeavesNoOrphanTurns(t *testing.T) {
	st := storetest.New()
	synth := &stubSynthesizer{err: errors.New("provider timeout")}
	svc := NewChatService(st, synth)

	// New conversation path: nothing is created.
	_, err := svc.Chat(context.Background(), "alice", "question", nil)
	require.ErrorIs(t, err, ErrSynthesis)
	list, err := svc.ListConversations(context.Background(), "alice")
	require.NoError(t, err)
	assert.Empty(t, list, "a failed first turn must not create a conversation")

	// Existing conversation path: message count is unchanged.
	okSynth := &stubSynthesizer{answer: "ok"}
	svc = NewChatService(st, okSynth)
	created, err := svc.Chat(context.Background(), "alice", "seed", nil)
	require.NoError(t, err)

	svc = NewChatService(st, synth)
	id := created.ConversationID
	_, err = svc.Chat(context.Background(), "alice", "follow-up", &id)
	require.ErrorIs(t, err, ErrSynthesis)

	conv, err := st.GetConversationByID(context.Background(), id, "alice")
	require.NoError(t, err)
	assert.Len(t, conv.Messages, 2, "a failed turn must not pollute history")
}

func TestChat_UnknownConversationRejectedBeforeSynthesis(t *testing.T) {
	synth := &stubSynthesizer{answer: "unused"}
	svc := NewChatService(storetest.New(), synth)

	id := uuid.New()
	_, err := svc.Chat(context.Background(), "alice", "question", &id)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Zero(t, synth.calls, "generation must not run for an unresolvable conversation")
}

func TestChat_DegradedModeFailsFast(t *testing.T) {
	st := storetest.New()
	svc := NewChatService(st, nil)

	_, err := svc.Chat(context.Background(), "alice", "question", nil)
	assert.ErrorIs(t, err, ErrAIUnavailable)

	// History endpoints keep working in degraded mode.
	list, err := svc.ListConversations(context.Background(), "alice")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestChat_EmptyPrompt(t *testing.T) {
	svc := NewChatService(storetest.New(), &stubSynthesizer{answer: "ok"})

	_, err := svc.Chat(context.Background(), "alice", "", nil)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestOwnershipIsolation(t *testing.T) {
	st := storetest.New()
	svc := NewChatService(st, &stubSynthesizer{answer: "answer"})

	created, err := svc.Chat(context.Background(), "alice", "alice's question", nil)
	require.NoError(t, err)
	id := created.ConversationID

	// Reads, appends, and deletes by another user behave as not-found.
	_, err = svc.GetConversation(context.Background(), id, "bob")
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = svc.Chat(context.Background(), "bob", "hijack attempt", &id)
	assert.ErrorIs(t, err, store.ErrNotFound)

	err = svc.DeleteConversation(context.Background(), id, "bob")
	assert.ErrorIs(t, err, store.ErrNotFound)

	// The owner still sees an intact conversation.
	conv, err := svc.GetConversation(context.Background(), id, "alice")
	require.NoError(t, err)
	assert.Len(t, conv.Messages, 2)

	list, err := svc.ListConversations(context.Background(), "bob")
	require.NoError(t, err)
	assert.Empty(t, list, "another user's conversations must not be listed")
}

func TestDeleteConversation(t *testing.T) {
	st := storetest.New()
	svc := NewChatService(st, &stubSynthesizer{answer: "answer"})

	created, err := svc.Chat(context.Background(), "alice", "question", nil)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteConversation(context.Background(), created.ConversationID, "alice"))

	err = svc.DeleteConversation(context.Background(), created.ConversationID, "alice")
	assert.ErrorIs(t, err, store.ErrNotFound, "deleting an absent conversation must fail")
}

func TestDeleteAllConversations_Idempotent(t *testing.T) {
	st := storetest.New()
	svc := NewChatService(st, &stubSynthesizer{answer: "answer"})

	for i := 0; i < 3; i++ {
		_, err := svc.Chat(context.Background(), "alice", "question", nil)
		require.NoError(t, err)
	}
	_, err := svc.Chat(context.Background(), "bob", "bob's question", nil)
	require.NoError(t, err)

	count, err := svc.DeleteAllConversations(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	count, err = svc.DeleteAllConversations(context.Background(), "alice")
	require.NoError(t, err)
	assert.Zero(t, count, "second bulk delete must remove nothing")

	// Bob's history is untouched.
	list, err := svc.ListConversations(context.Background(), "bob")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestListConversations_NewestFirst(t *testing.T) {
	st := storetest.New()
	svc := NewChatService(st, &stubSynthesizer{answer: "answer"})

	var ids []uuid.UUID
	for _, q := range []string{"one", "two", "three"} {
		resp, err := svc.Chat(context.Background(), "alice", q, nil)
		require.NoError(t, err)
		ids = append(ids, resp.ConversationID)
	}

	list, err := svc.ListConversations(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, list, 3)

	// Deterministic for a fixed owner: two calls agree.
	again, err := svc.ListConversations(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, list, again)

	// Every created conversation is present exactly once.
	seen := map[uuid.UUID]bool{}
	for _, s := range list {
		seen[s.ID] = true
	}
	for _, id := range ids {
		assert.True(t, seen[id])
	}
	assert.False(t, list[0].CreatedAt.Before(list[2].CreatedAt), "list must be newest first")
}
