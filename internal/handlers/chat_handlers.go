package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"vaidyai-backend/internal/auth"
	"vaidyai-backend/internal/models"
	"vaidyai-backend/internal/services"
	"vaidyai-backend/internal/store"
	"vaidyai-backend/pkg/httputil"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// ChatService defines the interface expected from the chat service.
type ChatService interface {
	Chat(ctx context.Context, username, prompt string, conversationID *uuid.UUID) (*models.ChatResponse, error)
	ListConversations(ctx context.Context, username string) ([]models.ConversationSummary, error)
	GetConversation(ctx context.Context, id uuid.UUID, username string) (*models.Conversation, error)
	DeleteConversation(ctx context.Context, id uuid.UUID, username string) error
	DeleteAllConversations(ctx context.Context, username string) (int64, error)
}

// ChatHandlers handles HTTP requests for chat turns and conversations.
type ChatHandlers struct {
	chatService ChatService
}

// NewChatHandlers creates a new ChatHandlers instance.
func NewChatHandlers(chatService ChatService) *ChatHandlers {
	return &ChatHandlers{
		chatService: chatService,
	}
}

// HandleChat handles the POST /chat request: one retrieval-grounded chat
// turn, optionally continuing an existing conversation.
func (h *ChatHandlers) HandleChat(w http.ResponseWriter, r *http.Request) {
	username, ok := auth.GetUsernameFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	if req.Prompt == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Prompt is required")
		return
	}

	// A malformed conversation id behaves like a missing conversation:
	// absence and lack of ownership must be indistinguishable.
	var conversationID *uuid.UUID
	if req.ConversationID != nil {
		id, err := uuid.Parse(*req.ConversationID)
		if err != nil {
			httputil.RespondError(w, http.StatusNotFound, "Conversation not found")
			return
		}
		conversationID = &id
	}

	resp, err := h.chatService.Chat(r.Context(), username, req.Prompt, conversationID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			httputil.RespondError(w, http.StatusNotFound, "Conversation not found")
		case errors.Is(err, services.ErrAIUnavailable):
			httputil.RespondError(w, http.StatusServiceUnavailable, "AI service is not available")
		case errors.Is(err, services.ErrValidation):
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
		default:
			log.Printf("Chat handler failed for user %s: %v", username, err)
			httputil.RespondError(w, http.StatusInternalServerError, "Failed to generate a response")
		}
		return
	}

	httputil.RespondJSON(w, http.StatusOK, resp)
}

// HandleListConversations handles the GET /conversations request.
func (h *ChatHandlers) HandleListConversations(w http.ResponseWriter, r *http.Request) {
	username, ok := auth.GetUsernameFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	summaries, err := h.chatService.ListConversations(r.Context(), username)
	if err != nil {
		log.Printf("ListConversations handler failed for user %s: %v", username, err)
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to list conversations")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, summaries)
}

// HandleGetConversation handles the GET /conversations/{conversationID} request.
func (h *ChatHandlers) HandleGetConversation(w http.ResponseWriter, r *http.Request) {
	username, ok := auth.GetUsernameFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "conversationID"))
	if err != nil {
		httputil.RespondError(w, http.StatusNotFound, "Conversation not found")
		return
	}

	conv, err := h.chatService.GetConversation(r.Context(), id, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httputil.RespondError(w, http.StatusNotFound, "Conversation not found")
			return
		}
		log.Printf("GetConversation handler failed for user %s: %v", username, err)
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to get conversation")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, models.ConversationMessagesResponse{Messages: conv.Messages})
}

// HandleDeleteConversation handles the DELETE /conversations/{conversationID} request.
func (h *ChatHandlers) HandleDeleteConversation(w http.ResponseWriter, r *http.Request) {
	username, ok := auth.GetUsernameFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "conversationID"))
	if err != nil {
		httputil.RespondError(w, http.StatusNotFound, "Conversation not found")
		return
	}

	if err := h.chatService.DeleteConversation(r.Context(), id, username); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httputil.RespondError(w, http.StatusNotFound, "Conversation not found")
			return
		}
		log.Printf("DeleteConversation handler failed for user %s: %v", username, err)
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to delete conversation")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, models.MessageResponse{Message: "Conversation deleted successfully"})
}

// HandleDeleteAllConversations handles the DELETE /conversations request.
func (h *ChatHandlers) HandleDeleteAllConversations(w http.ResponseWriter, r *http.Request) {
	username, ok := auth.GetUsernameFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	count, err := h.chatService.DeleteAllConversations(r.Context(), username)
	if err != nil {
		log.Printf("DeleteAllConversations handler failed for user %s: %v", username, err)
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to delete conversations")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, models.DeleteAllResponse{DeletedCount: count})
}
