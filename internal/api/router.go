package api

import (
	"net/http"
	"time"

	"vaidyai-backend/internal/config"
	"vaidyai-backend/internal/handlers"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterDependencies holds all the dependencies required by the router setup,
// primarily handlers and configuration.
type RouterDependencies struct {
	AuthHandler *handlers.AuthHandler
	ChatHandler *handlers.ChatHandlers
	Config      *config.Config
}

// NewRouter creates and configures the main Chi router for the application.
func NewRouter(deps RouterDependencies) *chi.Mux {
	r := chi.NewRouter()

	// --- Base Middleware Stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// --- CORS Configuration ---
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:8501", "http://127.0.0.1:8501"}, // chat UI dev hosts
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// --- Public Routes (No JWT Required) ---
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Post("/register", deps.AuthHandler.HandleRegister)
	r.Post("/token", deps.AuthHandler.HandleToken)

	// --- Authenticated Routes (JWT Required) ---
	r.Group(func(r chi.Router) {
		r.Use(JwtAuthMiddleware(deps.Config.JWTSecret))

		r.Post("/chat", deps.ChatHandler.HandleChat)

		r.Route("/conversations", func(r chi.Router) {
			r.Get("/", deps.ChatHandler.HandleListConversations)
			r.Delete("/", deps.ChatHandler.HandleDeleteAllConversations)
			r.Get("/{conversationID}", deps.ChatHandler.HandleGetConversation)
			r.Delete("/{conversationID}", deps.ChatHandler.HandleDeleteConversation)
		})
	})

	return r
}
