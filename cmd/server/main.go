package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vaidyai-backend/internal/ai"
	"vaidyai-backend/internal/api"
	"vaidyai-backend/internal/config"
	"vaidyai-backend/internal/handlers"
	"vaidyai-backend/internal/services"
	"vaidyai-backend/internal/store/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	log.Println("Starting VaidyAI Backend...")

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}
	log.Println("Configuration loaded successfully.")

	// 2. Initialize Database Connection Pool
	dbCtx, dbCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer dbCancel()

	dbpool, err := pgxpool.New(dbCtx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("FATAL: Unable to create database connection pool: %v", err)
	}
	defer dbpool.Close()

	if err := dbpool.Ping(dbCtx); err != nil {
		log.Fatalf("FATAL: Unable to ping database: %v", err)
	}
	log.Println("Database connection pool established and pinged successfully.")

	// 3. Initialize Store
	pgStore := postgres.NewPostgresStore(dbpool)
	log.Println("Postgres store initialized.")

	// 4. Resolve the AI pipeline. Failure here degrades /chat to 503 but
	// must not prevent auth and conversation-history endpoints from serving.
	synth := buildSynthesizer(dbCtx, cfg, dbpool)

	// 5. Initialize Services & Handlers
	authService := services.NewAuthService(pgStore, cfg)
	chatService := services.NewChatService(pgStore, synth)
	log.Println("Services initialized.")

	authHandler := handlers.NewAuthHandler(authService)
	chatHandler := handlers.NewChatHandlers(chatService)
	log.Println("Handlers initialized.")

	// 6. Setup Router & Inject Dependencies
	router := api.NewRouter(api.RouterDependencies{
		AuthHandler: authHandler,
		ChatHandler: chatHandler,
		Config:      cfg,
	})
	log.Println("HTTP router configured.")

	// 7. Configure and Start HTTP Server
	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting and listening on port %s", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: Could not listen on %s: %v", cfg.HTTPPort, err)
		}
	}()

	<-stopChan
	log.Println("Shutdown signal received, initiating graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server graceful shutdown failed: %v", err)
	}

	log.Println("Server shutdown complete.")
}

// buildSynthesizer resolves the generation backend (primary credential
// first, fallback second) and verifies the corpus index. Any failure is
// logged and yields a nil synthesizer, leaving the service in degraded mode.
func buildSynthesizer(ctx context.Context, cfg *config.Config, dbpool *pgxpool.Pool) services.Synthesizer {
	backend, err := ai.Resolve(ctx,
		[]ai.Credential{
			{Name: "primary", APIKey: cfg.PrimaryAPIKey},
			{Name: "fallback", APIKey: cfg.FallbackAPIKey},
		},
		ai.DialGemini,
		ai.BackendConfig{
			GenerationModel:   cfg.GenerationModel,
			EmbeddingModel:    cfg.EmbeddingModel,
			GenerationTimeout: cfg.GenerationTimeout,
		},
	)
	if err != nil {
		log.Printf("WARN: AI pipeline unavailable, /chat will return 503: %v", err)
		return nil
	}

	retriever, err := ai.NewCorpusRetriever(dbpool, backend)
	if err != nil {
		log.Printf("WARN: AI pipeline unavailable, /chat will return 503: %v", err)
		return nil
	}
	if err := retriever.Ready(ctx); err != nil {
		log.Printf("WARN: AI pipeline unavailable, /chat will return 503: %v", err)
		return nil
	}

	log.Println("AI pipeline resolved: retrieval-augmented generation is available.")
	return ai.NewSynthesizer(retriever, backend, cfg.RetrievalTopK)
}
