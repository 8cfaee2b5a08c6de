package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration values loaded from environment variables.
type Config struct {
	HTTPPort        string
	DatabaseURL     string
	JWTSecret       string
	TokenExpiration time.Duration

	// Generation provider credentials, in failover order.
	PrimaryAPIKey  string
	FallbackAPIKey string

	GenerationModel   string
	EmbeddingModel    string
	RetrievalTopK     int
	GenerationTimeout time.Duration
}

// LoadConfig loads configuration from environment variables.
// It looks for a .env file first, then checks actual environment variables.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file (useful for development)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Could not load .env file. Using environment variables only.")
		// Don't fail if .env is not present, might be in production
	}

	dbURL := getEnv("DATABASE_URL", "")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	jwtSecret := getEnv("JWT_SECRET", "")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is not set")
	}

	tokenExpMinutes, err := getEnvInt("JWT_EXPIRATION_MINUTES", 30)
	if err != nil {
		return nil, err
	}

	topK, err := getEnvInt("RETRIEVAL_TOP_K", 3)
	if err != nil {
		return nil, err
	}

	genTimeoutSecs, err := getEnvInt("GENERATION_TIMEOUT_SECONDS", 30)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPPort:          getEnv("HTTP_PORT", "8080"),
		DatabaseURL:       dbURL,
		JWTSecret:         jwtSecret,
		TokenExpiration:   time.Duration(tokenExpMinutes) * time.Minute,
		PrimaryAPIKey:     getEnv("PRIMARY_GEMINI_API_KEY", ""),
		FallbackAPIKey:    getEnv("FALLBACK_GEMINI_API_KEY", ""),
		GenerationModel:   getEnv("GENERATION_MODEL", "gemini-2.0-flash"),
		EmbeddingModel:    getEnv("EMBEDDING_MODEL", "gemini-embedding-001"),
		RetrievalTopK:     topK,
		GenerationTimeout: time.Duration(genTimeoutSecs) * time.Second,
	}

	log.Printf("Loaded config: Port=%s, DB_URL=***, TokenExp=%s, Model=%s, TopK=%d",
		cfg.HTTPPort, cfg.TokenExpiration, cfg.GenerationModel, cfg.RetrievalTopK)

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt retrieves an integer environment variable or returns a default value.
func getEnvInt(key string, fallback int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}
