package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"vaidyai-backend/internal/auth"
	"vaidyai-backend/internal/config"
	"vaidyai-backend/internal/models"
	"vaidyai-backend/internal/store"

	"github.com/google/uuid"
)

// Custom errors for auth service
var (
	ErrUserAlreadyExists  = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("incorrect username or password")
	ErrHashingPassword    = errors.New("failed to hash password")
	ErrCreatingToken      = errors.New("failed to create access token")
	ErrValidation         = errors.New("input validation failed")
)

type AuthService struct {
	store store.Store
	cfg   *config.Config
}

func NewAuthService(s store.Store, cfg *config.Config) *AuthService {
	return &AuthService{
		store: s,
		cfg:   cfg,
	}
}

// Register creates a new user with a bcrypt-hashed password.
func (s *AuthService) Register(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password cannot be empty", ErrValidation)
	}

	// Check if the username is already taken
	_, err := s.store.GetUserByUsername(ctx, username)
	if err == nil {
		return nil, ErrUserAlreadyExists
	}
	if !errors.Is(err, store.ErrNotFound) {
		log.Printf("Error checking user existence for %s: %v", username, err)
		return nil, fmt.Errorf("failed to check user existence: %w", err)
	}
	// User does not exist (store.ErrNotFound received), proceed.

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		log.Printf("Error hashing password for %s: %v", username, err)
		return nil, ErrHashingPassword
	}

	user := &models.User{
		ID:             uuid.New(),
		Username:       username,
		HashedPassword: hashedPassword,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		// A concurrent registration may win the race; the unique constraint
		// is the source of truth.
		if errors.Is(err, store.ErrDuplicateUser) {
			return nil, ErrUserAlreadyExists
		}
		log.Printf("Error creating user %s: %v", username, err)
		return nil, fmt.Errorf("creating user failed: %w", err)
	}

	log.Printf("Successfully registered user %s (ID: %s)", username, user.ID)
	return user, nil
}

// Login verifies user credentials and returns a signed access token.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", ErrInvalidCredentials // Basic check before hitting DB
	}

	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrInvalidCredentials // Don't reveal whether the user exists
		}
		log.Printf("Error retrieving user %s during login: %v", username, err)
		return "", fmt.Errorf("failed to retrieve user: %w", err)
	}

	if !auth.CheckPasswordHash(password, user.HashedPassword) {
		return "", ErrInvalidCredentials
	}

	token, err := auth.NewAccessToken(user.Username, s.cfg.JWTSecret, s.cfg.TokenExpiration)
	if err != nil {
		log.Printf("Error generating JWT for user %s: %v", username, err)
		return "", ErrCreatingToken
	}

	log.Printf("Successfully logged in user %s", username)
	return token, nil
}
