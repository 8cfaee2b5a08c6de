package postgres

import (
	"context"
	"errors"
	"fmt"
	"log"

	"vaidyai-backend/internal/models"
	"vaidyai-backend/internal/store"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Compile-time check to ensure PostgresStore implements store.Store
var _ store.Store = (*PostgresStore)(nil)

// uniqueViolation is the PostgreSQL error code for unique constraint violations.
const uniqueViolation = "23505"

type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// GetUserByUsername retrieves a user by their username.
// Returns store.ErrNotFound if the user does not exist.
func (s *PostgresStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `
		SELECT id, username, hashed_password, created_at
		FROM users
		WHERE username = $1`

	user := &models.User{}
	err := s.db.QueryRow(ctx, query, username).Scan(
		&user.ID,
		&user.Username,
		&user.HashedPassword,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		log.Printf("ERROR [PostgresStore] GetUserByUsername: query failed for %s: %v", username, err)
		return nil, fmt.Errorf("database error fetching user: %w", err)
	}

	return user, nil
}

// CreateUser inserts a new user record into the database.
// Returns store.ErrDuplicateUser if the username is already taken.
func (s *PostgresStore) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, username, hashed_password)
		VALUES ($1, $2, $3)`
	// created_at has a database default (NOW())

	_, err := s.db.Exec(ctx, query,
		user.ID,
		user.Username,
		user.HashedPassword,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return store.ErrDuplicateUser
		}
		log.Printf("ERROR [PostgresStore] CreateUser: insert failed for %s: %v", user.Username, err)
		return fmt.Errorf("database error creating user: %w", err)
	}

	log.Printf("[PostgresStore] CreateUser: inserted user ID %s for username %s", user.ID, user.Username)
	return nil
}
