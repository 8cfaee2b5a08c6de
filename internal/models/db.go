package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered user in the database.
type User struct {
	ID             uuid.UUID `db:"id"`
	Username       string    `db:"username"`
	HashedPassword string    `db:"hashed_password"`
	CreatedAt      time.Time `db:"created_at"`
}

// Conversation represents a stored dialogue transcript owned by a single user.
// Messages are stored as a JSONB array on the row; they are only ever appended,
// never edited in place.
type Conversation struct {
	ID        uuid.UUID `db:"id"`
	Username  string    `db:"username"`
	Title     string    `db:"title"`
	Messages  []Message `db:"messages"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
