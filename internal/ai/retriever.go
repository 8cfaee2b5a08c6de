package ai

import (
	"context"
	"errors"
	"fmt"

	"vaidyai-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// Embedder turns query text into a vector in the corpus embedding space.
// *Backend satisfies it.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// CorpusRetriever performs similarity search over a fixed, pre-embedded
// corpus stored in the corpus_passages table. The corpus is built offline
// and treated as read-only here.
//
// CorpusRetriever is safe for concurrent use.
type CorpusRetriever struct {
	db       *pgxpool.Pool
	embedder Embedder
}

// NewCorpusRetriever creates a retriever over the given pool and embedder.
func NewCorpusRetriever(db *pgxpool.Pool, embedder Embedder) (*CorpusRetriever, error) {
	if db == nil {
		return nil, errors.New("db pool is required")
	}
	if embedder == nil {
		return nil, errors.New("embedder is required")
	}
	return &CorpusRetriever{db: db, embedder: embedder}, nil
}

// Ready verifies at startup that the corpus index is reachable and
// non-empty. A failed check leaves answer generation unavailable but must
// not bring down the rest of the service.
func (r *CorpusRetriever) Ready(ctx context.Context) error {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM corpus_passages`).Scan(&count)
	if err != nil {
		return fmt.Errorf("corpus index not reachable: %w", err)
	}
	if count == 0 {
		return errors.New("corpus index is empty")
	}
	return nil
}

// Query returns up to k corpus passages most similar to the given text,
// ordered by cosine distance ascending. Deterministic for a fixed index
// and query (id breaks distance ties).
func (r *CorpusRetriever) Query(ctx context.Context, text string, k int) ([]models.RetrievedPassage, error) {
	if k <= 0 {
		return []models.RetrievedPassage{}, nil
	}

	vec, err := r.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	rows, err := r.db.Query(ctx,
		`SELECT content, COALESCE(source, '')
		 FROM corpus_passages
		 ORDER BY embedding <=> $1, id
		 LIMIT $2`,
		pgvector.NewVector(vec), k,
	)
	if err != nil {
		return nil, fmt.Errorf("searching corpus: %w", err)
	}
	defer rows.Close()

	passages := []models.RetrievedPassage{}
	for rows.Next() {
		var p models.RetrievedPassage
		if err := rows.Scan(&p.Text, &p.Source); err != nil {
			return nil, fmt.Errorf("scanning passage: %w", err)
		}
		passages = append(passages, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating passages: %w", err)
	}

	return passages, nil
}
