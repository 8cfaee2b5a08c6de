package ai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"google.golang.org/genai"
)

// ErrUnavailable is returned when no generation backend could be resolved
// from the configured credentials. Dependent requests must fail fast with a
// service-unavailable signal rather than retrying.
var ErrUnavailable = errors.New("no generation backend available")

// embedTimeout bounds a single embedding call.
const embedTimeout = 10 * time.Second

// EmbeddingDimension is the vector width of the pre-embedded corpus.
// It must match the dimension of the corpus_passages.embedding column.
const EmbeddingDimension = 768

// Credential is one candidate provider credential, tried in failover order.
type Credential struct {
	Name   string
	APIKey string
}

// DialFunc constructs a provider client from an API key. It exists so tests
// can substitute a fake constructor for the real provider.
type DialFunc func(ctx context.Context, apiKey string) (*genai.Client, error)

// DialGemini is the production DialFunc, building a Gemini API client.
func DialGemini(ctx context.Context, apiKey string) (*genai.Client, error) {
	return genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
}

// BackendConfig carries the model identifiers and request bounds for a
// resolved backend.
type BackendConfig struct {
	GenerationModel   string
	EmbeddingModel    string
	GenerationTimeout time.Duration
}

// Backend is a resolved, usable generation backend. It is immutable after
// Resolve and safe for concurrent use: resolve once at startup and share it.
type Backend struct {
	client *genai.Client
	cfg    BackendConfig
}

// Resolve iterates candidate credentials in priority order, attempting to
// construct a usable backend for each. The first successful construction
// wins; per-candidate failures are logged and drive failover to the next
// candidate. Returns ErrUnavailable when every candidate fails.
//
// Request-time failures of the resolved backend are generation errors and
// never trigger re-resolution.
func Resolve(ctx context.Context, candidates []Credential, dial DialFunc, cfg BackendConfig) (*Backend, error) {
	for _, cand := range candidates {
		if cand.APIKey == "" {
			continue
		}
		client, err := dial(ctx, cand.APIKey)
		if err != nil {
			log.Printf("WARN [ModelGateway] credential %q failed: %v", cand.Name, err)
			continue
		}
		log.Printf("[ModelGateway] resolved generation backend using credential %q (model %s)", cand.Name, cfg.GenerationModel)
		return &Backend{client: client, cfg: cfg}, nil
	}

	return nil, ErrUnavailable
}

// Generate produces text for the given prompt, bounded by the configured
// generation timeout.
func (b *Backend) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, b.cfg.GenerationTimeout)
	defer cancel()

	resp, err := b.client.Models.GenerateContent(ctx, b.cfg.GenerationModel, genai.Text(prompt),
		&genai.GenerateContentConfig{
			Temperature:     genai.Ptr[float32](0.7),
			MaxOutputTokens: 512,
		})
	if err != nil {
		return "", fmt.Errorf("generation request failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", errors.New("provider returned an empty response")
	}
	return text, nil
}

// Embed generates a vector embedding for the given text.
func (b *Backend) Embed(ctx context.Context, text string) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, embedTimeout)
	defer cancel()

	dim := int32(EmbeddingDimension)
	resp, err := b.client.Models.EmbedContent(ctx, b.cfg.EmbeddingModel, genai.Text(text),
		&genai.EmbedContentConfig{OutputDimensionality: &dim})
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Values) == 0 {
		return nil, errors.New("empty embedding response")
	}

	return resp.Embeddings[0].Values, nil
}
