package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"google.golang.org/genai"
)

var testBackendConfig = BackendConfig{
	GenerationModel:   "test-model",
	EmbeddingModel:    "test-embedding",
	GenerationTimeout: time.Second,
}

func TestResolve_PrimaryWins(t *testing.T) {
	var dialed []string
	dial := func(_ context.Context, apiKey string) (*genai.Client, error) {
		dialed = append(dialed, apiKey)
		return &genai.Client{}, nil
	}

	backend, err := Resolve(context.Background(), []Credential{
		{Name: "primary", APIKey: "key-1"},
		{Name: "fallback", APIKey: "key-2"},
	}, dial, testBackendConfig)

	require.NoError(t, err)
	require.NotNil(t, backend)
	assert.Equal(t, []string{"key-1"}, dialed, "fallback must not be dialed when primary succeeds")
}

func TestResolve_FailsOverToFallback(t *testing.T) {
	dial := func(_ context.Context, apiKey string) (*genai.Client, error) {
		if apiKey == "bad-key" {
			return nil, errors.New("provider rejected credential")
		}
		return &genai.Client{}, nil
	}

	backend, err := Resolve(context.Background(), []Credential{
		{Name: "primary", APIKey: "bad-key"},
		{Name: "fallback", APIKey: "good-key"},
	}, dial, testBackendConfig)

	require.NoError(t, err)
	require.NotNil(t, backend)
}

func TestResolve_SkipsEmptyCredentials(t *testing.T) {
	var dialed int
	dial := func(_ context.Context, _ string) (*genai.Client, error) {
		dialed++
		return &genai.Client{}, nil
	}

	_, err := Resolve(context.Background(), []Credential{
		{Name: "primary", APIKey: ""},
		{Name: "fallback", APIKey: "key"},
	}, dial, testBackendConfig)

	require.NoError(t, err)
	assert.Equal(t, 1, dialed, "empty credentials must be skipped without dialing")
}

func TestResolve_AllCandidatesFail(t *testing.T) {
	dial := func(_ context.Context, _ string) (*genai.Client, error) {
		return nil, errors.New("provider rejected credential")
	}

	backend, err := Resolve(context.Background(), []Credential{
		{Name: "primary", APIKey: "k1"},
		{Name: "fallback", APIKey: "k2"},
	}, dial, testBackendConfig)

	assert.Nil(t, backend)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestResolve_NoCredentials(t *testing.T) {
	dial := func(_ context.Context, _ string) (*genai.Client, error) {
		t.Fatal("dial must not be called without credentials")
		return nil, nil
	}

	_, err := Resolve(context.Background(), nil, dial, testBackendConfig)
	assert.ErrorIs(t, err, ErrUnavailable)
}
