package driven

import (
	"context"
)

// EmbeddingService generates text embeddings
type EmbeddingService interface {
	// Embed generates embeddings for multiple texts
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedQuery generates an embedding for a search query
	EmbedQuery(ctx context.Context, query string) ([]float32, error)

	// Dimensions returns the embedding dimension size
	Dimensions() int

	// Model returns the model name being used
	Model() string

	// HealthCheck verifies the embedding service is available
	HealthCheck(ctx context.Context) error

	// Close releases resources held by the embedding service
	Close() error
}

// Summarizer generates chapter summaries with a language model. The caller
// builds the full prompt so the stored prompt always matches what was sent,
// including for attempts that failed.
type Summarizer interface {
	// Summarize completes the given prompt and returns the generated text
	Summarize(ctx context.Context, prompt string) (string, error)

	// Model returns the model name being used
	Model() string

	// Close releases resources held by the summarizer
	Close() error
}
