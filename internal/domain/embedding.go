package domain

import "context"

// Embedder is the shared text vectorization contract between layers.
// The model behind it must be the same model the vector indexes were built
// with; configuration enforces that, not runtime checks.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// HealthChecker verifies embedding provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// EmbeddingResult carries the query vector and token usage.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}
