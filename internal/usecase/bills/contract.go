package bills

import (
	"context"

	"github.com/hansardlab/policyrag/internal/domain"
	"github.com/hansardlab/policyrag/internal/domain/search/filter"
	"github.com/hansardlab/policyrag/internal/domain/snippet"
)

// Retriever defines the storage contract for bill retrieval.
type Retriever interface {
	Search(
		ctx context.Context, indexName string,
		vector []float32, filters filter.Expression, topK int,
		returnFields []string,
	) ([]snippet.Snippet, error)
}

// Embedder vectorizes query text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
