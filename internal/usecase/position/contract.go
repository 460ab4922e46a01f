package position

import (
	"context"

	"github.com/hansardlab/policyrag/internal/domain"
	"github.com/hansardlab/policyrag/internal/domain/scope"
	"github.com/hansardlab/policyrag/internal/domain/search/filter"
	"github.com/hansardlab/policyrag/internal/domain/snippet"
	"github.com/hansardlab/policyrag/internal/domain/summary"
)

// Retriever defines the storage contract for snippet retrieval.
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

// Summarizer produces the constrained two-field summary from ranked snippet
// texts.
type Summarizer interface {
	Summarize(
		ctx context.Context, query string, unit scope.UnitOfAnalysis, snippets []string,
	) (summary.Result, error)
}
