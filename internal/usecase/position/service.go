// Package position implements the end-to-end policy-position pipeline:
// embed the query, retrieve scoped snippets, summarize under the fixed
// output contract.
package position

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/hansardlab/policyrag/internal/domain"
	"github.com/hansardlab/policyrag/internal/domain/scope"
	"github.com/hansardlab/policyrag/internal/domain/snippet"
	"github.com/hansardlab/policyrag/internal/domain/summary"
	"github.com/hansardlab/policyrag/internal/logger"
)

// Query is one summarization request: free-text query plus optional scope
// selectors.
type Query struct {
	Text      string
	Selectors scope.Selectors
}

// Service orchestrates the position-summary pipeline.
type Service struct {
	embed     Embedder
	retriever Retriever
	summarize Summarizer
	indexName string
	topK      int
}

// New creates a position service. indexName is the logical index the
// retriever resolves against its key prefix; topK is the retrieval depth.
func New(embed Embedder, retriever Retriever, summarize Summarizer, indexName string, topK int) *Service {
	return &Service{
		embed:     embed,
		retriever: retriever,
		summarize: summarize,
		indexName: indexName,
		topK:      topK,
	}
}

// GenerateSummary runs the full pipeline for one query. Validation failures
// surface before any network call. Zero retrieved snippets short-circuits to
// the sentinel result without invoking the summarizer.
func (s *Service) GenerateSummary(ctx context.Context, q Query) (summary.Result, error) {
	text := strings.TrimSpace(q.Text)
	if text == "" {
		return summary.Result{}, fmt.Errorf("empty query text: %w", domain.ErrInvalidQuery)
	}
	if !q.Selectors.KnownSession() {
		return summary.Result{}, fmt.Errorf("session %q: %w", q.Selectors.Session, domain.ErrUnknownSession)
	}

	filters, err := q.Selectors.BuildFilter()
	if err != nil {
		return summary.Result{}, fmt.Errorf("%w: %w", domain.ErrInvalidQuery, err)
	}

	embResult, err := s.embed.Embed(ctx, text)
	if err != nil {
		return summary.Result{}, fmt.Errorf("vectorize query: %w", err)
	}

	domain.UsageFromContext(ctx).AddEmbeddingTokens(embResult.TotalTokens)

	snippets, err := s.retriever.Search(
		ctx, s.indexName, embResult.Embedding, filters, s.topK,
		[]string{snippet.FieldPositions},
	)
	if err != nil {
		return summary.Result{}, fmt.Errorf("retrieve snippets: %w", err)
	}

	texts := snippetTexts(snippets)
	if len(texts) == 0 {
		logger.FromContext(ctx).Info("No snippets retrieved, returning sentinel",
			zap.String("query", text))
		return summary.NoRelevantResults(), nil
	}

	result, err := s.summarize.Summarize(ctx, text, q.Selectors.UnitOfAnalysis(), texts)
	if err != nil {
		return summary.Result{}, fmt.Errorf("summarize: %w", err)
	}

	return result, nil
}

// snippetTexts extracts the position texts in retrieval order, dropping hits
// whose metadata carries no text.
func snippetTexts(snippets []snippet.Snippet) []string {
	texts := make([]string, 0, len(snippets))
	for _, s := range snippets {
		if t := s.Positions(); t != "" {
			texts = append(texts, t)
		}
	}
	return texts
}
