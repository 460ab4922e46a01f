// Package bills implements semantic search over the bill-summaries index.
// Unlike positions there is no LLM stage: the retrieved metadata is the
// answer, rendered as bill cards in relevance order.
package bills

import (
	"context"
	"fmt"
	"strings"

	"github.com/hansardlab/policyrag/internal/domain"
	"github.com/hansardlab/policyrag/internal/domain/scope"
	"github.com/hansardlab/policyrag/internal/domain/search/filter"
	"github.com/hansardlab/policyrag/internal/domain/snippet"
)

// Query is one bill search request. Session is optional; AllSessions and ""
// both mean unrestricted.
type Query struct {
	Text    string
	Session string
}

// Service handles bill search.
type Service struct {
	embed     Embedder
	retriever Retriever
	indexName string
	topK      int
}

// New creates a bills service.
func New(embed Embedder, retriever Retriever, indexName string, topK int) *Service {
	return &Service{embed: embed, retriever: retriever, indexName: indexName, topK: topK}
}

// billReturnFields is the metadata projected out of the index per hit.
var billReturnFields = []string{
	snippet.FieldTitle,
	snippet.FieldIntroduction,
	snippet.FieldKeyPoints,
	snippet.FieldImpact,
	snippet.FieldDateIntroduced,
	snippet.FieldDatePassed,
}

// Search embeds the query and returns matching bills in descending
// similarity order. Zero matches is a successful empty result.
func (s *Service) Search(ctx context.Context, q Query) ([]snippet.Bill, error) {
	text := strings.TrimSpace(q.Text)
	if text == "" {
		return nil, fmt.Errorf("empty query text: %w", domain.ErrInvalidQuery)
	}

	sel := scope.Selectors{Session: q.Session}
	if !sel.KnownSession() {
		return nil, fmt.Errorf("session %q: %w", q.Session, domain.ErrUnknownSession)
	}

	filters, err := buildSessionFilter(sel)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidQuery, err)
	}

	embResult, err := s.embed.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}

	domain.UsageFromContext(ctx).AddEmbeddingTokens(embResult.TotalTokens)

	snippets, err := s.retriever.Search(
		ctx, s.indexName, embResult.Embedding, filters, s.topK, billReturnFields,
	)
	if err != nil {
		return nil, fmt.Errorf("retrieve bills: %w", err)
	}

	out := make([]snippet.Bill, 0, len(snippets))
	for _, sn := range snippets {
		out = append(out, sn.Bill())
	}
	return out, nil
}

// buildSessionFilter builds the single-clause filter, or an empty expression
// when the session is unrestricted.
func buildSessionFilter(sel scope.Selectors) (filter.Expression, error) {
	if !sel.SessionSet() {
		return filter.NewExpression()
	}
	c, err := filter.NewClause(scope.FieldSession, sel.Session)
	if err != nil {
		return filter.Expression{}, err
	}
	return filter.NewExpression(c)
}
