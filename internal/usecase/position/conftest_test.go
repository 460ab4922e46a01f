package position

import (
	"context"
	"testing"

	"github.com/hansardlab/policyrag/internal/domain"
	"github.com/hansardlab/policyrag/internal/domain/scope"
	"github.com/hansardlab/policyrag/internal/domain/search/filter"
	"github.com/hansardlab/policyrag/internal/domain/snippet"
	"github.com/hansardlab/policyrag/internal/domain/summary"
)

type mockEmbedder struct {
	result domain.EmbeddingResult
	err    error
	calls  int
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	m.calls++
	return m.result, m.err
}

type mockRetriever struct {
	searchFn func(ctx context.Context, indexName string, vector []float32,
		filters filter.Expression, topK int, returnFields []string) ([]snippet.Snippet, error)
	lastFilter filter.Expression
	lastIndex  string
	lastTopK   int
	calls      int
}

func (m *mockRetriever) Search(
	ctx context.Context, indexName string, vector []float32,
	filters filter.Expression, topK int, returnFields []string,
) ([]snippet.Snippet, error) {
	m.calls++
	m.lastFilter = filters
	m.lastIndex = indexName
	m.lastTopK = topK
	if m.searchFn != nil {
		return m.searchFn(ctx, indexName, vector, filters, topK, returnFields)
	}
	return []snippet.Snippet{}, nil
}

type mockSummarizer struct {
	result       summary.Result
	err          error
	lastQuery    string
	lastUnit     scope.UnitOfAnalysis
	lastSnippets []string
	calls        int
}

func (m *mockSummarizer) Summarize(
	_ context.Context, query string, unit scope.UnitOfAnalysis, snippets []string,
) (summary.Result, error) {
	m.calls++
	m.lastQuery = query
	m.lastUnit = unit
	m.lastSnippets = snippets
	return m.result, m.err
}

func newTestService(t *testing.T) (*Service, *mockEmbedder, *mockRetriever, *mockSummarizer) {
	t.Helper()
	me := &mockEmbedder{result: domain.EmbeddingResult{
		Embedding:   []float32{0.1, 0.2},
		TotalTokens: 5,
	}}
	mr := &mockRetriever{}
	msum := &mockSummarizer{result: summary.Result{
		PolicyPosition: "The Party's position on the topic is supportive.",
		PolicyPoints:   "- a measure",
	}}
	svc := New(me, mr, msum, "policy-positions", 10)
	return svc, me, mr, msum
}

func positionSnippet(t *testing.T, id string, rank int, text string) snippet.Snippet {
	t.Helper()
	return snippet.New(id, rank, 0.9, map[string]string{snippet.FieldPositions: text})
}
