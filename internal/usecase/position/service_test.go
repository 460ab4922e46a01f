package position

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/hansardlab/policyrag/internal/domain"
	"github.com/hansardlab/policyrag/internal/domain/scope"
	"github.com/hansardlab/policyrag/internal/domain/search/filter"
	"github.com/hansardlab/policyrag/internal/domain/snippet"
)

func TestGenerateSummary_FullPipeline(t *testing.T) {
	svc, _, mr, msum := newTestService(t)

	mr.searchFn = func(_ context.Context, _ string, _ []float32,
		_ filter.Expression, _ int, _ []string) ([]snippet.Snippet, error) {
		return []snippet.Snippet{
			positionSnippet(t, "sp-1", 1, "supported the carbon tax increase"),
			positionSnippet(t, "sp-2", 2, "called for green subsidies"),
		}, nil
	}

	ctx, usage := domain.NewContextWithUsage(context.Background())

	result, err := svc.GenerateSummary(ctx, Query{
		Text: "climate change",
		Selectors: scope.Selectors{
			Session: "14",
			Party:   "Workers' Party",
		},
	})
	if err != nil {
		t.Fatalf("GenerateSummary: %v", err)
	}
	if result.IsNoRelevantResults() {
		t.Fatal("unexpected sentinel result")
	}

	if mr.lastIndex != "policy-positions" {
		t.Errorf("index = %q", mr.lastIndex)
	}
	if mr.lastTopK != 10 {
		t.Errorf("topK = %d, want 10", mr.lastTopK)
	}

	// filter carries exactly the set selectors
	clauses := mr.lastFilter.Clauses()
	if len(clauses) != 2 {
		t.Fatalf("got %d filter clauses, want 2", len(clauses))
	}
	got := map[string]string{}
	for _, c := range clauses {
		got[c.Field()] = c.Value()
	}
	if got[scope.FieldSession] != "14" || got[scope.FieldParty] != "Workers' Party" {
		t.Errorf("unexpected filter clauses: %v", got)
	}

	// snippet texts reach the summarizer in retrieval order
	wantTexts := []string{"supported the carbon tax increase", "called for green subsidies"}
	if !reflect.DeepEqual(msum.lastSnippets, wantTexts) {
		t.Errorf("summarizer snippets = %v, want %v", msum.lastSnippets, wantTexts)
	}
	if msum.lastQuery != "climate change" {
		t.Errorf("summarizer query = %q", msum.lastQuery)
	}
	if msum.lastUnit != scope.UnitParty {
		t.Errorf("unit = %q, want Party", msum.lastUnit)
	}

	if usage.EmbeddingTokens != 5 {
		t.Errorf("EmbeddingTokens = %d, want 5", usage.EmbeddingTokens)
	}
}

func TestGenerateSummary_NoSelectorsMeansNoFilter(t *testing.T) {
	svc, _, mr, _ := newTestService(t)

	mr.searchFn = func(_ context.Context, _ string, _ []float32,
		_ filter.Expression, _ int, _ []string) ([]snippet.Snippet, error) {
		return []snippet.Snippet{positionSnippet(t, "sp-1", 1, "text")}, nil
	}

	_, err := svc.GenerateSummary(context.Background(), Query{Text: "housing"})
	if err != nil {
		t.Fatalf("GenerateSummary: %v", err)
	}
	if !mr.lastFilter.IsEmpty() {
		t.Errorf("expected empty filter, got %v", mr.lastFilter.Clauses())
	}
}

func TestGenerateSummary_AllSessionsOmitsSessionClause(t *testing.T) {
	svc, _, mr, _ := newTestService(t)

	mr.searchFn = func(_ context.Context, _ string, _ []float32,
		_ filter.Expression, _ int, _ []string) ([]snippet.Snippet, error) {
		return []snippet.Snippet{positionSnippet(t, "sp-1", 1, "text")}, nil
	}

	_, err := svc.GenerateSummary(context.Background(), Query{
		Text:      "housing",
		Selectors: scope.Selectors{Session: scope.AllSessions, Party: "Workers' Party"},
	})
	if err != nil {
		t.Fatalf("GenerateSummary: %v", err)
	}

	for _, c := range mr.lastFilter.Clauses() {
		if c.Field() == scope.FieldSession {
			t.Error("session clause must be omitted for AllSessions")
		}
	}
}

func TestGenerateSummary_EmptyQuery(t *testing.T) {
	svc, me, mr, msum := newTestService(t)

	_, err := svc.GenerateSummary(context.Background(), Query{Text: "   "})
	if !errors.Is(err, domain.ErrInvalidQuery) {
		t.Fatalf("error = %v, want ErrInvalidQuery", err)
	}

	// validation happens before any downstream call
	if me.calls != 0 || mr.calls != 0 || msum.calls != 0 {
		t.Errorf("downstream calls = %d/%d/%d, want 0/0/0", me.calls, mr.calls, msum.calls)
	}
}

func TestGenerateSummary_UnknownSession(t *testing.T) {
	svc, me, _, _ := newTestService(t)

	_, err := svc.GenerateSummary(context.Background(), Query{
		Text:      "housing",
		Selectors: scope.Selectors{Session: "99"},
	})
	if !errors.Is(err, domain.ErrUnknownSession) {
		t.Fatalf("error = %v, want ErrUnknownSession", err)
	}
	if me.calls != 0 {
		t.Errorf("embedder called %d times before validation", me.calls)
	}
}

func TestGenerateSummary_ZeroSnippetsShortCircuits(t *testing.T) {
	svc, _, mr, msum := newTestService(t)

	mr.searchFn = func(_ context.Context, _ string, _ []float32,
		_ filter.Expression, _ int, _ []string) ([]snippet.Snippet, error) {
		return []snippet.Snippet{}, nil
	}

	result, err := svc.GenerateSummary(context.Background(), Query{Text: "quantum farming"})
	if err != nil {
		t.Fatalf("GenerateSummary: %v", err)
	}
	if !result.IsNoRelevantResults() {
		t.Errorf("expected sentinel result, got %q", result.PolicyPosition)
	}
	if msum.calls != 0 {
		t.Errorf("summarizer called %d times for zero snippets", msum.calls)
	}
}

func TestGenerateSummary_SnippetsWithoutTextSkipped(t *testing.T) {
	svc, _, mr, msum := newTestService(t)

	mr.searchFn = func(_ context.Context, _ string, _ []float32,
		_ filter.Expression, _ int, _ []string) ([]snippet.Snippet, error) {
		return []snippet.Snippet{
			snippet.New("sp-1", 1, 0.9, map[string]string{}),
			positionSnippet(t, "sp-2", 2, "the only real text"),
		}, nil
	}

	_, err := svc.GenerateSummary(context.Background(), Query{Text: "housing"})
	if err != nil {
		t.Fatalf("GenerateSummary: %v", err)
	}
	if len(msum.lastSnippets) != 1 || msum.lastSnippets[0] != "the only real text" {
		t.Errorf("summarizer snippets = %v", msum.lastSnippets)
	}
}

func TestGenerateSummary_EmbedError(t *testing.T) {
	svc, me, mr, _ := newTestService(t)
	me.err = domain.ErrRetrievalUnavailable

	_, err := svc.GenerateSummary(context.Background(), Query{Text: "housing"})
	if !errors.Is(err, domain.ErrRetrievalUnavailable) {
		t.Fatalf("error = %v, want ErrRetrievalUnavailable", err)
	}
	if mr.calls != 0 {
		t.Errorf("retriever called after embed failure")
	}
}

func TestGenerateSummary_RetrieverError(t *testing.T) {
	svc, _, mr, msum := newTestService(t)

	mr.searchFn = func(_ context.Context, _ string, _ []float32,
		_ filter.Expression, _ int, _ []string) ([]snippet.Snippet, error) {
		return nil, domain.ErrRetrievalUnavailable
	}

	_, err := svc.GenerateSummary(context.Background(), Query{Text: "housing"})
	if !errors.Is(err, domain.ErrRetrievalUnavailable) {
		t.Fatalf("error = %v, want ErrRetrievalUnavailable", err)
	}
	if msum.calls != 0 {
		t.Errorf("summarizer called after retrieval failure")
	}
}

func TestGenerateSummary_SummarizerError(t *testing.T) {
	svc, _, mr, msum := newTestService(t)

	mr.searchFn = func(_ context.Context, _ string, _ []float32,
		_ filter.Expression, _ int, _ []string) ([]snippet.Snippet, error) {
		return []snippet.Snippet{positionSnippet(t, "sp-1", 1, "text")}, nil
	}
	msum.err = domain.ErrSummarizationFailed

	_, err := svc.GenerateSummary(context.Background(), Query{Text: "housing"})
	if !errors.Is(err, domain.ErrSummarizationFailed) {
		t.Fatalf("error = %v, want ErrSummarizationFailed", err)
	}
}

func TestGenerateSummary_UnitDerivation(t *testing.T) {
	tests := []struct {
		name      string
		selectors scope.Selectors
		want      scope.UnitOfAnalysis
	}{
		{"member set", scope.Selectors{MemberName: "Sylvia Lim"}, scope.UnitMP},
		{"constituency set", scope.Selectors{Constituency: "Aljunied"}, scope.UnitConstituency},
		{"party only", scope.Selectors{Party: "Workers' Party"}, scope.UnitParty},
		{"nothing set", scope.Selectors{}, scope.UnitParty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, mr, msum := newTestService(t)
			mr.searchFn = func(_ context.Context, _ string, _ []float32,
				_ filter.Expression, _ int, _ []string) ([]snippet.Snippet, error) {
				return []snippet.Snippet{positionSnippet(t, "sp-1", 1, "text")}, nil
			}

			_, err := svc.GenerateSummary(context.Background(), Query{Text: "housing", Selectors: tt.selectors})
			if err != nil {
				t.Fatalf("GenerateSummary: %v", err)
			}
			if msum.lastUnit != tt.want {
				t.Errorf("unit = %q, want %q", msum.lastUnit, tt.want)
			}
		})
	}
}
