package snippet

import (
	"context"
	"testing"

	"github.com/hansardlab/policyrag/internal/db"
	"github.com/hansardlab/policyrag/internal/domain/search/filter"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	searchKNNFn func(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

func (m *mockStore) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if m.searchKNNFn != nil {
		return m.searchKNNFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	repo := New(ms, "policyrag:")
	return repo, ms
}

func testVector() []float32 {
	vec := make([]float32, 4)
	for i := range vec {
		vec[i] = 0.1
	}
	return vec
}

func mustClause(t *testing.T, field, value string) filter.Clause {
	t.Helper()
	c, err := filter.NewClause(field, value)
	if err != nil {
		t.Fatalf("NewClause: %v", err)
	}
	return c
}

func mustExpression(t *testing.T, clauses ...filter.Clause) filter.Expression {
	t.Helper()
	e, err := filter.NewExpression(clauses...)
	if err != nil {
		t.Fatalf("NewExpression: %v", err)
	}
	return e
}
