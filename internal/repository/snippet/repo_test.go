package snippet

import (
	"context"
	"errors"
	"testing"

	"github.com/hansardlab/policyrag/internal/db"
	"github.com/hansardlab/policyrag/internal/domain/snippet"
)

func TestRepo_Search_QueryConstruction(t *testing.T) {
	repo, ms := newTestRepo(t)

	var captured *db.KNNQuery
	ms.searchKNNFn = func(_ context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
		captured = q
		return &db.SearchResult{}, nil
	}

	filters := mustExpression(t, mustClause(t, "party", "Workers' Party"))
	returnFields := []string{snippet.FieldPositions}

	_, err := repo.Search(context.Background(), "policy-positions", testVector(), filters, 10, returnFields)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if captured == nil {
		t.Fatal("store was not called")
	}
	if captured.IndexName != "policyrag:policy-positions:idx" {
		t.Errorf("IndexName = %q", captured.IndexName)
	}
	if captured.K != 10 {
		t.Errorf("K = %d, want 10", captured.K)
	}
	if captured.Filter.IsEmpty() {
		t.Error("filter was not passed through")
	}
	if len(captured.ReturnFields) != 1 || captured.ReturnFields[0] != snippet.FieldPositions {
		t.Errorf("ReturnFields = %v", captured.ReturnFields)
	}
}

func TestRepo_Search_RanksAndOrder(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.searchKNNFn = func(_ context.Context, _ *db.KNNQuery) (*db.SearchResult, error) {
		return &db.SearchResult{
			Total: 3,
			Entries: []db.SearchEntry{
				{Key: "policyrag:policy-positions:sp-101", Score: 0.92, Fields: map[string]string{snippet.FieldPositions: "first"}},
				{Key: "policyrag:policy-positions:sp-055", Score: 0.81, Fields: map[string]string{snippet.FieldPositions: "second"}},
				{Key: "policyrag:policy-positions:sp-230", Score: 0.64, Fields: map[string]string{snippet.FieldPositions: "third"}},
			},
		}, nil
	}

	got, err := repo.Search(context.Background(), "policy-positions", testVector(), mustExpression(t), 10, nil)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d snippets, want 3", len(got))
	}

	wantIDs := []string{"sp-101", "sp-055", "sp-230"}
	wantTexts := []string{"first", "second", "third"}
	for i, s := range got {
		if s.ID() != wantIDs[i] {
			t.Errorf("snippet %d ID = %q, want %q", i, s.ID(), wantIDs[i])
		}
		if s.Rank() != i+1 {
			t.Errorf("snippet %d Rank = %d, want %d", i, s.Rank(), i+1)
		}
		if s.Positions() != wantTexts[i] {
			t.Errorf("snippet %d Positions = %q, want %q", i, s.Positions(), wantTexts[i])
		}
	}
}

func TestRepo_Search_Empty(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.searchKNNFn = func(_ context.Context, _ *db.KNNQuery) (*db.SearchResult, error) {
		return &db.SearchResult{Total: 0}, nil
	}

	got, err := repo.Search(context.Background(), "policy-positions", testVector(), mustExpression(t), 10, nil)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d snippets, want 0", len(got))
	}
}

func TestRepo_Search_StoreError(t *testing.T) {
	repo, ms := newTestRepo(t)

	storeErr := errors.New("connection refused")
	ms.searchKNNFn = func(_ context.Context, _ *db.KNNQuery) (*db.SearchResult, error) {
		return nil, storeErr
	}

	_, err := repo.Search(context.Background(), "policy-positions", testVector(), mustExpression(t), 10, nil)
	if !errors.Is(err, storeErr) {
		t.Errorf("error = %v, want wrapped store error", err)
	}
}
