// Package snippet retrieves ranked text snippets from the pre-built vector
// indexes.
package snippet

import (
	"context"
	"fmt"
	"strings"

	"github.com/hansardlab/policyrag/internal/db"
	"github.com/hansardlab/policyrag/internal/domain/search/filter"
	"github.com/hansardlab/policyrag/internal/domain/snippet"
)

// store is the consumer interface for retrieval operations.
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// Repo implements the vector retriever over an FT index.
type Repo struct {
	store     store
	keyPrefix string
}

// New creates a snippet repository. keyPrefix namespaces the index and
// document keys, matching what the ingestion job writes.
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, keyPrefix: keyPrefix}
}

// Search performs a filtered KNN search on the named index and returns the
// hits in descending similarity order, ranks assigned 1..n with no gaps.
// Fewer than topK hits is not an error; zero hits returns an empty slice.
func (r *Repo) Search(
	ctx context.Context, indexName string,
	vector []float32, filters filter.Expression, topK int,
	returnFields []string,
) ([]snippet.Snippet, error) {
	q := &db.KNNQuery{
		IndexName:    fmt.Sprintf("%s%s:idx", r.keyPrefix, indexName),
		Filter:       filters,
		Vector:       vector,
		K:            topK,
		ReturnFields: returnFields,
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search knn %s: %w", indexName, err)
	}

	return r.parseResults(sr, indexName), nil
}

// parseResults converts db.SearchResult into ranked snippets. The store
// returns entries already sorted by descending similarity; the rank is the
// position in that order.
func (r *Repo) parseResults(sr *db.SearchResult, indexName string) []snippet.Snippet {
	if sr == nil || len(sr.Entries) == 0 {
		return []snippet.Snippet{}
	}

	docPrefix := fmt.Sprintf("%s%s:", r.keyPrefix, indexName)
	snippets := make([]snippet.Snippet, 0, len(sr.Entries))

	for i, entry := range sr.Entries {
		id := strings.TrimPrefix(entry.Key, docPrefix)
		snippets = append(snippets, snippet.New(id, i+1, entry.Score, entry.Fields))
	}

	return snippets
}
