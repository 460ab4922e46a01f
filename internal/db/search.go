package db

import "github.com/hansardlab/policyrag/internal/domain/search/filter"

// KNNQuery is the input for vector similarity search.
type KNNQuery struct {
	IndexName    string
	Filter       filter.Expression
	Vector       []float32
	K            int
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit, in descending similarity order.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
