// Package snippet models the units returned by the vector retriever.
package snippet

// Metadata field names written by the ingestion job.
const (
	FieldPositions      = "policy_positions"
	FieldTitle          = "title"
	FieldIntroduction   = "bill_introduction"
	FieldKeyPoints      = "bill_key_points"
	FieldImpact         = "bill_impact"
	FieldDateIntroduced = "date_introduced"
	FieldDatePassed     = "date_passed"
)

// Snippet is a single retrieved hit, ranked by descending similarity.
// Snippets are produced fresh per query and never mutated downstream.
type Snippet struct {
	id     string
	rank   int // 1-based relevance position
	score  float64
	fields map[string]string
}

// New creates a snippet.
func New(id string, rank int, score float64, fields map[string]string) Snippet {
	return Snippet{id: id, rank: rank, score: score, fields: fields}
}

// ID returns the snippet identifier (speech id or bill number).
func (s Snippet) ID() string { return s.id }

// Rank returns the 1-based relevance position.
func (s Snippet) Rank() int { return s.rank }

// Score returns the similarity score.
func (s Snippet) Score() float64 { return s.score }

// Field returns a raw metadata field value, or "" if absent.
func (s Snippet) Field(name string) string { return s.fields[name] }

// Fields returns the raw metadata fields.
func (s Snippet) Fields() map[string]string { return s.fields }

// Positions returns the pre-summarized policy-position text, or "" when the
// search ran without metadata.
func (s Snippet) Positions() string { return s.fields[FieldPositions] }

// Bill is the structured bill-summary record carried in a bill snippet's
// metadata.
type Bill struct {
	Number         string
	Title          string
	Introduction   string
	KeyPoints      string
	Impact         string
	DateIntroduced string
	DatePassed     string // empty if not yet passed
}

// Bill assembles the bill record from the snippet's metadata.
func (s Snippet) Bill() Bill {
	return Bill{
		Number:         s.id,
		Title:          s.fields[FieldTitle],
		Introduction:   s.fields[FieldIntroduction],
		KeyPoints:      s.fields[FieldKeyPoints],
		Impact:         s.fields[FieldImpact],
		DateIntroduced: s.fields[FieldDateIntroduced],
		DatePassed:     s.fields[FieldDatePassed],
	}
}
