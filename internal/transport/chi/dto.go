package chi

import "github.com/hansardlab/policyrag/internal/domain/snippet"

// Error codes returned in error response bodies.
const (
	codeBadRequest          = "bad_request"
	codeUnknownSession      = "unknown_session"
	codeRetrievalFailed     = "retrieval_unavailable"
	codeSummarizationFailed = "summarization_failed"
	codeCatalogUnavailable  = "catalog_unavailable"
	codeUnauthorized        = "unauthorized"
	codeInternalError       = "internal_error"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type summarizeRequest struct {
	Query        string `json:"query"`
	Session      string `json:"session,omitempty"`
	Party        string `json:"party,omitempty"`
	Constituency string `json:"constituency,omitempty"`
	Member       string `json:"member,omitempty"`
}

type summarizeResponse struct {
	PolicyPosition string   `json:"policy_position"`
	PolicyPoints   string   `json:"policy_points"`
	Points         []string `json:"points,omitempty"`
	UnitOfAnalysis string   `json:"unit_of_analysis"`
	NoResults      bool     `json:"no_results"`
}

type billSearchRequest struct {
	Query   string `json:"query"`
	Session string `json:"session,omitempty"`
}

type billItem struct {
	Number         string `json:"number"`
	Title          string `json:"title"`
	Introduction   string `json:"introduction,omitempty"`
	KeyPoints      string `json:"key_points,omitempty"`
	Impact         string `json:"impact,omitempty"`
	DateIntroduced string `json:"date_introduced,omitempty"`
	DatePassed     string `json:"date_passed,omitempty"`
}

type billSearchResponse struct {
	Bills []billItem `json:"bills"`
	Count int        `json:"count"`
}

type sessionsResponse struct {
	Sessions []string `json:"sessions"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func billToItem(b snippet.Bill) billItem {
	return billItem{
		Number:         b.Number,
		Title:          b.Title,
		Introduction:   b.Introduction,
		KeyPoints:      b.KeyPoints,
		Impact:         b.Impact,
		DateIntroduced: b.DateIntroduced,
		DatePassed:     b.DatePassed,
	}
}
