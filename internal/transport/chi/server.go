// Package chi exposes the summarization pipeline over HTTP.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	chirouter "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/hansardlab/policyrag/internal/domain"
	"github.com/hansardlab/policyrag/internal/domain/scope"
	billsuc "github.com/hansardlab/policyrag/internal/usecase/bills"
	cataloguc "github.com/hansardlab/policyrag/internal/usecase/catalog"
	healthuc "github.com/hansardlab/policyrag/internal/usecase/health"
	positionuc "github.com/hansardlab/policyrag/internal/usecase/position"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server holds the HTTP handlers for the dashboard API.
type Server struct {
	positions     *positionuc.Service
	bills         *billsuc.Service
	catalog       *cataloguc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	positions *positionuc.Service,
	bills *billsuc.Service,
	catalog *cataloguc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		positions: positions,
		bills:     bills,
		catalog:   catalog,
		health:    health,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, codeBadRequest),
		sentinelHandler(domain.ErrUnknownSession, http.StatusBadRequest, codeUnknownSession),
		sentinelHandler(domain.ErrRetrievalUnavailable, http.StatusBadGateway, codeRetrievalFailed),
		sentinelHandler(domain.ErrSummarizationFailed, http.StatusBadGateway, codeSummarizationFailed),
		sentinelHandler(domain.ErrCatalogUnavailable, http.StatusServiceUnavailable, codeCatalogUnavailable),
	}
	return s
}

// Routes registers all handlers on the router.
func (s *Server) Routes(r chirouter.Router) {
	r.Post("/positions/summarize", s.SummarizePosition)
	r.Post("/bills/search", s.SearchBills)
	r.Get("/catalog/sessions", s.ListSessions)
	r.Get("/catalog/options", s.ListOptions)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// SummarizePosition handles POST /positions/summarize.
func (s *Server) SummarizePosition(w http.ResponseWriter, r *http.Request) {
	var req summarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())

	q := positionuc.Query{
		Text: req.Query,
		Selectors: scope.Selectors{
			Session:      req.Session,
			Party:        req.Party,
			Constituency: req.Constituency,
			MemberName:   req.Member,
		},
	}

	result, err := s.positions.GenerateSummary(ctx, q)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	setUsageHeaders(w, usage)
	writeJSON(w, http.StatusOK, summarizeResponse{
		PolicyPosition: result.PolicyPosition,
		PolicyPoints:   result.PolicyPoints,
		Points:         result.Points(),
		UnitOfAnalysis: string(q.Selectors.UnitOfAnalysis()),
		NoResults:      result.IsNoRelevantResults(),
	})
}

// SearchBills handles POST /bills/search.
func (s *Server) SearchBills(w http.ResponseWriter, r *http.Request) {
	var req billSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())

	found, err := s.bills.Search(ctx, billsuc.Query{Text: req.Query, Session: req.Session})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]billItem, len(found))
	for i, b := range found {
		items[i] = billToItem(b)
	}

	setUsageHeaders(w, usage)
	writeJSON(w, http.StatusOK, billSearchResponse{Bills: items, Count: len(items)})
}

// ListSessions handles GET /catalog/sessions.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionsResponse{Sessions: s.catalog.Sessions()})
}

// ListOptions handles GET /catalog/options.
func (s *Server) ListOptions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts, err := s.catalog.Options(r.Context(), q.Get("session"), q.Get("party"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, opts)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func setUsageHeaders(w http.ResponseWriter, usage *domain.TokenUsage) {
	if usage == nil {
		return
	}
	if usage.EmbeddingTokens > 0 {
		w.Header().Set("X-Embedding-Tokens", strconv.Itoa(usage.EmbeddingTokens))
	}
	if usage.LLMTokens > 0 {
		w.Header().Set("X-LLM-Tokens", strconv.Itoa(usage.LLMTokens))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidQuery,
		domain.ErrUnknownSession,
		domain.ErrRetrievalUnavailable,
		domain.ErrSummarizationFailed,
		domain.ErrCatalogUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
