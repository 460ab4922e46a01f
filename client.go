// Package policyrag is a Go client for the policyrag HTTP API.
package policyrag

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultTimeout = 120 * time.Second

// Client calls the policyrag API server.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Option configures the Client.
type Option func(*Client)

// WithAPIKey sets the Bearer token sent with every request.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a client for the given server base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("policyrag: %d %s: %s", e.Status, e.Code, e.Message)
}

// SummarizeRequest asks for a policy-position summary. Query is required;
// the selectors are optional scope narrowing.
type SummarizeRequest struct {
	Query        string `json:"query"`
	Session      string `json:"session,omitempty"`
	Party        string `json:"party,omitempty"`
	Constituency string `json:"constituency,omitempty"`
	Member       string `json:"member,omitempty"`
}

// SummarizeResponse is the structured summary.
type SummarizeResponse struct {
	PolicyPosition string   `json:"policy_position"`
	PolicyPoints   string   `json:"policy_points"`
	Points         []string `json:"points,omitempty"`
	UnitOfAnalysis string   `json:"unit_of_analysis"`
	NoResults      bool     `json:"no_results"`
}

// BillSearchRequest asks for semantically similar bills.
type BillSearchRequest struct {
	Query   string `json:"query"`
	Session string `json:"session,omitempty"`
}

// Bill is one bill card in a search response.
type Bill struct {
	Number         string `json:"number"`
	Title          string `json:"title"`
	Introduction   string `json:"introduction,omitempty"`
	KeyPoints      string `json:"key_points,omitempty"`
	Impact         string `json:"impact,omitempty"`
	DateIntroduced string `json:"date_introduced,omitempty"`
	DatePassed     string `json:"date_passed,omitempty"`
}

// BillSearchResponse lists matching bills in relevance order.
type BillSearchResponse struct {
	Bills []Bill `json:"bills"`
	Count int    `json:"count"`
}

// CatalogOptions are the selectable scope values for a session.
type CatalogOptions struct {
	Parties        []string `json:"parties"`
	Constituencies []string `json:"constituencies"`
	Members        []string `json:"members"`
}

// SummarizePosition calls POST /positions/summarize.
func (c *Client) SummarizePosition(ctx context.Context, req SummarizeRequest) (SummarizeResponse, error) {
	var resp SummarizeResponse
	err := c.post(ctx, "/positions/summarize", req, &resp)
	return resp, err
}

// SearchBills calls POST /bills/search.
func (c *Client) SearchBills(ctx context.Context, req BillSearchRequest) (BillSearchResponse, error) {
	var resp BillSearchResponse
	err := c.post(ctx, "/bills/search", req, &resp)
	return resp, err
}

// Sessions calls GET /catalog/sessions.
func (c *Client) Sessions(ctx context.Context) ([]string, error) {
	var resp struct {
		Sessions []string `json:"sessions"`
	}
	if err := c.get(ctx, "/catalog/sessions", &resp); err != nil {
		return nil, err
	}
	return resp.Sessions, nil
}

// Options calls GET /catalog/options. session may be empty for the
// unrestricted listing; party narrows the member and constituency lists.
func (c *Client) Options(ctx context.Context, session, party string) (CatalogOptions, error) {
	q := url.Values{}
	if session != "" {
		q.Set("session", session)
	}
	if party != "" {
		q.Set("party", party)
	}
	path := "/catalog/options"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var resp CatalogOptions
	err := c.get(ctx, path, &resp)
	return resp, err
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("policyrag: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("policyrag: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("policyrag: build request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("policyrag: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Code: "unknown", Message: resp.Status}
		_ = json.NewDecoder(resp.Body).Decode(apiErr)
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("policyrag: decode response: %w", err)
	}
	return nil
}
