package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
	"go.uber.org/zap"

	"github.com/hansardlab/policyrag/internal/domain"
	"github.com/hansardlab/policyrag/internal/domain/scope"
	"github.com/hansardlab/policyrag/internal/domain/summary"
	"github.com/hansardlab/policyrag/internal/metrics"
)

// systemPrompt is the fixed, non-negotiable instruction under which every
// summarization runs. The relevance bar and the no-fabrication rule live
// here; the output shape is additionally pinned by the JSON schema.
const systemPrompt = `You are a neutral analyst summarizing the policy positions taken in a national parliament. ` +
	`You will receive numbered summaries of parliamentary speeches. Judge each summary's relevance to the query independently, in the order given. ` +
	`A summary counts as relevant only if it is DIRECTLY on-topic for every concept named in the query: a query about "social media regulation for children" requires both social media regulation and children to be present, not either alone. ` +
	`Use only relevant summaries. Never attribute positions or measures that do not appear in them. ` +
	`If no summary passes the relevance bar, set policy_position to exactly "` + summary.NoRelevantResultsSentinel + `" and policy_points to an empty string.`

// Summarizer produces constrained structured summaries via the chat API.
type Summarizer struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

// SummarizerConfig holds the summarization provider settings.
type SummarizerConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
	Logger  *zap.Logger
}

// NewSummarizer creates a summarization provider client.
func NewSummarizer(cfg *SummarizerConfig) *Summarizer {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Summarizer{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   cfg.Model,
		timeout: cfg.Timeout,
		logger:  cfg.Logger,
	}
}

// Summarize sends the ordinal-labelled snippets to the model under the fixed
// system prompt and a strict two-field output schema. Snippet order is
// preserved exactly as retrieved. Provider failures and schema-non-conformant
// output surface as domain.ErrSummarizationFailed; the caller does not retry.
func (s *Summarizer) Summarize(
	ctx context.Context, query string, unit scope.UnitOfAnalysis, snippets []string,
) (summary.Result, error) {
	req := openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildUserMessage(snippets)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "policy_summary",
				Schema: buildSchema(query, unit),
				Strict: true,
			},
		},
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()

	resp, err := s.client.CreateChatCompletion(ctx, req)

	duration := time.Since(start)

	if err != nil {
		metrics.SummarizeRequestsTotal.WithLabelValues(s.model, "error").Inc()
		return summary.Result{}, parseAPIError("summarization", err, domain.ErrSummarizationFailed)
	}

	if len(resp.Choices) == 0 {
		metrics.SummarizeRequestsTotal.WithLabelValues(s.model, "error").Inc()
		return summary.Result{}, fmt.Errorf("empty completion response: %w", domain.ErrSummarizationFailed)
	}

	result, err := decodeResult(resp.Choices[0].Message.Content)
	if err != nil {
		metrics.SummarizeRequestsTotal.WithLabelValues(s.model, "error").Inc()
		return summary.Result{}, err
	}

	metrics.SummarizeRequestsTotal.WithLabelValues(s.model, "success").Inc()
	metrics.SummarizeRequestDuration.WithLabelValues(s.model).Observe(duration.Seconds())
	if resp.Usage.TotalTokens > 0 {
		metrics.SummarizeTokensTotal.WithLabelValues(s.model, "prompt").Add(float64(resp.Usage.PromptTokens))
		metrics.SummarizeTokensTotal.WithLabelValues(s.model, "total").Add(float64(resp.Usage.TotalTokens))
	}
	domain.UsageFromContext(ctx).AddLLMTokens(resp.Usage.TotalTokens)

	return result.Normalize(), nil
}

// buildUserMessage labels each snippet with its 1-based relevance rank.
// Order must match the retriever's ordering exactly; the model is told to
// judge each entry independently.
func buildUserMessage(snippets []string) string {
	labelled := make([]string, len(snippets))
	for i, text := range snippets {
		labelled[i] = fmt.Sprintf("[Summary %d: %s]", i+1, text)
	}
	return strings.Join(labelled, ",")
}

// buildSchema pins the output to exactly two string fields. The query and the
// unit of analysis travel in the field descriptions, which is where the
// opening-sentence template is imposed.
func buildSchema(query string, unit scope.UnitOfAnalysis) *jsonschema.Definition {
	return &jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"policy_position": {
				Type: jsonschema.String,
				Description: fmt.Sprintf(
					"Neutral summary of the %s's position on %q, at most 150 words, beginning with \"The %s's position on %s\".",
					unit, query, unit, query,
				),
			},
			"policy_points": {
				Type: jsonschema.String,
				Description: "At most five newline-separated bullet points, each a proposed measure or call to action " +
					"drawn from the relevant summaries, each starting with \"- \". Empty string if there are none.",
			},
		},
		Required:             []string{"policy_position", "policy_points"},
		AdditionalProperties: false,
	}
}

// decodeResult validates provider output against the two-field contract and
// fails closed on any other shape. The provider's structured-output mode is
// not trusted on its own.
func decodeResult(content string) (summary.Result, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return summary.Result{}, fmt.Errorf("malformed summary output: %w: %w", err, domain.ErrSummarizationFailed)
	}

	posRaw, ok := raw["policy_position"]
	if !ok {
		return summary.Result{}, fmt.Errorf("summary output missing policy_position: %w", domain.ErrSummarizationFailed)
	}
	pointsRaw, ok := raw["policy_points"]
	if !ok {
		return summary.Result{}, fmt.Errorf("summary output missing policy_points: %w", domain.ErrSummarizationFailed)
	}
	if len(raw) != 2 {
		return summary.Result{}, fmt.Errorf("summary output has unexpected fields: %w", domain.ErrSummarizationFailed)
	}

	var result summary.Result
	if err := json.Unmarshal(posRaw, &result.PolicyPosition); err != nil {
		return summary.Result{}, fmt.Errorf("policy_position is not a string: %w", domain.ErrSummarizationFailed)
	}
	if err := json.Unmarshal(pointsRaw, &result.PolicyPoints); err != nil {
		return summary.Result{}, fmt.Errorf("policy_points is not a string: %w", domain.ErrSummarizationFailed)
	}
	if result.PolicyPosition == "" {
		return summary.Result{}, fmt.Errorf("empty policy_position: %w", domain.ErrSummarizationFailed)
	}

	return result, nil
}
