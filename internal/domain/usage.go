package domain

import "context"

type tokenUsageKey struct{}

// TokenUsage collects provider token usage for a single request.
// The handler puts a mutable pointer into the context before calling the
// service; the pipeline writes after each provider call; the handler reads it
// for response headers and the request log line.
type TokenUsage struct {
	EmbeddingTokens int
	LLMTokens       int
}

// NewContextWithUsage returns a context with an embedded usage collector.
func NewContextWithUsage(ctx context.Context) (context.Context, *TokenUsage) {
	u := &TokenUsage{}
	return context.WithValue(ctx, tokenUsageKey{}, u), u
}

// UsageFromContext extracts the usage collector from context. Returns nil if not set.
func UsageFromContext(ctx context.Context) *TokenUsage {
	u, _ := ctx.Value(tokenUsageKey{}).(*TokenUsage)
	return u
}

// AddEmbeddingTokens records tokens consumed by embedding calls.
func (u *TokenUsage) AddEmbeddingTokens(n int) {
	if u != nil {
		u.EmbeddingTokens += n
	}
}

// AddLLMTokens records tokens consumed by summarization calls.
func (u *TokenUsage) AddLLMTokens(n int) {
	if u != nil {
		u.LLMTokens += n
	}
}
