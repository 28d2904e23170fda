package domain

import "context"

// Provider is the uniform contract wrapping one backend's native call.
// Implementations are stateless beyond a held client handle and must not
// leak SDK-specific error types: every failure surfaces as *ProviderError.
type Provider interface {
	// Invoke sends the prompt to the backend and returns the completion.
	Invoke(ctx context.Context, prompt string, maxTokens int, temperature float64) (*ProviderResult, error)

	// ID returns the stable provider identifier, e.g. "openai:gpt-4o-mini".
	ID() string
}

// ProviderRegistry manages the live set of registered providers.
type ProviderRegistry interface {
	// Register adds a provider to the registry.
	Register(ctx context.Context, provider Provider) error

	// Get retrieves a provider by id.
	Get(ctx context.Context, providerID string) (Provider, error)

	// Has reports whether a provider with the given id is registered.
	Has(ctx context.Context, providerID string) bool

	// List returns the ids of all registered providers.
	List(ctx context.Context) ([]string, error)
}

// Router resolves a task type to an ordered candidate-provider list.
// Resolution filters the curated preference order against the live
// registry; ids without a registered adapter are skipped, not retried.
type Router interface {
	Resolve(ctx context.Context, taskType TaskType) []string
}

// PromptOptimizer is a deterministic text-rewriting pass that reduces
// estimated token count. Total: any input yields a string, never an error.
type PromptOptimizer interface {
	// Optimize applies the rewrite pipeline to a raw prompt.
	Optimize(prompt string) string

	// EstimateTokens returns a rough token count heuristic. Never exact.
	EstimateTokens(text string) int
}

// ResponseCache is a content-addressed store of prior completions.
// Best-effort by contract: neither operation can fail a request, so
// neither returns an error.
type ResponseCache interface {
	// Lookup returns the cached result for key, or false if absent/expired.
	Lookup(ctx context.Context, key string) (*CompletionResult, bool)

	// Store saves a result snapshot under key, overwriting any prior entry.
	Store(ctx context.Context, key string, result *CompletionResult)
}

// UsageTracker accumulates per-provider pricing and session accounting.
// Tracking must never block or fail a completion.
type UsageTracker interface {
	// Record adds a request's token counts and derived cost to the ledger.
	Record(ctx context.Context, providerID string, inputTokens, outputTokens int) UsageDelta

	// Snapshot returns a copy of the current ledger.
	Snapshot(ctx context.Context) UsageLedger

	// Reset zeroes all counters and clears the per-provider breakdown.
	Reset(ctx context.Context)
}

// EventPublisher publishes events for observability.
type EventPublisher interface {
	// Publish publishes an event with the given type and data.
	Publish(ctx context.Context, eventType string, data map[string]interface{})
}
