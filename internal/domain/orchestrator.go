package domain

import (
	"context"
	"errors"

	"github.com/nexuslabs/relay/internal/observability"
)

// OrchestratorService is the entry point of the core: it optimizes the
// prompt, consults the cache, and executes the routed candidate list in
// order until one provider succeeds.
type OrchestratorService struct {
	registry  ProviderRegistry
	router    Router
	optimizer PromptOptimizer
	cache     ResponseCache
	tracker   UsageTracker
	events    EventPublisher
}

// NewOrchestratorService creates a new orchestrator (DI constructor).
func NewOrchestratorService(
	registry ProviderRegistry,
	router Router,
	optimizer PromptOptimizer,
	cache ResponseCache,
	tracker UsageTracker,
	events EventPublisher,
) *OrchestratorService {
	return &OrchestratorService{
		registry:  registry,
		router:    router,
		optimizer: optimizer,
		cache:     cache,
		tracker:   tracker,
		events:    events,
	}
}

// Complete handles a completion request with sequential fallback.
//
// The optimized prompt is used only for cache addressing and token
// estimation; providers always receive the original prompt so the
// optimizer can never silently alter user intent mid-call.
func (o *OrchestratorService) Complete(ctx context.Context, req *CompletionRequest) (*CompletionResult, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}

	ctx = observability.WithTaskType(ctx, string(req.TaskType))
	logger := observability.FromContext(ctx)

	optimized := o.optimizer.Optimize(req.Prompt)
	key := CacheKey(req.TaskType, optimized)

	// Cache hit returns the stored snapshot verbatim: no provider call,
	// no ledger update.
	if cached, ok := o.cache.Lookup(ctx, key); ok {
		logger.Info("cache hit, returning stored completion",
			observability.String("provider", cached.ProviderID))
		o.publish(ctx, "cache.hit", map[string]interface{}{
			"task_type": string(req.TaskType),
			"provider":  cached.ProviderID,
		})
		return cached, nil
	}

	candidates := o.router.Resolve(ctx, req.TaskType)
	if len(candidates) == 0 {
		logger.Warn("no providers available for task",
			observability.String("task", string(req.TaskType)))
		return nil, ErrNoProvidersAvailable
	}

	var lastErr error

	for i, providerID := range candidates {
		provider, err := o.registry.Get(ctx, providerID)
		if err != nil {
			// Registry drift between resolve and get; treat as a failed attempt.
			lastErr = err
			continue
		}

		logger.Info("attempting provider",
			observability.String("provider", providerID),
			observability.Int("attempt", i))

		result, err := provider.Invoke(ctx, req.Prompt, req.MaxTokens, req.Temperature)
		if err != nil {
			lastErr = err
			logger.Warn("provider attempt failed",
				observability.String("provider", providerID),
				observability.Int("attempt", i),
				observability.Error(err))
			o.publish(ctx, "provider.attempt_failed", map[string]interface{}{
				"provider": providerID,
				"attempt":  i,
				"error":    err.Error(),
			})
			continue
		}

		completion := o.finishAttempt(ctx, req, providerID, optimized, result, i > 0)
		o.cache.Store(ctx, key, completion)

		logger.Info("completion succeeded",
			observability.String("provider", providerID),
			observability.Bool("used_fallback", completion.UsedFallback),
			observability.Int("tokens_used", completion.TokensUsed))

		return completion, nil
	}

	logger.Error("all providers failed",
		observability.Int("attempts", len(candidates)),
		observability.Error(lastErr))

	return nil, &AllProvidersFailedError{Attempts: len(candidates), LastErr: lastErr}
}

// finishAttempt records usage for a successful attempt and assembles the
// final result. The input side of the split is always the optimizer's
// estimate of the optimized prompt; the provider-reported total is trusted
// only to derive the output side when it exceeds that estimate.
func (o *OrchestratorService) finishAttempt(
	ctx context.Context,
	req *CompletionRequest,
	providerID string,
	optimized string,
	result *ProviderResult,
	usedFallback bool,
) *CompletionResult {
	inputTokens := o.optimizer.EstimateTokens(optimized)
	outputTokens := o.optimizer.EstimateTokens(result.Text)
	if result.TokensUsed > inputTokens {
		outputTokens = result.TokensUsed - inputTokens
	}

	o.tracker.Record(ctx, providerID, inputTokens, outputTokens)

	tokensUsed := result.TokensUsed
	if tokensUsed == 0 {
		tokensUsed = inputTokens + outputTokens
	}

	return &CompletionResult{
		Text:         result.Text,
		ProviderID:   providerID,
		TokensUsed:   tokensUsed,
		LatencyMs:    result.LatencyMs,
		UsedFallback: usedFallback,
	}
}

// GetUsageSnapshot exposes the ledger to the reporting layer.
func (o *OrchestratorService) GetUsageSnapshot(ctx context.Context) UsageLedger {
	return o.tracker.Snapshot(ctx)
}

// ResetUsage zeroes the ledger. The only state-destroying operation in the core.
func (o *OrchestratorService) ResetUsage(ctx context.Context) {
	o.tracker.Reset(ctx)
}

func (o *OrchestratorService) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if o.events == nil {
		return
	}
	o.events.Publish(ctx, eventType, data)
}
