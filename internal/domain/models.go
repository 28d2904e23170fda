package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
)

// TaskType classifies the caller's intent and selects a provider
// preference order.
type TaskType string

const (
	TaskIntent        TaskType = "intent"
	TaskCodeGen       TaskType = "code_gen"
	TaskSummarization TaskType = "summarization"
	TaskExtraction    TaskType = "extraction"
	TaskOther         TaskType = "other"
)

// ParseTaskType normalizes a raw task type string. Unknown values map to
// TaskOther so they pick up the default routing order.
func ParseTaskType(raw string) TaskType {
	switch TaskType(raw) {
	case TaskIntent, TaskCodeGen, TaskSummarization, TaskExtraction, TaskOther:
		return TaskType(raw)
	default:
		return TaskOther
	}
}

const (
	minTemperature = 0.0
	maxTemperature = 2.0
)

// CompletionRequest represents a single generation request.
// Immutable once constructed; build via NewCompletionRequest.
type CompletionRequest struct {
	Prompt      string            `json:"prompt"`
	TaskType    TaskType          `json:"task_type"`
	MaxTokens   int               `json:"max_tokens"`
	Temperature float64           `json:"temperature"`
	Context     map[string]string `json:"context,omitempty"`
}

// NewCompletionRequest validates and constructs a completion request.
func NewCompletionRequest(
	prompt string,
	taskType TaskType,
	maxTokens int,
	temperature float64,
	requestContext map[string]string,
) (*CompletionRequest, error) {
	if prompt == "" {
		return nil, errors.New("prompt cannot be empty")
	}

	if maxTokens <= 0 {
		return nil, fmt.Errorf("max_tokens must be positive, got %d", maxTokens)
	}

	if temperature < minTemperature || temperature > maxTemperature {
		return nil, fmt.Errorf("temperature must be in [%g, %g], got %g", minTemperature, maxTemperature, temperature)
	}

	return &CompletionRequest{
		Prompt:      prompt,
		TaskType:    ParseTaskType(string(taskType)),
		MaxTokens:   maxTokens,
		Temperature: temperature,
		Context:     requestContext,
	}, nil
}

// CompletionResult is the outcome of a successful completion request.
type CompletionResult struct {
	Text         string `json:"text"`
	ProviderID   string `json:"provider_id"`
	TokensUsed   int    `json:"tokens_used"`
	LatencyMs    int64  `json:"latency_ms"`
	UsedFallback bool   `json:"used_fallback"`
}

// ProviderResult is the raw outcome of one provider invocation.
type ProviderResult struct {
	Text       string
	TokensUsed int
	LatencyMs  int64
}

// ProviderUsage accumulates token and cost counters for one pricing family.
type ProviderUsage struct {
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	TotalCost    float64 `json:"total_cost_usd"`
	RequestCount int     `json:"request_count"`
}

// UsageLedger is a snapshot of cumulative session accounting: global
// counters plus a per-family breakdown. Cost figures are advisory, derived
// from heuristic token estimates.
type UsageLedger struct {
	InputTokens  int                      `json:"input_tokens"`
	OutputTokens int                      `json:"output_tokens"`
	TotalCost    float64                  `json:"total_cost_usd"`
	RequestCount int                      `json:"request_count"`
	Providers    map[string]ProviderUsage `json:"providers"`
}

// UsageDelta describes the contribution of a single recorded request.
type UsageDelta struct {
	Family       string  `json:"family"`
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	Cost         float64 `json:"cost_usd"`
}

// CacheKey derives the content-addressed cache key for a request.
// Only the task type and the optimized prompt participate: requests
// differing in max_tokens, temperature, or context intentionally collide.
func CacheKey(taskType TaskType, optimizedPrompt string) string {
	hash := sha256.Sum256([]byte(string(taskType) + ":" + optimizedPrompt))
	return hex.EncodeToString(hash[:])
}
