// Package routing maps a task classification to an ordered candidate
// provider list. The orders are curated configuration - a quality/latency/
// cost trade-off decided at deploy time - not computed at runtime, and are
// injectable through the environment to avoid baking in moment-in-time
// pricing assumptions.
package routing

import (
	"context"

	"github.com/nexuslabs/relay/internal/domain"
)

// Config holds the per-task preference orders as comma-separated provider
// id lists. Task types without an explicit entry use Default.
type Config struct {
	Intent        []string `env:"ROUTE_INTENT"        envSeparator:"," envDefault:"gemini:gemini-2.0-flash,openai:gpt-4o-mini"`
	CodeGen       []string `env:"ROUTE_CODE_GEN"      envSeparator:"," envDefault:"openai:gpt-4o,gemini:gemini-2.0-flash"`
	Summarization []string `env:"ROUTE_SUMMARIZATION" envSeparator:"," envDefault:"gemini:gemini-2.0-flash,openai:gpt-4o,anthropic:claude-3-5-haiku-20241022"`
	Extraction    []string `env:"ROUTE_EXTRACTION"    envSeparator:"," envDefault:"gemini:gemini-2.0-flash,openai:gpt-4o,anthropic:claude-3-5-haiku-20241022"`
	Default       []string `env:"ROUTE_DEFAULT"       envSeparator:"," envDefault:"gemini:gemini-2.0-flash,openai:gpt-4o-mini,anthropic:claude-3-5-haiku-20241022"`
}

// Table implements domain.Router: preference order over the full provider
// universe, filtered at resolve time against the live registry.
type Table struct {
	registry domain.ProviderRegistry
	orders   map[domain.TaskType][]string
	fallback []string
}

// NewTable creates a routing table from config.
func NewTable(registry domain.ProviderRegistry, cfg *Config) *Table {
	orders := map[domain.TaskType][]string{
		domain.TaskIntent:        cfg.Intent,
		domain.TaskCodeGen:       cfg.CodeGen,
		domain.TaskSummarization: cfg.Summarization,
		domain.TaskExtraction:    cfg.Extraction,
	}

	return &Table{
		registry: registry,
		orders:   orders,
		fallback: cfg.Default,
	}
}

// Resolve returns the preference order for taskType containing only ids
// with a registered adapter. Unavailable providers are skipped, not
// retried; an empty result means the request cannot be served.
func (t *Table) Resolve(ctx context.Context, taskType domain.TaskType) []string {
	order, exists := t.orders[taskType]
	if !exists || len(order) == 0 {
		order = t.fallback
	}

	resolved := make([]string, 0, len(order))
	for _, providerID := range order {
		if providerID == "" {
			continue
		}
		if t.registry.Has(ctx, providerID) {
			resolved = append(resolved, providerID)
		}
	}

	return resolved
}
