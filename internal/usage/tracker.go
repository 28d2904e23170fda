// Package usage implements per-provider cost accounting: a static pricing
// table keyed by normalized provider family, and a mutex-guarded session
// ledger accumulated across concurrent requests.
package usage

import (
	"context"
	"sync"

	"github.com/nexuslabs/relay/internal/domain"
)

const tokensPerMillion = 1e6

// Tracker implements domain.UsageTracker. Thread-safe; counters are
// monotonically non-decreasing except on explicit Reset.
type Tracker struct {
	mu     sync.Mutex
	ledger domain.UsageLedger
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		ledger: domain.UsageLedger{
			Providers: make(map[string]domain.ProviderUsage),
		},
	}
}

// Record resolves the provider's pricing family, computes the advisory
// cost, and atomically folds the delta into both the global ledger and
// the per-family breakdown. Never fails: malformed ids use default rates.
func (t *Tracker) Record(_ context.Context, providerID string, inputTokens, outputTokens int) domain.UsageDelta {
	family := ResolveFamily(providerID)
	rate := RateFor(family)

	cost := float64(inputTokens)/tokensPerMillion*rate.InputPerMillion +
		float64(outputTokens)/tokensPerMillion*rate.OutputPerMillion

	t.mu.Lock()
	defer t.mu.Unlock()

	t.ledger.InputTokens += inputTokens
	t.ledger.OutputTokens += outputTokens
	t.ledger.TotalCost += cost
	t.ledger.RequestCount++

	// Breakdown entry is created lazily on first use for the family.
	breakdown := t.ledger.Providers[family]
	breakdown.InputTokens += inputTokens
	breakdown.OutputTokens += outputTokens
	breakdown.TotalCost += cost
	breakdown.RequestCount++
	t.ledger.Providers[family] = breakdown

	return domain.UsageDelta{
		Family:       family,
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
		Cost:         cost,
	}
}

// Snapshot returns a deep copy of the ledger.
func (t *Tracker) Snapshot(_ context.Context) domain.UsageLedger {
	t.mu.Lock()
	defer t.mu.Unlock()

	snapshot := t.ledger
	snapshot.Providers = make(map[string]domain.ProviderUsage, len(t.ledger.Providers))
	for family, breakdown := range t.ledger.Providers {
		snapshot.Providers[family] = breakdown
	}
	return snapshot
}

// Reset zeroes all counters and clears the per-provider breakdown.
func (t *Tracker) Reset(_ context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.ledger = domain.UsageLedger{
		Providers: make(map[string]domain.ProviderUsage),
	}
}
