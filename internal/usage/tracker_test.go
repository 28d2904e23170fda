package usage_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nexuslabs/relay/internal/usage"
)

func TestResolveFamily(t *testing.T) {
	tests := []struct {
		name       string
		providerID string
		expected   string
	}{
		{name: "claude id maps to anthropic", providerID: "anthropic:claude-3-5-haiku-20241022", expected: usage.FamilyAnthropic},
		{name: "bare claude maps to anthropic", providerID: "claude-3-opus", expected: usage.FamilyAnthropic},
		{name: "gemini id", providerID: "gemini:gemini-2.0-flash", expected: usage.FamilyGemini},
		{name: "google alias", providerID: "google:bison", expected: usage.FamilyGemini},
		{name: "openai id", providerID: "openai:gpt-4o-mini", expected: usage.FamilyOpenAI},
		{name: "bare gpt model", providerID: "gpt-4o", expected: usage.FamilyOpenAI},
		{name: "static provider", providerID: "static:canned", expected: usage.FamilyStatic},
		{name: "unknown falls back to default", providerID: "llama:local", expected: usage.FamilyDefault},
		{name: "empty id falls back to default", providerID: "", expected: usage.FamilyDefault},
		{name: "case insensitive", providerID: "OpenAI:GPT-4o", expected: usage.FamilyOpenAI},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, usage.ResolveFamily(tt.providerID))
		})
	}
}

func TestTracker_Record_CostAccounting(t *testing.T) {
	ctx := context.Background()
	tracker := usage.NewTracker()

	// openai family rates: 0.15 in / 0.60 out per million tokens.
	delta := tracker.Record(ctx, "openai:gpt-4o-mini", 1000, 500)

	expectedCost := 1000.0/1e6*0.15 + 500.0/1e6*0.60

	require.Equal(t, usage.FamilyOpenAI, delta.Family)
	require.Equal(t, 1000, delta.InputTokens)
	require.Equal(t, 500, delta.OutputTokens)
	require.InDelta(t, expectedCost, delta.Cost, 1e-12)

	snapshot := tracker.Snapshot(ctx)
	require.Equal(t, 1000, snapshot.InputTokens)
	require.Equal(t, 500, snapshot.OutputTokens)
	require.InDelta(t, expectedCost, snapshot.TotalCost, 1e-12)
	require.Equal(t, 1, snapshot.RequestCount)
}

func TestTracker_Record_LazyBreakdown(t *testing.T) {
	ctx := context.Background()
	tracker := usage.NewTracker()

	require.Empty(t, tracker.Snapshot(ctx).Providers)

	tracker.Record(ctx, "openai:gpt-4o-mini", 100, 50)
	tracker.Record(ctx, "openai:gpt-4o", 200, 100)
	tracker.Record(ctx, "anthropic:claude-3-5-haiku-20241022", 10, 5)

	snapshot := tracker.Snapshot(ctx)
	require.Len(t, snapshot.Providers, 2)

	// Same family accumulates regardless of model variant.
	openaiUsage := snapshot.Providers[usage.FamilyOpenAI]
	require.Equal(t, 300, openaiUsage.InputTokens)
	require.Equal(t, 150, openaiUsage.OutputTokens)
	require.Equal(t, 2, openaiUsage.RequestCount)

	anthropicUsage := snapshot.Providers[usage.FamilyAnthropic]
	require.Equal(t, 1, anthropicUsage.RequestCount)

	require.Equal(t, 3, snapshot.RequestCount)
}

func TestTracker_Record_UnknownFamilyUsesDefaultRates(t *testing.T) {
	ctx := context.Background()
	tracker := usage.NewTracker()

	delta := tracker.Record(ctx, "garbage-id", 1_000_000, 1_000_000)

	require.Equal(t, usage.FamilyDefault, delta.Family)
	// default rates: 0.50 in / 1.50 out per million.
	require.InDelta(t, 2.0, delta.Cost, 1e-12)
}

func TestTracker_Reset(t *testing.T) {
	ctx := context.Background()
	tracker := usage.NewTracker()

	tracker.Record(ctx, "openai:gpt-4o-mini", 1000, 500)
	tracker.Reset(ctx)

	snapshot := tracker.Snapshot(ctx)
	require.Zero(t, snapshot.InputTokens)
	require.Zero(t, snapshot.OutputTokens)
	require.Zero(t, snapshot.TotalCost)
	require.Zero(t, snapshot.RequestCount)
	require.Empty(t, snapshot.Providers)
}

func TestTracker_SnapshotIsDeepCopy(t *testing.T) {
	ctx := context.Background()
	tracker := usage.NewTracker()

	tracker.Record(ctx, "openai:gpt-4o-mini", 100, 50)

	snapshot := tracker.Snapshot(ctx)
	snapshot.Providers[usage.FamilyOpenAI] = usage.NewTracker().Snapshot(ctx).Providers[usage.FamilyOpenAI]
	snapshot.Providers["injected"] = snapshot.Providers[usage.FamilyOpenAI]

	fresh := tracker.Snapshot(ctx)
	require.Len(t, fresh.Providers, 1)
	require.Equal(t, 100, fresh.Providers[usage.FamilyOpenAI].InputTokens)
}

func TestTracker_ConcurrentRecording(t *testing.T) {
	ctx := context.Background()
	tracker := usage.NewTracker()

	const workers = 16
	const perWorker = 250

	var wg sync.WaitGroup
	wg.Add(workers)

	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				tracker.Record(ctx, "openai:gpt-4o-mini", 10, 5)
			}
		}()
	}

	wg.Wait()

	snapshot := tracker.Snapshot(ctx)
	require.Equal(t, workers*perWorker, snapshot.RequestCount)
	require.Equal(t, workers*perWorker*10, snapshot.InputTokens)
	require.Equal(t, workers*perWorker*5, snapshot.OutputTokens)
	require.Equal(t, workers*perWorker, snapshot.Providers[usage.FamilyOpenAI].RequestCount)
}
