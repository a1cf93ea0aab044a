package review

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promotion-lab/internal/decision"
	"promotion-lab/internal/drawdown"
	"promotion-lab/internal/storage/memory"
	"promotion-lab/internal/timeline"
)

func fixtureEngine(t *testing.T) *Engine {
	t.Helper()
	ctx := context.Background()

	trades := memory.NewTradeStore()
	prices := memory.NewPriceSeriesStore()
	snapshots := memory.NewBalanceSnapshotStore()
	runs := memory.NewRunStore()
	require.NoError(t, LoadFixtures(ctx, trades, prices, snapshots, runs))

	return NewEngine(trades, prices, snapshots, runs).
		WithClock(func() time.Time { return FixtureNow })
}

func TestEngine_EvaluateFixtures(t *testing.T) {
	engine := fixtureEngine(t)

	result, err := engine.Evaluate(context.Background(), FixtureConfig())
	require.NoError(t, err)

	assert.Equal(t, FixtureNow, result.GeneratedAt)
	assert.Equal(t, decision.VerdictGO, result.Verdict.Verdict)
	assert.Equal(t, 4, result.Verdict.Passed)
	assert.Empty(t, result.Verdict.Gaps)

	assert.Equal(t, 8, result.KPI.TotalTrades)
	assert.Equal(t, 6, result.KPI.Wins)
	assert.Equal(t, 2, result.KPI.Losses)
	assert.InDelta(t, 75.0, result.KPI.WinRate, 1e-9)
	assert.InDelta(t, 3402.5, result.KPI.TotalPnL, 1e-6)
	assert.InDelta(t, 100.0, result.KPI.Uptime, 1e-9)

	// Six balance snapshots in range put drawdown in snapshot mode.
	assert.Equal(t, drawdown.ModeSnapshot, result.DrawdownMode)
	assert.Less(t, result.KPI.MaxDrawdown, 1.0)

	require.NotEmpty(t, result.Timeline)
	first := result.Timeline[0]
	assert.Equal(t, time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC), first.Date)
	last := result.Timeline[len(result.Timeline)-1]
	assert.Equal(t, time.Date(2025, 3, 28, 0, 0, 0, 0, time.UTC), last.Date)

	require.Len(t, result.OpenPositions, 2)
	assert.Equal(t, "AAPL", result.OpenPositions[0].Symbol)
	assert.Equal(t, "NVDA", result.OpenPositions[1].Symbol)
}

func TestEngine_HealthWindowWiderThanUptime(t *testing.T) {
	engine := fixtureEngine(t)

	result, err := engine.Evaluate(context.Background(), FixtureConfig())
	require.NoError(t, err)

	// The failed run on March 10 predates the 7-day uptime window but
	// belongs to the system health summary.
	assert.Equal(t, 8, result.Health.TotalRuns)
	assert.Equal(t, 1, result.Health.Failed)
	assert.Equal(t, 7, result.Health.Completed)
	assert.InDelta(t, 100.0, result.KPI.Uptime, 1e-9)
	assert.InDelta(t, 100.0, result.Pipeline.UptimePct, 1e-9)
}

func TestEngine_BenchmarkNormalization(t *testing.T) {
	engine := fixtureEngine(t).WithBenchmark("SPY")

	result, err := engine.Evaluate(context.Background(), FixtureConfig())
	require.NoError(t, err)

	// The Jan 3 close predates the start date and is dropped; the first
	// kept point anchors at starting capital.
	require.Len(t, result.Benchmark, 12)
	assert.Equal(t, 100000.0, result.Benchmark[0].Value)
}

func TestEngine_BalanceInvariantsHold(t *testing.T) {
	engine := fixtureEngine(t)

	result, err := engine.Evaluate(context.Background(), FixtureConfig())
	require.NoError(t, err)

	prevTotal := 100000.0
	for _, s := range result.Timeline {
		assert.InDelta(t, s.Cash+s.Equity, s.Total, 0.005, "day %s", s.Date)
		assert.InDelta(t, s.Total-prevTotal, s.Change, 0.005, "day %s", s.Date)
		prevTotal = s.Total
	}
}

func TestEngine_Idempotent(t *testing.T) {
	engine := fixtureEngine(t)
	ctx := context.Background()

	first, err := engine.Evaluate(ctx, FixtureConfig())
	require.NoError(t, err)
	second, err := engine.Evaluate(ctx, FixtureConfig())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestEngine_InvalidConfigSurfaced(t *testing.T) {
	engine := fixtureEngine(t)
	ctx := context.Background()

	cfg := FixtureConfig()
	cfg.StartDate = FixtureNow.AddDate(0, 0, 7)
	_, err := engine.Evaluate(ctx, cfg)
	assert.ErrorIs(t, err, timeline.ErrInvalidDateRange)

	cfg = FixtureConfig()
	cfg.StartingCapital = 0
	_, err = engine.Evaluate(ctx, cfg)
	assert.ErrorIs(t, err, timeline.ErrZeroStartingCapital)
}

func TestEngine_EmptyLedgerIsValid(t *testing.T) {
	trades := memory.NewTradeStore()
	prices := memory.NewPriceSeriesStore()
	engine := NewEngine(trades, prices, nil, nil).
		WithClock(func() time.Time { return FixtureNow })

	result, err := engine.Evaluate(context.Background(), FixtureConfig())
	require.NoError(t, err)

	assert.Empty(t, result.Timeline)
	assert.Zero(t, result.KPI.TotalTrades)
	assert.Zero(t, result.KPI.WinRate)
	assert.Zero(t, result.KPI.Uptime)
	assert.Equal(t, decision.VerdictNOGO, result.Verdict.Verdict)
}

func TestCache_SharesResultWithinBucket(t *testing.T) {
	engine := fixtureEngine(t)
	cache := NewCache(engine, 5*time.Minute)
	ctx := context.Background()

	first, err := cache.Evaluate(ctx, FixtureConfig())
	require.NoError(t, err)
	second, err := cache.Evaluate(ctx, FixtureConfig())
	require.NoError(t, err)

	// Frozen clock keeps both calls in one bucket.
	assert.Same(t, first, second)
}

func TestCache_DistinguishesConfigs(t *testing.T) {
	engine := fixtureEngine(t)
	cache := NewCache(engine, 5*time.Minute)
	ctx := context.Background()

	first, err := cache.Evaluate(ctx, FixtureConfig())
	require.NoError(t, err)

	other := FixtureConfig()
	other.StartDate = other.StartDate.AddDate(0, 0, 7)
	second, err := cache.Evaluate(ctx, other)
	require.NoError(t, err)

	assert.NotSame(t, first, second)
}

func TestCache_DistinguishesTargets(t *testing.T) {
	engine := fixtureEngine(t)
	cache := NewCache(engine, 5*time.Minute)
	ctx := context.Background()

	relaxed, err := cache.Evaluate(ctx, FixtureConfig())
	require.NoError(t, err)
	assert.Equal(t, decision.VerdictGO, relaxed.Verdict.Verdict)

	strict := FixtureConfig()
	strict.Targets = decision.Targets{
		WinRate:      99,
		AnnualReturn: 99,
		MaxDrawdown:  0.0001,
		Uptime:       100,
	}
	harsh, err := cache.Evaluate(ctx, strict)
	require.NoError(t, err)

	assert.NotSame(t, relaxed, harsh)
	assert.Equal(t, decision.VerdictNOGO, harsh.Verdict.Verdict)

	// A repeat with the same targets still hits the cache.
	again, err := cache.Evaluate(ctx, strict)
	require.NoError(t, err)
	assert.Same(t, harsh, again)
}

func TestCache_ReportsHitsAndMisses(t *testing.T) {
	engine := fixtureEngine(t)
	hits, misses := 0, 0
	cache := NewCache(engine, 5*time.Minute).WithObserver(func(hit bool) {
		if hit {
			hits++
		} else {
			misses++
		}
	})
	ctx := context.Background()

	_, err := cache.Evaluate(ctx, FixtureConfig())
	require.NoError(t, err)
	assert.Equal(t, 0, hits)
	assert.Equal(t, 1, misses)

	_, err = cache.Evaluate(ctx, FixtureConfig())
	require.NoError(t, err)
	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, misses)
}
