package reporting

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promotion-lab/internal/domain"
	"promotion-lab/internal/review"
	"promotion-lab/internal/storage/memory"
)

func fixtureReport(t *testing.T) *Report {
	t.Helper()
	ctx := context.Background()

	trades := memory.NewTradeStore()
	prices := memory.NewPriceSeriesStore()
	snapshots := memory.NewBalanceSnapshotStore()
	runs := memory.NewRunStore()
	require.NoError(t, review.LoadFixtures(ctx, trades, prices, snapshots, runs))

	engine := review.NewEngine(trades, prices, snapshots, runs).
		WithClock(func() time.Time { return review.FixtureNow }).
		WithBenchmark("SPY")
	result, err := engine.Evaluate(ctx, review.FixtureConfig())
	require.NoError(t, err)

	return NewGenerator().Build(result, review.FixtureConfig())
}

func TestRenderMarkdown_Sections(t *testing.T) {
	md := RenderMarkdown(fixtureReport(t))

	for _, want := range []string{
		"# Paper Trading Review",
		"## KPIs",
		"## Decision Gate",
		"## Trade Summary",
		"## Trade Patterns",
		"## Open Positions",
		"## System Health",
		"## Recent Daily Balances",
	} {
		assert.Contains(t, md, want)
	}
	assert.Contains(t, md, "**Verdict: GO**")
	assert.Contains(t, md, "| Win Rate | 75.0% |")
}

func TestRenderMarkdown_Deterministic(t *testing.T) {
	report := fixtureReport(t)

	assert.Equal(t, RenderMarkdown(report), RenderMarkdown(report))
}

func TestRenderDecisionMarkdown_Checklist(t *testing.T) {
	md := RenderDecisionMarkdown(fixtureReport(t))

	assert.Contains(t, md, "# Go/No-Go Decision")
	assert.Contains(t, md, "## Verdict: GO")
	assert.Contains(t, md, "| Win rate | >= 55% | 75.0% | PASS |")
	assert.NotContains(t, md, "### Gaps")
}

func TestRenderCSV_RowPerBusinessDay(t *testing.T) {
	report := fixtureReport(t)

	csv := RenderCSV(report.Timeline)
	lines := strings.Split(strings.TrimRight(csv, "\n"), "\n")

	assert.Equal(t, "date,cash,equity,total,change,change_pct,events", lines[0])
	assert.Len(t, lines, len(report.Timeline)+1)

	// First day carries the first buy event.
	assert.Contains(t, lines[1], "2025-01-06")
	assert.Contains(t, lines[1], "BUY AAPL 100 @ $185.20")
}

func TestRenderCSV_QuotesEventFields(t *testing.T) {
	timeline := []*domain.DailySnapshot{
		{
			Date:   time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
			Cash:   99000,
			Equity: 1000,
			Total:  100000,
			Events: []string{"BUY AAPL 10 @ $100.00", "SELL MSFT 5 @ $200.00 (+$50)"},
		},
	}

	csv := RenderCSV(timeline)

	// Joined events contain no comma, so no quoting is required here;
	// the separator keeps them one field.
	assert.Contains(t, csv, "BUY AAPL 10 @ $100.00; SELL MSFT 5 @ $200.00 (+$50)")
}

func TestGenerator_UsesResultTimestamp(t *testing.T) {
	report := fixtureReport(t)

	assert.Equal(t, review.FixtureNow, report.GeneratedAt)
}
