// Package review is the engine facade: it fetches every input up front
// from the stores, then runs the pure pipeline
// ledger -> timeline -> drawdown -> kpi -> decision and hands back one
// Result. No I/O happens after the fetch phase and nothing is retried;
// store errors surface to the caller as-is.
package review

import (
	"context"
	"fmt"
	"time"

	"promotion-lab/internal/benchmark"
	"promotion-lab/internal/decision"
	"promotion-lab/internal/domain"
	"promotion-lab/internal/drawdown"
	"promotion-lab/internal/health"
	"promotion-lab/internal/kpi"
	"promotion-lab/internal/ledger"
	"promotion-lab/internal/lookup"
	"promotion-lab/internal/storage"
	"promotion-lab/internal/timeline"
)

const (
	// pipelineHealthWindowDays scopes the trailing pipeline metrics.
	pipelineHealthWindowDays = 7

	// runHistoryDays is how far back run telemetry is fetched. The
	// system health summary aggregates the whole window; the uptime KPI
	// and pipeline metrics narrow it further themselves.
	runHistoryDays = 30
)

// Config carries one evaluation request.
type Config struct {
	StartingCapital float64
	StartDate       time.Time
	Deadline        time.Time
	Targets         decision.Targets
}

// Result is everything one evaluation produces. Pure function of the
// fetched inputs and the engine clock.
type Result struct {
	GeneratedAt time.Time

	Timeline     []*domain.DailySnapshot
	KPI          domain.KPIVector
	Verdict      *decision.Result
	DrawdownMode drawdown.Mode

	Summary       kpi.TradeSummary
	Patterns      kpi.Patterns
	Health        health.RunSummary
	Pipeline      health.PipelineMetrics
	OpenPositions []ledger.Position
	Benchmark     []benchmark.Point
}

// Engine wires the stores to the pure pipeline.
type Engine struct {
	trades    storage.TradeStore
	prices    storage.PriceSeriesStore
	snapshots storage.BalanceSnapshotStore // optional
	runs      storage.RunStore             // optional

	benchmarkSymbol string
	clock           func() time.Time
}

// NewEngine creates an evaluation engine. Snapshot and run stores may be
// nil; drawdown then falls back to the ledger estimate and uptime reads
// an empty telemetry window.
func NewEngine(trades storage.TradeStore, prices storage.PriceSeriesStore, snapshots storage.BalanceSnapshotStore, runs storage.RunStore) *Engine {
	return &Engine{
		trades:    trades,
		prices:    prices,
		snapshots: snapshots,
		runs:      runs,
		clock:     func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (e *Engine) WithClock(clock func() time.Time) *Engine {
	e.clock = clock
	return e
}

// WithBenchmark enables benchmark normalization against the given
// instrument, e.g. "SPY".
func (e *Engine) WithBenchmark(symbol string) *Engine {
	e.benchmarkSymbol = symbol
	return e
}

// Evaluate runs one full evaluation. Structurally invalid configuration
// (start after now, non-positive capital) is the only error class of the
// pure phase; everything else that goes wrong is a store error.
func (e *Engine) Evaluate(ctx context.Context, cfg Config) (*Result, error) {
	now := e.clock()

	tcfg := timeline.Config{StartingCapital: cfg.StartingCapital, StartDate: cfg.StartDate}
	if err := tcfg.Validate(now); err != nil {
		return nil, err
	}

	trades, err := e.trades.ListSince(ctx, cfg.StartDate)
	if err != nil {
		return nil, fmt.Errorf("fetch trades: %w", err)
	}

	normalized := ledger.Normalize(trades, cfg.StartDate)

	series := make(map[string][]*domain.PricePoint, len(normalized.Symbols))
	for _, symbol := range normalized.Symbols {
		points, err := e.prices.GetBySymbol(ctx, symbol)
		if err != nil {
			return nil, fmt.Errorf("fetch prices for %s: %w", symbol, err)
		}
		series[symbol] = points
	}
	resolver := lookup.NewResolver(series)

	var snaps []*domain.BalanceSnapshot
	if e.snapshots != nil {
		if snaps, err = e.snapshots.ListSince(ctx, cfg.StartDate); err != nil {
			return nil, fmt.Errorf("fetch balance snapshots: %w", err)
		}
	}

	var runs []*domain.RunRecord
	if e.runs != nil {
		if runs, err = e.runs.ListSince(ctx, now.AddDate(0, 0, -runHistoryDays)); err != nil {
			return nil, fmt.Errorf("fetch runs: %w", err)
		}
	}

	var benchmarkPoints []benchmark.Point
	if e.benchmarkSymbol != "" {
		points, err := e.prices.GetBySymbol(ctx, e.benchmarkSymbol)
		if err != nil {
			return nil, fmt.Errorf("fetch benchmark %s: %w", e.benchmarkSymbol, err)
		}
		benchmarkPoints = benchmark.Normalize(points, cfg.StartDate, cfg.StartingCapital)
	}

	// Fetch phase over; everything below is pure.

	snapshots, err := timeline.Reconstruct(normalized, tcfg, resolver, now)
	if err != nil {
		return nil, err
	}

	closed := make([]*domain.TradeEvent, 0, len(trades))
	for _, t := range trades {
		if t.Closed() {
			closed = append(closed, t)
		}
	}

	dd, mode := drawdown.Compute(snaps, closed)

	vector := kpi.Compute(closed, dd, runs, kpi.Config{
		StartingCapital: cfg.StartingCapital,
		StartDate:       cfg.StartDate,
		Deadline:        cfg.Deadline,
	}, now)

	return &Result{
		GeneratedAt:   now,
		Timeline:      snapshots,
		KPI:           vector,
		Verdict:       decision.Evaluate(vector, cfg.Targets),
		DrawdownMode:  mode,
		Summary:       kpi.Summarize(closed),
		Patterns:      kpi.AnalyzePatterns(closed),
		Health:        health.SummarizeRuns(runs),
		Pipeline:      health.PipelineHealth(runs, pipelineHealthWindowDays, now),
		OpenPositions: ledger.OpenPositions(trades),
		Benchmark:     benchmarkPoints,
	}, nil
}
