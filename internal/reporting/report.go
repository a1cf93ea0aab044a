// Package reporting renders evaluation results for human review. The
// field set and rounding rules are the output contract; monetary
// amounts print to the cent and percentage KPIs to one decimal place.
package reporting

import (
	"time"

	"promotion-lab/internal/benchmark"
	"promotion-lab/internal/decision"
	"promotion-lab/internal/domain"
	"promotion-lab/internal/drawdown"
	"promotion-lab/internal/health"
	"promotion-lab/internal/kpi"
	"promotion-lab/internal/ledger"
	"promotion-lab/internal/review"
)

// Report is the assembled review document.
type Report struct {
	GeneratedAt     time.Time
	StartDate       time.Time
	Deadline        time.Time
	StartingCapital float64

	KPI          domain.KPIVector
	Verdict      *decision.Result
	DrawdownMode drawdown.Mode

	Summary       kpi.TradeSummary
	Patterns      kpi.Patterns
	Health        health.RunSummary
	Pipeline      health.PipelineMetrics
	OpenPositions []ledger.Position
	Benchmark     []benchmark.Point

	Timeline []*domain.DailySnapshot
}

// Generator assembles reports from evaluation results.
type Generator struct {
	clock func() time.Time
}

// NewGenerator creates a report generator.
func NewGenerator() *Generator {
	return &Generator{clock: func() time.Time { return time.Now().UTC() }}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(clock func() time.Time) *Generator {
	g.clock = clock
	return g
}

// Build maps one evaluation result into a report. The result's own
// generation time wins when set; the generator clock covers results
// assembled by hand in tests.
func (g *Generator) Build(res *review.Result, cfg review.Config) *Report {
	generatedAt := res.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = g.clock()
	}
	return &Report{
		GeneratedAt:     generatedAt,
		StartDate:       cfg.StartDate,
		Deadline:        cfg.Deadline,
		StartingCapital: cfg.StartingCapital,
		KPI:             res.KPI,
		Verdict:         res.Verdict,
		DrawdownMode:    res.DrawdownMode,
		Summary:         res.Summary,
		Patterns:        res.Patterns,
		Health:          res.Health,
		Pipeline:        res.Pipeline,
		OpenPositions:   res.OpenPositions,
		Benchmark:       res.Benchmark,
		Timeline:        res.Timeline,
	}
}
