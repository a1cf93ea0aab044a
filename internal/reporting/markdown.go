package reporting

import (
	"fmt"
	"strings"
	"time"

	"promotion-lab/internal/domain"
)

// RenderMarkdown renders the full review report as a Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Paper Trading Review\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Evaluation window: %s to %s | Starting capital: $%.2f\n\n",
		r.StartDate.Format("2006-01-02"), r.Deadline.Format("2006-01-02"), r.StartingCapital))
	sb.WriteString(fmt.Sprintf("Day %d, %d days to deadline, %.1f%% of window elapsed\n\n",
		r.KPI.ElapsedDays, r.KPI.DaysRemaining, domain.Round1(r.KPI.ProgressPct)))

	// KPIs
	sb.WriteString("## KPIs\n\n")
	sb.WriteString("| KPI | Value |\n")
	sb.WriteString("|-----|-------|\n")
	sb.WriteString(fmt.Sprintf("| Win Rate | %.1f%% |\n", domain.Round1(r.KPI.WinRate)))
	sb.WriteString(fmt.Sprintf("| Annual Return | %.1f%% |\n", domain.Round1(r.KPI.AnnualReturn)))
	sb.WriteString(fmt.Sprintf("| Max Drawdown | %.1f%% (%s) |\n", domain.Round1(r.KPI.MaxDrawdown), r.DrawdownMode))
	sb.WriteString(fmt.Sprintf("| Uptime | %.1f%% |\n", domain.Round1(r.KPI.Uptime)))
	sb.WriteString(fmt.Sprintf("| Actual Return | %.1f%% |\n", domain.Round1(r.KPI.ActualReturnPct)))
	sb.WriteString(fmt.Sprintf("| Total P&L | $%.2f |\n", domain.Round2(r.KPI.TotalPnL)))
	sb.WriteString("\n")

	renderDecisionSection(&sb, r)

	// Trade Summary
	sb.WriteString("## Trade Summary\n\n")
	if r.Summary.TotalTrades > 0 {
		sb.WriteString("| Metric | Value |\n")
		sb.WriteString("|--------|-------|\n")
		sb.WriteString(fmt.Sprintf("| Closed Trades | %d (%dW / %dL) |\n", r.Summary.TotalTrades, r.Summary.WinningTrades, r.Summary.LosingTrades))
		sb.WriteString(fmt.Sprintf("| Profit Factor | %.2f |\n", r.Summary.ProfitFactor))
		sb.WriteString(fmt.Sprintf("| Avg Win / Avg Loss | %.1f%% / %.1f%% |\n", domain.Round1(r.Summary.AvgWinPct), domain.Round1(r.Summary.AvgLossPct)))
		sb.WriteString(fmt.Sprintf("| Largest Win / Largest Loss | %.1f%% / %.1f%% |\n", domain.Round1(r.Summary.LargestWinPct), domain.Round1(r.Summary.LargestLossPct)))
		sb.WriteString(fmt.Sprintf("| Avg Holding Days | %.1f |\n", domain.Round1(r.Summary.AvgHoldingDays)))
	} else {
		sb.WriteString("No closed trades yet.\n")
	}
	sb.WriteString("\n")

	// Patterns
	sb.WriteString("## Trade Patterns\n\n")
	if len(r.Patterns.ByStrategy) > 0 {
		sb.WriteString("### By Strategy\n\n")
		sb.WriteString("| Strategy | Trades | Win Rate | Avg Return | Total P&L |\n")
		sb.WriteString("|----------|--------|----------|------------|----------|\n")
		for _, b := range r.Patterns.ByStrategy {
			sb.WriteString(fmt.Sprintf("| %s | %d | %.1f%% | %.1f%% | $%.2f |\n",
				b.Key, b.Trades, domain.Round1(b.WinRate), domain.Round1(b.AvgReturnPct), domain.Round2(b.TotalPnL)))
		}
		sb.WriteString("\n### By Entry Weekday\n\n")
		sb.WriteString("| Weekday | Trades | Win Rate | Avg Return | Total P&L |\n")
		sb.WriteString("|---------|--------|----------|------------|----------|\n")
		for _, b := range r.Patterns.ByWeekday {
			sb.WriteString(fmt.Sprintf("| %s | %d | %.1f%% | %.1f%% | $%.2f |\n",
				b.Key, b.Trades, domain.Round1(b.WinRate), domain.Round1(b.AvgReturnPct), domain.Round2(b.TotalPnL)))
		}
	} else {
		sb.WriteString("No pattern data available.\n")
	}
	sb.WriteString("\n")

	// Open Positions
	sb.WriteString("## Open Positions\n\n")
	if len(r.OpenPositions) > 0 {
		sb.WriteString("| Symbol | Shares | Avg Entry |\n")
		sb.WriteString("|--------|--------|----------|\n")
		for _, p := range r.OpenPositions {
			sb.WriteString(fmt.Sprintf("| %s | %d | $%.2f |\n", p.Symbol, p.Shares, p.AvgEntryPrice))
		}
	} else {
		sb.WriteString("No open positions.\n")
	}
	sb.WriteString("\n")

	// System Health
	sb.WriteString("## System Health\n\n")
	if r.Health.TotalRuns > 0 {
		sb.WriteString(fmt.Sprintf("Runs: %d (%d completed, %d failed, %d interrupted) | Success rate: %.1f%% | Avg duration: %.1f min | Errors: %d\n\n",
			r.Health.TotalRuns, r.Health.Completed, r.Health.Failed, r.Health.Interrupted,
			domain.Round1(r.Health.SuccessRate), domain.Round1(r.Health.AvgDurationMins), r.Health.TotalErrors))
		sb.WriteString(fmt.Sprintf("Trailing %d days: error rate %.1f%%, uptime %.1f%%, day coverage %.1f%%\n",
			r.Pipeline.WindowDays, domain.Round1(r.Pipeline.ErrorRate),
			domain.Round1(r.Pipeline.UptimePct), domain.Round1(r.Pipeline.CoveragePct)))
	} else {
		sb.WriteString("No run telemetry in window.\n")
	}
	sb.WriteString("\n")

	// Timeline tail
	sb.WriteString("## Recent Daily Balances\n\n")
	if len(r.Timeline) > 0 {
		sb.WriteString("| Date | Cash | Equity | Total | Change |\n")
		sb.WriteString("|------|------|--------|-------|--------|\n")
		tail := r.Timeline
		if len(tail) > 10 {
			tail = tail[len(tail)-10:]
		}
		for _, s := range tail {
			sb.WriteString(fmt.Sprintf("| %s | $%.2f | $%.2f | $%.2f | $%.2f |\n",
				s.Date.Format("2006-01-02"), s.Cash, s.Equity, s.Total, s.Change))
		}
	} else {
		sb.WriteString("No timeline data available.\n")
	}
	sb.WriteString("\n")

	return sb.String()
}

// RenderDecisionMarkdown renders the standalone go/no-go document.
func RenderDecisionMarkdown(r *Report) string {
	var sb strings.Builder

	sb.WriteString("# Go/No-Go Decision\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("## Verdict: %s\n\n", r.Verdict.Verdict))
	sb.WriteString(fmt.Sprintf("%d of %d checks passed.\n\n", r.Verdict.Passed, len(r.Verdict.Checks)))

	renderDecisionSection(&sb, r)
	return sb.String()
}

func renderDecisionSection(sb *strings.Builder, r *Report) {
	sb.WriteString("## Decision Gate\n\n")
	sb.WriteString("| Check | Threshold | Actual | Status |\n")
	sb.WriteString("|-------|-----------|--------|--------|\n")
	for _, check := range r.Verdict.Checks {
		status := "FAIL"
		if check.Pass {
			status = "PASS"
		}
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n",
			check.Name, check.Threshold, check.Actual, status))
	}
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("**Verdict: %s** (%d/%d passed)\n\n", r.Verdict.Verdict, r.Verdict.Passed, len(r.Verdict.Checks)))

	if len(r.Verdict.Gaps) > 0 {
		sb.WriteString("### Gaps\n\n")
		for _, gap := range r.Verdict.Gaps {
			sb.WriteString(fmt.Sprintf("- %s\n", gap))
		}
		sb.WriteString("\n")
	}
}
