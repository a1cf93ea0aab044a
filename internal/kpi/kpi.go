// Package kpi aggregates the four promotion KPIs (win rate, annualized
// return, max drawdown, pipeline uptime) plus the supporting counts the
// report surfaces. All functions are pure; persistence and the drawdown
// calculation live elsewhere.
package kpi

import (
	"time"

	"promotion-lab/internal/domain"
)

// UptimeWindow is the trailing period the uptime KPI is measured over.
const UptimeWindow = 7 * 24 * time.Hour

// Config carries the evaluation parameters shared by every KPI.
type Config struct {
	StartingCapital float64   // initial cash, must be > 0 upstream
	StartDate       time.Time // evaluation window start
	Deadline        time.Time // promotion decision deadline
}

// WinRate returns wins, losses and win rate over closed trades. A trade
// with P&L exactly 0 counts as a loss. No closed trades means 0%.
func WinRate(closed []*domain.TradeEvent) (wins, losses int, rate float64) {
	for _, t := range closed {
		if t.RealizedPnL() > 0 {
			wins++
		} else {
			losses++
		}
	}
	if total := wins + losses; total > 0 {
		rate = float64(wins) / float64(total) * 100
	}
	return wins, losses, rate
}

// AnnualReturn extrapolates the actual return over elapsedDays to a
// 365-day year. elapsedDays is clamped to 1 so a first-day evaluation
// does not divide by zero.
func AnnualReturn(totalPnL, capital float64, elapsedDays int) float64 {
	if capital <= 0 {
		return 0
	}
	if elapsedDays < 1 {
		elapsedDays = 1
	}
	actual := totalPnL / capital * 100
	return actual * 365 / float64(elapsedDays)
}

// Uptime returns the share of runs in the trailing window that completed,
// in percent. An empty window is 0%, not 100%: a pipeline that never ran
// gets no credit for never failing.
func Uptime(runs []*domain.RunRecord, now time.Time) float64 {
	cutoff := now.Add(-UptimeWindow)

	total := 0
	completed := 0
	for _, r := range runs {
		if r.StartedAt.Before(cutoff) {
			continue
		}
		total++
		if r.Status == domain.RunCompleted {
			completed++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(completed) / float64(total) * 100
}

// Compute assembles the full KPI vector from closed trades, a
// precomputed drawdown figure and the run telemetry window. Values are
// carried unrounded; the presentation layer rounds.
func Compute(closed []*domain.TradeEvent, maxDrawdown float64, runs []*domain.RunRecord, cfg Config, now time.Time) domain.KPIVector {
	wins, losses, winRate := WinRate(closed)

	totalPnL := 0.0
	for _, t := range closed {
		totalPnL += t.RealizedPnL()
	}

	elapsed := int(now.Sub(cfg.StartDate).Hours() / 24)
	if elapsed < 1 {
		elapsed = 1
	}

	remaining := int(cfg.Deadline.Sub(now).Hours() / 24)
	if remaining < 0 {
		remaining = 0
	}

	progress := 0.0
	if window := int(cfg.Deadline.Sub(cfg.StartDate).Hours() / 24); window > 0 {
		progress = float64(elapsed) / float64(window) * 100
		if progress > 100 {
			progress = 100
		}
	}

	actualReturn := 0.0
	if cfg.StartingCapital > 0 {
		actualReturn = totalPnL / cfg.StartingCapital * 100
	}

	return domain.KPIVector{
		WinRate:      winRate,
		AnnualReturn: AnnualReturn(totalPnL, cfg.StartingCapital, elapsed),
		MaxDrawdown:  maxDrawdown,
		Uptime:       Uptime(runs, now),

		TotalTrades:     len(closed),
		Wins:            wins,
		Losses:          losses,
		TotalPnL:        totalPnL,
		ActualReturnPct: actualReturn,
		ElapsedDays:     elapsed,
		DaysRemaining:   remaining,
		ProgressPct:     progress,
	}
}
