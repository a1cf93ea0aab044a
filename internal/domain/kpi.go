package domain

import "math"

// KPIVector is the computed aggregate a promotion decision is made from.
// Percentage fields are carried unrounded; rounding to one decimal place
// happens at the presentation layer so that target comparisons never flap
// on a rounding boundary.
type KPIVector struct {
	WinRate      float64 // wins / closed trades * 100
	AnnualReturn float64 // actual return annualized over 365 days
	MaxDrawdown  float64 // worst peak-to-trough decline, %
	Uptime       float64 // completed runs / all runs in trailing window, %

	// Supporting counts
	TotalTrades     int     // closed trades evaluated
	Wins            int     // closed trades with positive P&L
	Losses          int     // closed trades with P&L <= 0
	TotalPnL        float64 // cumulative realized P&L, currency
	ActualReturnPct float64 // TotalPnL / starting capital * 100, not annualized
	ElapsedDays     int     // days since evaluation start, min 1
	DaysRemaining   int     // days until the decision deadline, min 0
	ProgressPct     float64 // elapsed share of the evaluation window, capped at 100
}

// Round1 rounds to one decimal place. Used for percentage KPIs at output.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Round2 rounds to the cent. Used for monetary amounts at output.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
