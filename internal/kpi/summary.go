package kpi

import "promotion-lab/internal/domain"

// profitFactorCap bounds the profit factor when there are no losing
// trades, so a short flawless streak cannot print an infinite ratio.
const profitFactorCap = 99.99

// TradeSummary is the descriptive statistics block of the review report.
// Percentages come from the per-trade ProfitLossPct field when recorded.
type TradeSummary struct {
	TotalTrades    int
	WinningTrades  int
	LosingTrades   int
	WinRate        float64 // %
	TotalPnL       float64 // currency
	ProfitFactor   float64 // gross profit / gross loss, capped
	AvgWinPct      float64
	AvgLossPct     float64
	LargestWinPct  float64
	LargestLossPct float64
	AvgHoldingDays float64
}

// Summarize computes descriptive statistics over closed trades. Open
// trades must be filtered out by the caller.
func Summarize(closed []*domain.TradeEvent) TradeSummary {
	var s TradeSummary
	s.TotalTrades = len(closed)
	if s.TotalTrades == 0 {
		return s
	}

	grossProfit := 0.0
	grossLoss := 0.0
	winPctSum := 0.0
	lossPctSum := 0.0
	holdingSum := 0.0
	holdingCount := 0

	for _, t := range closed {
		pnl := t.RealizedPnL()
		s.TotalPnL += pnl

		pct := 0.0
		if t.ProfitLossPct != nil {
			pct = *t.ProfitLossPct
		}

		if pnl > 0 {
			s.WinningTrades++
			grossProfit += pnl
			winPctSum += pct
			if pct > s.LargestWinPct {
				s.LargestWinPct = pct
			}
		} else {
			s.LosingTrades++
			grossLoss += -pnl
			lossPctSum += pct
			if pct < s.LargestLossPct {
				s.LargestLossPct = pct
			}
		}

		if t.HoldingDays != nil {
			holdingSum += float64(*t.HoldingDays)
			holdingCount++
		}
	}

	s.WinRate = float64(s.WinningTrades) / float64(s.TotalTrades) * 100

	switch {
	case grossLoss > 0:
		s.ProfitFactor = grossProfit / grossLoss
		if s.ProfitFactor > profitFactorCap {
			s.ProfitFactor = profitFactorCap
		}
	case grossProfit > 0:
		s.ProfitFactor = profitFactorCap
	}

	if s.WinningTrades > 0 {
		s.AvgWinPct = winPctSum / float64(s.WinningTrades)
	}
	if s.LosingTrades > 0 {
		s.AvgLossPct = lossPctSum / float64(s.LosingTrades)
	}
	if holdingCount > 0 {
		s.AvgHoldingDays = holdingSum / float64(holdingCount)
	}

	return s
}
