package kpi

import (
	"math"
	"testing"

	"promotion-lab/internal/domain"
)

func tradeWith(pnlVal, pctVal float64, holdingDays int) *domain.TradeEvent {
	days := holdingDays
	return &domain.TradeEvent{
		ProfitLoss:    pnl(pnlVal),
		ProfitLossPct: pnl(pctVal),
		HoldingDays:   &days,
		Status:        domain.StatusClosed,
	}
}

func TestSummarize_MixedTrades(t *testing.T) {
	closed := []*domain.TradeEvent{
		tradeWith(600, 6.0, 10),
		tradeWith(400, 4.0, 20),
		tradeWith(-500, -5.0, 6),
	}

	s := Summarize(closed)

	if s.TotalTrades != 3 || s.WinningTrades != 2 || s.LosingTrades != 1 {
		t.Errorf("unexpected counts: %+v", s)
	}
	if s.TotalPnL != 500.0 {
		t.Errorf("expected total P&L 500, got %f", s.TotalPnL)
	}
	// 1000 gross profit / 500 gross loss.
	if math.Abs(s.ProfitFactor-2.0) > 1e-9 {
		t.Errorf("expected profit factor 2.0, got %f", s.ProfitFactor)
	}
	if math.Abs(s.AvgWinPct-5.0) > 1e-9 {
		t.Errorf("expected avg win 5.0%%, got %f", s.AvgWinPct)
	}
	if s.AvgLossPct != -5.0 {
		t.Errorf("expected avg loss -5.0%%, got %f", s.AvgLossPct)
	}
	if s.LargestWinPct != 6.0 || s.LargestLossPct != -5.0 {
		t.Errorf("unexpected extremes: %+v", s)
	}
	if s.AvgHoldingDays != 12.0 {
		t.Errorf("expected avg holding 12 days, got %f", s.AvgHoldingDays)
	}
}

func TestSummarize_ProfitFactorCapped(t *testing.T) {
	closed := []*domain.TradeEvent{
		tradeWith(600, 6.0, 5),
		tradeWith(400, 4.0, 5),
	}

	s := Summarize(closed)

	if s.ProfitFactor != profitFactorCap {
		t.Errorf("expected capped profit factor %f with no losses, got %f", profitFactorCap, s.ProfitFactor)
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)

	if s.TotalTrades != 0 || s.ProfitFactor != 0 || s.WinRate != 0 {
		t.Errorf("expected zero summary, got %+v", s)
	}
}
