package ledger

import (
	"math"
	"testing"
)

func TestApplyBuy_BlendsCostBasis(t *testing.T) {
	h := make(Holdings)

	h.ApplyBuy("AAPL", 100, 10.0)
	h.ApplyBuy("AAPL", 100, 20.0)

	got := h["AAPL"]
	if got.Shares != 200 {
		t.Errorf("expected 200 shares, got %d", got.Shares)
	}
	// (10*100 + 20*100) / 200 = 15
	if got.AvgEntryPrice != 15.0 {
		t.Errorf("expected avg 15.0, got %f", got.AvgEntryPrice)
	}
}

func TestApplyBuy_UnevenBlend(t *testing.T) {
	h := make(Holdings)

	h.ApplyBuy("AAPL", 300, 10.0)
	h.ApplyBuy("AAPL", 100, 18.0)

	// (10*300 + 18*100) / 400 = 12
	got := h["AAPL"].AvgEntryPrice
	if math.Abs(got-12.0) > 1e-9 {
		t.Errorf("expected avg 12.0, got %f", got)
	}
}

func TestApplySell_ClearsAtZero(t *testing.T) {
	h := make(Holdings)
	h.ApplyBuy("AAPL", 100, 10.0)

	h.ApplySell("AAPL", 100)

	if _, ok := h["AAPL"]; ok {
		t.Errorf("expected position cleared after full sell")
	}
}

func TestApplySell_PartialKeepsAvg(t *testing.T) {
	h := make(Holdings)
	h.ApplyBuy("AAPL", 100, 10.0)

	h.ApplySell("AAPL", 40)

	got := h["AAPL"]
	if got.Shares != 60 {
		t.Errorf("expected 60 shares, got %d", got.Shares)
	}
	if got.AvgEntryPrice != 10.0 {
		t.Errorf("expected avg unchanged at 10.0, got %f", got.AvgEntryPrice)
	}
}

func TestApplySell_NeverGoesNegative(t *testing.T) {
	h := make(Holdings)
	h.ApplyBuy("AAPL", 50, 10.0)

	h.ApplySell("AAPL", 80)

	if _, ok := h["AAPL"]; ok {
		t.Errorf("expected position cleared, not negative")
	}
}

func TestApplySell_UnknownSymbolIsNoop(t *testing.T) {
	h := make(Holdings)

	h.ApplySell("MSFT", 10)

	if len(h) != 0 {
		t.Errorf("expected empty holdings, got %d entries", len(h))
	}
}
