// Package drawdown computes maximum drawdown from either of two sources:
// periodic balance snapshots (preferred) or a ledger estimate over
// cumulative realized P&L (fallback). The two modes are intentionally
// not unified: snapshot mode measures true portfolio value while the
// ledger estimate ignores unrealized positions and cash drag, and the
// upstream system relied on that asymmetry. Callers must not assume the
// modes agree.
package drawdown

import (
	"promotion-lab/internal/domain"
)

// Mode identifies which data source produced a drawdown figure.
type Mode string

const (
	// ModeSnapshot walks recorded portfolio valuations.
	ModeSnapshot Mode = "snapshot"
	// ModeLedgerEstimate approximates from cumulative realized P&L.
	ModeLedgerEstimate Mode = "ledger-estimate"
)

// snapshotModeMinimum is the number of balance snapshots required for
// snapshot mode; a single point has no peak-to-trough structure.
const snapshotModeMinimum = 2

// FromValues returns the worst peak-to-trough decline of a value series,
// in percent: max over points of (peak - value) / peak * 100, with 0
// whenever the running peak is not positive.
func FromValues(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	peak := values[0]
	maxDD := 0.0
	for _, v := range values {
		if v > peak {
			peak = v
		}
		if peak <= 0 {
			continue
		}
		if dd := (peak - v) / peak * 100; dd > maxDD {
			maxDD = dd
		}
	}
	return maxDD
}

// FromBalanceSnapshots computes drawdown over recorded portfolio
// valuations in time order.
func FromBalanceSnapshots(snaps []*domain.BalanceSnapshot) float64 {
	values := make([]float64, len(snaps))
	for i, s := range snaps {
		values[i] = s.TotalValue
	}
	return FromValues(values)
}

// FromClosedTrades estimates drawdown from the running sum of realized
// P&L over closed trades: max(peak - cumulative) / max(peak_max, 1) * 100,
// 0 when the cumulative sum never goes positive. This measures drawdown
// against realized P&L rather than portfolio value and is strictly
// weaker than snapshot mode.
func FromClosedTrades(closed []*domain.TradeEvent) float64 {
	if len(closed) == 0 {
		return 0
	}

	cumulative := 0.0
	peak := 0.0
	peakMax := 0.0
	maxGap := 0.0

	for _, t := range closed {
		cumulative += t.RealizedPnL()
		if cumulative > peak {
			peak = cumulative
		}
		if peak > peakMax {
			peakMax = peak
		}
		if gap := peak - cumulative; gap > maxGap {
			maxGap = gap
		}
	}

	if peakMax <= 0 {
		return 0
	}
	if peakMax < 1 {
		peakMax = 1
	}
	return maxGap / peakMax * 100
}

// Compute picks the higher-fidelity source available: snapshot mode when
// at least two balance snapshots exist in range, otherwise the ledger
// estimate. Reports which mode was used so callers can surface it.
func Compute(snaps []*domain.BalanceSnapshot, closed []*domain.TradeEvent) (float64, Mode) {
	if len(snaps) >= snapshotModeMinimum {
		return FromBalanceSnapshots(snaps), ModeSnapshot
	}
	return FromClosedTrades(closed), ModeLedgerEstimate
}
