package domain

import "time"

// Side is the direction of a trade execution.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// TradeStatus is the lifecycle state of a ledger row.
type TradeStatus string

const (
	StatusOpen   TradeStatus = "OPEN"
	StatusClosed TradeStatus = "CLOSED"
)

// TradeEvent is one immutable row of the trade ledger.
// Corresponds to the trades table. The engine only reads these.
type TradeEvent struct {
	TradeID string // deterministic identifier assigned by the executor
	Symbol  string // instrument ticker
	Side    Side   // BUY or SELL at entry
	Shares  int64  // executed share count, always positive

	// Entry
	EntryPrice float64   // fill price at entry
	EntryTime  time.Time // execution timestamp (UTC)

	// Exit (set only for CLOSED trades)
	ExitTime      *time.Time // execution timestamp of the close (nullable)
	ExitPrice     *float64   // fill price at exit (nullable)
	ProfitLoss    *float64   // realized P&L in currency (nullable)
	ProfitLossPct *float64   // realized P&L as % of entry value (nullable)
	HoldingDays   *int       // calendar days between entry and exit (nullable)

	Strategy string      // strategy tag that produced the trade, may be empty
	Status   TradeStatus // OPEN or CLOSED
}

// Closed reports whether the trade has a recorded exit.
func (t *TradeEvent) Closed() bool {
	return t.Status == StatusClosed && t.ExitTime != nil
}

// RealizedPnL returns the recorded profit/loss, 0 when absent.
func (t *TradeEvent) RealizedPnL() float64 {
	if t.ProfitLoss == nil {
		return 0
	}
	return *t.ProfitLoss
}

// PricePoint is one closing price observation for an instrument.
// Date is normalized to midnight UTC; intraday granularity is not modeled.
type PricePoint struct {
	Symbol string    // instrument ticker
	Date   time.Time // calendar date, midnight UTC
	Close  float64   // closing price
}

// BalanceSnapshot is one periodic portfolio valuation recorded by the
// execution pipeline. Higher fidelity than ledger replay for drawdown.
type BalanceSnapshot struct {
	Timestamp  time.Time // when the snapshot was taken (UTC)
	TotalValue float64   // cash + equity at snapshot time
	Cash       float64   // cash component
	Equity     float64   // mark-to-market equity component
}
