package ledger

import (
	"sort"
	"time"

	"promotion-lab/internal/domain"
)

// BuyEvent is one cash-out execution, indexed by entry date.
type BuyEvent struct {
	Date   time.Time // entry date, midnight UTC
	Symbol string
	Shares int64
	Price  float64 // fill price at entry
}

// SellEvent is one cash-in execution, indexed by exit date. Sells come
// only from CLOSED trades; an OPEN trade has no exit to apply.
type SellEvent struct {
	Date       time.Time // exit date, midnight UTC
	Symbol     string
	Shares     int64
	Price      float64 // fill price at exit
	ProfitLoss float64 // realized P&L recorded on the trade, 0 when absent
}

// Normalized is the trade ledger reshaped for day-by-day replay: buys
// and sells as two independently date-indexed streams, so that same-day
// buy-then-sell sequences apply correctly regardless of ledger row order.
type Normalized struct {
	Buys  []BuyEvent  // ordered by Date ASC
	Sells []SellEvent // ordered by Date ASC

	FirstEntryDate time.Time // earliest buy date, zero when ledger is empty
	Symbols        []string  // distinct symbols seen, sorted
}

// Empty reports whether the normalized ledger has no events at all.
func (n *Normalized) Empty() bool {
	return len(n.Buys) == 0 && len(n.Sells) == 0
}

// Normalize consumes raw ledger rows, keeping only trades with
// entry_time >= start, and splits them into buy and sell event streams.
// Rows are immutable inputs; the result references none of them.
func Normalize(trades []*domain.TradeEvent, start time.Time) *Normalized {
	n := &Normalized{}
	symbols := make(map[string]struct{})

	for _, t := range trades {
		if t == nil || t.EntryTime.Before(start) {
			continue
		}
		symbols[t.Symbol] = struct{}{}

		n.Buys = append(n.Buys, BuyEvent{
			Date:   domain.Day(t.EntryTime),
			Symbol: t.Symbol,
			Shares: t.Shares,
			Price:  t.EntryPrice,
		})

		if t.Closed() {
			exitPrice := 0.0
			if t.ExitPrice != nil {
				exitPrice = *t.ExitPrice
			}
			n.Sells = append(n.Sells, SellEvent{
				Date:       domain.Day(*t.ExitTime),
				Symbol:     t.Symbol,
				Shares:     t.Shares,
				Price:      exitPrice,
				ProfitLoss: t.RealizedPnL(),
			})
		}
	}

	sort.SliceStable(n.Buys, func(i, j int) bool {
		return n.Buys[i].Date.Before(n.Buys[j].Date)
	})
	sort.SliceStable(n.Sells, func(i, j int) bool {
		return n.Sells[i].Date.Before(n.Sells[j].Date)
	})

	if len(n.Buys) > 0 {
		n.FirstEntryDate = n.Buys[0].Date
	}

	n.Symbols = make([]string, 0, len(symbols))
	for s := range symbols {
		n.Symbols = append(n.Symbols, s)
	}
	sort.Strings(n.Symbols)

	return n
}

// Position is an OPEN position reconstructed from the ledger, used when
// the live broker account is not reachable.
type Position struct {
	Symbol        string
	Shares        int64
	AvgEntryPrice float64
}

// OpenPositions rebuilds current OPEN positions from ledger rows: every
// OPEN buy contributes to its symbol's holding with cost-basis blending.
func OpenPositions(trades []*domain.TradeEvent) []Position {
	holdings := make(Holdings)
	for _, t := range trades {
		if t == nil || t.Status != domain.StatusOpen || t.Side != domain.SideBuy {
			continue
		}
		holdings.ApplyBuy(t.Symbol, t.Shares, t.EntryPrice)
	}

	symbols := make([]string, 0, len(holdings))
	for s := range holdings {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)

	positions := make([]Position, 0, len(symbols))
	for _, s := range symbols {
		h := holdings[s]
		positions = append(positions, Position{
			Symbol:        s,
			Shares:        h.Shares,
			AvgEntryPrice: h.AvgEntryPrice,
		})
	}
	return positions
}
