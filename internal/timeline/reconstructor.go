package timeline

import (
	"errors"
	"fmt"
	"time"

	"promotion-lab/internal/domain"
	"promotion-lab/internal/ledger"
	"promotion-lab/internal/lookup"
)

// Input validation errors. These are the only fail-fast conditions in
// the engine; business-data gaps (missing prices, empty ledger, empty
// run window) degrade to fallbacks or zeros instead.
var (
	// ErrInvalidDateRange is returned when the evaluation start date is
	// after the current date.
	ErrInvalidDateRange = errors.New("invalid date range: start date is after current date")

	// ErrZeroStartingCapital is returned when starting capital is not
	// positive. Every percentage KPI divides by it.
	ErrZeroStartingCapital = errors.New("starting capital must be positive")
)

// Config carries the reconstruction parameters.
type Config struct {
	StartingCapital float64   // initial cash, must be > 0
	StartDate       time.Time // evaluation window start
}

// Validate rejects structurally invalid configuration up front.
func (c Config) Validate(now time.Time) error {
	if c.StartingCapital <= 0 {
		return ErrZeroStartingCapital
	}
	if domain.Day(c.StartDate).After(domain.Day(now)) {
		return ErrInvalidDateRange
	}
	return nil
}

// Reconstruct replays the normalized ledger over the business-day
// calendar from the earliest entry date through now, revaluing holdings
// daily via the resolver, and emits one DailySnapshot per day.
//
// An empty ledger yields an empty timeline and no error. An instrument
// whose price series is silent at a given day is valued at its held
// average entry price: a missing feed degrades the mark, it does not
// fail the reconstruction.
func Reconstruct(n *ledger.Normalized, cfg Config, resolver *lookup.Resolver, now time.Time) ([]*domain.DailySnapshot, error) {
	if err := cfg.Validate(now); err != nil {
		return nil, err
	}
	if n == nil || n.Empty() || n.FirstEntryDate.IsZero() {
		return nil, nil
	}

	buysByDay := make(map[time.Time][]ledger.BuyEvent, len(n.Buys))
	for _, b := range n.Buys {
		buysByDay[b.Date] = append(buysByDay[b.Date], b)
	}
	sellsByDay := make(map[time.Time][]ledger.SellEvent, len(n.Sells))
	for _, s := range n.Sells {
		sellsByDay[s.Date] = append(sellsByDay[s.Date], s)
	}

	cash := cfg.StartingCapital
	prevTotal := domain.Round2(cfg.StartingCapital)
	holdings := make(ledger.Holdings)

	days := BusinessDays(n.FirstEntryDate, now)
	snapshots := make([]*domain.DailySnapshot, 0, len(days))

	for _, day := range days {
		var events []string

		for _, b := range buysByDay[day] {
			cash -= float64(b.Shares) * b.Price
			holdings.ApplyBuy(b.Symbol, b.Shares, b.Price)
			events = append(events, fmt.Sprintf("BUY %s %d @ $%.2f", b.Symbol, b.Shares, b.Price))
		}

		for _, s := range sellsByDay[day] {
			cash += float64(s.Shares) * s.Price
			holdings.ApplySell(s.Symbol, s.Shares)
			events = append(events, fmt.Sprintf("SELL %s %d @ $%.2f (%s)", s.Symbol, s.Shares, s.Price, formatPnL(s.ProfitLoss)))
		}

		// Mark every held instrument. Iterate in symbol order so the
		// float summation is deterministic across runs.
		equity := 0.0
		for _, symbol := range n.Symbols {
			h, ok := holdings[symbol]
			if !ok || h.Shares <= 0 {
				continue
			}
			price, err := resolver.ClosingPriceAt(symbol, day)
			if errors.Is(err, lookup.ErrNoPriceData) {
				price = h.AvgEntryPrice
			} else if err != nil {
				return nil, fmt.Errorf("resolve price for %s: %w", symbol, err)
			}
			equity += float64(h.Shares) * price
		}

		snap := &domain.DailySnapshot{
			Date:   day,
			Cash:   domain.Round2(cash),
			Equity: domain.Round2(equity),
			Events: events,
		}
		snap.Total = domain.Round2(snap.Cash + snap.Equity)
		snap.Change = domain.Round2(snap.Total - prevTotal)
		if prevTotal > 0 {
			snap.ChangePct = domain.Round2(snap.Change / prevTotal * 100)
		}
		snapshots = append(snapshots, snap)

		prevTotal = snap.Total
	}

	return snapshots, nil
}

// formatPnL renders signed realized P&L for event text: "+$500" / "-$1250".
func formatPnL(pnl float64) string {
	if pnl < 0 {
		return fmt.Sprintf("-$%.0f", -pnl)
	}
	return fmt.Sprintf("+$%.0f", pnl)
}
