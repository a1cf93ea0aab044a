package kpi

import (
	"sort"

	"promotion-lab/internal/domain"
)

// PatternBucket is one row of a trade pattern breakdown: closed trades
// grouped by some dimension.
type PatternBucket struct {
	Key          string
	Trades       int
	Wins         int
	WinRate      float64 // %
	AvgReturnPct float64 // mean ProfitLossPct over the bucket
	TotalPnL     float64
}

// Patterns is the breakdown block of the review report.
type Patterns struct {
	ByStrategy []PatternBucket // sorted by key
	ByWeekday  []PatternBucket // Monday..Friday order, traded days only
}

var weekdayOrder = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// AnalyzePatterns groups closed trades by strategy tag and by entry
// weekday. Untagged trades bucket under "unknown".
func AnalyzePatterns(closed []*domain.TradeEvent) Patterns {
	byStrategy := make(map[string]*PatternBucket)
	byWeekday := make(map[string]*PatternBucket)

	add := func(m map[string]*PatternBucket, key string, t *domain.TradeEvent) {
		b, ok := m[key]
		if !ok {
			b = &PatternBucket{Key: key}
			m[key] = b
		}
		b.Trades++
		pnl := t.RealizedPnL()
		b.TotalPnL += pnl
		if pnl > 0 {
			b.Wins++
		}
		if t.ProfitLossPct != nil {
			// AvgReturnPct accumulates here, finalized below.
			b.AvgReturnPct += *t.ProfitLossPct
		}
	}

	for _, t := range closed {
		strategy := t.Strategy
		if strategy == "" {
			strategy = "unknown"
		}
		add(byStrategy, strategy, t)
		add(byWeekday, t.EntryTime.UTC().Weekday().String(), t)
	}

	finalize := func(b *PatternBucket) {
		if b.Trades > 0 {
			b.WinRate = float64(b.Wins) / float64(b.Trades) * 100
			b.AvgReturnPct /= float64(b.Trades)
		}
	}

	var p Patterns

	strategies := make([]string, 0, len(byStrategy))
	for k := range byStrategy {
		strategies = append(strategies, k)
	}
	sort.Strings(strategies)
	for _, k := range strategies {
		finalize(byStrategy[k])
		p.ByStrategy = append(p.ByStrategy, *byStrategy[k])
	}

	for _, day := range weekdayOrder {
		b, ok := byWeekday[day]
		if !ok {
			continue
		}
		finalize(b)
		p.ByWeekday = append(p.ByWeekday, *b)
	}

	return p
}
