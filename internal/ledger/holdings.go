package ledger

// Holding is the per-instrument aggregate state during replay: share
// count and weighted-average entry price. It exists only transiently
// while a timeline is being reconstructed and is never persisted.
type Holding struct {
	Shares        int64
	AvgEntryPrice float64
}

// Holdings maps symbol to current position. A symbol is present only
// while its share count is positive.
type Holdings map[string]*Holding

// ApplyBuy adds a fill to the position, blending the weighted-average
// cost basis:
//
//	new_avg = (prev_avg*prev_shares + price*shares) / (prev_shares + shares)
func (h Holdings) ApplyBuy(symbol string, shares int64, price float64) {
	prev, ok := h[symbol]
	if !ok {
		prev = &Holding{}
		h[symbol] = prev
	}
	total := prev.Shares + shares
	if total <= 0 {
		return
	}
	prev.AvgEntryPrice = (prev.AvgEntryPrice*float64(prev.Shares) + price*float64(shares)) / float64(total)
	prev.Shares = total
}

// ApplySell reduces the position by the closed quantity. When shares
// reach zero or below the holding is removed; a position never goes
// negative.
func (h Holdings) ApplySell(symbol string, shares int64) {
	prev, ok := h[symbol]
	if !ok {
		return
	}
	prev.Shares -= shares
	if prev.Shares <= 0 {
		delete(h, symbol)
	}
}
