package book

// SimulateMarketOrder prices a hypothetical market order against the resting
// depth. A buy consumes asks cheapest first; a sell consumes bids dearest
// first. The walk is a read-only scan over the live tree and never mutates a
// level. If the side cannot cover the full quantity the result is empty --
// never a partial-fill average. A requested quantity that quantizes to zero
// or below is likewise empty.
func (book *Orderbook) SimulateMarketOrder(direction Side, quantity float64) (Fill, bool) {
	requested := quantize(quantity, book.quantityFactor)
	if requested <= 0 {
		return Fill{}, false
	}

	levels := book.asks
	if direction == Sell {
		levels = book.bids
	}

	remaining := requested
	var notional, worst int64
	levels.Scan(func(level *PriceLevel) bool {
		if level.quantity > remaining {
			// Level covers the rest of the order; it is only partially
			// consumed so its own quantity does not bound the notional.
			notional += remaining * level.price
			remaining = 0
			worst = level.price
			return false
		}
		notional += level.quantity * level.price
		remaining -= level.quantity
		worst = level.price
		// An exactly consumed level terminates the walk the same way.
		return remaining > 0
	})

	if remaining > 0 {
		return Fill{}, false
	}
	return Fill{
		AvgPrice:   float64(notional) / float64(requested) / book.priceFactor,
		WorstPrice: float64(worst) / book.priceFactor,
	}, true
}
