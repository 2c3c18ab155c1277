package book

// BestBid returns the highest-priced bid level, or false if the side is empty.
func (book *Orderbook) BestBid() (Quote, bool) {
	return book.best(book.bids)
}

// BestAsk returns the lowest-priced ask level, or false if the side is empty.
func (book *Orderbook) BestAsk() (Quote, bool) {
	return book.best(book.asks)
}

func (book *Orderbook) best(levels *priceLevels) (Quote, bool) {
	// Min here accounts for bids and asks being in inverse order, based on
	// their comparison method.
	level, ok := levels.Min()
	if !ok {
		return Quote{}, false
	}
	return book.dequantize(level), true
}

// WeightedMidPrice is the liquidity-weighted midpoint of the two top-of-book
// levels. Defined only when both sides are non-empty.
func (book *Orderbook) WeightedMidPrice() (float64, bool) {
	bestBid, ok := book.bids.Min()
	if !ok {
		return 0, false
	}
	bestAsk, ok := book.asks.Min()
	if !ok {
		return 0, false
	}
	notional := bestBid.price*bestBid.quantity + bestAsk.price*bestAsk.quantity
	quantity := bestBid.quantity + bestAsk.quantity
	return float64(notional) / float64(quantity) / book.priceFactor, true
}

// WeightedBid is the quantity-weighted average price over every bid level,
// or false if the side is empty.
func (book *Orderbook) WeightedBid() (float64, bool) {
	return book.weighted(book.bids)
}

// WeightedAsk is the quantity-weighted average price over every ask level,
// or false if the side is empty.
func (book *Orderbook) WeightedAsk() (float64, bool) {
	return book.weighted(book.asks)
}

// weighted accumulates in quantized integers so the ratio is exact up to the
// final division, matching the determinism of the quantizer.
func (book *Orderbook) weighted(levels *priceLevels) (float64, bool) {
	if levels.Len() == 0 {
		return 0, false
	}
	var notional, quantity int64
	levels.Scan(func(level *PriceLevel) bool {
		notional += level.price * level.quantity
		quantity += level.quantity
		return true
	})
	return float64(notional) / float64(quantity) / book.priceFactor, true
}

// TotalQuantity sums the resting quantity on one side, in human units.
// An empty side totals zero.
func (book *Orderbook) TotalQuantity(side Side) float64 {
	var total int64
	book.side(side).Scan(func(level *PriceLevel) bool {
		total += level.quantity
		return true
	})
	return float64(total) / book.quantityFactor
}

// Depth reports the number of levels resting on one side.
func (book *Orderbook) Depth(side Side) int {
	return book.side(side).Len()
}

// Levels enumerates one side in its consumption order: bids descending by
// price, asks ascending.
func (book *Orderbook) Levels(side Side) []Quote {
	levels := book.side(side)
	quotes := make([]Quote, 0, levels.Len())
	levels.Scan(func(level *PriceLevel) bool {
		quotes = append(quotes, book.dequantize(level))
		return true
	})
	return quotes
}
