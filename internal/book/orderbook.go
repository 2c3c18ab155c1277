package book

import (
	"github.com/tidwall/btree"
)

// PriceLevel is one aggregated depth entry in quantized units. Its identity
// is the price alone; applying an update at the same price replaces the
// quantity rather than adding a second entry.
type PriceLevel struct {
	price    int64
	quantity int64
}

type priceLevels = btree.BTreeG[*PriceLevel]

// Orderbook is a two-sided L2 book: aggregated depth per quantized price.
// Bids iterate highest price first, asks lowest price first. It is not
// thread safe; callers sharing a book must serialize Apply against reads
// (see market.Market).
type Orderbook struct {
	bids *priceLevels
	asks *priceLevels

	priceFactor    float64
	quantityFactor float64
}

func newBids() *priceLevels {
	// Sorted greatest first.
	return btree.NewBTreeG(func(a, b *PriceLevel) bool {
		return a.price > b.price
	})
}

func newAsks() *priceLevels {
	// Sorted least first.
	return btree.NewBTreeG(func(a, b *PriceLevel) bool {
		return a.price < b.price
	})
}

// New constructs an empty book with the given fixed-point precisions.
// Either precision outside [0, MaxDecimals] fails construction.
func New(priceDecimals, quantityDecimals int) (*Orderbook, error) {
	priceFactor, err := scaleFactor(priceDecimals)
	if err != nil {
		return nil, err
	}
	quantityFactor, err := scaleFactor(quantityDecimals)
	if err != nil {
		return nil, err
	}
	return &Orderbook{
		bids:           newBids(),
		asks:           newAsks(),
		priceFactor:    priceFactor,
		quantityFactor: quantityFactor,
	}, nil
}

// NewDefault constructs a book with DefaultDecimals on both axes.
func NewDefault() *Orderbook {
	book, err := New(DefaultDecimals, DefaultDecimals)
	if err != nil {
		// DefaultDecimals is within range.
		panic(err)
	}
	return book
}

// Apply processes one depth update. A snapshot replaces both sides wholesale;
// a delta upserts each level, with non-positive quantized quantities deleting
// the level at that price (no-op if absent). Updates never fail: levels are
// keyed by price, so out-of-order deltas simply overwrite.
func (book *Orderbook) Apply(bids, asks []Level, snapshot bool) {
	if snapshot {
		book.bids = newBids()
		book.asks = newAsks()
	}
	book.applySide(book.bids, bids)
	book.applySide(book.asks, asks)
}

func (book *Orderbook) applySide(levels *priceLevels, updates []Level) {
	for _, update := range updates {
		price := quantize(update.Price, book.priceFactor)
		quantity := quantize(update.Quantity, book.quantityFactor)
		if quantity > 0 {
			levels.Set(&PriceLevel{price: price, quantity: quantity})
		} else {
			// Comparator only looks at the price, so a bare probe finds
			// the incumbent level.
			levels.Delete(&PriceLevel{price: price})
		}
	}
}

// side maps a book side to its level tree: Buy -> bids, Sell -> asks.
func (book *Orderbook) side(s Side) *priceLevels {
	if s == Buy {
		return book.bids
	}
	return book.asks
}

func (book *Orderbook) dequantize(level *PriceLevel) Quote {
	return Quote{
		Price:    float64(level.price) / book.priceFactor,
		Quantity: float64(level.quantity) / book.quantityFactor,
	}
}
