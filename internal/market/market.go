package market

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"hati/internal/book"
)

var ErrUnknownSymbol = errors.New("unknown symbol")

// Market owns one orderbook per tracked symbol and serializes feed writes
// against reads. The book itself is single-threaded; the write lock spans a
// whole Apply so no reader ever observes a snapshot mid-repopulate.
type Market struct {
	mu    sync.RWMutex
	books map[string]*book.Orderbook
}

// New builds a market tracking the given symbols, all books sharing the same
// fixed-point precisions.
func New(symbols []string, priceDecimals, quantityDecimals int) (*Market, error) {
	books := make(map[string]*book.Orderbook, len(symbols))
	for _, symbol := range symbols {
		b, err := book.New(priceDecimals, quantityDecimals)
		if err != nil {
			return nil, err
		}
		books[canonical(symbol)] = b
	}
	return &Market{books: books}, nil
}

func canonical(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// Apply routes one depth update to its symbol's book.
func (m *Market) Apply(symbol string, bids, asks []book.Level, snapshot bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.books[canonical(symbol)]
	if !ok {
		return ErrUnknownSymbol
	}
	b.Apply(bids, asks, snapshot)
	return nil
}

// View runs fn against one symbol's book under the read lock. fn must treat
// the book as read-only and must not retain it past the call.
func (m *Market) View(symbol string, fn func(*book.Orderbook)) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	b, ok := m.books[canonical(symbol)]
	if !ok {
		return ErrUnknownSymbol
	}
	fn(b)
	return nil
}

// Symbols lists the tracked symbols in stable order.
func (m *Market) Symbols() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	symbols := make([]string, 0, len(m.books))
	for symbol := range m.books {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols
}
