package market

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"hati/internal/book"
)

func TestApplyAndView(t *testing.T) {
	m, err := New([]string{"btcusdt", "ETHUSDT"}, 2, 2)
	assert.NoError(t, err)
	assert.Equal(t, []string{"BTCUSDT", "ETHUSDT"}, m.Symbols())

	assert.NoError(t, m.Apply("BTCUSDT",
		[]book.Level{{Price: 100.00, Quantity: 10.00}},
		[]book.Level{{Price: 100.50, Quantity: 8.00}},
		true,
	))

	// Symbol lookup is case-insensitive on both paths.
	var mid float64
	var ok bool
	assert.NoError(t, m.View("btcusdt", func(b *book.Orderbook) {
		mid, ok = b.WeightedMidPrice()
	}))
	assert.True(t, ok)
	assert.InDelta(t, (100.00*10+100.50*8)/18.0, mid, 1e-9)

	assert.ErrorIs(t, m.Apply("DOGEUSDT", nil, nil, false), ErrUnknownSymbol)
	assert.ErrorIs(t, m.View("DOGEUSDT", func(*book.Orderbook) {}), ErrUnknownSymbol)
}

func TestNew_PropagatesPrecisionError(t *testing.T) {
	_, err := New([]string{"BTCUSDT"}, 9, 2)
	assert.ErrorIs(t, err, book.ErrTooManyDecimals)
}

// Snapshots and reads race through the locks; a reader must only ever see an
// empty book or a complete snapshot, never a cleared-but-unfilled one.
func TestSnapshotAtomicity(t *testing.T) {
	m, err := New([]string{"BTCUSDT"}, 2, 2)
	assert.NoError(t, err)

	snapshot := func() {
		_ = m.Apply("BTCUSDT",
			[]book.Level{{Price: 100.00, Quantity: 10.00}, {Price: 99.50, Quantity: 5.00}},
			[]book.Level{{Price: 100.50, Quantity: 8.00}},
			true,
		)
	}
	snapshot()

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				snapshot()
			}
		}()
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				_ = m.View("BTCUSDT", func(b *book.Orderbook) {
					assert.Equal(t, 2, b.Depth(book.Buy))
					assert.Equal(t, 1, b.Depth(book.Sell))
				})
			}
		}()
	}
	wg.Wait()
}
