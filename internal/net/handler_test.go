package net

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hati/internal/book"
	"hati/internal/market"
)

// createTestMarket loads one symbol with the reference book:
//
//	bids: 100.00 x 10.00, 99.50 x 5.00
//	asks: 100.50 x 8.00, 101.00 x 2.00
func createTestMarket(t *testing.T) *market.Market {
	t.Helper()
	mkt, err := market.New([]string{"BTCUSDT"}, 2, 2)
	assert.NoError(t, err)
	assert.NoError(t, mkt.Apply("BTCUSDT",
		[]book.Level{{Price: 100.00, Quantity: 10.00}, {Price: 99.50, Quantity: 5.00}},
		[]book.Level{{Price: 100.50, Quantity: 8.00}, {Price: 101.00, Quantity: 2.00}},
		true,
	))
	return mkt
}

func TestHandleMessage_TopOfBook(t *testing.T) {
	mkt := createTestMarket(t)

	report := handleMessage(mkt, BaseMessage{TypeOf: TopOfBook, Symbol: "BTCUSDT"})
	assert.Equal(t, TopOfBookReport, report.MessageType)
	assert.Equal(t, FlagBid|FlagAsk, report.Flags)
	assert.Equal(t, 100.00, report.Values[SlotBidPrice])
	assert.Equal(t, 10.00, report.Values[SlotBidQuantity])
	assert.Equal(t, 100.50, report.Values[SlotAskPrice])
	assert.Equal(t, 8.00, report.Values[SlotAskQuantity])
}

func TestHandleMessage_TopOfBook_EmptySide(t *testing.T) {
	mkt, err := market.New([]string{"BTCUSDT"}, 2, 2)
	assert.NoError(t, err)
	assert.NoError(t, mkt.Apply("BTCUSDT",
		[]book.Level{{Price: 100.00, Quantity: 10.00}}, nil, true))

	report := handleMessage(mkt, BaseMessage{TypeOf: TopOfBook, Symbol: "BTCUSDT"})
	assert.Equal(t, FlagBid, report.Flags, "missing ask side is a cleared flag, not an error")
}

func TestHandleMessage_WeightedStats(t *testing.T) {
	mkt := createTestMarket(t)

	report := handleMessage(mkt, BaseMessage{TypeOf: WeightedStats, Symbol: "BTCUSDT"})
	assert.Equal(t, WeightedStatsReport, report.MessageType)
	assert.Equal(t, FlagMid|FlagWeightedBid|FlagWeightedAsk, report.Flags)
	assert.InDelta(t, (100.00*10+100.50*8)/18.0, report.Values[SlotMid], 1e-9)
	assert.InDelta(t, 100.60, report.Values[SlotWeightedAsk], 1e-9)
	assert.InDelta(t, 15.00, report.Values[SlotBidTotal], 1e-9)
	assert.InDelta(t, 10.00, report.Values[SlotAskTotal], 1e-9)
}

func TestHandleMessage_Simulate(t *testing.T) {
	mkt := createTestMarket(t)

	report := handleMessage(mkt, SimulateMessage{
		BaseMessage: BaseMessage{TypeOf: Simulate, Symbol: "BTCUSDT"},
		Side:        book.Buy,
		Quantity:    9.00,
	})
	assert.Equal(t, SimulationReport, report.MessageType)
	assert.Equal(t, FlagFilled, report.Flags)
	assert.InDelta(t, 905.0/9.0, report.Values[SlotAvgPrice], 1e-9)
	assert.Equal(t, 101.00, report.Values[SlotWorstPrice])
}

func TestHandleMessage_SimulateUnfillable(t *testing.T) {
	mkt := createTestMarket(t)

	report := handleMessage(mkt, SimulateMessage{
		BaseMessage: BaseMessage{TypeOf: Simulate, Symbol: "BTCUSDT"},
		Side:        book.Buy,
		Quantity:    11.00,
	})
	assert.Equal(t, SimulationReport, report.MessageType)
	assert.Zero(t, report.Flags, "insufficient liquidity reports unfilled, not an error")
}

func TestHandleMessage_UnknownSymbol(t *testing.T) {
	mkt := createTestMarket(t)

	report := handleMessage(mkt, BaseMessage{TypeOf: TopOfBook, Symbol: "DOGEUSDT"})
	assert.Equal(t, ErrorReport, report.MessageType)
	assert.Equal(t, market.ErrUnknownSymbol.Error(), report.Err)
}
