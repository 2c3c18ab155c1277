package net

import (
	"hati/internal/book"
	"hati/internal/market"
)

// handleMessage executes one parsed query against the market and builds the
// wire report. Every path is a read; the server never mutates a book.
func handleMessage(mkt *market.Market, message Message) Report {
	var report Report
	var err error

	switch m := message.(type) {
	case BaseMessage:
		switch m.TypeOf {
		case TopOfBook:
			report, err = topOfBookReport(mkt, m.Symbol)
		case WeightedStats:
			report, err = weightedStatsReport(mkt, m.Symbol)
		default:
			err = ErrInvalidMessageType
		}
	case SimulateMessage:
		report, err = simulationReport(mkt, m)
	default:
		err = ErrInvalidMessageType
	}

	if err != nil {
		return errorReport(err)
	}
	return report
}

func topOfBookReport(mkt *market.Market, symbol string) (Report, error) {
	report := Report{MessageType: TopOfBookReport}
	err := mkt.View(symbol, func(b *book.Orderbook) {
		if bid, ok := b.BestBid(); ok {
			report.Flags |= FlagBid
			report.Values[SlotBidPrice] = bid.Price
			report.Values[SlotBidQuantity] = bid.Quantity
		}
		if ask, ok := b.BestAsk(); ok {
			report.Flags |= FlagAsk
			report.Values[SlotAskPrice] = ask.Price
			report.Values[SlotAskQuantity] = ask.Quantity
		}
	})
	return report, err
}

func weightedStatsReport(mkt *market.Market, symbol string) (Report, error) {
	report := Report{MessageType: WeightedStatsReport}
	err := mkt.View(symbol, func(b *book.Orderbook) {
		if mid, ok := b.WeightedMidPrice(); ok {
			report.Flags |= FlagMid
			report.Values[SlotMid] = mid
		}
		if weighted, ok := b.WeightedBid(); ok {
			report.Flags |= FlagWeightedBid
			report.Values[SlotWeightedBid] = weighted
		}
		if weighted, ok := b.WeightedAsk(); ok {
			report.Flags |= FlagWeightedAsk
			report.Values[SlotWeightedAsk] = weighted
		}
		report.Values[SlotBidTotal] = b.TotalQuantity(book.Buy)
		report.Values[SlotAskTotal] = b.TotalQuantity(book.Sell)
	})
	return report, err
}

func simulationReport(mkt *market.Market, m SimulateMessage) (Report, error) {
	report := Report{MessageType: SimulationReport}
	err := mkt.View(m.Symbol, func(b *book.Orderbook) {
		if fill, ok := b.SimulateMarketOrder(m.Side, m.Quantity); ok {
			report.Flags |= FlagFilled
			report.Values[SlotAvgPrice] = fill.AvgPrice
			report.Values[SlotWorstPrice] = fill.WorstPrice
		}
	})
	return report, err
}
