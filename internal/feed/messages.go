package feed

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"hati/internal/book"
)

var ErrUnknownMessageType = errors.New("unknown message type")

const (
	snapshotMessage = "snapshot"
	deltaMessage    = "delta"
)

// depthMessage is one frame of the upstream depth stream. Price and quantity
// arrive as decimal strings; they are parsed exactly and converted to floats
// once, at the book boundary.
type depthMessage struct {
	Type   string      `json:"type"`
	Symbol string      `json:"symbol"`
	Bids   [][2]string `json:"bids"`
	Asks   [][2]string `json:"asks"`
}

// subscribeMessage is the hello frame sent after connecting.
type subscribeMessage struct {
	Op      string   `json:"op"`
	Symbols []string `json:"symbols"`
}

// Update is one parsed depth update, ready for the market.
type Update struct {
	Symbol   string
	Bids     []book.Level
	Asks     []book.Level
	Snapshot bool
}

func parseMessage(raw []byte) (Update, error) {
	var m depthMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return Update{}, fmt.Errorf("decode depth frame: %w", err)
	}

	var snapshot bool
	switch m.Type {
	case snapshotMessage:
		snapshot = true
	case deltaMessage:
	default:
		return Update{}, fmt.Errorf("%w: %q", ErrUnknownMessageType, m.Type)
	}

	bids, err := parseLevels(m.Bids)
	if err != nil {
		return Update{}, err
	}
	asks, err := parseLevels(m.Asks)
	if err != nil {
		return Update{}, err
	}
	return Update{
		Symbol:   m.Symbol,
		Bids:     bids,
		Asks:     asks,
		Snapshot: snapshot,
	}, nil
}

func parseLevels(rows [][2]string) ([]book.Level, error) {
	levels := make([]book.Level, 0, len(rows))
	for _, row := range rows {
		price, err := decimal.NewFromString(row[0])
		if err != nil {
			return nil, fmt.Errorf("parse price %q: %w", row[0], err)
		}
		quantity, err := decimal.NewFromString(row[1])
		if err != nil {
			return nil, fmt.Errorf("parse quantity %q: %w", row[1], err)
		}
		levels = append(levels, book.Level{
			Price:    price.InexactFloat64(),
			Quantity: quantity.InexactFloat64(),
		})
	}
	return levels, nil
}
