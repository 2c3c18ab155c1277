package book

import "errors"

var ErrTooManyDecimals = errors.New("too many decimals")

const (
	// MaxDecimals caps the fixed-point precision of either axis.
	MaxDecimals = 8
	// DefaultDecimals is used when the caller does not care.
	DefaultDecimals = 6
)

type Side int

const (
	Buy Side = iota
	Sell
)

// Level is one (price, quantity) pair of a feed update, in human units.
// A non-positive quantity deletes the level at that price.
type Level struct {
	Price    float64
	Quantity float64
}

// Quote is a dequantized depth entry returned by queries.
type Quote struct {
	Price    float64
	Quantity float64
}

// Fill is the outcome of a market-order simulation. AvgPrice is the
// volume-weighted execution price, WorstPrice the deepest level touched.
type Fill struct {
	AvgPrice   float64
	WorstPrice float64
}
