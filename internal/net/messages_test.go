package net

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hati/internal/book"
)

func TestQueryRoundTrip(t *testing.T) {
	for _, typeOf := range []MessageType{TopOfBook, WeightedStats} {
		raw := EncodeQuery(typeOf, "BTCUSDT")
		message, err := parseMessage(raw)
		assert.NoError(t, err)
		assert.Equal(t, typeOf, message.GetType())
		assert.Equal(t, "BTCUSDT", message.GetSymbol())
	}
}

func TestSimulateRoundTrip(t *testing.T) {
	raw := EncodeSimulate(book.Sell, 12.5, "ETHUSDT")
	message, err := parseMessage(raw)
	assert.NoError(t, err)

	simulate, ok := message.(SimulateMessage)
	assert.True(t, ok)
	assert.Equal(t, book.Sell, simulate.Side)
	assert.Equal(t, 12.5, simulate.Quantity)
	assert.Equal(t, "ETHUSDT", simulate.Symbol)
}

func TestParseMessage_Rejects(t *testing.T) {
	_, err := parseMessage([]byte{0x01})
	assert.Error(t, err, "truncated header")

	_, err = parseMessage([]byte{0xff, 0xff})
	assert.ErrorIs(t, err, ErrInvalidMessageType)

	// Symbol length beyond the payload.
	raw := EncodeQuery(TopOfBook, "BTCUSDT")
	_, err = parseMessage(raw[:len(raw)-2])
	assert.ErrorIs(t, err, ErrMessageTooShort)

	// Simulate with a nonsense side byte.
	raw = EncodeSimulate(book.Buy, 1, "BTCUSDT")
	raw[2] = 0x7f
	_, err = parseMessage(raw)
	assert.ErrorIs(t, err, ErrInvalidSide)
}

func TestReportRoundTrip(t *testing.T) {
	report := Report{
		MessageType: WeightedStatsReport,
		Flags:       FlagMid | FlagWeightedAsk,
		Values:      [6]float64{100.25, 0, 100.60, 15, 10},
	}

	parsed, err := ParseReport(report.Serialize())
	assert.NoError(t, err)
	assert.Equal(t, report, parsed)
}

func TestErrorReportRoundTrip(t *testing.T) {
	report := errorReport(ErrInvalidMessageType)

	parsed, err := ParseReport(report.Serialize())
	assert.NoError(t, err)
	assert.Equal(t, ErrorReport, parsed.MessageType)
	assert.Equal(t, ErrInvalidMessageType.Error(), parsed.Err)
}

func TestParseReport_Truncated(t *testing.T) {
	report := errorReport(ErrInvalidMessageType)
	raw := report.Serialize()

	_, err := ParseReport(raw[:10])
	assert.ErrorIs(t, err, ErrMessageTooShort)

	// Declared error string longer than the payload.
	_, err = ParseReport(raw[:len(raw)-3])
	assert.ErrorIs(t, err, ErrMessageTooShort)
}
