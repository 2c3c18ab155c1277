package net

import (
	"encoding/binary"
	"errors"
	"math"

	"hati/internal/book"
)

var (
	ErrInvalidMessageType = errors.New("invalid message type")
	ErrMessageTooShort    = errors.New("message too short for specified symbol length")
	ErrInvalidSide        = errors.New("invalid side")
)

type MessageType int

const (
	Heartbeat MessageType = iota
	TopOfBook
	WeightedStats
	Simulate
)

type ReportMessageType int

const (
	TopOfBookReport ReportMessageType = iota
	WeightedStatsReport
	SimulationReport
	ErrorReport
)

type Message interface {
	GetType() MessageType
	GetSymbol() string
}

// Message format constants
const (
	BaseMessageHeaderLen     = 2
	SymbolMessageHeaderLen   = 2 + 1
	SimulateMessageHeaderLen = 2 + 1 + 8 + 1
)

// Generic message type.
type BaseMessage struct {
	TypeOf MessageType // 2 bytes
	Symbol string      // n bytes, uint8 length prefix
}

func (m BaseMessage) GetType() MessageType {
	return m.TypeOf
}

func (m BaseMessage) GetSymbol() string {
	return m.Symbol
}

func parseMessage(msg []byte) (Message, error) {
	if len(msg) < BaseMessageHeaderLen {
		return BaseMessage{}, errors.New("message too short to contain header")
	}

	typeOf := MessageType(binary.BigEndian.Uint16(msg[0:2]))
	msg = msg[2:]
	switch typeOf {
	case TopOfBook, WeightedStats:
		return parseSymbolMessage(typeOf, msg)
	case Simulate:
		return parseSimulate(msg)
	default:
		return BaseMessage{}, ErrInvalidMessageType
	}
}

// parseSymbolMessage handles the query types whose only payload is a symbol.
func parseSymbolMessage(typeOf MessageType, msg []byte) (BaseMessage, error) {
	if len(msg) < 1 {
		return BaseMessage{}, ErrMessageTooShort
	}
	symbolLen := int(msg[0])
	if len(msg) < 1+symbolLen {
		return BaseMessage{}, ErrMessageTooShort
	}
	return BaseMessage{
		TypeOf: typeOf,
		Symbol: string(msg[1 : 1+symbolLen]),
	}, nil
}

type SimulateMessage struct {
	BaseMessage
	Side     book.Side // 1 byte
	Quantity float64   // 8 bytes
}

func parseSimulate(msg []byte) (SimulateMessage, error) {
	m := SimulateMessage{BaseMessage: BaseMessage{TypeOf: Simulate}}

	if len(msg) < SimulateMessageHeaderLen-BaseMessageHeaderLen {
		return SimulateMessage{}, ErrMessageTooShort
	}
	switch book.Side(msg[0]) {
	case book.Buy, book.Sell:
		m.Side = book.Side(msg[0])
	default:
		return SimulateMessage{}, ErrInvalidSide
	}
	m.Quantity = math.Float64frombits(binary.BigEndian.Uint64(msg[1:9]))

	symbolLen := int(msg[9])
	if len(msg) < 10+symbolLen {
		return SimulateMessage{}, ErrMessageTooShort
	}
	m.Symbol = string(msg[10 : 10+symbolLen])

	return m, nil
}

// Report is the single wire response shape; unused value slots stay zero and
// the Flags bitmap says which values are present. Absent data is a cleared
// flag, not an error report.
type Report struct {
	MessageType ReportMessageType // 1 byte
	Flags       uint8             // 1 byte
	Values      [6]float64        // 48 bytes
	ErrStrLen   uint32            // 4 bytes
	Err         string            // n bytes
}

// Flag bits.
const (
	FlagBid uint8 = 1 << iota
	FlagAsk
	FlagMid
	FlagWeightedBid
	FlagWeightedAsk
	FlagFilled
)

// Value slots for TopOfBookReport.
const (
	SlotBidPrice = iota
	SlotBidQuantity
	SlotAskPrice
	SlotAskQuantity
)

// Value slots for WeightedStatsReport.
const (
	SlotMid = iota
	SlotWeightedBid
	SlotWeightedAsk
	SlotBidTotal
	SlotAskTotal
)

// Value slots for SimulationReport.
const (
	SlotAvgPrice = iota
	SlotWorstPrice
)

const reportFixedHeaderLen = 1 + 1 + 48 + 4

// Serialize converts the report to be sent on the wire.
func (r *Report) Serialize() []byte {
	buf := make([]byte, reportFixedHeaderLen+len(r.Err))
	buf[0] = byte(r.MessageType)
	buf[1] = r.Flags
	for i, value := range r.Values {
		binary.BigEndian.PutUint64(buf[2+8*i:10+8*i], math.Float64bits(value))
	}
	binary.BigEndian.PutUint32(buf[50:54], r.ErrStrLen)
	copy(buf[reportFixedHeaderLen:], r.Err)
	return buf
}

// ParseReport decodes a wire report. Clients use this; the tests use it to
// round trip the codec.
func ParseReport(msg []byte) (Report, error) {
	if len(msg) < reportFixedHeaderLen {
		return Report{}, ErrMessageTooShort
	}
	r := Report{
		MessageType: ReportMessageType(msg[0]),
		Flags:       msg[1],
		ErrStrLen:   binary.BigEndian.Uint32(msg[50:54]),
	}
	for i := range r.Values {
		r.Values[i] = math.Float64frombits(binary.BigEndian.Uint64(msg[2+8*i : 10+8*i]))
	}
	if len(msg) < reportFixedHeaderLen+int(r.ErrStrLen) {
		return Report{}, ErrMessageTooShort
	}
	r.Err = string(msg[reportFixedHeaderLen : reportFixedHeaderLen+int(r.ErrStrLen)])
	return r, nil
}

// EncodeQuery builds a symbol-only wire request (TopOfBook, WeightedStats).
func EncodeQuery(typeOf MessageType, symbol string) []byte {
	buf := make([]byte, SymbolMessageHeaderLen+len(symbol))
	binary.BigEndian.PutUint16(buf[0:2], uint16(typeOf))
	buf[2] = uint8(len(symbol))
	copy(buf[3:], symbol)
	return buf
}

// EncodeSimulate builds a market-order simulation wire request.
func EncodeSimulate(side book.Side, quantity float64, symbol string) []byte {
	buf := make([]byte, SimulateMessageHeaderLen+len(symbol))
	binary.BigEndian.PutUint16(buf[0:2], uint16(Simulate))
	buf[2] = byte(side)
	binary.BigEndian.PutUint64(buf[3:11], math.Float64bits(quantity))
	buf[11] = uint8(len(symbol))
	copy(buf[12:], symbol)
	return buf
}

func errorReport(err error) Report {
	errStr := err.Error()
	return Report{
		MessageType: ErrorReport,
		ErrStrLen:   uint32(len(errStr)),
		Err:         errStr,
	}
}
