package domain

import "strings"

// TradeType is the closed set of normalized trade directions sent downstream.
type TradeType string

const (
	TradeTypeBuy     TradeType = "B"
	TradeTypeSell    TradeType = "S"
	TradeTypeUnknown TradeType = "U"
)

func (t TradeType) String() string { return string(t) }
func (t TradeType) Valid() bool {
	switch t {
	case TradeTypeBuy, TradeTypeSell, TradeTypeUnknown:
		return true
	default:
		return false
	}
}

// ParseTradeType maps free-text trade types onto a TradeType. It never fails:
// ok is false only when raw was present but unrecognized, so callers can warn.
func ParseTradeType(raw string) (t TradeType, ok bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "BUY", "B":
		return TradeTypeBuy, true
	case "SELL", "S":
		return TradeTypeSell, true
	case "":
		return TradeTypeUnknown, raw == ""
	default:
		return TradeTypeUnknown, false
	}
}
