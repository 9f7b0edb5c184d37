package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTradeTypeIsTotal(t *testing.T) {
	inputs := []string{"", " ", "B", "b", "BUY", " Buy ", "S", "sell", "SELL\t", "hold", "SHORT", "BS", "ü", "0"}
	for _, in := range inputs {
		got, _ := ParseTradeType(in)
		assert.True(t, got.Valid(), "input %q produced %q", in, got)
	}
}

func TestParseTradeType(t *testing.T) {
	cases := []struct {
		in   string
		want TradeType
		ok   bool
	}{
		{"buy", TradeTypeBuy, true},
		{"B", TradeTypeBuy, true},
		{"SELL", TradeTypeSell, true},
		{" s ", TradeTypeSell, true},
		{"", TradeTypeUnknown, true},
		{"hold", TradeTypeUnknown, false},
		{"  ", TradeTypeUnknown, false},
	}
	for _, tc := range cases {
		got, ok := ParseTradeType(tc.in)
		assert.Equal(t, tc.want, got, tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
	}
	assert.False(t, TradeType("X").Valid())
}
