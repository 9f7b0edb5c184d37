package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shahzadakram74/TradesCaptureService/internal/models"
)

var rng = rand.New(rand.NewSource(time.Now().UnixNano()))

var (
	securities = []string{"AAPL", "MSFT", "GOOGL", "AMZN", "TSLA", "NVDA", "NFLX", "us0378331005", "brk.b"}
	basePrice  = map[string]float64{"AAPL": 190, "MSFT": 420, "GOOGL": 145, "AMZN": 180, "TSLA": 220, "NVDA": 800, "NFLX": 550, "us0378331005": 190, "brk.b": 410}

	// Free-text trade types as upstream systems send them.
	tradeTypes = []string{"BUY", "buy", "B", "SELL", "sell", "S", "hold", ""}
)

func pick[T any](xs []T) T { return xs[rng.Intn(len(xs))] }

func genInstruction(badRatio float64) models.CanonicalTrade {
	sec := pick(securities)
	px := decimal.NewFromFloat(basePrice[sec] * (1 + (rng.Float64()-0.5)*0.03)).Round(2) // ±1.5%
	qty := int64(rng.Intn(500) + 1)

	t := models.CanonicalTrade{
		AccountNumber: fmt.Sprintf("%010d", rng.Int63n(1e10)),
		SecurityID:    sec,
		TradeType:     pick(tradeTypes),
		Quantity:      &qty,
		Price:         decimal.NewNullDecimal(px),
		Amount:        px.Mul(decimal.NewFromInt(qty)),
		Timestamp:     models.NewTimestamp(time.Now().UTC()),
	}
	if rng.Float64() < badRatio {
		if rng.Intn(2) == 0 {
			t.AccountNumber = ""
		} else {
			t.SecurityID = " "
		}
	}
	return t
}
