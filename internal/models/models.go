package models

import (
	"github.com/shopspring/decimal"
)

func init() {
	// Amounts go over the wire as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// CanonicalTrade is the raw trade instruction as received from an upload or the
// inbound feed. AccountNumber is PII and must never leave the service unmasked.
type CanonicalTrade struct {
	AccountNumber string              `json:"account_number"`
	SecurityID    string              `json:"security_id"`
	TradeType     string              `json:"trade_type"`
	Quantity      *int64              `json:"quantity,omitempty"`
	Price         decimal.NullDecimal `json:"price"`
	Amount        decimal.Decimal     `json:"amount"`
	Timestamp     Timestamp           `json:"timestamp"`

	// CanonicalID is empty until the trade is audited.
	CanonicalID string `json:"canonical_id,omitempty"`
}

// PlatformTrade is the masked, normalized trade sent downstream.
type PlatformTrade struct {
	Account   string          `json:"account"`
	Security  string          `json:"security"`
	Type      string          `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
	Timestamp Timestamp       `json:"timestamp"`
}

// PlatformTradeWrapper is the outbound message envelope.
type PlatformTradeWrapper struct {
	PlatformID string        `json:"platform_id"`
	Trade      PlatformTrade `json:"trade"`
}
