// Package transform turns canonical trades into masked platform trades.
package transform

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/shahzadakram74/TradesCaptureService/internal/domain"
	"github.com/shahzadakram74/TradesCaptureService/internal/models"
)

// MaskedPrefix replaces every hidden character run of an account number.
const MaskedPrefix = "****"

const visibleAccountChars = 4

var securityIDPattern = regexp.MustCompile(`^[A-Z0-9]{3,}$`)

var ErrInvalidSecurityID = errors.New("security id cannot be empty")

// Transformer holds no mutable state and is safe for concurrent use.
type Transformer struct {
	Logger *zap.Logger
}

func New(logger *zap.Logger) *Transformer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Transformer{Logger: logger.With(zap.String("component", "transformer"))}
}

// Transform masks the account, validates the security id and normalizes the
// trade type. The only failure is ErrInvalidSecurityID.
func (t *Transformer) Transform(ct models.CanonicalTrade) (models.PlatformTrade, error) {
	security, err := t.FormatSecurityID(ct.SecurityID)
	if err != nil {
		return models.PlatformTrade{}, err
	}
	return models.PlatformTrade{
		Account:   MaskAccount(ct.AccountNumber),
		Security:  security,
		Type:      t.NormalizeTradeType(ct.TradeType).String(),
		Amount:    ct.Amount,
		Timestamp: ct.Timestamp,
	}, nil
}

// MaskAccount keeps only the last four characters. Short or absent numbers are
// fully masked.
func MaskAccount(account string) string {
	n := utf8.RuneCountInString(account)
	if n <= visibleAccountChars {
		return MaskedPrefix
	}
	r := []rune(account)
	return MaskedPrefix + string(r[n-visibleAccountChars:])
}

// FormatSecurityID upper-cases id. A pattern mismatch is only logged.
func (t *Transformer) FormatSecurityID(id string) (string, error) {
	if strings.TrimSpace(id) == "" {
		return "", ErrInvalidSecurityID
	}
	upper := strings.ToUpper(id)
	if !securityIDPattern.MatchString(upper) {
		t.Logger.Warn("security id format validation warning", zap.String("security_id", upper))
	}
	return upper, nil
}

// NormalizeTradeType never fails; unrecognized values become U with a warning.
func (t *Transformer) NormalizeTradeType(raw string) domain.TradeType {
	tt, ok := domain.ParseTradeType(raw)
	if !ok {
		t.Logger.Warn("unknown trade type", zap.String("trade_type", raw))
	}
	return tt
}
