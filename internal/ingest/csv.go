package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/shahzadakram74/TradesCaptureService/internal/models"
)

const utf8BOM = "\ufeff"

type fieldSetter func(t *models.CanonicalTrade, v string) error

var csvFields = map[string]fieldSetter{
	"account_number": func(t *models.CanonicalTrade, v string) error { t.AccountNumber = v; return nil },
	"security_id":    func(t *models.CanonicalTrade, v string) error { t.SecurityID = v; return nil },
	"trade_type":     func(t *models.CanonicalTrade, v string) error { t.TradeType = v; return nil },
	"quantity": func(t *models.CanonicalTrade, v string) error {
		if v = strings.TrimSpace(v); v == "" {
			return nil
		}
		q, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("quantity: %w", err)
		}
		t.Quantity = &q
		return nil
	},
	"price": func(t *models.CanonicalTrade, v string) error {
		if v = strings.TrimSpace(v); v == "" {
			return nil
		}
		p, err := decimal.NewFromString(v)
		if err != nil {
			return fmt.Errorf("price: %w", err)
		}
		t.Price = decimal.NewNullDecimal(p)
		return nil
	},
	"amount": func(t *models.CanonicalTrade, v string) error {
		if v = strings.TrimSpace(v); v == "" {
			return nil
		}
		a, err := decimal.NewFromString(v)
		if err != nil {
			return fmt.Errorf("amount: %w", err)
		}
		t.Amount = a
		return nil
	},
	"timestamp": func(t *models.CanonicalTrade, v string) error {
		ts, err := models.ParseTimestamp(v)
		if err != nil {
			return err
		}
		t.Timestamp = ts
		return nil
	},
}

// columns maps record positions to field setters; unknown headers map to nil.
type columns []fieldSetter

func newColumns(header []string) columns {
	cols := make(columns, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		cols[i] = csvFields[strings.ToLower(strings.TrimSpace(name))]
	}
	return cols
}

func (c columns) decode(record []string) (models.CanonicalTrade, error) {
	var t models.CanonicalTrade
	for i, v := range record {
		if i >= len(c) || c[i] == nil {
			continue
		}
		if err := c[i](&t, v); err != nil {
			return models.CanonicalTrade{}, err
		}
	}
	return t, nil
}

func decodeCSV(r io.Reader) Trades {
	return func(yield func(models.CanonicalTrade, error) bool) {
		src := &readRecorder{r: r}
		cr := csv.NewReader(src)
		cr.FieldsPerRecord = -1

		header, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			yield(models.CanonicalTrade{}, src.classify(err))
			return
		}
		cols := newColumns(header)

		for {
			record, err := cr.Read()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(models.CanonicalTrade{}, src.classify(err))
				return
			}
			trade, err := cols.decode(record)
			if err != nil {
				line, _ := cr.FieldPos(0)
				yield(models.CanonicalTrade{}, fmt.Errorf("%w: line %d: %w", ErrMalformed, line, err))
				return
			}
			if !yield(trade, nil) {
				return
			}
		}
	}
}
