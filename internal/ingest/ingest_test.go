package ingest

import (
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shahzadakram74/TradesCaptureService/internal/models"
)

const sampleCSV = `account_number,security_id,trade_type,quantity,price,amount,timestamp
9876543210,abc123,buy,100,100.00,10000.00,2025-03-01T09:30:00
12,AAPL,SELL,,,250.5,2025-03-01T09:31:00Z
`

func collect(t *testing.T, trades Trades) ([]models.CanonicalTrade, error) {
	t.Helper()
	var out []models.CanonicalTrade
	for trade, err := range trades {
		if err != nil {
			return out, err
		}
		out = append(out, trade)
	}
	return out, nil
}

func TestFormatFor(t *testing.T) {
	cases := map[string]Format{
		"trades.csv":        FormatCSV,
		"TRADES.CSV":        FormatCSV,
		"dir/batch.2.json":  FormatJSON,
		"instructions.JSON": FormatJSON,
	}
	for name, want := range cases {
		got, err := FormatFor(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
	for _, name := range []string{"trades.txt", "trades", "", "csv", "trades.csv.bak"} {
		_, err := FormatFor(name)
		assert.ErrorIs(t, err, ErrUnsupportedFormat, name)
	}
}

func TestIngestCSV(t *testing.T) {
	trades, err := Ingest(strings.NewReader(sampleCSV), "upload.csv")
	require.NoError(t, err)

	got, err := collect(t, trades)
	require.NoError(t, err)
	require.Len(t, got, 2)

	first := got[0]
	assert.Equal(t, "9876543210", first.AccountNumber)
	assert.Equal(t, "abc123", first.SecurityID)
	assert.Equal(t, "buy", first.TradeType)
	require.NotNil(t, first.Quantity)
	assert.Equal(t, int64(100), *first.Quantity)
	assert.True(t, first.Price.Valid)
	assert.True(t, decimal.RequireFromString("100").Equal(first.Price.Decimal))
	assert.True(t, decimal.RequireFromString("10000").Equal(first.Amount))
	assert.Equal(t, time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC), first.Timestamp.Time)
	assert.Empty(t, first.CanonicalID)

	second := got[1]
	assert.Nil(t, second.Quantity)
	assert.False(t, second.Price.Valid)
	assert.Equal(t, "250.5", second.Amount.String())
}

func TestIngestCSVHeaderMapping(t *testing.T) {
	in := "\ufeffTimestamp, Security_ID ,notes,account_number\n2025-01-02 03:04:05,msft,ignored,55556666\n"
	trades, err := Ingest(strings.NewReader(in), "x.csv")
	require.NoError(t, err)

	got, err := collect(t, trades)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "msft", got[0].SecurityID)
	assert.Equal(t, "55556666", got[0].AccountNumber)
	assert.Equal(t, 2025, got[0].Timestamp.Year())
}

func TestIngestCSVHeaderOnly(t *testing.T) {
	trades, err := Ingest(strings.NewReader("account_number,security_id\n"), "x.csv")
	require.NoError(t, err)
	got, err := collect(t, trades)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestIngestCSVMalformedRowStopsSequence(t *testing.T) {
	in := "account_number,security_id,quantity\n11112222,AAPL,1\n33334444,MSFT,lots\n55556666,IBM,2\n"
	trades, err := Ingest(strings.NewReader(in), "x.csv")
	require.NoError(t, err)

	got, err := collect(t, trades)
	assert.ErrorIs(t, err, ErrMalformed)
	assert.Len(t, got, 1, "rows before the bad one are still yielded")
}

func TestIngestCSVIsLazy(t *testing.T) {
	pr, pw := io.Pipe()
	go func() {
		_, _ = pw.Write([]byte("account_number,security_id\n11112222,AAPL\n"))
	}()

	trades, err := Ingest(pr, "stream.csv")
	require.NoError(t, err)
	for trade, err := range trades {
		require.NoError(t, err)
		assert.Equal(t, "AAPL", trade.SecurityID)
		break
	}
	_ = pw.Close()
}

type failingReader struct {
	data []byte
	err  error
}

func (f *failingReader) Read(p []byte) (int, error) {
	if len(f.data) == 0 {
		return 0, f.err
	}
	n := copy(p, f.data)
	f.data = f.data[n:]
	return n, nil
}

func TestIngestCSVReadError(t *testing.T) {
	boom := errors.New("connection reset")
	r := &failingReader{data: []byte("account_number,security_id\n11112222,AAPL\n"), err: boom}

	trades, err := Ingest(r, "x.csv")
	require.NoError(t, err)

	got, err := collect(t, trades)
	assert.ErrorIs(t, err, ErrRead)
	assert.ErrorIs(t, err, boom)
	assert.Len(t, got, 1)
}

func TestIngestJSON(t *testing.T) {
	in := `[
		{"account_number":"9876543210","security_id":"abc123","trade_type":"B","quantity":10,"price":1.5,"amount":15,"timestamp":"2025-03-01T09:30:00"},
		{"account_number":"12","security_id":"ab-12","trade_type":null,"amount":"7.25","timestamp":null,"extra":true}
	]`
	trades, err := Ingest(strings.NewReader(in), "batch.json")
	require.NoError(t, err)

	got, err := collect(t, trades)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(10), *got[0].Quantity)
	assert.True(t, decimal.RequireFromString("15").Equal(got[0].Amount))
	assert.Equal(t, "", got[1].TradeType)
	assert.True(t, got[1].Timestamp.IsZero())
	assert.Equal(t, "7.25", got[1].Amount.String())
}

func TestIngestJSONMalformed(t *testing.T) {
	for _, in := range []string{`{"account_number":"1"}`, `[{"quantity":"many"}]`, `[{"account_number":"1"`, `[{"timestamp":"yesterday"}]`} {
		trades, err := Ingest(strings.NewReader(in), "batch.json")
		require.NoError(t, err)
		got, err := collect(t, trades)
		assert.ErrorIs(t, err, ErrMalformed, in)
		assert.Empty(t, got)
	}
}

func TestIngestRejectsBeforeReading(t *testing.T) {
	_, err := Ingest(strings.NewReader(sampleCSV), "upload.xlsx")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Ingest(strings.NewReader(""), "upload.csv")
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = Ingest(nil, "upload.json")
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = Ingest(&failingReader{err: errors.New("disk gone")}, "upload.csv")
	assert.ErrorIs(t, err, ErrRead)
}
