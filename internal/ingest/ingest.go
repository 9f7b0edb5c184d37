// Package ingest decodes uploaded instruction files into canonical trades.
//
// The decoder is picked by file extension. CSV files are decoded lazily, one
// row per iteration; JSON files hold a single array and are decoded in full
// before the first trade is yielded. Either way the caller ranges over the same
// iter.Seq2 of trades and errors. An error ends the sequence.
package ingest

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"path/filepath"
	"strings"

	"github.com/shahzadakram74/TradesCaptureService/internal/models"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file type, must be .csv or .json")
	ErrEmptyInput        = errors.New("empty input")
	ErrRead              = errors.New("read input")
	ErrMalformed         = errors.New("malformed input")
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// Trades is a single-pass sequence of decoded trades.
type Trades = iter.Seq2[models.CanonicalTrade, error]

type decoder func(r io.Reader) Trades

var decoders = map[Format]decoder{
	FormatCSV:  decodeCSV,
	FormatJSON: decodeJSON,
}

// FormatFor returns the format implied by filename's extension.
func FormatFor(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filename)
	}
}

// Ingest validates the format and that r has at least one byte, then returns
// the lazy sequence of trades in r. Nothing is yielded when an error is returned.
func Ingest(r io.Reader, filename string) (Trades, error) {
	format, err := FormatFor(filename)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, ErrEmptyInput
	}
	br := bufio.NewReader(r)
	if _, err := br.Peek(1); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyInput
		}
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	return decoders[format](br), nil
}

// readRecorder remembers the first non-EOF error of the underlying reader so a
// decode failure can be told apart from a broken stream.
type readRecorder struct {
	r   io.Reader
	err error
}

func (rr *readRecorder) Read(p []byte) (int, error) {
	n, err := rr.r.Read(p)
	if err != nil && !errors.Is(err, io.EOF) && rr.err == nil {
		rr.err = err
	}
	return n, err
}

func (rr *readRecorder) classify(err error) error {
	if rr.err != nil {
		return fmt.Errorf("%w: %w", ErrRead, rr.err)
	}
	return fmt.Errorf("%w: %w", ErrMalformed, err)
}
