// Package processor runs the per-record pipeline: validate, audit, transform
// and publish. Failures are contained per record and reported through the log.
package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/shahzadakram74/TradesCaptureService/internal/ingest"
	"github.com/shahzadakram74/TradesCaptureService/internal/models"
)

// Outcome is the terminal state of one record.
type Outcome int

const (
	// OutcomeDropped: failed validation before audit.
	OutcomeDropped Outcome = iota
	// OutcomeRejected: audited, but not published.
	OutcomeRejected
	// OutcomePublished: audited and handed to the publisher.
	OutcomePublished
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDropped:
		return "dropped"
	case OutcomeRejected:
		return "rejected"
	case OutcomePublished:
		return "published"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Audited reports whether the record produced an audit entry.
func (o Outcome) Audited() bool { return o != OutcomeDropped }

type Auditor interface {
	Store(trade *models.CanonicalTrade) string
}

type Transformer interface {
	Transform(trade models.CanonicalTrade) (models.PlatformTrade, error)
}

type Publisher interface {
	Publish(ctx context.Context, wrapper models.PlatformTradeWrapper)
}

// Processor is safe for concurrent use; all shared state lives in the Auditor.
type Processor struct {
	platformID  string
	store       Auditor
	transformer Transformer
	publisher   Publisher
	logger      *zap.Logger

	render func(v any) ([]byte, error)
}

func New(platformID string, store Auditor, transformer Transformer, publisher Publisher, logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{
		platformID:  platformID,
		store:       store,
		transformer: transformer,
		publisher:   publisher,
		logger:      logger.With(zap.String("component", "processor")),
		render: func(v any) ([]byte, error) {
			return json.MarshalIndent(v, "", "  ")
		},
	}
}

// Process runs one trade through the pipeline. It returns once the trade is
// audited and handed to the publisher; delivery completes asynchronously.
func (p *Processor) Process(ctx context.Context, trade models.CanonicalTrade) (outcome Outcome) {
	if trade.AccountNumber == "" {
		p.logger.Warn("dropping trade: missing account number", zap.String("security_id", trade.SecurityID))
		return OutcomeDropped
	}

	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("unexpected error processing trade",
				zap.String("canonical_id", trade.CanonicalID),
				zap.Any("panic", r),
			)
			if trade.CanonicalID != "" {
				outcome = OutcomeRejected
			} else {
				outcome = OutcomeDropped
			}
		}
	}()

	id := p.store.Store(&trade)
	log := p.logger.With(zap.String("canonical_id", id))

	pt, err := p.transformer.Transform(trade)
	if err != nil {
		log.Error("transformation validation failed", zap.Error(err))
		return OutcomeRejected
	}

	wrapper := models.PlatformTradeWrapper{PlatformID: p.platformID, Trade: pt}
	if ce := log.Check(zapcore.DebugLevel, "platform trade ready for publishing"); ce != nil {
		if b, err := p.render(wrapper); err != nil {
			log.Error("failed to render platform trade", zap.Error(err))
		} else {
			ce.Write(zap.ByteString("payload", b))
		}
	}

	p.publisher.Publish(ctx, wrapper)
	log.Debug("trade processed and published", zap.String("security_id", pt.Security))
	return OutcomePublished
}

// ProcessUpload ingests filename's contents from r and processes each trade in
// order. It returns the number of audited trades. Format, empty-input, read and
// decode errors are returned along with the count reached so far.
func (p *Processor) ProcessUpload(ctx context.Context, r io.Reader, filename string) (int, error) {
	trades, err := ingest.Ingest(r, filename)
	if err != nil {
		return 0, err
	}

	start := time.Now()
	count := 0
	for trade, err := range trades {
		if err != nil {
			p.logger.Error("upload aborted",
				zap.String("filename", filename),
				zap.Int("processed", count),
				zap.Error(err),
			)
			return count, err
		}
		if p.Process(ctx, trade).Audited() {
			count++
		}
	}
	p.logger.Info("finished processing upload",
		zap.String("filename", filename),
		zap.Int("processed", count),
		zap.Duration("took", time.Since(start)),
	)
	return count, nil
}
