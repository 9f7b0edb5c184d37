package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/shahzadakram74/TradesCaptureService/internal/models"
	"github.com/shahzadakram74/TradesCaptureService/internal/processor"
)

var errNullMessage = errors.New("null message")

// MessageReader is the subset of *kafka.Reader used by Consumer.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Handler interface {
	Process(ctx context.Context, trade models.CanonicalTrade) processor.Outcome
}

// Consumer feeds one consumer-group member's messages to a Handler, one at a
// time. A message is committed only after Process has returned for it.
type Consumer struct {
	Reader  MessageReader
	Handler Handler
	Logger  *zap.Logger
}

func NewConsumer(brokers []string, topic, groupID string, h Handler, logger *zap.Logger) *Consumer {
	return &Consumer{
		Reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  brokers,
			Topic:    topic,
			GroupID:  groupID,
			MinBytes: 1,
			MaxBytes: 1e6,
			MaxWait:  500 * time.Millisecond,
		}),
		Handler: h,
		Logger:  logger.With(zap.String("component", "consumer"), zap.String("topic", topic)),
	}
}

// Run blocks until ctx is cancelled or the reader fails.
func (c *Consumer) Run(ctx context.Context) error {
	defer c.Reader.Close()
	for {
		m, err := c.Reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		c.handle(ctx, m)
		if err := c.Reader.CommitMessages(ctx, m); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
	}
}

func (c *Consumer) handle(ctx context.Context, m kafka.Message) {
	trade, err := decodeTrade(m.Value)
	if err != nil {
		c.Logger.Warn("skipping null or unparseable message",
			zap.Int("partition", m.Partition),
			zap.Int64("offset", m.Offset),
			zap.Error(err),
		)
		return
	}
	c.Logger.Info("received trade",
		zap.String("security_id", trade.SecurityID),
		zap.Int("partition", m.Partition),
		zap.Int64("offset", m.Offset),
	)
	outcome := c.Handler.Process(ctx, trade)
	c.Logger.Debug("trade handled", zap.Int64("offset", m.Offset), zap.Stringer("outcome", outcome))
}

func decodeTrade(value []byte) (models.CanonicalTrade, error) {
	var t *models.CanonicalTrade
	if err := json.Unmarshal(value, &t); err != nil {
		return models.CanonicalTrade{}, err
	}
	if t == nil {
		return models.CanonicalTrade{}, errNullMessage
	}
	return *t, nil
}
