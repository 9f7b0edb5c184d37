// Package kafka consumes trade instructions from the inbound topic.
package kafka

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type FeedConfig struct {
	Brokers []string
	Topic   string
	GroupID string
	// Workers is the number of group members; one per partition keeps every
	// partition busy.
	Workers int
}

// Feed runs a pool of consumers in the same group. Each partition is owned by
// exactly one consumer, so per-partition order is preserved.
type Feed struct {
	consumers []*Consumer
	logger    *zap.Logger
}

func NewFeed(cfg FeedConfig, h Handler, logger *zap.Logger) *Feed {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	f := &Feed{logger: logger.With(zap.String("component", "feed"))}
	for i := 0; i < cfg.Workers; i++ {
		f.consumers = append(f.consumers,
			NewConsumer(cfg.Brokers, cfg.Topic, cfg.GroupID, h, logger.With(zap.Int("worker", i))))
	}
	return f
}

// NewFeedFromConsumers builds a Feed over already configured consumers.
func NewFeedFromConsumers(logger *zap.Logger, consumers ...*Consumer) *Feed {
	return &Feed{consumers: consumers, logger: logger.With(zap.String("component", "feed"))}
}

// Run blocks until every consumer has stopped. The first consumer error
// cancels the others.
func (f *Feed) Run(ctx context.Context) error {
	f.logger.Info("inbound feed starting", zap.Int("workers", len(f.consumers)))
	g, ctx := errgroup.WithContext(ctx)
	for _, c := range f.consumers {
		g.Go(func() error { return c.Run(ctx) })
	}
	return g.Wait()
}
