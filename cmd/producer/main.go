package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("producer config: %v", err)
	}
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Base context canceled by SIGINT/SIGTERM
	baseCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Apply TTL unless stay-alive requested or TTL <= 0
	ctx := baseCtx
	if !cfg.ProducerStayAlive && cfg.ProducerTTL > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(baseCtx, cfg.ProducerTTL)
		defer cancel()
	}

	// Best-effort ensure topic exists (short timeout)
	if cfg.ProducerEnsureTopic {
		c, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		EnsureTopic(c, logger, cfg.Brokers[0], cfg.Topic)
		cancel()
	}

	writer := NewKafkaWriter(cfg.Brokers, cfg.Topic)
	defer func() {
		if err := writer.Close(); err != nil {
			logger.Warn("producer: writer close error", zap.Error(err))
		}
	}()

	logger.Info("producer starting",
		zap.Strings("brokers", cfg.Brokers),
		zap.String("topic", cfg.Topic),
		zap.Int("rate", cfg.Rate),
		zap.Bool("stay_alive", cfg.ProducerStayAlive),
		zap.Duration("ttl", cfg.ProducerTTL),
	)

	runProducerLoop(ctx, cfg, writer, logger)
}
