package main

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

func runProducerLoop(ctx context.Context, cfg Config, w messageWriter, logger *zap.Logger) {
	period := time.Second / time.Duration(cfg.Rate)
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				logger.Info("producer: TTL reached; exiting")
			} else {
				logger.Info("producer: shutting down (signal)")
			}
			return
		case <-ticker.C:
			// jitter
			time.Sleep(time.Duration(rng.Intn(150)) * time.Millisecond)
			if err := sendOne(ctx, w, genInstruction(cfg.BadRatio), logger); err != nil {
				logger.Warn("write error", zap.Error(err))
			}
		}
	}
}

func sendOne(ctx context.Context, w messageWriter, t any, logger *zap.Logger) error {
	b, err := json.Marshal(t)
	if err != nil {
		return err
	}
	msg := kafka.Message{Value: b, Time: time.Now().UTC()}
	if err := w.WriteMessages(ctx, msg); err != nil {
		return err
	}
	logger.Debug("sent", zap.ByteString("instruction", b))
	return nil
}
