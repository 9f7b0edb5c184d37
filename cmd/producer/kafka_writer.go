package main

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EnsureTopic attempts to create the topic (best-effort).
func EnsureTopic(ctx context.Context, logger *zap.Logger, broker, topic string) {
	conn, err := kafka.DialContext(ctx, "tcp", broker)
	if err != nil {
		logger.Warn("ensureTopic: dial failed", zap.Error(err))
		return
	}
	defer conn.Close()

	err = conn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	})
	if err != nil {
		logger.Info("ensureTopic: create failed (ok if exists)", zap.String("topic", topic), zap.Error(err))
	}
}

// NewKafkaWriter returns a synchronous writer for the inbound topic.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafka.RequireOne,
		BatchTimeout:           200 * time.Millisecond,
		Transport:              &kafka.Transport{DialTimeout: 10 * time.Second},
	}
}
