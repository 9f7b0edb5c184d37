// Package publish sends platform trades to the outbound Kafka topic.
//
// Publishing is fire-and-forget: Publish queues the message and returns. A
// single goroutine hands queued messages to an asynchronous kafka-go writer,
// so a slow or unreachable broker never stalls the caller. Delivery results
// only reach Completion, which logs them. Nothing is retried and no failure is
// reported to the caller.
package publish

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/shahzadakram74/TradesCaptureService/internal/models"
)

// DefaultQueueSize bounds the messages waiting for the writer.
const DefaultQueueSize = 1024

var (
	ErrQueueFull = errors.New("publish queue full")
	ErrClosed    = errors.New("publisher closed")
)

// MessageWriter is the subset of *kafka.Writer used by Publisher.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Publisher struct {
	w      MessageWriter
	topic  string
	logger *zap.Logger

	mu     sync.RWMutex
	closed bool
	queue  chan kafka.Message
	done   chan struct{}
}

// New wraps w with a queue of DefaultQueueSize. The caller is responsible for
// routing w's delivery results to Completion.
func New(w MessageWriter, topic string, logger *zap.Logger) *Publisher {
	return NewWithQueue(w, topic, DefaultQueueSize, logger)
}

// NewWithQueue is New with an explicit queue size.
func NewWithQueue(w MessageWriter, topic string, size int, logger *zap.Logger) *Publisher {
	p := newPublisher(topic, size, logger)
	p.w = w
	p.start()
	return p
}

// NewKafka builds a Publisher on an async writer keyed by security id.
func NewKafka(brokers []string, topic string, logger *zap.Logger) *Publisher {
	p := newPublisher(topic, DefaultQueueSize, logger)
	p.w = &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafka.RequireOne,
		BatchTimeout:           200 * time.Millisecond,
		MaxAttempts:            1,
		Async:                  true,
		Completion:             p.Completion,
		Transport:              &kafka.Transport{DialTimeout: 10 * time.Second},
	}
	p.start()
	return p
}

func newPublisher(topic string, size int, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if size < 1 {
		size = 1
	}
	return &Publisher{
		topic:  topic,
		logger: logger.With(zap.String("component", "publisher"), zap.String("topic", topic)),
		queue:  make(chan kafka.Message, size),
		done:   make(chan struct{}),
	}
}

func (p *Publisher) start() {
	go func() {
		defer close(p.done)
		for msg := range p.queue {
			// kafka-go may resolve partitions over the network here even in
			// async mode, which is why this runs off the caller's goroutine.
			if err := p.w.WriteMessages(context.Background(), msg); err != nil {
				p.logger.Error("failed to publish trade", zap.ByteString("key", msg.Key), zap.Error(err))
			}
		}
	}()
}

// Publish serializes wrapper and queues it. It never blocks: a full queue or a
// closed publisher is logged as a failed publish and the trade is dropped.
func (p *Publisher) Publish(_ context.Context, wrapper models.PlatformTradeWrapper) {
	key := wrapper.Trade.Security
	value, err := json.Marshal(wrapper)
	if err != nil {
		p.logger.Error("failed to publish trade: marshal", zap.String("key", key), zap.Error(err))
		return
	}
	msg := kafka.Message{Key: []byte(key), Value: value, Time: time.Now().UTC()}
	if err := p.enqueue(msg); err != nil {
		p.logger.Error("failed to publish trade", zap.String("key", key), zap.Error(err))
	}
}

func (p *Publisher) enqueue(msg kafka.Message) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}
	select {
	case p.queue <- msg:
		return nil
	default:
		return ErrQueueFull
	}
}

// Completion is the writer's delivery callback. It only logs.
func (p *Publisher) Completion(messages []kafka.Message, err error) {
	for _, m := range messages {
		if err != nil {
			p.logger.Error("failed to publish trade", zap.ByteString("key", m.Key), zap.Error(err))
			continue
		}
		p.logger.Info("published trade",
			zap.ByteString("key", m.Key),
			zap.Int("partition", m.Partition),
			zap.Int64("offset", m.Offset),
		)
	}
}

// Close stops accepting trades, hands every queued message to the writer and
// then flushes and releases it.
func (p *Publisher) Close() error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()
	<-p.done
	return p.w.Close()
}
