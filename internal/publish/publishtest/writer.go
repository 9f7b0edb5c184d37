// Package publishtest provides an in-memory stand-in for the outbound Kafka writer.
package publishtest

import (
	"context"
	"sync"

	"github.com/segmentio/kafka-go"
)

// Writer records every message handed to it and reports delivery to Completion
// from a separate goroutine, like an async kafka.Writer. Offsets are assigned
// sequentially from zero.
type Writer struct {
	// Completion receives delivery results. Set it before the first write.
	Completion func(messages []kafka.Message, err error)
	// Err, when set, is reported to Completion for every message.
	Err error
	// HandoffErr, when set, is returned from WriteMessages and nothing is recorded.
	HandoffErr error

	mu       sync.Mutex
	messages []kafka.Message
	wg       sync.WaitGroup
	closed   bool
}

func (w *Writer) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.HandoffErr != nil {
		return w.HandoffErr
	}
	w.mu.Lock()
	delivered := make([]kafka.Message, len(msgs))
	for i, m := range msgs {
		if w.Err == nil {
			m.Offset = int64(len(w.messages))
		}
		w.messages = append(w.messages, m)
		delivered[i] = m
	}
	w.mu.Unlock()

	if w.Completion != nil {
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			w.Completion(delivered, w.Err)
		}()
	}
	return nil
}

// Messages returns a copy of everything written so far.
func (w *Writer) Messages() []kafka.Message {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]kafka.Message(nil), w.messages...)
}

// Close waits for outstanding completions.
func (w *Writer) Close() error {
	w.wg.Wait()
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
	return nil
}

func (w *Writer) Closed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}
