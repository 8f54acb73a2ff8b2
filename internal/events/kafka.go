package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// DefaultPublishTimeout bounds one Publish call, which runs after the
// mutation has committed and while the HTTP response is still pending.
const DefaultPublishTimeout = 2 * time.Second

// KafkaPublisher writes routine events to one topic, keyed by routine id so
// every change to a routine lands on the same partition in commit order.
type KafkaPublisher struct {
	writer  messageWriter
	timeout time.Duration
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			Compression:  kafka.Snappy,
			BatchSize:    1,
			BatchTimeout: 10 * time.Millisecond,
			MaxAttempts:  3,
			WriteTimeout: time.Second,
			ReadTimeout:  time.Second,
			Async:        false,
		},
		timeout: DefaultPublishTimeout,
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event RoutineEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode routine event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(event.RoutineID, 10)),
		Value: body,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}

	timeout := p.timeout
	if timeout <= 0 {
		timeout = DefaultPublishTimeout
	}
	// The request context may already be gone; the write gets its own bound.
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	if err := p.writer.WriteMessages(writeCtx, msg); err != nil {
		return fmt.Errorf("publish %s: %w", event.Type, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
