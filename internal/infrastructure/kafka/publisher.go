package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/coopandina/teller/internal/domain/event"
)

// Publisher sends domain events to the cooperative's Kafka bus. It
// implements port.EventPublisher with one lazily created writer per topic.
type Publisher struct {
	mu      sync.Mutex
	writers map[string]*kafkago.Writer
	brokers []string
}

// NewPublisher creates a Publisher for the given brokers.
func NewPublisher(brokers []string) *Publisher {
	return &Publisher{
		writers: make(map[string]*kafkago.Writer),
		brokers: brokers,
	}
}

// Publish writes the events to the topic. The message key is the aggregate
// id, so all events for one aggregate land on the same partition in order.
func (p *Publisher) Publish(ctx context.Context, topic string, events ...event.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}
	w := p.getOrCreateWriter(topic)

	messages := make([]kafkago.Message, 0, len(events))
	for _, e := range events {
		value, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("marshal event %s: %w", e.EventType(), err)
		}
		messages = append(messages, kafkago.Message{
			Key:   []byte(e.AggregateID().String()),
			Value: value,
			Headers: []kafkago.Header{
				{Key: "event_type", Value: []byte(e.EventType())},
				{Key: "event_id", Value: []byte(e.EventID().String())},
				{Key: "aggregate_type", Value: []byte(e.AggregateType())},
			},
		})
	}

	if err := w.WriteMessages(ctx, messages...); err != nil {
		return fmt.Errorf("kafka publish to %s: %w", topic, err)
	}
	return nil
}

// Close closes all writers.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var firstErr error
	for topic, w := range p.writers {
		if err := w.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing writer for topic %s: %w", topic, err)
		}
	}
	p.writers = make(map[string]*kafkago.Writer)
	return firstErr
}

// getOrCreateWriter lazily creates a writer for a topic.
func (p *Publisher) getOrCreateWriter(topic string) *kafkago.Writer {
	p.mu.Lock()
	defer p.mu.Unlock()

	if w, ok := p.writers[topic]; ok {
		return w
	}

	w := &kafkago.Writer{
		Addr:         kafkago.TCP(p.brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafkago.RequireAll,
	}
	p.writers[topic] = w
	return w
}
