// Package kafkabus delivers committed domain events from the outbox to
// Kafka. Messages of one order share a partition key so consumers see the
// order's events in commit order.
package kafkabus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ordercore/internal/core/ports"

	"github.com/segmentio/kafka-go"
)

// Envelope is the wire shape of one published domain event. Payload carries
// the event body exactly as the aggregate recorded it.
type Envelope struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	StoreID    int64           `json:"store_id"`
	OrderID    int64           `json:"order_id"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// KafkaEventPublisher implements ports.EventPublisher on a kafka-go writer.
type KafkaEventPublisher struct {
	writer *kafka.Writer
}

// NewKafkaEventPublisher creates a publisher on an existing writer. The
// caller owns the writer lifecycle.
func NewKafkaEventPublisher(writer *kafka.Writer) *KafkaEventPublisher {
	return &KafkaEventPublisher{writer: writer}
}

// NewWriter creates a writer for the domain event topic. RequireAll keeps
// at-least-once delivery honest: an event is marked published only after
// every in-sync replica has it.
func NewWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
}

// Publish sends the messages in order. A write failure leaves the whole
// batch unsettled in the outbox; the relay retries it on the next pass.
func (p *KafkaEventPublisher) Publish(ctx context.Context, messages []ports.OutboxMessage) error {
	if len(messages) == 0 {
		return nil
	}

	records := make([]kafka.Message, 0, len(messages))
	for _, message := range messages {
		record, err := toRecord(message)
		if err != nil {
			return err
		}
		records = append(records, record)
	}

	return p.writer.WriteMessages(ctx, records...)
}

// Close flushes and closes the underlying writer.
func (p *KafkaEventPublisher) Close() error {
	return p.writer.Close()
}

func toRecord(message ports.OutboxMessage) (kafka.Message, error) {
	value, err := json.Marshal(Envelope{
		ID:         message.ID.String(),
		Name:       message.Name,
		StoreID:    message.StoreID,
		OrderID:    message.OrderID,
		OccurredAt: message.CreatedAt,
		Payload:    message.Payload,
	})
	if err != nil {
		return kafka.Message{}, err
	}

	return kafka.Message{
		Key:   []byte(partitionKey(message)),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event-name", Value: []byte(message.Name)},
		},
	}, nil
}

// partitionKey groups events of one order so their relative order survives
// partitioning.
func partitionKey(message ports.OutboxMessage) string {
	return fmt.Sprintf("%d:%d", message.StoreID, message.OrderID)
}
