// Package publishers announces terminal transfers to a message broker.
package publishers

//go:generate mockgen -source=kafka.go -destination=mock_kafka_test.go -package=publishers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/sbilibin2017/gw-transfer-engine/internal/logger"
	"github.com/sbilibin2017/gw-transfer-engine/internal/models"
)

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error // Writes messages to Kafka
	Close() error                                                   // Closes the Kafka writer
}

// NewKafkaWriter creates a writer that balances by message key, so all events
// of one transaction land on the same partition.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
	}
}

// KafkaPublisher publishes transfer events to a Kafka topic.
type KafkaPublisher struct {
	writer KafkaWriter
}

func NewKafkaPublisher(writer KafkaWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: writer}
}

// Publish writes the event keyed by transaction uuid.
func (p *KafkaPublisher) Publish(ctx context.Context, event models.TransferEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		logger.Log.Errorw("Failed to marshal transfer event for Kafka", "transaction_uuid", event.Transaction.UUID, "error", err)
		return err
	}

	msg := kafka.Message{
		Key:   []byte(event.Transaction.UUID),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("Failed to publish transfer event to Kafka", "transaction_uuid", event.Transaction.UUID, "error", err)
		return err
	}

	logger.Log.Infow("Transfer event published to Kafka",
		"transaction_uuid", event.Transaction.UUID,
		"type", event.Type,
		"amount", event.Transaction.Amount,
	)
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
