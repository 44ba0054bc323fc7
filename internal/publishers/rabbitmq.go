package publishers

//go:generate mockgen -source=rabbitmq.go -destination=mock_rabbitmq_test.go -package=publishers

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/sbilibin2017/gw-transfer-engine/internal/logger"
	"github.com/sbilibin2017/gw-transfer-engine/internal/models"
)

// AMQPChannel is the part of *amqp091.Channel the publisher needs.
type AMQPChannel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp091.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// RabbitMQPublisher publishes transfer events to a durable topic exchange.
// The routing key is the event type, e.g. transfer.committed.
type RabbitMQPublisher struct {
	mu       sync.Mutex
	conn     *amqp091.Connection
	channel  AMQPChannel
	exchange string
}

func sanitizeAMQPURL(raw string) (string, error) {
	clean := strings.Trim(strings.TrimSpace(raw), "\"'")
	u, err := url.Parse(clean)
	if err != nil {
		return "", err
	}
	if u.Scheme != "amqp" && u.Scheme != "amqps" {
		return "", errors.New("AMQP scheme must be either 'amqp://' or 'amqps://'")
	}
	return clean, nil
}

// DialRabbitMQ connects to the broker and declares the exchange.
func DialRabbitMQ(amqpURL, exchange string) (*RabbitMQPublisher, error) {
	cleanURL, err := sanitizeAMQPURL(amqpURL)
	if err != nil {
		return nil, err
	}

	conn, err := amqp091.DialConfig(cleanURL, amqp091.Config{Dial: amqp091.DefaultDial(10 * time.Second)})
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	p, err := NewRabbitMQPublisher(ch, exchange)
	if err != nil {
		conn.Close()
		return nil, err
	}
	p.conn = conn
	return p, nil
}

// NewRabbitMQPublisher declares the exchange on ch.
func NewRabbitMQPublisher(ch AMQPChannel, exchange string) (*RabbitMQPublisher, error) {
	if err := ch.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // autoDelete
		false,    // internal
		false,    // noWait
		nil,      // args
	); err != nil {
		return nil, err
	}
	return &RabbitMQPublisher{channel: ch, exchange: exchange}, nil
}

// Publish sends the event as a persistent JSON message.
func (p *RabbitMQPublisher) Publish(ctx context.Context, event models.TransferEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		logger.Log.Errorw("Failed to marshal transfer event for RabbitMQ", "transaction_uuid", event.Transaction.UUID, "error", err)
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.PublishWithContext(ctx,
		p.exchange, // exchange
		event.Type, // routing key
		false,      // mandatory
		false,      // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			MessageId:    event.EventID,
			Timestamp:    event.OccurredAt,
			Body:         body,
		},
	)
	if err != nil {
		logger.Log.Errorw("Failed to publish transfer event to RabbitMQ",
			"transaction_uuid", event.Transaction.UUID,
			"exchange", p.exchange,
			"routing_key", event.Type,
			"error", err,
		)
		return err
	}

	logger.Log.Infow("Transfer event published to RabbitMQ",
		"transaction_uuid", event.Transaction.UUID,
		"routing_key", event.Type,
	)
	return nil
}

// Close closes the channel and, when owned, the connection.
func (p *RabbitMQPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	if p.channel != nil {
		errs = append(errs, p.channel.Close())
	}
	if p.conn != nil {
		errs = append(errs, p.conn.Close())
	}
	return errors.Join(errs...)
}

// NopPublisher drops events. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, event models.TransferEvent) error {
	logger.Log.Debugw("event broker not configured, skipping publishing", "transaction_uuid", event.Transaction.UUID)
	return nil
}

func (NopPublisher) Close() error { return nil }
