package event

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gemline/backoffice/internal/domain/shared"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// DefaultExchange receives forwarded events when none is configured
const DefaultExchange = "backoffice.events"

// publishChannel is the subset of *amqp.Channel the forwarder needs
type publishChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// dialFunc opens a channel with the exchange already declared
type dialFunc func() (publishChannel, closer, error)

type closer interface {
	Close() error
}

// AMQPForwarder forwards every domain event as JSON to a RabbitMQ topic
// exchange, routed by event type. It reconnects lazily after a failed publish.
type AMQPForwarder struct {
	exchange string
	dial     dialFunc
	logger   *zap.Logger
	timeout  time.Duration

	mu   sync.Mutex
	ch   publishChannel
	conn closer
}

// NewAMQPForwarder connects to the broker and declares a durable topic exchange
func NewAMQPForwarder(url, exchange string, logger *zap.Logger) (*AMQPForwarder, error) {
	if url == "" {
		return nil, errors.New("amqp url is required")
	}
	if exchange == "" {
		exchange = DefaultExchange
	}
	dial := func() (publishChannel, closer, error) {
		conn, err := amqp.Dial(url)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
		ch, err := conn.Channel()
		if err != nil {
			_ = conn.Close()
			return nil, nil, fmt.Errorf("failed to open channel: %w", err)
		}
		if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
			_ = conn.Close()
			return nil, nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
		}
		return ch, conn, nil
	}
	f := newAMQPForwarder(exchange, dial, logger)
	if err := f.connect(); err != nil {
		return nil, err
	}
	logger.Info("forwarding domain events to RabbitMQ", zap.String("exchange", exchange))
	return f, nil
}

func newAMQPForwarder(exchange string, dial dialFunc, logger *zap.Logger) *AMQPForwarder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AMQPForwarder{exchange: exchange, dial: dial, logger: logger, timeout: 5 * time.Second}
}

// EventTypes returns nil so the forwarder receives every event
func (f *AMQPForwarder) EventTypes() []string {
	return nil
}

// Handle publishes the event. A broken channel is dropped and reopened once.
func (f *AMQPForwarder) Handle(ctx context.Context, event shared.DomainEvent) error {
	body, err := Marshal(event)
	if err != nil {
		return err
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.EventID().String(),
		Timestamp:    event.OccurredAt(),
		Type:         event.EventType(),
		Body:         body,
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	for attempt := 0; attempt < 2; attempt++ {
		if f.ch == nil {
			if err = f.connectLocked(); err != nil {
				continue
			}
		}
		pubCtx, cancel := context.WithTimeout(ctx, f.timeout)
		err = f.ch.PublishWithContext(pubCtx, f.exchange, event.EventType(), false, false, msg)
		cancel()
		if err == nil {
			return nil
		}
		f.logger.Warn("amqp publish failed, reconnecting",
			zap.String("event_type", event.EventType()),
			zap.Error(err),
		)
		f.closeLocked()
	}
	return fmt.Errorf("failed to forward %s: %w", event.EventType(), err)
}

// Close shuts the channel and connection
func (f *AMQPForwarder) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closeLocked()
	return nil
}

func (f *AMQPForwarder) connect() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connectLocked()
}

func (f *AMQPForwarder) connectLocked() error {
	ch, conn, err := f.dial()
	if err != nil {
		return err
	}
	f.ch, f.conn = ch, conn
	return nil
}

func (f *AMQPForwarder) closeLocked() {
	if f.ch != nil {
		_ = f.ch.Close()
	}
	if f.conn != nil {
		_ = f.conn.Close()
	}
	f.ch, f.conn = nil, nil
}

var _ shared.EventHandler = (*AMQPForwarder)(nil)
