package event

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/laundry/backend/internal/domain/shared"
	"github.com/laundry/backend/internal/infrastructure/config"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// ErrPublishNacked is returned when the broker refuses a message
var ErrPublishNacked = errors.New("rabbitmq: publish nacked by broker")

// amqpChannel is the part of *amqp.Channel the forwarder needs
type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	GetNextPublishSeqNo() uint64
	Close() error
}

// RabbitMQForwarder forwards every domain event to a topic exchange using
// the event type as routing key. Each publish waits for a broker confirm.
// It is subscribed to the in-memory bus as a wildcard handler.
type RabbitMQForwarder struct {
	conn     *amqp.Connection
	ch       amqpChannel
	acks     <-chan amqp.Confirmation
	exchange string
	timeout  time.Duration
	logger   *zap.Logger
	mu       sync.Mutex
}

// NewRabbitMQForwarder dials the broker, declares the exchange and enables
// publisher confirms
func NewRabbitMQForwarder(cfg config.MessagingConfig, logger *zap.Logger) (*RabbitMQForwarder, error) {
	conn, err := amqp.Dial(cfg.URL())
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial %s:%d: %w", cfg.Host, cfg.Port, err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}

	if err := ch.ExchangeDeclare(cfg.Exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq declare exchange %q: %w", cfg.Exchange, err)
	}

	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq enable confirms: %w", err)
	}
	acks := ch.NotifyPublish(make(chan amqp.Confirmation, 16))

	f := newForwarder(ch, acks, cfg.Exchange, cfg.PublishTimeout, logger)
	f.conn = conn
	f.logger.Info("rabbitmq forwarder connected",
		zap.String("host", cfg.Host),
		zap.String("exchange", cfg.Exchange),
	)
	return f, nil
}

func newForwarder(ch amqpChannel, acks <-chan amqp.Confirmation, exchange string, timeout time.Duration, logger *zap.Logger) *RabbitMQForwarder {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &RabbitMQForwarder{
		ch:       ch,
		acks:     acks,
		exchange: exchange,
		timeout:  timeout,
		logger:   logger.Named("rabbitmq"),
	}
}

// EventTypes returns nil so the forwarder receives every event
func (f *RabbitMQForwarder) EventTypes() []string {
	return nil
}

// Handle publishes one event and waits for its confirm. Confirms for
// earlier publishes that timed out are skipped by delivery tag.
func (f *RabbitMQForwarder) Handle(ctx context.Context, evt shared.DomainEvent) error {
	body, err := Serialize(evt)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), f.timeout)
	defer cancel()

	f.mu.Lock()
	defer f.mu.Unlock()

	msg := amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		MessageId:    evt.EventID().String(),
		Type:         evt.EventType(),
		Timestamp:    evt.OccurredAt(),
		Headers: amqp.Table{
			"tenant_id":      evt.TenantID().String(),
			"aggregate_type": evt.AggregateType(),
			"aggregate_id":   evt.AggregateID().String(),
		},
		Body: body,
	}
	tag := f.ch.GetNextPublishSeqNo()
	if err := f.ch.PublishWithContext(ctx, f.exchange, evt.EventType(), false, false, msg); err != nil {
		return fmt.Errorf("rabbitmq publish %s: %w", evt.EventType(), err)
	}

	for {
		select {
		case confirm, ok := <-f.acks:
			if !ok {
				return errors.New("rabbitmq: confirm channel closed")
			}
			if confirm.DeliveryTag < tag {
				f.logger.Warn("discarding late confirm",
					zap.Uint64("delivery_tag", confirm.DeliveryTag),
					zap.Bool("ack", confirm.Ack),
				)
				continue
			}
			if !confirm.Ack {
				return ErrPublishNacked
			}
			f.logger.Debug("event forwarded",
				zap.String("event_type", evt.EventType()),
				zap.String("event_id", evt.EventID().String()),
			)
			return nil
		case <-ctx.Done():
			return fmt.Errorf("rabbitmq confirm %s: %w", evt.EventType(), ctx.Err())
		}
	}
}

// Close closes the channel and the connection
func (f *RabbitMQForwarder) Close() error {
	var errs []error
	if f.ch != nil {
		errs = append(errs, f.ch.Close())
	}
	if f.conn != nil && !f.conn.IsClosed() {
		errs = append(errs, f.conn.Close())
	}
	return errors.Join(errs...)
}

var _ shared.EventHandler = (*RabbitMQForwarder)(nil)
